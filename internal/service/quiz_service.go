package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Quiz authoring errors.
var (
	ErrFinalQuizExists   = errors.New("course already has a final quiz")
	ErrLessonQuizExists  = errors.New("lesson already has a quiz")
	ErrLessonNotInCourse = errors.New("lesson does not belong to this course")
	ErrInvalidQuestion   = errors.New("invalid question")
)

// PaperCacheTTL bounds how long a built quiz paper may live in Redis.
// Adding a question invalidates the cache immediately.
const PaperCacheTTL = 10 * time.Minute

// QuizService handles quiz authoring and student-facing paper delivery.
type QuizService struct {
	rdb         *redis.Client
	quizRepo    *repository.QuizRepository
	courseRepo  *repository.CourseRepository
	attemptRepo *repository.AttemptRepository
	log         zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	rdb *redis.Client,
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	attemptRepo *repository.AttemptRepository,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		rdb:         rdb,
		quizRepo:    quizRepo,
		courseRepo:  courseRepo,
		attemptRepo: attemptRepo,
		log:         log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create attaches a quiz to a course. A nil lesson binds the quiz to the
// whole course as its final quiz; each course holds at most one final quiz
// and each lesson at most one quiz.
func (s *QuizService) Create(ctx context.Context, courseID uuid.UUID, req model.CreateQuizRequest) (*model.Quiz, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	isFinal := req.LessonID == nil
	if isFinal {
		exists, err := s.quizRepo.FinalExists(ctx, courseID)
		if err != nil {
			return nil, fmt.Errorf("check final quiz: %w", err)
		}
		if exists {
			return nil, ErrFinalQuizExists
		}
	} else {
		lessonCourse, err := s.courseRepo.CourseIDByLesson(ctx, *req.LessonID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrLessonNotFound
			}
			return nil, fmt.Errorf("resolve lesson: %w", err)
		}
		if lessonCourse != courseID {
			return nil, ErrLessonNotInCourse
		}
		if _, err := s.quizRepo.GetByLesson(ctx, *req.LessonID); err == nil {
			return nil, ErrLessonQuizExists
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("check lesson quiz: %w", err)
		}
	}

	quiz := &model.Quiz{
		CourseID:         courseID,
		LessonID:         req.LessonID,
		IsFinal:          isFinal,
		Title:            req.Title,
		PassingScore:     req.PassingScore,
		AttemptLimit:     req.AttemptLimit,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// AddQuestion validates and stores a question, then invalidates the cached
// paper so students never see a stale question set.
func (s *QuizService) AddQuestion(ctx context.Context, quizID uuid.UUID, req model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:       quizID,
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Metadata:     req.Metadata,
		OrderNum:     req.OrderNum,
	}
	if err := s.quizRepo.AddQuestion(ctx, question, req.Options); err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}

	s.rdb.Del(ctx, config.CacheKey.QuizPaperKey(quizID.String()))

	return question, nil
}

// validateQuestion enforces the per-type authoring rules: choice types need
// options with correct flags, metadata types need a decodable payload.
func validateQuestion(req model.AddQuestionRequest) error {
	correct := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correct++
		}
	}

	switch req.QuestionType {
	case model.QuestionTypeSingleChoice:
		if len(req.Options) < 2 || correct != 1 {
			return fmt.Errorf("%w: single choice needs >= 2 options with exactly one correct", ErrInvalidQuestion)
		}
	case model.QuestionTypeTrueFalse:
		if len(req.Options) != 2 || correct != 1 {
			return fmt.Errorf("%w: true/false needs exactly 2 options with one correct", ErrInvalidQuestion)
		}
	case model.QuestionTypeMultiSelect:
		if len(req.Options) < 2 || correct < 1 {
			return fmt.Errorf("%w: multi select needs >= 2 options with >= 1 correct", ErrInvalidQuestion)
		}
	case model.QuestionTypeNumerical, model.QuestionTypeMatching, model.QuestionTypeCloze:
		if len(req.Options) > 0 {
			return fmt.Errorf("%w: %s carries no options", ErrInvalidQuestion, req.QuestionType)
		}
		if _, err := model.DecodeQuestionMeta(req.QuestionType, req.Metadata); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
		}
	case model.QuestionTypeDragAndDrop, model.QuestionTypeDragAndDropOrder:
		if len(req.Options) < 2 {
			return fmt.Errorf("%w: drag-and-drop needs >= 2 options", ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, req.QuestionType)
	}
	return nil
}

// Paper delivers the answer-stripped question set for a quiz. The student
// must hold an open attempt on the quiz. Built papers are cached in Redis.
func (s *QuizService) Paper(ctx context.Context, studentID int, quizID uuid.UUID) (*model.QuizPaper, error) {
	if _, err := s.attemptRepo.GetInProgress(ctx, quizID, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotInProgress
		}
		return nil, fmt.Errorf("load open attempt: %w", err)
	}

	cacheKey := config.CacheKey.QuizPaperKey(quizID.String())
	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		paper := &model.QuizPaper{}
		if jerr := json.Unmarshal([]byte(cached), paper); jerr == nil {
			return paper, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("paper cache read failed, rebuilding")
	}

	paper, err := s.buildPaper(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(paper); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, PaperCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("paper cache write failed")
		}
	}

	return paper, nil
}

func (s *QuizService) buildPaper(ctx context.Context, quizID uuid.UUID) (*model.QuizPaper, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	questions, err := s.quizRepo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	options, err := s.quizRepo.ListOptions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	paper := &model.QuizPaper{
		QuizID:           quiz.ID,
		Title:            quiz.Title,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		Questions:        make([]model.PaperQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		pq := model.PaperQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			OrderNum:     q.OrderNum,
		}
		for _, opt := range options[q.ID] {
			pq.Options = append(pq.Options, model.PaperOption{
				ID:         opt.ID,
				OptionText: opt.OptionText,
				OrderNum:   opt.OrderNum,
			})
		}

		meta, err := model.DecodeQuestionMeta(q.QuestionType, q.Metadata)
		if err != nil {
			s.log.Error().Err(err).Str("question_id", q.ID.String()).Msg("stored metadata failed to decode, question delivered bare")
		}
		switch m := meta.(type) {
		case model.MatchingMeta:
			for _, pair := range m.Pairs {
				pq.MatchingLeft = append(pq.MatchingLeft, pair.Left)
				pq.MatchingRight = append(pq.MatchingRight, pair.Right)
			}
		case model.ClozeMeta:
			for _, part := range m.Parts {
				pq.ClozeParts = append(pq.ClozeParts, model.PaperClozePart{
					Text:  part.Text,
					Blank: part.Blank,
				})
			}
		}

		paper.Questions = append(paper.Questions, pq)
	}

	return paper, nil
}
