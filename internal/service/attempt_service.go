package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt lifecycle errors.
var (
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizHasNoQuestions   = errors.New("quiz has no questions")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptAccessDenied  = errors.New("attempt belongs to another student")
	ErrAttemptNotInProgress = errors.New("attempt is not in progress")
	ErrEnrollmentIDRequired = errors.New("enrollment id is required for lesson quizzes")
	ErrEnrollmentMismatch   = errors.New("enrollment does not match this quiz")
	ErrAttemptExpired       = errors.New("attempt deadline has passed")
	ErrAttemptLimitReached  = errors.New("attempt limit reached")
	ErrNotEnrolled          = errors.New("student is not enrolled in this course")
	ErrLessonLocked         = errors.New("lesson is locked")
	ErrLessonCompleted      = errors.New("lesson is already completed")
	ErrFinalNotStartable    = errors.New("final quiz requires all lessons completed")
	ErrFinalAlreadyPassed   = errors.New("final quiz already passed")
)

// AttemptService owns the quiz attempt lifecycle: starting (or resuming) a
// timed attempt, inspecting it, and grading a submit. Submission runs in a
// single transaction so the score, the stored answers, the reward credit and
// the lesson progression commit or roll back together.
type AttemptService struct {
	cfg          *config.Config
	pool         *pgxpool.Pool
	rdb          *redis.Client
	quizRepo     *repository.QuizRepository
	attemptRepo  *repository.AttemptRepository
	progressRepo *repository.ProgressRepository
	enrollRepo   *repository.EnrollmentRepository
	courseRepo   *repository.CourseRepository
	studentRepo  *repository.StudentRepository
	certSvc      *CertificateService
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	cfg *config.Config,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	enrollRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	studentRepo *repository.StudentRepository,
	certSvc *CertificateService,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		cfg:          cfg,
		pool:         pool,
		rdb:          rdb,
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
		progressRepo: progressRepo,
		enrollRepo:   enrollRepo,
		courseRepo:   courseRepo,
		studentRepo:  studentRepo,
		certSvc:      certSvc,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start opens a new attempt, or resumes the student's open attempt on the
// same quiz if its deadline has not passed. Resuming never burns an attempt
// from the retry budget.
func (s *AttemptService) Start(ctx context.Context, studentID int, req model.StartAttemptRequest) (*model.AttemptView, error) {
	quiz, err := s.quizRepo.GetByID(ctx, req.QuizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	questionCount, err := s.quizRepo.CountQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if questionCount == 0 {
		return nil, ErrQuizHasNoQuestions
	}

	enrollment, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, quiz.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	// The client's enrollment reference must name the student's own
	// enrollment on the quiz's course; final quizzes may omit it.
	if req.EnrollmentID == nil {
		if !quiz.IsFinal {
			return nil, ErrEnrollmentIDRequired
		}
	} else if *req.EnrollmentID != enrollment.ID {
		return nil, ErrEnrollmentMismatch
	}

	if err := s.checkGate(ctx, quiz, enrollment, studentID); err != nil {
		return nil, err
	}

	limit := EffectiveTimeLimit(quiz.TimeLimitMinutes, s.cfg.DefaultQuizTimeLimit)

	// Resume the open attempt if one exists and its clock is still running.
	existing, err := s.attemptRepo.GetInProgress(ctx, quiz.ID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load open attempt: %w", err)
	}
	if existing != nil {
		deadline := s.deadlineFor(ctx, existing, limit)
		now := time.Now()
		if !Expired(now, deadline) {
			return s.viewWithRemaining(existing, now, deadline), nil
		}
		if _, err := s.finalizeExpired(ctx, existing, now); err != nil {
			return nil, err
		}
	}

	if quiz.AttemptLimit > 0 {
		used, err := s.attemptRepo.CountTerminal(ctx, quiz.ID, studentID)
		if err != nil {
			return nil, fmt.Errorf("count attempts: %w", err)
		}
		if used >= quiz.AttemptLimit {
			return nil, ErrAttemptLimitReached
		}
	}

	attempt, err := s.attemptRepo.Create(ctx, quiz.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	deadline := AttemptDeadline(attempt.StartedAt, limit)
	s.cacheDeadline(ctx, attempt.ID, deadline, limit)

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("quiz_id", quiz.ID.String()).
		Int("student_id", studentID).
		Int("attempt_number", attempt.AttemptNumber).
		Msg("attempt started")

	return s.viewWithRemaining(attempt, time.Now(), deadline), nil
}

// Inspect returns the attempt with its remaining time. An attempt found past
// its deadline is finalized as FAILED on the spot. Other students' attempts
// are rejected with ErrAttemptAccessDenied.
func (s *AttemptService) Inspect(ctx context.Context, studentID int, attemptID uuid.UUID) (*model.AttemptView, error) {
	attempt, err := s.ownedAttempt(ctx, studentID, attemptID)
	if err != nil {
		return nil, err
	}
	return s.inspect(ctx, attempt)
}

// InspectAsAdmin returns any student's attempt, with the same lazy expiry
// finalization as the owner view.
func (s *AttemptService) InspectAsAdmin(ctx context.Context, attemptID uuid.UUID) (*model.AttemptView, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	return s.inspect(ctx, attempt)
}

func (s *AttemptService) inspect(ctx context.Context, attempt *model.QuizAttempt) (*model.AttemptView, error) {
	if attempt.Status != model.AttemptStatusInProgress {
		return &model.AttemptView{QuizAttempt: *attempt}, nil
	}

	quiz, err := s.quizRepo.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	limit := EffectiveTimeLimit(quiz.TimeLimitMinutes, s.cfg.DefaultQuizTimeLimit)
	deadline := s.deadlineFor(ctx, attempt, limit)
	now := time.Now()

	if Expired(now, deadline) {
		finalized, err := s.finalizeExpired(ctx, attempt, now)
		if err != nil {
			return nil, err
		}
		return &model.AttemptView{QuizAttempt: *finalized}, nil
	}

	return s.viewWithRemaining(attempt, now, deadline), nil
}

// Submit grades the answers and closes the attempt. A submit that loses the
// race against another finalization returns ErrAttemptNotInProgress; a submit
// past the deadline fails the attempt and returns ErrAttemptExpired.
func (s *AttemptService) Submit(ctx context.Context, studentID int, req model.SubmitAttemptRequest) (*model.SubmitResult, error) {
	attempt, err := s.ownedAttempt(ctx, studentID, req.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptNotInProgress
	}

	quiz, err := s.quizRepo.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	limit := EffectiveTimeLimit(quiz.TimeLimitMinutes, s.cfg.DefaultQuizTimeLimit)
	deadline := s.deadlineFor(ctx, attempt, limit)
	now := time.Now()

	if Expired(now, deadline) {
		if _, err := s.finalizeExpired(ctx, attempt, now); err != nil {
			return nil, err
		}
		return nil, ErrAttemptExpired
	}

	questions, err := s.quizRepo.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	options, err := s.quizRepo.ListOptions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	answers, correct := GradeSubmission(attempt.ID, questions, options, req.Answers)

	total := len(questions)
	score := ComputeScore(correct, total)
	passed := score >= quiz.PassingScore
	status := model.AttemptStatusFailed
	if passed {
		status = model.AttemptStatusPassed
	}
	duration := ElapsedSeconds(attempt.StartedAt, now)

	enrollment, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, quiz.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	won, err := s.attemptRepo.FinalizeScoredTx(ctx, tx, attempt.ID, status, duration, score, correct, total-correct)
	if err != nil {
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}
	if !won {
		return nil, ErrAttemptNotInProgress
	}

	if err := s.attemptRepo.ReplaceAnswersTx(ctx, tx, attempt.ID, answers); err != nil {
		return nil, fmt.Errorf("store answers: %w", err)
	}

	// Each correct answer earns one credit point, on passed and failed
	// attempts alike.
	if correct > 0 {
		if err := s.studentRepo.AddCreditPointsTx(ctx, tx, studentID, correct); err != nil {
			return nil, fmt.Errorf("award credits: %w", err)
		}
	}

	if err := s.applyProgression(ctx, tx, quiz, enrollment, passed, score); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.rdb.Del(ctx, config.CacheKey.AttemptDeadlineKey(attempt.ID.String()))

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Int("student_id", studentID).
		Int("score", score).
		Bool("passed", passed).
		Msg("attempt submitted")

	result := &model.SubmitResult{
		ScorePercent:   score,
		CorrectCount:   correct,
		WrongCount:     total - correct,
		TotalQuestions: total,
		Passed:         passed,
	}

	// Certificate issuance is best-effort after commit; the worker retries
	// anything that fails here.
	if quiz.IsFinal && passed {
		cert, err := s.certSvc.Generate(ctx, attempt.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("inline certificate issuance failed, queued for retry")
			s.certSvc.Enqueue(ctx, attempt.ID)
		} else {
			result.Certificate = cert
		}
	}

	return result, nil
}

// checkGate enforces the progression rules that guard starting an attempt.
func (s *AttemptService) checkGate(ctx context.Context, quiz *model.Quiz, enrollment *model.Enrollment, studentID int) error {
	if quiz.IsFinal {
		passed, err := s.attemptRepo.HasPassed(ctx, quiz.ID, studentID)
		if err != nil {
			return fmt.Errorf("check final pass: %w", err)
		}
		if passed {
			return ErrFinalAlreadyPassed
		}
		pending, err := s.progressRepo.CountNotCompleted(ctx, enrollment.ID)
		if err != nil {
			return fmt.Errorf("check lesson completion: %w", err)
		}
		if pending > 0 {
			return ErrFinalNotStartable
		}
		return nil
	}

	if quiz.LessonID == nil {
		return ErrQuizNotFound
	}
	progress, err := s.progressRepo.GetByEnrollmentAndLesson(ctx, enrollment.ID, *quiz.LessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLessonLocked
		}
		return fmt.Errorf("load progress: %w", err)
	}
	switch progress.Status {
	case model.ProgressStatusLocked:
		return ErrLessonLocked
	case model.ProgressStatusCompleted:
		return ErrLessonCompleted
	}
	return nil
}

// applyProgression moves the lesson state machine (or the enrollment, for a
// final quiz) inside the submit transaction.
func (s *AttemptService) applyProgression(ctx context.Context, tx pgx.Tx, quiz *model.Quiz, enrollment *model.Enrollment, passed bool, score int) error {
	if quiz.IsFinal {
		if passed {
			if err := s.enrollRepo.MarkCompletedTx(ctx, tx, enrollment.ID); err != nil {
				return fmt.Errorf("complete enrollment: %w", err)
			}
		}
		return nil
	}

	lessonID := *quiz.LessonID
	if !passed {
		if err := s.progressRepo.RecordFailTx(ctx, tx, enrollment.ID, lessonID, score); err != nil {
			return fmt.Errorf("record failed attempt: %w", err)
		}
		return nil
	}

	if err := s.progressRepo.CompleteTx(ctx, tx, enrollment.ID, lessonID, score); err != nil {
		return fmt.Errorf("complete lesson: %w", err)
	}

	next, err := s.courseRepo.NextLessonID(ctx, quiz.CourseID, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Last lesson; the final quiz gate takes over from here.
			return nil
		}
		return fmt.Errorf("resolve next lesson: %w", err)
	}
	if err := s.progressRepo.UnlockTx(ctx, tx, enrollment.ID, next); err != nil {
		return fmt.Errorf("unlock next lesson: %w", err)
	}
	return nil
}

// ownedAttempt loads an attempt and rejects other students' attempts.
func (s *AttemptService) ownedAttempt(ctx context.Context, studentID int, attemptID uuid.UUID) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrAttemptAccessDenied
	}
	return attempt, nil
}

// deadlineFor reads the cached deadline, falling back to recomputing it from
// the row when Redis is cold or unavailable.
func (s *AttemptService) deadlineFor(ctx context.Context, attempt *model.QuizAttempt, limit time.Duration) time.Time {
	key := config.CacheKey.AttemptDeadlineKey(attempt.ID.String())
	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		if deadline, perr := time.Parse(time.RFC3339Nano, cached); perr == nil {
			return deadline
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("deadline cache read failed, recomputing from row")
	}
	return AttemptDeadline(attempt.StartedAt, limit)
}

func (s *AttemptService) cacheDeadline(ctx context.Context, attemptID uuid.UUID, deadline time.Time, limit time.Duration) {
	key := config.CacheKey.AttemptDeadlineKey(attemptID.String())
	if err := s.rdb.Set(ctx, key, deadline.Format(time.RFC3339Nano), limit+time.Minute).Err(); err != nil {
		s.log.Warn().Err(err).Msg("deadline cache write failed")
	}
}

func (s *AttemptService) finalizeExpired(ctx context.Context, attempt *model.QuizAttempt, now time.Time) (*model.QuizAttempt, error) {
	finalized, err := s.attemptRepo.FinalizeExpired(ctx, attempt.ID, ExpiredDurationSeconds(attempt.StartedAt, now))
	if err != nil {
		return nil, fmt.Errorf("finalize expired attempt: %w", err)
	}
	s.rdb.Del(ctx, config.CacheKey.AttemptDeadlineKey(attempt.ID.String()))
	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Msg("attempt expired, finalized as failed")
	return finalized, nil
}

func (s *AttemptService) viewWithRemaining(attempt *model.QuizAttempt, now time.Time, deadline time.Time) *model.AttemptView {
	remaining := RemainingSeconds(now, deadline)
	return &model.AttemptView{QuizAttempt: *attempt, RemainingSeconds: &remaining}
}
