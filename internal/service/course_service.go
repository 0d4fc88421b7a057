package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Course authoring errors.
var (
	ErrModuleNotFound = errors.New("module not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrCourseEmpty    = errors.New("course has no lessons")
)

// CourseService handles course authoring and the student-facing catalog.
type CourseService struct {
	courseRepo   *repository.CourseRepository
	quizRepo     *repository.QuizRepository
	progressRepo *repository.ProgressRepository
	log          zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	progressRepo *repository.ProgressRepository,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:   courseRepo,
		quizRepo:     quizRepo,
		progressRepo: progressRepo,
		log:          log.With().Str("component", "course_service").Logger(),
	}
}

// Create creates a draft course.
func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{Title: req.Title, Description: req.Description}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// Get retrieves one course with its lessons in course order.
func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, []repository.OrderedLesson, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("load course: %w", err)
	}
	lessons, err := s.courseRepo.ListLessonsInOrder(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load lessons: %w", err)
	}
	return course, lessons, nil
}

// Catalog lists published courses.
func (s *CourseService) Catalog(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.ListPublished(ctx)
}

// Publish makes a course visible in the catalog. A course without lessons
// cannot be published.
func (s *CourseService) Publish(ctx context.Context, id uuid.UUID) error {
	if _, err := s.courseRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("load course: %w", err)
	}
	lessons, err := s.courseRepo.ListLessonsInOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("load lessons: %w", err)
	}
	if len(lessons) == 0 {
		return ErrCourseEmpty
	}
	return s.courseRepo.Publish(ctx, id)
}

// AddModule attaches a module to a course.
func (s *CourseService) AddModule(ctx context.Context, courseID uuid.UUID, req model.CreateModuleRequest) (*model.CourseModule, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	module := &model.CourseModule{CourseID: courseID, Title: req.Title, OrderNum: req.OrderNum}
	if err := s.courseRepo.CreateModule(ctx, module); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return module, nil
}

// AddLesson attaches a lesson to a module and backfills a progress row onto
// every existing enrollment of the course. In-flight students get it LOCKED
// so their own state does not move; students with every lesson completed get
// it UNLOCKED, otherwise nothing could ever unlock it for them.
func (s *CourseService) AddLesson(ctx context.Context, moduleID uuid.UUID, req model.CreateLessonRequest) (*model.Lesson, error) {
	module, err := s.courseRepo.GetModule(ctx, moduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("load module: %w", err)
	}

	lesson := &model.Lesson{ModuleID: moduleID, Title: req.Title, Content: req.Content, OrderNum: req.OrderNum}
	if err := s.courseRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	backfilled, err := s.progressRepo.BackfillLesson(ctx, module.CourseID, lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("backfill progress: %w", err)
	}
	if backfilled > 0 {
		s.log.Info().
			Str("lesson_id", lesson.ID.String()).
			Int64("enrollments", backfilled).
			Msg("progress rows backfilled for new lesson")
	}

	return lesson, nil
}

// GetLesson retrieves one lesson.
func (s *CourseService) GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	lesson, err := s.courseRepo.GetLesson(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	return lesson, nil
}
