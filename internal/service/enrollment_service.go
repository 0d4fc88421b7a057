package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Enrollment errors.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// EnrollmentService manages course enrollments and the per-lesson progress
// rows they own.
type EnrollmentService struct {
	pool         *pgxpool.Pool
	enrollRepo   *repository.EnrollmentRepository
	progressRepo *repository.ProgressRepository
	attemptRepo  *repository.AttemptRepository
	certRepo     *repository.CertificateRepository
	courseRepo   *repository.CourseRepository
	log          zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(
	pool *pgxpool.Pool,
	enrollRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.AttemptRepository,
	certRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		pool:         pool,
		enrollRepo:   enrollRepo,
		progressRepo: progressRepo,
		attemptRepo:  attemptRepo,
		certRepo:     certRepo,
		courseRepo:   courseRepo,
		log:          log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll creates an ACTIVE enrollment in a published course and seeds the
// progress rows: the first lesson in course order starts UNLOCKED, the rest
// LOCKED.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID int, courseID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}

	if _, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	enrollment, err := s.enrollRepo.CreateTx(ctx, tx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	if err := s.progressRepo.BulkCreateTx(ctx, tx, enrollment.ID, courseID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Str("enrollment_id", enrollment.ID.String()).
		Str("course_id", courseID.String()).
		Int("student_id", studentID).
		Msg("student enrolled")

	return enrollment, nil
}

// Restart wipes the student's history in a course and reseeds it: progress
// rows, quiz attempts and the certificate are deleted, the enrollment goes
// back to ACTIVE, and the first lesson is unlocked again.
func (s *EnrollmentService) Restart(ctx context.Context, studentID int, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.progressRepo.DeleteByEnrollmentTx(ctx, tx, enrollment.ID); err != nil {
		return nil, fmt.Errorf("delete progress: %w", err)
	}
	if err := s.attemptRepo.DeleteByCourseAndStudentTx(ctx, tx, courseID, studentID); err != nil {
		return nil, fmt.Errorf("delete attempts: %w", err)
	}
	if err := s.certRepo.DeleteByStudentAndCourseTx(ctx, tx, studentID, courseID); err != nil {
		return nil, fmt.Errorf("delete certificate: %w", err)
	}
	if err := s.enrollRepo.ReactivateTx(ctx, tx, enrollment.ID); err != nil {
		return nil, fmt.Errorf("reactivate enrollment: %w", err)
	}
	if err := s.progressRepo.BulkCreateTx(ctx, tx, enrollment.ID, courseID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Str("enrollment_id", enrollment.ID.String()).
		Int("student_id", studentID).
		Msg("course restarted")

	return s.enrollRepo.GetByID(ctx, enrollment.ID)
}

// Progress builds the student-facing progress view of a course, including
// the derived current lesson.
func (s *EnrollmentService) Progress(ctx context.Context, studentID int, courseID uuid.UUID) (*model.CourseProgress, error) {
	enrollment, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	lessons, err := s.progressRepo.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	return &model.CourseProgress{
		Enrollment:      *enrollment,
		Lessons:         lessons,
		CurrentLessonID: CurrentLessonID(lessons),
		CompletedCount:  CountCompleted(lessons),
		TotalLessons:    len(lessons),
		FinalStartable:  FinalQuizStartable(lessons),
	}, nil
}

// Lesson returns lesson content for an enrolled student. LOCKED lessons stay
// hidden until the previous lesson's quiz is passed.
func (s *EnrollmentService) Lesson(ctx context.Context, studentID int, lessonID uuid.UUID) (*model.Lesson, *model.LessonProgress, error) {
	lesson, err := s.courseRepo.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrLessonNotFound
		}
		return nil, nil, fmt.Errorf("load lesson: %w", err)
	}

	courseID, err := s.courseRepo.CourseIDByLesson(ctx, lessonID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve course: %w", err)
	}
	enrollment, err := s.enrollRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotEnrolled
		}
		return nil, nil, fmt.Errorf("load enrollment: %w", err)
	}

	progress, err := s.progressRepo.GetByEnrollmentAndLesson(ctx, enrollment.ID, lessonID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrLessonLocked
		}
		return nil, nil, fmt.Errorf("load progress: %w", err)
	}
	if progress.Status == model.ProgressStatusLocked {
		return nil, nil, ErrLessonLocked
	}

	return lesson, progress, nil
}

// ListForStudent retrieves all enrollments of a student.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	return s.enrollRepo.ListByStudent(ctx, studentID)
}
