package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressStatus enumerates per-lesson unlock states. Transitions are
// monotonic (LOCKED → UNLOCKED → COMPLETED) except via an explicit restart.
type ProgressStatus string

const (
	ProgressStatusLocked    ProgressStatus = "LOCKED"
	ProgressStatusUnlocked  ProgressStatus = "UNLOCKED"
	ProgressStatusCompleted ProgressStatus = "COMPLETED"
)

// LessonProgress is one enrollment's state for one lesson.
type LessonProgress struct {
	ID               uuid.UUID      `json:"id"`
	EnrollmentID     uuid.UUID      `json:"enrollment_id"`
	LessonID         uuid.UUID      `json:"lesson_id"`
	Status           ProgressStatus `json:"status"`
	AttemptsUsed     int            `json:"attempts_used"`
	LastAttemptScore *int           `json:"last_attempt_score,omitempty"`
	UnlockedAt       *time.Time     `json:"unlocked_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// EnrollmentStatus enumerates enrollment states.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment ties a student to a course and owns its progress rows.
type Enrollment struct {
	ID          uuid.UUID        `json:"id"`
	StudentID   int              `json:"student_id"`
	CourseID    uuid.UUID        `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// EnrollRequest is the payload for enrolling into a course.
type EnrollRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}

// CourseProgress is the student-facing view of one enrollment: every lesson
// with its unlock state, plus the derived position in the course.
type CourseProgress struct {
	Enrollment      Enrollment       `json:"enrollment"`
	Lessons         []LessonProgress `json:"lessons"`
	CurrentLessonID *uuid.UUID       `json:"current_lesson_id,omitempty"`
	CompletedCount  int              `json:"completed_count"`
	TotalLessons    int              `json:"total_lessons"`
	FinalStartable  bool             `json:"final_quiz_startable"`
}
