package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates quiz attempt states. IN_PROGRESS transitions to
// exactly one of the terminal states PASSED or FAILED.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusPassed     AttemptStatus = "PASSED"
	AttemptStatusFailed     AttemptStatus = "FAILED"
	// AttemptStatusCancelled is accepted by the schema but no flow currently
	// produces it. Kept pending product clarification.
	AttemptStatusCancelled AttemptStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptStatusPassed || s == AttemptStatusFailed || s == AttemptStatusCancelled
}

// QuizAttempt is one timed run of a quiz by one student. At most one attempt
// per (quiz, student) may be IN_PROGRESS at any time (enforced by a partial
// unique index).
type QuizAttempt struct {
	ID              uuid.UUID     `json:"id"`
	QuizID          uuid.UUID     `json:"quiz_id"`
	StudentID       int           `json:"student_id"`
	AttemptNumber   int           `json:"attempt_number"`
	Status          AttemptStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	DurationSeconds *int          `json:"duration_seconds,omitempty"`
	ScorePercent    *int          `json:"score_percent,omitempty"`
	CorrectCount    *int          `json:"correct_count,omitempty"`
	WrongCount      *int          `json:"wrong_count,omitempty"`
}

// AttemptAnswer stores the submitted payload and grading outcome for one
// question of an attempt. Rows are replaced wholesale on every submit.
type AttemptAnswer struct {
	ID         uuid.UUID       `json:"id"`
	AttemptID  uuid.UUID       `json:"attempt_id"`
	QuestionID uuid.UUID       `json:"question_id"`
	Payload    json.RawMessage `json:"payload"`
	IsCorrect  bool            `json:"is_correct"`
}

// SubmittedAnswer is one answer in a submit payload. Which fields are used
// depends on the question type; unused fields are ignored by the evaluator.
type SubmittedAnswer struct {
	QuestionID        uuid.UUID   `json:"question_id" binding:"required"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids,omitempty"`
	NumericValue      *float64    `json:"numeric_value,omitempty"`
	Pairs             []MatchPair `json:"pairs,omitempty"`
	Blanks            []string    `json:"blanks,omitempty"`
}

// StartAttemptRequest is the payload for starting (or resuming) an attempt.
// EnrollmentID is required for lesson-bound quizzes.
type StartAttemptRequest struct {
	QuizID       uuid.UUID  `json:"quiz_id" binding:"required"`
	EnrollmentID *uuid.UUID `json:"enrollment_id"`
}

// SubmitAttemptRequest is the payload for submitting answers.
type SubmitAttemptRequest struct {
	AttemptID uuid.UUID         `json:"attempt_id" binding:"required"`
	Answers   []SubmittedAnswer `json:"answers" binding:"dive"`
}

// AttemptView is an attempt as returned by Inspect. RemainingSeconds is only
// present while the attempt is IN_PROGRESS.
type AttemptView struct {
	QuizAttempt
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
}

// SubmitResult is the grading outcome returned to the student.
type SubmitResult struct {
	ScorePercent   int          `json:"score_percent"`
	CorrectCount   int          `json:"correct_count"`
	WrongCount     int          `json:"wrong_count"`
	TotalQuestions int          `json:"total_questions"`
	Passed         bool         `json:"passed"`
	Certificate    *Certificate `json:"certificate,omitempty"`
}
