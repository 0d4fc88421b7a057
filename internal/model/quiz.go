package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Quiz gates either a single lesson (lesson-bound) or, when LessonID is nil,
// the whole course as its final quiz.
type Quiz struct {
	ID       uuid.UUID  `json:"id"`
	CourseID uuid.UUID  `json:"course_id"`
	LessonID *uuid.UUID `json:"lesson_id,omitempty"`
	IsFinal  bool       `json:"is_final"`
	Title    string     `json:"title"`
	// PassingScore is the minimum score percent (0–100) required to pass.
	PassingScore int `json:"passing_score"`
	// AttemptLimit bounds the number of terminal attempts per student.
	AttemptLimit int `json:"attempt_limit"`
	// TimeLimitMinutes of 0 means the configured default applies.
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QuestionType is the closed set of supported question shapes.
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultiSelect  QuestionType = "MULTI_SELECT"
	QuestionTypeTrueFalse    QuestionType = "TRUE_FALSE"
	QuestionTypeNumerical    QuestionType = "NUMERICAL"
	QuestionTypeMatching     QuestionType = "MATCHING"
	QuestionTypeCloze        QuestionType = "CLOZE"

	// The two drag-and-drop shapes can be authored and stored but have no
	// grading rule yet; submissions against them are always marked wrong.
	QuestionTypeDragAndDrop      QuestionType = "DRAG_AND_DROP"
	QuestionTypeDragAndDropOrder QuestionType = "DRAG_AND_DROP_ORDER"
)

// Question is a single quiz question. Metadata carries the type-specific
// payload (tolerance, pairs, blanks) and is decoded via DecodeQuestionMeta.
type Question struct {
	ID           uuid.UUID       `json:"id"`
	QuizID       uuid.UUID       `json:"quiz_id"`
	QuestionText string          `json:"question_text"`
	QuestionType QuestionType    `json:"question_type"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	OrderNum     int             `json:"order_num"`
}

// Option is an answer choice. Only meaningful for choice-like question types.
type Option struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  bool      `json:"is_correct,omitempty"`
	OrderNum   int       `json:"order_num"`
}

// CreateQuizRequest is the payload for attaching a quiz to a course.
// A nil lesson_id creates the course's final quiz.
type CreateQuizRequest struct {
	LessonID         *uuid.UUID `json:"lesson_id"`
	Title            string     `json:"title" binding:"required,min=1,max=255"`
	PassingScore     int        `json:"passing_score" binding:"min=0,max=100"`
	AttemptLimit     int        `json:"attempt_limit" binding:"required,min=1"`
	TimeLimitMinutes int        `json:"time_limit_minutes" binding:"min=0,max=480"`
}

// OptionInput is one answer choice in a question authoring payload.
type OptionInput struct {
	OptionText string `json:"option_text" binding:"required,min=1,max=1000"`
	IsCorrect  bool   `json:"is_correct"`
}

// AddQuestionRequest is the payload for adding a question to a quiz.
type AddQuestionRequest struct {
	QuestionText string          `json:"question_text" binding:"required,min=1,max=2000"`
	QuestionType QuestionType    `json:"question_type" binding:"required,oneof=SINGLE_CHOICE MULTI_SELECT TRUE_FALSE NUMERICAL MATCHING CLOZE DRAG_AND_DROP DRAG_AND_DROP_ORDER"`
	Options      []OptionInput   `json:"options" binding:"omitempty,dive"`
	Metadata     json.RawMessage `json:"metadata"`
	OrderNum     int             `json:"order_num" binding:"min=0"`
}

// QuizPaper is the student-facing quiz payload: questions without any
// correctness information.
type QuizPaper struct {
	QuizID           uuid.UUID       `json:"quiz_id"`
	Title            string          `json:"title"`
	TimeLimitMinutes int             `json:"time_limit_minutes"`
	Questions        []PaperQuestion `json:"questions"`
}

// PaperQuestion is a question stripped of answers for delivery to students.
type PaperQuestion struct {
	ID           uuid.UUID     `json:"id"`
	QuestionText string        `json:"question_text"`
	QuestionType QuestionType  `json:"question_type"`
	Options      []PaperOption `json:"options,omitempty"`
	// Cloze questions expose only the literal parts and blank positions.
	ClozeParts []PaperClozePart `json:"cloze_parts,omitempty"`
	// Matching questions expose the two columns separately, right side shuffled
	// at authoring order (pair association is what the student must supply).
	MatchingLeft  []string `json:"matching_left,omitempty"`
	MatchingRight []string `json:"matching_right,omitempty"`
	OrderNum      int      `json:"order_num"`
}

// PaperOption is an option without its is_correct flag.
type PaperOption struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
	OrderNum   int       `json:"order_num"`
}

// PaperClozePart is a cloze segment as shown to students: literal text, or an
// empty blank to fill.
type PaperClozePart struct {
	Text  string `json:"text,omitempty"`
	Blank bool   `json:"blank,omitempty"`
}
