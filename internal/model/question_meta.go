package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// QuestionMeta is the decoded, type-specific question payload. Exactly one
// concrete variant exists per question type that needs metadata; choice-like
// types carry none. Decoding through DecodeQuestionMeta keeps the evaluator
// exhaustive instead of shape-sniffing raw JSON.
type QuestionMeta interface {
	isQuestionMeta()
}

// NumericalMeta holds the expected value and the inclusive absolute tolerance
// for NUMERICAL questions.
type NumericalMeta struct {
	Correct   float64 `json:"correct"`
	Tolerance float64 `json:"tolerance"`
}

func (NumericalMeta) isQuestionMeta() {}

// MatchPair is one (left, right) association of a MATCHING question.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingMeta holds the correct pair set for MATCHING questions.
type MatchingMeta struct {
	Pairs []MatchPair `json:"pairs"`
}

func (MatchingMeta) isQuestionMeta() {}

// ClozePart is one segment of a CLOZE question: either literal text or a
// blank carrying its expected answer.
type ClozePart struct {
	Text   string `json:"text,omitempty"`
	Blank  bool   `json:"blank,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// ClozeMeta holds the ordered segments of a CLOZE question.
type ClozeMeta struct {
	Parts []ClozePart `json:"parts"`
}

func (ClozeMeta) isQuestionMeta() {}

// ExpectedBlanks returns the expected answers of the blank segments in order.
func (m ClozeMeta) ExpectedBlanks() []string {
	var blanks []string
	for _, p := range m.Parts {
		if p.Blank {
			blanks = append(blanks, p.Answer)
		}
	}
	return blanks
}

var (
	ErrMetaNotExpected = errors.New("question type carries no metadata")
	ErrMetaInvalid     = errors.New("invalid question metadata")
)

// DecodeQuestionMeta decodes and validates the metadata blob for a question
// type. Choice-like and drag-and-drop types return (nil, nil): their grading
// needs no metadata.
func DecodeQuestionMeta(t QuestionType, raw json.RawMessage) (QuestionMeta, error) {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultiSelect, QuestionTypeTrueFalse,
		QuestionTypeDragAndDrop, QuestionTypeDragAndDropOrder:
		return nil, nil

	case QuestionTypeNumerical:
		var m NumericalMeta
		if err := strictUnmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMetaInvalid, err)
		}
		if m.Tolerance < 0 {
			return nil, fmt.Errorf("%w: tolerance must be >= 0", ErrMetaInvalid)
		}
		return m, nil

	case QuestionTypeMatching:
		var m MatchingMeta
		if err := strictUnmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMetaInvalid, err)
		}
		if len(m.Pairs) == 0 {
			return nil, fmt.Errorf("%w: at least one pair required", ErrMetaInvalid)
		}
		return m, nil

	case QuestionTypeCloze:
		var m ClozeMeta
		if err := strictUnmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMetaInvalid, err)
		}
		if len(m.ExpectedBlanks()) == 0 {
			return nil, fmt.Errorf("%w: at least one blank required", ErrMetaInvalid)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrMetaInvalid, t)
	}
}

func strictUnmarshal(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return errors.New("metadata is required")
	}
	return json.Unmarshal(raw, dst)
}
