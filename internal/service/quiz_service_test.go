package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/lenteraedu/lentera-backend/internal/model"
)

func opts(correctness ...bool) []model.OptionInput {
	out := make([]model.OptionInput, len(correctness))
	for i, c := range correctness {
		out[i] = model.OptionInput{OptionText: "opsi", IsCorrect: c}
	}
	return out
}

func TestValidateQuestionSingleChoice(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Ibukota Indonesia?",
		QuestionType: model.QuestionTypeSingleChoice,
		Options:      opts(true, false, false),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid single choice rejected: %v", err)
	}

	req.Options = opts(true, true, false)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("two correct options must be rejected, got %v", err)
	}

	req.Options = opts(true)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("single option must be rejected, got %v", err)
	}
}

func TestValidateQuestionTrueFalse(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Bumi itu bulat.",
		QuestionType: model.QuestionTypeTrueFalse,
		Options:      opts(true, false),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid true/false rejected: %v", err)
	}

	req.Options = opts(true, false, false)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("three options must be rejected, got %v", err)
	}
}

func TestValidateQuestionMultiSelect(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Pilih bilangan prima.",
		QuestionType: model.QuestionTypeMultiSelect,
		Options:      opts(true, true, false, false),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid multi select rejected: %v", err)
	}

	req.Options = opts(false, false)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("no correct option must be rejected, got %v", err)
	}
}

func TestValidateQuestionNumerical(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Berapa 6 x 7?",
		QuestionType: model.QuestionTypeNumerical,
		Metadata:     json.RawMessage(`{"correct": 42, "tolerance": 0}`),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid numerical rejected: %v", err)
	}

	req.Options = opts(true, false)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("numerical with options must be rejected, got %v", err)
	}

	req.Options = nil
	req.Metadata = json.RawMessage(`{"correct": 42, "tolerance": -1}`)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("negative tolerance must be rejected, got %v", err)
	}
}

func TestValidateQuestionCloze(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Lengkapi kalimat.",
		QuestionType: model.QuestionTypeCloze,
		Metadata:     json.RawMessage(`{"parts": [{"text": "Air mendidih pada "}, {"blank": true, "answer": "100"}]}`),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid cloze rejected: %v", err)
	}

	req.Metadata = json.RawMessage(`{"parts": [{"text": "tanpa isian"}]}`)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("cloze without blanks must be rejected, got %v", err)
	}
}

func TestValidateQuestionDragAndDrop(t *testing.T) {
	req := model.AddQuestionRequest{
		QuestionText: "Urutkan langkahnya.",
		QuestionType: model.QuestionTypeDragAndDropOrder,
		Options:      opts(false, false, false),
	}
	if err := validateQuestion(req); err != nil {
		t.Errorf("valid drag-and-drop rejected: %v", err)
	}

	req.Options = opts(false)
	if err := validateQuestion(req); !errors.Is(err, ErrInvalidQuestion) {
		t.Errorf("single item must be rejected, got %v", err)
	}
}
