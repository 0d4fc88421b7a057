package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeQuestionMetaNumerical(t *testing.T) {
	meta, err := DecodeQuestionMeta(QuestionTypeNumerical, json.RawMessage(`{"correct": 10, "tolerance": 0.5}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := meta.(NumericalMeta)
	if !ok {
		t.Fatalf("expected NumericalMeta, got %T", meta)
	}
	if m.Correct != 10 || m.Tolerance != 0.5 {
		t.Errorf("unexpected values: %+v", m)
	}
}

func TestDecodeQuestionMetaNegativeTolerance(t *testing.T) {
	_, err := DecodeQuestionMeta(QuestionTypeNumerical, json.RawMessage(`{"correct": 1, "tolerance": -0.1}`))
	if !errors.Is(err, ErrMetaInvalid) {
		t.Errorf("expected ErrMetaInvalid, got %v", err)
	}
}

func TestDecodeQuestionMetaMatchingEmpty(t *testing.T) {
	_, err := DecodeQuestionMeta(QuestionTypeMatching, json.RawMessage(`{"pairs": []}`))
	if !errors.Is(err, ErrMetaInvalid) {
		t.Errorf("expected ErrMetaInvalid for empty pairs, got %v", err)
	}
}

func TestDecodeQuestionMetaClozeBlanks(t *testing.T) {
	raw := json.RawMessage(`{"parts": [
		{"text": "2 + 2 = "},
		{"blank": true, "answer": "4"},
		{"text": ", 3 + 3 = "},
		{"blank": true, "answer": "6"}
	]}`)
	meta, err := DecodeQuestionMeta(QuestionTypeCloze, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	blanks := meta.(ClozeMeta).ExpectedBlanks()
	if len(blanks) != 2 || blanks[0] != "4" || blanks[1] != "6" {
		t.Errorf("unexpected blanks: %v", blanks)
	}
}

func TestDecodeQuestionMetaClozeWithoutBlanks(t *testing.T) {
	_, err := DecodeQuestionMeta(QuestionTypeCloze, json.RawMessage(`{"parts": [{"text": "tanpa isian"}]}`))
	if !errors.Is(err, ErrMetaInvalid) {
		t.Errorf("expected ErrMetaInvalid for cloze without blanks, got %v", err)
	}
}

func TestDecodeQuestionMetaChoiceTypesCarryNone(t *testing.T) {
	for _, qt := range []QuestionType{
		QuestionTypeSingleChoice, QuestionTypeMultiSelect, QuestionTypeTrueFalse,
		QuestionTypeDragAndDrop, QuestionTypeDragAndDropOrder,
	} {
		meta, err := DecodeQuestionMeta(qt, nil)
		if err != nil {
			t.Errorf("%s: unexpected error %v", qt, err)
		}
		if meta != nil {
			t.Errorf("%s: expected nil metadata, got %T", qt, meta)
		}
	}
}

func TestDecodeQuestionMetaMissingPayload(t *testing.T) {
	_, err := DecodeQuestionMeta(QuestionTypeNumerical, nil)
	if !errors.Is(err, ErrMetaInvalid) {
		t.Errorf("expected ErrMetaInvalid for missing metadata, got %v", err)
	}
}

func TestDecodeQuestionMetaUnknownType(t *testing.T) {
	_, err := DecodeQuestionMeta(QuestionType("ESSAY"), json.RawMessage(`{}`))
	if !errors.Is(err, ErrMetaInvalid) {
		t.Errorf("expected ErrMetaInvalid for unknown type, got %v", err)
	}
}
