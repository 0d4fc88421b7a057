package grading

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

func choiceQuestion(t *testing.T, qt model.QuestionType, correct ...bool) (model.Question, []model.Option) {
	t.Helper()
	q := model.Question{ID: uuid.New(), QuestionType: qt}
	opts := make([]model.Option, len(correct))
	for i, c := range correct {
		opts[i] = model.Option{ID: uuid.New(), QuestionID: q.ID, IsCorrect: c, OrderNum: i}
	}
	return q, opts
}

func TestEvaluateSingleChoice(t *testing.T) {
	q, opts := choiceQuestion(t, model.QuestionTypeSingleChoice, false, true, false)

	if !Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[1].ID}}) {
		t.Error("correct option should grade true")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID}}) {
		t.Error("wrong option should grade false")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{}) {
		t.Error("empty selection should grade false")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID, opts[1].ID}}) {
		t.Error("superset selection should grade false")
	}
}

func TestEvaluateMultiSelect(t *testing.T) {
	q, opts := choiceQuestion(t, model.QuestionTypeMultiSelect, true, false, true, false)

	// Order of the submitted set must not matter.
	if !Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[2].ID, opts[0].ID}}) {
		t.Error("exact correct set in any order should grade true")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID}}) {
		t.Error("partial selection should grade false, no partial credit")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID, opts[2].ID, opts[3].ID}}) {
		t.Error("correct set plus extra should grade false")
	}
	// Duplicate IDs must not fake a larger set.
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID, opts[0].ID}}) {
		t.Error("duplicated single option should not equal a two-option key")
	}
}

func TestEvaluateTrueFalse(t *testing.T) {
	q, opts := choiceQuestion(t, model.QuestionTypeTrueFalse, true, false)

	if !Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[0].ID}}) {
		t.Error("correct option should grade true")
	}
	if Evaluate(q, opts, model.SubmittedAnswer{SelectedOptionIDs: []uuid.UUID{opts[1].ID}}) {
		t.Error("wrong option should grade false")
	}
}

func numericalQuestion(correct, tolerance float64) model.Question {
	meta, _ := json.Marshal(model.NumericalMeta{Correct: correct, Tolerance: tolerance})
	return model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeNumerical, Metadata: meta}
}

func f(v float64) *float64 { return &v }

func TestEvaluateNumerical(t *testing.T) {
	q := numericalQuestion(10, 0.5)

	cases := []struct {
		name  string
		value *float64
		want  bool
	}{
		{"exact", f(10), true},
		{"upper boundary inclusive", f(10.5), true},
		{"lower boundary inclusive", f(9.5), true},
		{"just outside", f(10.51), false},
		{"missing", nil, false},
		{"nan", f(math.NaN()), false},
		{"inf", f(math.Inf(1)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(q, nil, model.SubmittedAnswer{NumericValue: tc.value})
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluateNumericalZeroTolerance(t *testing.T) {
	q := numericalQuestion(3, 0)
	if !Evaluate(q, nil, model.SubmittedAnswer{NumericValue: f(3)}) {
		t.Error("exact match with zero tolerance should grade true")
	}
	if Evaluate(q, nil, model.SubmittedAnswer{NumericValue: f(3.0001)}) {
		t.Error("any deviation with zero tolerance should grade false")
	}
}

func matchingQuestion(pairs ...model.MatchPair) model.Question {
	meta, _ := json.Marshal(model.MatchingMeta{Pairs: pairs})
	return model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeMatching, Metadata: meta}
}

func TestEvaluateMatching(t *testing.T) {
	q := matchingQuestion(
		model.MatchPair{Left: "ikan", Right: "air"},
		model.MatchPair{Left: "burung", Right: "udara"},
	)

	if !Evaluate(q, nil, model.SubmittedAnswer{Pairs: []model.MatchPair{
		{Left: "burung", Right: "udara"},
		{Left: "ikan", Right: "air"},
	}}) {
		t.Error("same pair set in different order should grade true")
	}

	if Evaluate(q, nil, model.SubmittedAnswer{Pairs: []model.MatchPair{
		{Left: "ikan", Right: "udara"},
		{Left: "burung", Right: "air"},
	}}) {
		t.Error("crossed pairs should grade false")
	}

	if Evaluate(q, nil, model.SubmittedAnswer{Pairs: []model.MatchPair{
		{Left: "ikan", Right: "air"},
	}}) {
		t.Error("missing pair should grade false")
	}
}

func clozeQuestion(parts ...model.ClozePart) model.Question {
	meta, _ := json.Marshal(model.ClozeMeta{Parts: parts})
	return model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeCloze, Metadata: meta}
}

func TestEvaluateCloze(t *testing.T) {
	q := clozeQuestion(
		model.ClozePart{Text: "Ibu kota Indonesia adalah "},
		model.ClozePart{Blank: true, Answer: "Jakarta"},
		model.ClozePart{Text: " di pulau "},
		model.ClozePart{Blank: true, Answer: "Jawa"},
	)

	if !Evaluate(q, nil, model.SubmittedAnswer{Blanks: []string{"  jakarta ", "JAWA"}}) {
		t.Error("trimmed case-insensitive match should grade true")
	}
	if Evaluate(q, nil, model.SubmittedAnswer{Blanks: []string{"Jakarta", "Bali"}}) {
		t.Error("one wrong blank should grade false")
	}
	if Evaluate(q, nil, model.SubmittedAnswer{Blanks: []string{"Jakarta"}}) {
		t.Error("blank count mismatch should grade false without comparing values")
	}
	if Evaluate(q, nil, model.SubmittedAnswer{Blanks: []string{"Jakarta", "Jawa", "ekstra"}}) {
		t.Error("too many blanks should grade false")
	}
}

func TestEvaluateUnsupportedTypes(t *testing.T) {
	for _, qt := range []model.QuestionType{model.QuestionTypeDragAndDrop, model.QuestionTypeDragAndDropOrder} {
		q := model.Question{ID: uuid.New(), QuestionType: qt}
		if Evaluate(q, nil, model.SubmittedAnswer{Blanks: []string{"apa saja"}}) {
			t.Errorf("%s has no grading rule and must grade false", qt)
		}
	}
}

func TestEvaluateMalformedMetadata(t *testing.T) {
	q := model.Question{
		ID:           uuid.New(),
		QuestionType: model.QuestionTypeNumerical,
		Metadata:     json.RawMessage(`{"correct": "bukan angka"}`),
	}
	if Evaluate(q, nil, model.SubmittedAnswer{NumericValue: f(1)}) {
		t.Error("malformed metadata must grade false, not panic")
	}
}
