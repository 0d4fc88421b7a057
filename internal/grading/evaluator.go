// Package grading implements the pure answer evaluator. Evaluate has no side
// effects and no partial credit: a question is either fully correct or not.
package grading

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// Evaluate grades a single submitted answer against a question. It is total:
// malformed metadata, missing submissions and unsupported question types all
// grade as incorrect rather than erroring.
func Evaluate(q model.Question, options []model.Option, ans model.SubmittedAnswer) bool {
	switch q.QuestionType {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiSelect, model.QuestionTypeTrueFalse:
		// SINGLE_CHOICE and TRUE_FALSE are graded identically to MULTI_SELECT:
		// the selection-size rule is enforced at authoring time, not here.
		return evaluateChoice(options, ans.SelectedOptionIDs)

	case model.QuestionTypeNumerical:
		meta, err := model.DecodeQuestionMeta(q.QuestionType, q.Metadata)
		if err != nil {
			return false
		}
		return evaluateNumerical(meta.(model.NumericalMeta), ans.NumericValue)

	case model.QuestionTypeMatching:
		meta, err := model.DecodeQuestionMeta(q.QuestionType, q.Metadata)
		if err != nil {
			return false
		}
		return evaluateMatching(meta.(model.MatchingMeta), ans.Pairs)

	case model.QuestionTypeCloze:
		meta, err := model.DecodeQuestionMeta(q.QuestionType, q.Metadata)
		if err != nil {
			return false
		}
		return evaluateCloze(meta.(model.ClozeMeta), ans.Blanks)

	default:
		// DRAG_AND_DROP variants have no grading contract yet.
		return false
	}
}

// evaluateChoice compares the sorted submitted option-ID set against the
// sorted set of options flagged correct.
func evaluateChoice(options []model.Option, selected []uuid.UUID) bool {
	var correct []string
	for _, o := range options {
		if o.IsCorrect {
			correct = append(correct, o.ID.String())
		}
	}

	submitted := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		s := id.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		submitted = append(submitted, s)
	}

	if len(submitted) != len(correct) {
		return false
	}
	sort.Strings(correct)
	sort.Strings(submitted)
	for i := range correct {
		if correct[i] != submitted[i] {
			return false
		}
	}
	return true
}

// evaluateNumerical applies the inclusive absolute tolerance. Missing and
// non-finite submissions are always incorrect.
func evaluateNumerical(meta model.NumericalMeta, submitted *float64) bool {
	if submitted == nil {
		return false
	}
	v := *submitted
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v-meta.Correct) <= meta.Tolerance
}

// evaluateMatching compares pair sets order-independently: each pair is
// serialized as "left\tright", both sides sorted, then compared.
func evaluateMatching(meta model.MatchingMeta, submitted []model.MatchPair) bool {
	if len(submitted) != len(meta.Pairs) {
		return false
	}
	want := serializePairs(meta.Pairs)
	got := serializePairs(submitted)
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func serializePairs(pairs []model.MatchPair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.Left+"\t"+p.Right)
	}
	sort.Strings(out)
	return out
}

// evaluateCloze requires the blank counts to match before any value is
// compared; each value is trimmed and compared case-insensitively.
func evaluateCloze(meta model.ClozeMeta, submitted []string) bool {
	expected := meta.ExpectedBlanks()
	if len(submitted) != len(expected) {
		return false
	}
	for i, want := range expected {
		if !strings.EqualFold(strings.TrimSpace(submitted[i]), strings.TrimSpace(want)) {
			return false
		}
	}
	return true
}
