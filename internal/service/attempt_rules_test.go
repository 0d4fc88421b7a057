package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

func TestComputeScore(t *testing.T) {
	cases := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"two thirds rounds up", 2, 3, 67},
		{"one third rounds down", 1, 3, 33},
		{"half rounds up", 1, 2, 50},
		{"seven of nine", 7, 9, 78},
		{"zero total clamps", 3, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeScore(tc.correct, tc.total); got != tc.want {
				t.Errorf("ComputeScore(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
			}
		})
	}
}

func TestEffectiveTimeLimit(t *testing.T) {
	fallback := 20 * time.Minute

	if got := EffectiveTimeLimit(45, fallback); got != 45*time.Minute {
		t.Errorf("explicit limit: got %v", got)
	}
	if got := EffectiveTimeLimit(0, fallback); got != fallback {
		t.Errorf("zero limit should fall back: got %v", got)
	}
	if got := EffectiveTimeLimit(-5, fallback); got != fallback {
		t.Errorf("negative limit should fall back: got %v", got)
	}
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Now()

	if got := RemainingSeconds(now, now.Add(90*time.Second)); got != 90 {
		t.Errorf("got %d, want 90", got)
	}
	if got := RemainingSeconds(now, now); got != 0 {
		t.Errorf("at deadline: got %d, want 0", got)
	}
	if got := RemainingSeconds(now, now.Add(-time.Minute)); got != 0 {
		t.Errorf("past deadline must clamp to zero: got %d", got)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	if Expired(now, now.Add(time.Second)) {
		t.Error("before deadline should not be expired")
	}
	if !Expired(now, now) {
		t.Error("exactly at deadline should be expired")
	}
	if !Expired(now, now.Add(-time.Second)) {
		t.Error("past deadline should be expired")
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Now()

	if got := ElapsedSeconds(start, start.Add(125*time.Second)); got != 125 {
		t.Errorf("got %d, want 125", got)
	}
	if got := ElapsedSeconds(start, start.Add(-time.Second)); got != 0 {
		t.Errorf("clock skew must clamp to zero: got %d", got)
	}
}

func TestExpiredDurationSeconds(t *testing.T) {
	start := time.Now()

	// A 20-minute attempt whose expiry is noticed at 1300s records the
	// actual elapsed time, not the 1200s limit.
	if got := ExpiredDurationSeconds(start, start.Add(1300*time.Second)); got != 1300 {
		t.Errorf("late-noticed expiry: got %d, want 1300", got)
	}
	if got := ExpiredDurationSeconds(start, start.Add(1200*time.Second)); got != 1200 {
		t.Errorf("expiry at the deadline: got %d, want 1200", got)
	}
}

func numericalGradingQuestion(correct float64) model.Question {
	meta, _ := json.Marshal(model.NumericalMeta{Correct: correct})
	return model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeNumerical, Metadata: meta}
}

func answerValue(questionID uuid.UUID, value float64) model.SubmittedAnswer {
	return model.SubmittedAnswer{QuestionID: questionID, NumericValue: &value}
}

func TestGradeSubmission(t *testing.T) {
	attemptID := uuid.New()
	questions := []model.Question{
		numericalGradingQuestion(1),
		numericalGradingQuestion(2),
		numericalGradingQuestion(3),
	}

	rows, correct := GradeSubmission(attemptID, questions, nil, []model.SubmittedAnswer{
		answerValue(questions[0].ID, 1),
		answerValue(questions[1].ID, 99),
		// questions[2] left unanswered
	})

	if correct != 1 {
		t.Errorf("correct = %d, want 1", correct)
	}
	if len(rows) != len(questions) {
		t.Fatalf("expected one stored row per question, got %d of %d", len(rows), len(questions))
	}

	byQuestion := make(map[uuid.UUID]model.AttemptAnswer, len(rows))
	for _, row := range rows {
		if row.AttemptID != attemptID {
			t.Errorf("row bound to attempt %s, want %s", row.AttemptID, attemptID)
		}
		byQuestion[row.QuestionID] = row
	}

	if !byQuestion[questions[0].ID].IsCorrect {
		t.Error("correct answer should be stored as correct")
	}
	if byQuestion[questions[1].ID].IsCorrect {
		t.Error("wrong answer should be stored as incorrect")
	}

	unanswered, ok := byQuestion[questions[2].ID]
	if !ok {
		t.Fatal("unanswered question must still get a stored row")
	}
	if unanswered.IsCorrect {
		t.Error("unanswered question must be stored as incorrect")
	}
	var stored model.SubmittedAnswer
	if err := json.Unmarshal(unanswered.Payload, &stored); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if stored.QuestionID != questions[2].ID || stored.NumericValue != nil {
		t.Errorf("unanswered payload should be an empty submission, got %s", unanswered.Payload)
	}
}

func TestGradeSubmissionDuplicateAnswersLastWins(t *testing.T) {
	q := numericalGradingQuestion(5)

	_, correct := GradeSubmission(uuid.New(), []model.Question{q}, nil, []model.SubmittedAnswer{
		answerValue(q.ID, 5),
		answerValue(q.ID, 7),
	})
	if correct != 0 {
		t.Errorf("later duplicate must win: correct = %d, want 0", correct)
	}

	_, correct = GradeSubmission(uuid.New(), []model.Question{q}, nil, []model.SubmittedAnswer{
		answerValue(q.ID, 7),
		answerValue(q.ID, 5),
	})
	if correct != 1 {
		t.Errorf("later duplicate must win: correct = %d, want 1", correct)
	}
}
