package service

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/grading"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// ComputeScore converts a correct-answer count into a 0..100 percentage,
// rounded half up. A quiz with zero questions cannot be started, so total is
// always positive here.
func ComputeScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

// EffectiveTimeLimit resolves a quiz's time limit: its own positive limit, or
// the platform default when unset.
func EffectiveTimeLimit(quizLimitMinutes int, fallback time.Duration) time.Duration {
	if quizLimitMinutes > 0 {
		return time.Duration(quizLimitMinutes) * time.Minute
	}
	return fallback
}

// AttemptDeadline is the instant after which an attempt can no longer be
// submitted.
func AttemptDeadline(startedAt time.Time, limit time.Duration) time.Time {
	return startedAt.Add(limit)
}

// RemainingSeconds reports the whole seconds left until the deadline, clamped
// at zero.
func RemainingSeconds(now, deadline time.Time) int64 {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining.Seconds())
}

// Expired reports whether the deadline has passed.
func Expired(now, deadline time.Time) bool {
	return !now.Before(deadline)
}

// ElapsedSeconds reports the whole seconds between start and now, never
// negative.
func ElapsedSeconds(startedAt, now time.Time) int {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Seconds())
}

// ExpiredDurationSeconds is the duration recorded when an attempt is
// finalized past its deadline: the actual wall-clock span since the start,
// not the time limit. An expiry noticed late records the full span.
func ExpiredDurationSeconds(startedAt, now time.Time) int {
	return ElapsedSeconds(startedAt, now)
}

// GradeSubmission grades every quiz question against the submitted answers
// and builds the stored answer rows, one per question. Later duplicates of
// the same question win; an unanswered question is stored with an empty
// submission and counts as wrong, so the rows fully reconstruct the grading.
func GradeSubmission(attemptID uuid.UUID, questions []model.Question, options map[uuid.UUID][]model.Option, submitted []model.SubmittedAnswer) ([]model.AttemptAnswer, int) {
	byQuestion := make(map[uuid.UUID]model.SubmittedAnswer, len(submitted))
	for _, ans := range submitted {
		byQuestion[ans.QuestionID] = ans
	}

	correct := 0
	rows := make([]model.AttemptAnswer, 0, len(questions))
	for _, q := range questions {
		ans, answered := byQuestion[q.ID]
		if !answered {
			ans = model.SubmittedAnswer{QuestionID: q.ID}
		}
		ok := grading.Evaluate(q, options[q.ID], ans)
		if ok {
			correct++
		}
		payload, _ := json.Marshal(ans)
		rows = append(rows, model.AttemptAnswer{
			AttemptID:  attemptID,
			QuestionID: q.ID,
			Payload:    payload,
			IsCorrect:  ok,
		})
	}
	return rows, correct
}
