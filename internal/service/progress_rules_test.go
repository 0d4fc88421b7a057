package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

func progressRows(statuses ...model.ProgressStatus) []model.LessonProgress {
	rows := make([]model.LessonProgress, len(statuses))
	for i, st := range statuses {
		rows[i] = model.LessonProgress{LessonID: uuid.New(), Status: st}
	}
	return rows
}

func TestCurrentLessonID(t *testing.T) {
	rows := progressRows(
		model.ProgressStatusCompleted,
		model.ProgressStatusCompleted,
		model.ProgressStatusUnlocked,
		model.ProgressStatusLocked,
	)

	got := CurrentLessonID(rows)
	if got == nil || *got != rows[2].LessonID {
		t.Errorf("expected third lesson, got %v", got)
	}
}

func TestCurrentLessonIDFirstLesson(t *testing.T) {
	rows := progressRows(model.ProgressStatusUnlocked, model.ProgressStatusLocked)

	got := CurrentLessonID(rows)
	if got == nil || *got != rows[0].LessonID {
		t.Errorf("expected first lesson, got %v", got)
	}
}

func TestCurrentLessonIDAllCompleted(t *testing.T) {
	rows := progressRows(model.ProgressStatusCompleted, model.ProgressStatusCompleted)

	if got := CurrentLessonID(rows); got != nil {
		t.Errorf("expected nil when all lessons are completed, got %v", got)
	}
}

func TestFinalQuizStartable(t *testing.T) {
	if FinalQuizStartable(nil) {
		t.Error("empty progress must not unlock the final quiz")
	}
	if FinalQuizStartable(progressRows(model.ProgressStatusCompleted, model.ProgressStatusUnlocked)) {
		t.Error("pending lesson must not unlock the final quiz")
	}
	if !FinalQuizStartable(progressRows(model.ProgressStatusCompleted, model.ProgressStatusCompleted)) {
		t.Error("all completed should unlock the final quiz")
	}
}

func TestBackfillStatus(t *testing.T) {
	if got := BackfillStatus(nil); got != model.ProgressStatusUnlocked {
		t.Errorf("no progress rows yet must backfill UNLOCKED, got %s", got)
	}
	if got := BackfillStatus(progressRows(
		model.ProgressStatusCompleted,
		model.ProgressStatusCompleted,
	)); got != model.ProgressStatusUnlocked {
		t.Errorf("all lessons completed must backfill UNLOCKED, got %s", got)
	}
	if got := BackfillStatus(progressRows(
		model.ProgressStatusCompleted,
		model.ProgressStatusUnlocked,
	)); got != model.ProgressStatusLocked {
		t.Errorf("lesson in flight must backfill LOCKED, got %s", got)
	}
	if got := BackfillStatus(progressRows(
		model.ProgressStatusUnlocked,
		model.ProgressStatusLocked,
	)); got != model.ProgressStatusLocked {
		t.Errorf("fresh enrollment mid-course must backfill LOCKED, got %s", got)
	}
}

func TestCountCompleted(t *testing.T) {
	rows := progressRows(
		model.ProgressStatusCompleted,
		model.ProgressStatusLocked,
		model.ProgressStatusCompleted,
	)
	if got := CountCompleted(rows); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
