package service

import (
	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// CurrentLessonID derives the lesson the student should work on next: the
// first non-completed lesson in course order. Nil when every lesson is
// completed (the final quiz is the remaining step).
func CurrentLessonID(progress []model.LessonProgress) *uuid.UUID {
	for i := range progress {
		if progress[i].Status != model.ProgressStatusCompleted {
			return &progress[i].LessonID
		}
	}
	return nil
}

// CountCompleted counts COMPLETED rows.
func CountCompleted(progress []model.LessonProgress) int {
	n := 0
	for i := range progress {
		if progress[i].Status == model.ProgressStatusCompleted {
			n++
		}
	}
	return n
}

// FinalQuizStartable reports whether every lesson of the enrollment is
// completed.
func FinalQuizStartable(progress []model.LessonProgress) bool {
	return len(progress) > 0 && CountCompleted(progress) == len(progress)
}

// BackfillStatus decides the initial status of the progress row created when
// a lesson is added after enrollment. A student with nothing left in flight
// (no rows yet, or every existing lesson completed) gets it UNLOCKED: the
// unlock chain only fires on passing the preceding lesson's quiz, so a LOCKED
// row would be unreachable for them. Everyone else gets LOCKED.
// ProgressRepository.BackfillLesson applies this decision per enrollment.
func BackfillStatus(progress []model.LessonProgress) model.ProgressStatus {
	if CountCompleted(progress) == len(progress) {
		return model.ProgressStatusUnlocked
	}
	return model.ProgressStatusLocked
}
