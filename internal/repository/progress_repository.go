package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// ProgressRepository handles lesson progress data access.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// GetByEnrollmentAndLesson retrieves one progress row.
func (r *ProgressRepository) GetByEnrollmentAndLesson(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*model.LessonProgress, error) {
	p := &model.LessonProgress{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, enrollment_id, lesson_id, status, attempts_used, last_attempt_score, unlocked_at, completed_at
		 FROM lesson_progress WHERE enrollment_id = $1 AND lesson_id = $2`,
		enrollmentID, lessonID,
	).Scan(&p.ID, &p.EnrollmentID, &p.LessonID, &p.Status, &p.AttemptsUsed, &p.LastAttemptScore, &p.UnlockedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByEnrollment retrieves all progress rows of an enrollment in course
// order.
func (r *ProgressRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]model.LessonProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.enrollment_id, p.lesson_id, p.status, p.attempts_used, p.last_attempt_score, p.unlocked_at, p.completed_at
		 FROM lesson_progress p
		 JOIN lessons l ON p.lesson_id = l.id
		 JOIN course_modules m ON l.module_id = m.id
		 WHERE p.enrollment_id = $1
		 ORDER BY m.order_num, l.order_num`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.LessonProgress
	for rows.Next() {
		var p model.LessonProgress
		if err := rows.Scan(&p.ID, &p.EnrollmentID, &p.LessonID, &p.Status, &p.AttemptsUsed, &p.LastAttemptScore, &p.UnlockedAt, &p.CompletedAt); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// CountNotCompleted counts the enrollment's lessons that are not yet
// COMPLETED. Zero means the final quiz may be started.
func (r *ProgressRepository) CountNotCompleted(ctx context.Context, enrollmentID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lesson_progress
		 WHERE enrollment_id = $1 AND status <> 'COMPLETED'`, enrollmentID,
	).Scan(&count)
	return count, err
}

// BulkCreateTx seeds progress rows for all the course's lessons inside the
// caller's transaction. The first lesson in course order starts UNLOCKED,
// the rest LOCKED.
func (r *ProgressRepository) BulkCreateTx(ctx context.Context, tx pgx.Tx, enrollmentID, courseID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO lesson_progress (enrollment_id, lesson_id, status, unlocked_at)
		 SELECT $1, ordered.id,
		        CASE WHEN ordered.rn = 1 THEN 'UNLOCKED' ELSE 'LOCKED' END,
		        CASE WHEN ordered.rn = 1 THEN NOW() END
		 FROM (
			SELECT l.id, ROW_NUMBER() OVER (ORDER BY m.order_num, l.order_num) AS rn
			FROM lessons l
			JOIN course_modules m ON l.module_id = m.id
			WHERE m.course_id = $2
		 ) ordered`, enrollmentID, courseID)
	if err != nil {
		return fmt.Errorf("seed progress: %w", err)
	}
	return nil
}

// BackfillLesson creates a progress row for a newly added lesson on every
// existing enrollment of the course. An enrollment with nothing left in
// flight (no rows yet, or every lesson completed) gets the row UNLOCKED so
// the new lesson is immediately reachable; everyone else gets LOCKED and
// reaches it through the normal unlock chain. Existing rows are left alone.
func (r *ProgressRepository) BackfillLesson(ctx context.Context, courseID, lessonID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO lesson_progress (enrollment_id, lesson_id, status, unlocked_at)
		 SELECT e.id, $2,
		        CASE WHEN caught_up.ok THEN 'UNLOCKED' ELSE 'LOCKED' END,
		        CASE WHEN caught_up.ok THEN NOW() END
		 FROM enrollments e
		 CROSS JOIN LATERAL (
			SELECT NOT EXISTS (
				SELECT 1 FROM lesson_progress p
				WHERE p.enrollment_id = e.id AND p.status <> 'COMPLETED'
			) AS ok
		 ) caught_up
		 WHERE e.course_id = $1
		 ON CONFLICT (enrollment_id, lesson_id) DO NOTHING`,
		courseID, lessonID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteTx marks a lesson COMPLETED inside the caller's transaction,
// recording the passing score.
func (r *ProgressRepository) CompleteTx(ctx context.Context, tx pgx.Tx, enrollmentID, lessonID uuid.UUID, score int) error {
	_, err := tx.Exec(ctx,
		`UPDATE lesson_progress
		 SET status = 'COMPLETED', completed_at = NOW(),
		     attempts_used = attempts_used + 1, last_attempt_score = $3
		 WHERE enrollment_id = $1 AND lesson_id = $2`,
		enrollmentID, lessonID, score)
	return err
}

// RecordFailTx books a failed attempt on a lesson inside the caller's
// transaction without changing its unlock state.
func (r *ProgressRepository) RecordFailTx(ctx context.Context, tx pgx.Tx, enrollmentID, lessonID uuid.UUID, score int) error {
	_, err := tx.Exec(ctx,
		`UPDATE lesson_progress
		 SET attempts_used = attempts_used + 1, last_attempt_score = $3
		 WHERE enrollment_id = $1 AND lesson_id = $2`,
		enrollmentID, lessonID, score)
	return err
}

// UnlockTx promotes a lesson from LOCKED to UNLOCKED inside the caller's
// transaction. Already unlocked or completed lessons are left alone.
func (r *ProgressRepository) UnlockTx(ctx context.Context, tx pgx.Tx, enrollmentID, lessonID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE lesson_progress
		 SET status = 'UNLOCKED', unlocked_at = NOW()
		 WHERE enrollment_id = $1 AND lesson_id = $2 AND status = 'LOCKED'`,
		enrollmentID, lessonID)
	return err
}

// DeleteByEnrollmentTx removes all progress rows of an enrollment inside the
// caller's transaction. Used by course restart.
func (r *ProgressRepository) DeleteByEnrollmentTx(ctx context.Context, tx pgx.Tx, enrollmentID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM lesson_progress WHERE enrollment_id = $1`, enrollmentID)
	return err
}
