package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// AttemptRepository handles quiz attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, quiz_id, student_id, attempt_number, status, started_at,
	submitted_at, duration_seconds, score_percent, correct_count, wrong_count`

func scanAttempt(row pgx.Row) (*model.QuizAttempt, error) {
	a := &model.QuizAttempt{}
	err := row.Scan(
		&a.ID, &a.QuizID, &a.StudentID, &a.AttemptNumber, &a.Status, &a.StartedAt,
		&a.SubmittedAt, &a.DurationSeconds, &a.ScorePercent, &a.CorrectCount, &a.WrongCount,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an attempt by ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM quiz_attempts WHERE id = $1`, id))
}

// GetInProgress retrieves the student's open attempt on a quiz, if any.
// The partial unique index guarantees at most one row matches.
func (r *AttemptRepository) GetInProgress(ctx context.Context, quizID uuid.UUID, studentID int) (*model.QuizAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM quiz_attempts
		 WHERE quiz_id = $1 AND student_id = $2 AND status = 'IN_PROGRESS'`,
		quizID, studentID))
}

// CountTerminal counts the student's finished attempts on a quiz. Only
// terminal attempts consume the retry budget.
func (r *AttemptRepository) CountTerminal(ctx context.Context, quizID uuid.UUID, studentID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_attempts
		 WHERE quiz_id = $1 AND student_id = $2 AND status IN ('PASSED', 'FAILED')`,
		quizID, studentID,
	).Scan(&count)
	return count, err
}

// HasPassed reports whether the student has any passed attempt on a quiz.
func (r *AttemptRepository) HasPassed(ctx context.Context, quizID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM quiz_attempts
		 WHERE quiz_id = $1 AND student_id = $2 AND status = 'PASSED')`,
		quizID, studentID,
	).Scan(&exists)
	return exists, err
}

// Create opens a new IN_PROGRESS attempt, numbering it after all prior
// attempts of the pair. The partial unique index rejects a concurrent open.
func (r *AttemptRepository) Create(ctx context.Context, quizID uuid.UUID, studentID int) (*model.QuizAttempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (quiz_id, student_id, attempt_number, status)
		 SELECT $1, $2, COALESCE(MAX(attempt_number), 0) + 1, 'IN_PROGRESS'
		 FROM quiz_attempts WHERE quiz_id = $1 AND student_id = $2
		 RETURNING `+attemptColumns, quizID, studentID))
}

// FinalizeExpired closes an attempt whose deadline has passed: FAILED with a
// zero score. The status guard makes concurrent finalization a no-op.
func (r *AttemptRepository) FinalizeExpired(ctx context.Context, attemptID uuid.UUID, durationSeconds int) (*model.QuizAttempt, error) {
	a, err := scanAttempt(r.pool.QueryRow(ctx,
		`UPDATE quiz_attempts
		 SET status = 'FAILED', submitted_at = NOW(), duration_seconds = $2,
		     score_percent = 0, correct_count = 0, wrong_count = 0
		 WHERE id = $1 AND status = 'IN_PROGRESS'
		 RETURNING `+attemptColumns, attemptID, durationSeconds))
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race; return whatever terminal state won.
		return r.GetByID(ctx, attemptID)
	}
	return a, err
}

// FinalizeScoredTx closes an attempt with its grading outcome inside the
// caller's transaction. Returns false when the attempt was no longer
// IN_PROGRESS, so the caller can reject a double submit.
func (r *AttemptRepository) FinalizeScoredTx(ctx context.Context, tx pgx.Tx, attemptID uuid.UUID, status model.AttemptStatus, durationSeconds, scorePercent, correctCount, wrongCount int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE quiz_attempts
		 SET status = $2, submitted_at = NOW(), duration_seconds = $3,
		     score_percent = $4, correct_count = $5, wrong_count = $6
		 WHERE id = $1 AND status = 'IN_PROGRESS'`,
		attemptID, status, durationSeconds, scorePercent, correctCount, wrongCount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReplaceAnswersTx rewrites the attempt's answer rows inside the caller's
// transaction.
func (r *AttemptRepository) ReplaceAnswersTx(ctx context.Context, tx pgx.Tx, attemptID uuid.UUID, answers []model.AttemptAnswer) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM attempt_answers WHERE attempt_id = $1`, attemptID); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	for _, ans := range answers {
		_, err := tx.Exec(ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, payload, is_correct)
			 VALUES ($1, $2, $3, $4)`,
			attemptID, ans.QuestionID, ans.Payload, ans.IsCorrect)
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}
	return nil
}

// ListAnswers retrieves the stored answers of an attempt.
func (r *AttemptRepository) ListAnswers(ctx context.Context, attemptID uuid.UUID) ([]model.AttemptAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_id, payload, is_correct
		 FROM attempt_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AttemptAnswer
	for rows.Next() {
		var a model.AttemptAnswer
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.Payload, &a.IsCorrect); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// DeleteByCourseAndStudentTx removes all the student's attempts on the
// course's quizzes inside the caller's transaction. Used by course restart.
func (r *AttemptRepository) DeleteByCourseAndStudentTx(ctx context.Context, tx pgx.Tx, courseID uuid.UUID, studentID int) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM quiz_attempts
		 WHERE student_id = $2
		   AND quiz_id IN (SELECT id FROM quizzes WHERE course_id = $1)`,
		courseID, studentID)
	return err
}
