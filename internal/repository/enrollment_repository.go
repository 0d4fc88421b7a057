package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, student_id, course_id, status, enrolled_at, completed_at`

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.CompletedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateTx inserts a new ACTIVE enrollment inside the caller's transaction.
// The unique (student, course) constraint rejects a duplicate enroll.
func (r *EnrollmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, studentID int, courseID uuid.UUID) (*model.Enrollment, error) {
	return scanEnrollment(tx.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, status)
		 VALUES ($1, $2, 'ACTIVE')
		 RETURNING `+enrollmentColumns, studentID, courseID))
}

// GetByID retrieves an enrollment by ID.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id))
}

// GetByStudentAndCourse retrieves the student's enrollment in a course.
func (r *EnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID int, courseID uuid.UUID) (*model.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE student_id = $1 AND course_id = $2`, studentID, courseID))
}

// ListByStudent retrieves all enrollments of a student, newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE student_id = $1 ORDER BY enrolled_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.CompletedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// MarkCompletedTx sets an enrollment to COMPLETED inside the caller's
// transaction.
func (r *EnrollmentRepository) MarkCompletedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE enrollments SET status = 'COMPLETED', completed_at = NOW()
		 WHERE id = $1 AND status = 'ACTIVE'`, id)
	return err
}

// ReactivateTx resets an enrollment back to ACTIVE inside the caller's
// transaction. Used by course restart.
func (r *EnrollmentRepository) ReactivateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE enrollments SET status = 'ACTIVE', completed_at = NULL, enrolled_at = NOW()
		 WHERE id = $1`, id)
	return err
}
