package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// CertificateRepository handles certificate data access.
type CertificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository creates a new CertificateRepository.
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

const certificateColumns = `id, student_id, course_id, attempt_id, serial_number, issued_at`

func scanCertificate(row pgx.Row) (*model.Certificate, error) {
	c := &model.Certificate{}
	err := row.Scan(&c.ID, &c.StudentID, &c.CourseID, &c.AttemptID, &c.SerialNumber, &c.IssuedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create issues a certificate. A repeat issue for the same (student, course)
// returns the existing row unchanged, so the operation is idempotent.
func (r *CertificateRepository) Create(ctx context.Context, c *model.Certificate) (*model.Certificate, error) {
	stored, err := scanCertificate(r.pool.QueryRow(ctx,
		`INSERT INTO certificates (student_id, course_id, attempt_id, serial_number)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, course_id) DO NOTHING
		 RETURNING `+certificateColumns,
		c.StudentID, c.CourseID, c.AttemptID, c.SerialNumber))
	if err == pgx.ErrNoRows {
		return r.GetByStudentAndCourse(ctx, c.StudentID, c.CourseID)
	}
	return stored, err
}

// GetByStudentAndCourse retrieves the student's certificate for a course.
func (r *CertificateRepository) GetByStudentAndCourse(ctx context.Context, studentID int, courseID uuid.UUID) (*model.Certificate, error) {
	return scanCertificate(r.pool.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE student_id = $1 AND course_id = $2`, studentID, courseID))
}

// ListByStudent retrieves all certificates of a student, newest first.
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Certificate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE student_id = $1 ORDER BY issued_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []model.Certificate
	for rows.Next() {
		var c model.Certificate
		if err := rows.Scan(&c.ID, &c.StudentID, &c.CourseID, &c.AttemptID, &c.SerialNumber, &c.IssuedAt); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// DeleteByStudentAndCourseTx removes the student's certificate for a course
// inside the caller's transaction. Used by course restart.
func (r *CertificateRepository) DeleteByStudentAndCourseTx(ctx context.Context, tx pgx.Tx, studentID int, courseID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM certificates WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID)
	return err
}
