package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lenteraedu/lentera-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, credit_points, created_at, updated_at
		 FROM students WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.CreditPoints, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByEmail retrieves a student and their password hash by email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, string, error) {
	s := &model.Student{}
	var passwordHash string
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, credit_points, password_hash, created_at, updated_at
		 FROM students WHERE email = $1`, email,
	).Scan(&s.ID, &s.Name, &s.Email, &s.CreditPoints, &passwordHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return s, passwordHash, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student, passwordHash string) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Email, passwordHash,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// EmailExists reports whether a student with the given email already exists.
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// AddCreditPointsTx increments a student's reward credit inside the caller's
// transaction. Credits are only ever mutated by quiz submission.
func (r *StudentRepository) AddCreditPointsTx(ctx context.Context, tx pgx.Tx, studentID, points int) error {
	_, err := tx.Exec(ctx,
		`UPDATE students SET credit_points = credit_points + $1, updated_at = NOW()
		 WHERE id = $2`, points, studentID)
	return err
}
