package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
)

// ErrEmailTaken is returned when a registration reuses an existing email.
var ErrEmailTaken = errors.New("email already registered")

// StudentService handles student account business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	authSvc     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, authSvc *AuthService) *StudentService {
	return &StudentService{studentRepo: studentRepo, authSvc: authSvc}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a student and their password hash by email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, string, error) {
	return s.studentRepo.GetByEmail(ctx, email)
}

// Register creates a student account with a hashed password.
func (s *StudentService) Register(ctx context.Context, req model.RegisterStudentRequest) (*model.Student, error) {
	exists, err := s.studentRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.authSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{Name: req.Name, Email: req.Email}
	if err := s.studentRepo.Create(ctx, student, hash); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}
