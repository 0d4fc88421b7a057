package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Certificate issuance errors.
var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrAttemptNotEligible  = errors.New("attempt does not qualify for a certificate")
)

// IssueCertificatePayload is the outbox message consumed by the certificate
// worker when inline issuance fails.
type IssueCertificatePayload struct {
	AttemptID string `json:"attempt_id"`
}

// CertificateService issues course certificates for passed final quiz
// attempts.
type CertificateService struct {
	rdb         *redis.Client
	attemptRepo *repository.AttemptRepository
	quizRepo    *repository.QuizRepository
	certRepo    *repository.CertificateRepository
	log         zerolog.Logger
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(
	rdb *redis.Client,
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	certRepo *repository.CertificateRepository,
	log zerolog.Logger,
) *CertificateService {
	return &CertificateService{
		rdb:         rdb,
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		certRepo:    certRepo,
		log:         log.With().Str("component", "certificate_service").Logger(),
	}
}

// Generate issues the certificate for a passed final quiz attempt. Repeat
// calls for the same (student, course) return the existing certificate, so
// the worker may safely retry.
func (s *CertificateService) Generate(ctx context.Context, attemptID uuid.UUID) (*model.Certificate, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt.Status != model.AttemptStatusPassed {
		return nil, ErrAttemptNotEligible
	}

	quiz, err := s.quizRepo.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if !quiz.IsFinal {
		return nil, ErrAttemptNotEligible
	}

	cert := &model.Certificate{
		StudentID:    attempt.StudentID,
		CourseID:     quiz.CourseID,
		AttemptID:    attempt.ID,
		SerialNumber: newSerialNumber(),
	}
	return s.certRepo.Create(ctx, cert)
}

// Enqueue pushes an issuance request onto the outbox queue for the worker to
// retry. Used when inline issuance fails after a passed final submit.
func (s *CertificateService) Enqueue(ctx context.Context, attemptID uuid.UUID) {
	raw, _ := json.Marshal(IssueCertificatePayload{AttemptID: attemptID.String()})
	if err := s.rdb.RPush(ctx, config.WorkerKey.IssueCertificatesQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("enqueue certificate issuance failed")
	}
}

// GetForStudent retrieves the student's certificate for a course.
func (s *CertificateService) GetForStudent(ctx context.Context, studentID int, courseID uuid.UUID) (*model.Certificate, error) {
	cert, err := s.certRepo.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, ErrCertificateNotFound
	}
	return cert, nil
}

// ListForStudent retrieves all certificates of a student.
func (s *CertificateService) ListForStudent(ctx context.Context, studentID int) ([]model.Certificate, error) {
	return s.certRepo.ListByStudent(ctx, studentID)
}

// newSerialNumber builds a human-readable certificate serial, e.g.
// LTR-2026-3F9A01BC.
func newSerialNumber() string {
	id := uuid.New().String()
	return fmt.Sprintf("LTR-%d-%s", time.Now().Year(), strings.ToUpper(id[:8]))
}
