package service

import (
	"context"
	"fmt"

	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/repository"
)

// AdminService handles admin account business logic.
type AdminService struct {
	adminRepo *repository.AdminRepository
	authSvc   *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, authSvc *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, authSvc: authSvc}
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// GetByEmail retrieves an admin and their password hash by email.
func (s *AdminService) GetByEmail(ctx context.Context, email string) (*model.Admin, string, error) {
	return s.adminRepo.GetByEmail(ctx, email)
}

// Create inserts an admin with a hashed password. Used by the create-admin
// command.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.adminRepo.Create(ctx, admin, hash)
}
