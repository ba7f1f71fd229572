package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tombola/api/internal/model"
)

// AdminRepository defines the interface for the admin settings singleton
type AdminRepository interface {
	Get(ctx context.Context) (*model.AdminSettings, error)
	Create(ctx context.Context, adminID string) (*model.AdminSettings, error)
	SetAdmin(ctx context.Context, adminID string) (*model.AdminSettings, error)
}

// AdminService handles the admin registry: one-time initialization
// against the deploy-time bootstrap secret, and rotation by the
// current admin.
type AdminService struct {
	repo AdminRepository
	// bootstrapHash is the bcrypt hash of the bootstrap secret,
	// injected from configuration. The plaintext secret is never
	// stored.
	bootstrapHash string
}

// AdminServiceConfig holds configuration for the admin service
type AdminServiceConfig struct {
	Repo          AdminRepository
	BootstrapHash string
}

// NewAdminService creates a new admin service
func NewAdminService(cfg AdminServiceConfig) *AdminService {
	return &AdminService{
		repo:          cfg.Repo,
		bootstrapHash: cfg.BootstrapHash,
	}
}

// InitAdmin initializes the admin registry. The caller proves deploy
// authority with the bootstrap secret; the registry can only ever be
// created once.
func (s *AdminService) InitAdmin(ctx context.Context, req *model.InitAdminRequest) (*model.AdminSettings, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.bootstrapHash), []byte(req.BootstrapSecret)); err != nil {
		return nil, ErrInvalidBootstrapSecret
	}

	existing, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin settings: %w", err)
	}
	if existing != nil {
		return nil, ErrAdminAlreadyInitialized
	}

	settings, err := s.repo.Create(ctx, req.AdminID)
	if err != nil {
		// A concurrent init may have won the race on the fixed record ID.
		return nil, ErrAdminAlreadyInitialized
	}

	return settings, nil
}

// SetAdmin rotates the registered admin identity. Only the current
// admin may rotate.
func (s *AdminService) SetAdmin(ctx context.Context, callerID string, req *model.SetAdminRequest) (*model.AdminSettings, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin settings: %w", err)
	}
	if settings == nil {
		return nil, ErrAdminNotInitialized
	}
	if settings.AdminID != callerID {
		return nil, ErrNotAdmin
	}

	updated, err := s.repo.SetAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, fmt.Errorf("failed to set admin: %w", err)
	}

	return updated, nil
}

// Get retrieves the current admin settings
func (s *AdminService) Get(ctx context.Context) (*model.AdminSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin settings: %w", err)
	}
	if settings == nil {
		return nil, ErrAdminNotInitialized
	}
	return settings, nil
}
