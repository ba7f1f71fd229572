package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tombola/api/internal/model"
)

func bootstrapHash(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash secret: %v", err)
	}
	return string(hash)
}

func TestInitAdmin_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          &mockAdminRepo{},
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	settings, err := svc.InitAdmin(ctx, &model.InitAdminRequest{
		BootstrapSecret: "s3cret",
		AdminID:         "user:admin",
	})
	if err != nil {
		t.Fatalf("InitAdmin() error: %v", err)
	}
	if settings.AdminID != "user:admin" {
		t.Errorf("AdminID = %q, want user:admin", settings.AdminID)
	}
}

func TestInitAdmin_WrongSecret(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          &mockAdminRepo{},
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	_, err := svc.InitAdmin(ctx, &model.InitAdminRequest{
		BootstrapSecret: "guess",
		AdminID:         "user:admin",
	})
	if !errors.Is(err, ErrInvalidBootstrapSecret) {
		t.Errorf("expected ErrInvalidBootstrapSecret, got %v", err)
	}
}

func TestInitAdmin_AlreadyInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          adminRepoWithAdmin(),
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	_, err := svc.InitAdmin(ctx, &model.InitAdminRequest{
		BootstrapSecret: "s3cret",
		AdminID:         "user:other",
	})
	if !errors.Is(err, ErrAdminAlreadyInitialized) {
		t.Errorf("expected ErrAdminAlreadyInitialized, got %v", err)
	}
}

func TestSetAdmin_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          adminRepoWithAdmin(),
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	settings, err := svc.SetAdmin(ctx, adminID, &model.SetAdminRequest{AdminID: "user:next"})
	if err != nil {
		t.Fatalf("SetAdmin() error: %v", err)
	}
	if settings.AdminID != "user:next" {
		t.Errorf("AdminID = %q, want user:next", settings.AdminID)
	}
}

func TestSetAdmin_NotCurrentAdmin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          adminRepoWithAdmin(),
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	_, err := svc.SetAdmin(ctx, "user:rando", &model.SetAdminRequest{AdminID: "user:rando"})
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("expected ErrNotAdmin, got %v", err)
	}
}

func TestSetAdmin_NotInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewAdminService(AdminServiceConfig{
		Repo:          &mockAdminRepo{},
		BootstrapHash: bootstrapHash(t, "s3cret"),
	})

	_, err := svc.SetAdmin(ctx, adminID, &model.SetAdminRequest{AdminID: "user:next"})
	if !errors.Is(err, ErrAdminNotInitialized) {
		t.Errorf("expected ErrAdminNotInitialized, got %v", err)
	}
}
