package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// fallbackDisplayName is used when the referenced user row is missing.
// Cosmetic lookups must never fail a custody transaction.
const fallbackDisplayName = "someone"

// Directory resolves user ids into directory data for notifications and
// ledger text.
type Directory interface {
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	PrivilegedUsers(ctx context.Context) ([]models.User, error)
}

type directory struct {
	repo Repository
}

// NewDirectory wires the directory service with the provided repository.
func NewDirectory(repo Repository) (Directory, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &directory{repo: repo}, nil
}

func (d *directory) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	if id == uuid.Nil {
		return fallbackDisplayName, nil
	}
	user, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return fallbackDisplayName, nil
	}
	name := user.DisplayName()
	if name == "" {
		return fallbackDisplayName, nil
	}
	return name, nil
}

func (d *directory) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.repo.FindByID(ctx, id)
}

// PrivilegedUsers returns the admins and front desk staff who receive
// request notifications.
func (d *directory) PrivilegedUsers(ctx context.Context) ([]models.User, error) {
	return d.repo.ListByRoles(ctx, []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleFrontDesk})
}
