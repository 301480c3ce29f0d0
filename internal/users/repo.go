package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// Repository exposes read-only access to the user directory.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRoles(ctx context.Context, roles []enums.UserRole) ([]models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindByID loads a user by their UUID. Missing rows return nil, nil.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByRoles returns active users holding any of the given roles.
func (r *repository) ListByRoles(ctx context.Context, roles []enums.UserRole) ([]models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("role IN ? AND is_active = ?", roles, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
