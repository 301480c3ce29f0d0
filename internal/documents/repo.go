package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
)

// Repository exposes persistence helpers for documents. Custody columns
// are written exclusively through UpdateCustody by the workflow engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, document *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Document, error)
	UpdateCustody(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx bool
}

// NewRepository returns a documents repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, tx: true}
}

func (r *repository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// FindByIDForUpdate locks the document row for the rest of the
// transaction. Callers must be inside WithTx.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if !r.tx {
		return nil, errors.New("transaction required")
	}
	var document models.Document
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

func (r *repository) UpdateCustody(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
