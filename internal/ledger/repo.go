package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
)

// Repository manages persistence for the append-only custody ledger.
// There is deliberately no update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entry *models.CustodyLogEntry) error
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error)
}

type repository struct {
	db *gorm.DB
	tx bool
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, tx: true}
}

// Append inserts a ledger row. It requires a transaction so a failed
// insert aborts the enclosing custody change.
func (r *repository) Append(ctx context.Context, entry *models.CustodyLogEntry) error {
	if !r.tx {
		return errors.New("transaction required")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error) {
	var entries []models.CustodyLogEntry
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
