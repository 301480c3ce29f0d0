package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	"github.com/handharbeni/notaryflow-backend/pkg/pagination"
)

// ListParams filters and paginates custody requests.
type ListParams struct {
	Statuses    []enums.RequestStatus
	RequesterID *uuid.UUID
	DocumentID  *uuid.UUID
	Page        pagination.Params
}

// Repository exposes persistence helpers for custody requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.CustodyRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustodyRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CustodyRequest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params ListParams) ([]models.CustodyRequest, int64, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.CustodyRequest, error)
}

type repository struct {
	db *gorm.DB
	tx bool
}

// NewRepository returns a requests repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, tx: true}
}

func (r *repository) Create(ctx context.Context, request *models.CustodyRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustodyRequest, error) {
	var request models.CustodyRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForUpdate locks the request row for the rest of the
// transaction. Callers must be inside WithTx.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.CustodyRequest, error) {
	if !r.tx {
		return nil, errors.New("transaction required")
	}
	var request models.CustodyRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CustodyRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.CustodyRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustodyRequest{})
	if len(params.Statuses) > 0 {
		query = query.Where("status IN ?", params.Statuses)
	}
	if params.RequesterID != nil {
		query = query.Where("requester_id = ?", *params.RequesterID)
	}
	if params.DocumentID != nil {
		query = query.Where("document_id = ?", *params.DocumentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	norm := pagination.Normalize(params.Page)
	var rows []models.CustodyRequest
	err := query.
		Order("request_timestamp DESC, id DESC").
		Offset(params.Page.Offset()).
		Limit(norm.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListOverdue returns checked-out requests whose expected return date has
// passed as of the given instant.
func (r *repository) ListOverdue(ctx context.Context, asOf time.Time) ([]models.CustodyRequest, error) {
	var rows []models.CustodyRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND expected_return_date IS NOT NULL AND expected_return_date < ?", enums.RequestStatusCheckedOut, asOf).
		Order("expected_return_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
