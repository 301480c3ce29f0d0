package documents

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/internal/ledger"
	dbpkg "github.com/handharbeni/notaryflow-backend/pkg/db"
	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service registers documents into the archive and reads them back.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// RegisterInput captures a new physical document entering the office.
type RegisterInput struct {
	Title         string
	ReferenceCode string
	Location      string
	ActorUserID   uuid.UUID
}

type service struct {
	repo   Repository
	ledger ledger.Repository
	tx     txRunner
}

// NewService wires the documents service.
func NewService(repo Repository, ledgerRepo ledger.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "documents repository required")
	}
	if ledgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, ledger: ledgerRepo, tx: tx}, nil
}

// Register creates the document row and its intake ledger entry in one
// transaction, so every document has a location history from day one.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Document, error) {
	title := strings.TrimSpace(input.Title)
	reference := strings.TrimSpace(input.ReferenceCode)
	location := strings.TrimSpace(input.Location)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference code required")
	}
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	document := &models.Document{
		ID:              uuid.New(),
		Title:           title,
		ReferenceCode:   reference,
		CurrentLocation: location,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, document); err != nil {
			if dbpkg.IsUniqueViolation(err, "idx_documents_reference_code") || dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "reference code already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document")
		}
		entry := &models.CustodyLogEntry{
			ID:           uuid.New(),
			DocumentID:   document.ID,
			Location:     location,
			ActorUserID:  input.ActorUserID,
			ChangeReason: "Document registered",
		}
		if err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record intake entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id required")
	}
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	if document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}
	return document, nil
}
