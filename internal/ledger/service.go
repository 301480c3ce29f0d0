package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
)

// Service defines operations that record custody log entries.
type Service interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.CustodyLogEntry, error)
	History(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data a ledger entry requires.
type RecordEntryInput struct {
	DocumentID   uuid.UUID
	Location     string
	HolderUserID *uuid.UUID
	ActorUserID  uuid.UUID
	ChangeReason string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.CustodyLogEntry, error) {
	if input.DocumentID == uuid.Nil {
		return nil, fmt.Errorf("document id is required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, fmt.Errorf("actor user id is required")
	}
	if input.Location == "" {
		return nil, fmt.Errorf("location is required")
	}
	if input.ChangeReason == "" {
		return nil, fmt.Errorf("change reason is required")
	}

	entry := &models.CustodyLogEntry{
		DocumentID:   input.DocumentID,
		Location:     input.Location,
		HolderUserID: input.HolderUserID,
		ActorUserID:  input.ActorUserID,
		ChangeReason: input.ChangeReason,
	}

	if err := s.repo.WithTx(tx).Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) History(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error) {
	if documentID == uuid.Nil {
		return nil, fmt.Errorf("document id is required")
	}
	return s.repo.ListByDocumentID(ctx, documentID)
}
