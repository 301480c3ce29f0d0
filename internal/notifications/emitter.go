package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// EmitInput describes one in-app notification to write.
type EmitInput struct {
	UserID            uuid.UUID
	Type              enums.NotificationType
	Title             string
	Message           string
	RelatedDocumentID *uuid.UUID
	RelatedRequestID  *uuid.UUID
}

// Emitter writes notification rows inside the caller's transaction so a
// rolled-back custody change never leaves a notification behind.
type Emitter interface {
	Emit(ctx context.Context, tx *gorm.DB, input EmitInput) error
}

type emitter struct {
	repo Repository
}

// NewEmitter wires the transactional notification writer.
func NewEmitter(repo Repository) (Emitter, error) {
	if repo == nil {
		return nil, errors.New("notifications repository required")
	}
	return &emitter{repo: repo}, nil
}

func (e *emitter) Emit(ctx context.Context, tx *gorm.DB, input EmitInput) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if input.UserID == uuid.Nil {
		return errors.New("user id required")
	}
	if !input.Type.IsValid() {
		return errors.New("invalid notification type")
	}

	row := &models.Notification{
		ID:                uuid.New(),
		UserID:            input.UserID,
		Type:              input.Type,
		Title:             input.Title,
		Message:           input.Message,
		RelatedDocumentID: input.RelatedDocumentID,
		RelatedRequestID:  input.RelatedRequestID,
	}
	return e.repo.WithTx(tx).Create(ctx, row)
}
