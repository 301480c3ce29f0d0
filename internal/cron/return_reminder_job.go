package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/internal/notifications"
	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type overdueRequestsRepo interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.CustodyRequest, error)
}

type documentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

type ReturnReminderJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Requests  overdueRequestsRepo
	Documents documentReader
	Emitter   notifications.Emitter
}

// NewReturnReminderJob builds the job that nags holders of overdue documents.
func NewReturnReminderJob(params ReturnReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if params.Documents == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("notifications emitter required")
	}
	return &returnReminderJob{
		logg:      params.Logger,
		db:        params.DB,
		requests:  params.Requests,
		documents: params.Documents,
		emitter:   params.Emitter,
		now:       time.Now,
	}, nil
}

type returnReminderJob struct {
	logg      *logger.Logger
	db        txRunner
	requests  overdueRequestsRepo
	documents documentReader
	emitter   notifications.Emitter
	now       func() time.Time
}

func (j *returnReminderJob) Name() string { return "return-reminder" }

func (j *returnReminderJob) Run(ctx context.Context) error {
	asOf := j.now().UTC()
	overdue, err := j.requests.ListOverdue(ctx, asOf)
	if err != nil {
		return fmt.Errorf("list overdue requests: %w", err)
	}
	if len(overdue) == 0 {
		j.logg.Info(ctx, "no overdue documents")
		return nil
	}

	var reminded int
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, request := range overdue {
			title := "Document return overdue"
			message := fmt.Sprintf("A document you checked out was due back on %s.",
				request.ExpectedReturnDate.Format("January 2, 2006"))
			document, err := j.documents.FindByID(ctx, request.DocumentID)
			if err != nil {
				lookupCtx := j.logg.WithField(ctx, "document_id", request.DocumentID.String())
				j.logg.Warn(j.logg.WithField(lookupCtx, "error", err.Error()), "document lookup failed, sending generic reminder")
			}
			if document != nil {
				message = fmt.Sprintf("%q was due back on %s. Please return it to the office.",
					document.Title, request.ExpectedReturnDate.Format("January 2, 2006"))
			}
			documentID := request.DocumentID
			requestID := request.ID
			if err := j.emitter.Emit(ctx, tx, notifications.EmitInput{
				UserID:            request.RequesterID,
				Type:              enums.NotificationTypeReturnOverdue,
				Title:             title,
				Message:           message,
				RelatedDocumentID: &documentID,
				RelatedRequestID:  &requestID,
			}); err != nil {
				return err
			}
			reminded++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("return reminders: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":     asOf,
		"reminders": reminded,
	})
	j.logg.Info(logCtx, "return reminders sent")
	return nil
}
