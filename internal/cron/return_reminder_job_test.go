package cron

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/internal/notifications"
	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	"github.com/handharbeni/notaryflow-backend/pkg/logger"
)

type fakeOverdueRepo struct {
	rows []models.CustodyRequest
	err  error
}

func (f *fakeOverdueRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]models.CustodyRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeDocumentReader struct {
	documents map[uuid.UUID]*models.Document
	err       error
}

func (f *fakeDocumentReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.documents[id], nil
}

type fakeEmitter struct {
	inputs []notifications.EmitInput
	err    error
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *gorm.DB, input notifications.EmitInput) error {
	if f.err != nil {
		return f.err
	}
	f.inputs = append(f.inputs, input)
	return nil
}

type reminderFakeTxRunner struct{}

func (reminderFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newReturnReminderJob(t *testing.T, repo *fakeOverdueRepo, docs *fakeDocumentReader, emitter *fakeEmitter) *returnReminderJob {
	t.Helper()
	jobIface, err := NewReturnReminderJob(ReturnReminderJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		DB:        reminderFakeTxRunner{},
		Requests:  repo,
		Documents: docs,
		Emitter:   emitter,
	})
	if err != nil {
		t.Fatalf("NewReturnReminderJob: %v", err)
	}
	job, ok := jobIface.(*returnReminderJob)
	if !ok {
		t.Fatalf("expected returnReminderJob, got %T", jobIface)
	}
	return job
}

func TestReturnReminderJobNotifiesOverdueHolders(t *testing.T) {
	documentID := uuid.New()
	requesterID := uuid.New()
	dueDate := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	repo := &fakeOverdueRepo{rows: []models.CustodyRequest{{
		ID:                 uuid.New(),
		DocumentID:         documentID,
		RequesterID:        requesterID,
		Status:             enums.RequestStatusCheckedOut,
		ExpectedReturnDate: &dueDate,
	}}}
	docs := &fakeDocumentReader{documents: map[uuid.UUID]*models.Document{
		documentID: {ID: documentID, Title: "Deed of Sale 2024-118"},
	}}
	emitter := &fakeEmitter{}

	job := newReturnReminderJob(t, repo, docs, emitter)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(emitter.inputs) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(emitter.inputs))
	}
	input := emitter.inputs[0]
	if input.UserID != requesterID {
		t.Fatalf("reminder went to %s, want requester", input.UserID)
	}
	if input.Type != enums.NotificationTypeReturnOverdue {
		t.Fatalf("unexpected type %s", input.Type)
	}
	if !strings.Contains(input.Message, "Deed of Sale 2024-118") {
		t.Fatalf("message should name the document: %q", input.Message)
	}
	if !strings.Contains(input.Message, "August 14, 2026") {
		t.Fatalf("message should name the due date: %q", input.Message)
	}
}

func TestReturnReminderJobFallsBackWhenLookupFails(t *testing.T) {
	dueDate := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	repo := &fakeOverdueRepo{rows: []models.CustodyRequest{{
		ID:                 uuid.New(),
		DocumentID:         uuid.New(),
		RequesterID:        uuid.New(),
		Status:             enums.RequestStatusCheckedOut,
		ExpectedReturnDate: &dueDate,
	}}}
	docs := &fakeDocumentReader{err: errors.New("connection reset")}
	emitter := &fakeEmitter{}

	var buf bytes.Buffer
	jobIface, err := NewReturnReminderJob(ReturnReminderJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: &buf}),
		DB:        reminderFakeTxRunner{},
		Requests:  repo,
		Documents: docs,
		Emitter:   emitter,
	})
	if err != nil {
		t.Fatalf("NewReturnReminderJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(emitter.inputs) != 1 {
		t.Fatalf("expected generic reminder despite lookup failure, got %d", len(emitter.inputs))
	}
	if !strings.Contains(emitter.inputs[0].Message, "due back on August 14, 2026") {
		t.Fatalf("unexpected fallback message: %q", emitter.inputs[0].Message)
	}
	if !strings.Contains(buf.String(), "document lookup failed") {
		t.Fatalf("lookup failure should be logged, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("log should carry the underlying error, got: %s", buf.String())
	}
}

func TestReturnReminderJobNoOverdueRequests(t *testing.T) {
	emitter := &fakeEmitter{}
	job := newReturnReminderJob(t, &fakeOverdueRepo{}, &fakeDocumentReader{}, emitter)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(emitter.inputs) != 0 {
		t.Fatalf("expected no reminders, got %d", len(emitter.inputs))
	}
}

func TestReturnReminderJobPropagatesErrors(t *testing.T) {
	job := newReturnReminderJob(t, &fakeOverdueRepo{err: errors.New("boom")}, &fakeDocumentReader{}, &fakeEmitter{})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	dueDate := time.Now().UTC().Add(-24 * time.Hour)
	repo := &fakeOverdueRepo{rows: []models.CustodyRequest{{
		ID:                 uuid.New(),
		DocumentID:         uuid.New(),
		RequesterID:        uuid.New(),
		Status:             enums.RequestStatusCheckedOut,
		ExpectedReturnDate: &dueDate,
	}}}
	job = newReturnReminderJob(t, repo, &fakeDocumentReader{}, &fakeEmitter{err: errors.New("insert failed")})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected emit failure to surface")
	}
}
