package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/internal/ledger"
	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
)

type stubDocumentsRepo struct {
	rows      map[uuid.UUID]*models.Document
	createErr error
}

func (s *stubDocumentsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDocumentsRepo) Create(ctx context.Context, document *models.Document) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.rows == nil {
		s.rows = map[uuid.UUID]*models.Document{}
	}
	s.rows[document.ID] = document
	return nil
}

func (s *stubDocumentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.rows[id], nil
}

func (s *stubDocumentsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.rows[id], nil
}

func (s *stubDocumentsRepo) UpdateCustody(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubDocumentsRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.rows[id]
	return ok, nil
}

type stubIntakeLedger struct {
	entries []models.CustodyLogEntry
	fail    bool
}

func (s *stubIntakeLedger) WithTx(tx *gorm.DB) ledger.Repository { return s }

func (s *stubIntakeLedger) Append(ctx context.Context, entry *models.CustodyLogEntry) error {
	if s.fail {
		return errors.New("insert failed")
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubIntakeLedger) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]models.CustodyLogEntry, error) {
	return s.entries, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestRegisterCreatesDocumentAndIntakeEntry(t *testing.T) {
	repo := &stubDocumentsRepo{}
	ledgerRepo := &stubIntakeLedger{}
	svc, err := NewService(repo, ledgerRepo, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	actorID := uuid.New()
	document, err := svc.Register(context.Background(), RegisterInput{
		Title:         "Deed of Sale 2024-118",
		ReferenceCode: "DOS-2024-118",
		Location:      "Archive Room B, Shelf 12",
		ActorUserID:   actorID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if document.ID == uuid.Nil {
		t.Fatal("expected generated document id")
	}
	if document.IsRequested {
		t.Fatal("fresh document should not be requested")
	}
	if len(ledgerRepo.entries) != 1 {
		t.Fatalf("expected 1 intake entry, got %d", len(ledgerRepo.entries))
	}
	entry := ledgerRepo.entries[0]
	if entry.DocumentID != document.ID || entry.Location != "Archive Room B, Shelf 12" || entry.ActorUserID != actorID {
		t.Fatalf("unexpected intake entry: %+v", entry)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, err := NewService(&stubDocumentsRepo{}, &stubIntakeLedger{}, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	base := RegisterInput{
		Title:         "Deed of Sale 2024-118",
		ReferenceCode: "DOS-2024-118",
		Location:      "Archive Room B, Shelf 12",
		ActorUserID:   uuid.New(),
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing title", func(in *RegisterInput) { in.Title = " " }},
		{"missing reference", func(in *RegisterInput) { in.ReferenceCode = "" }},
		{"missing location", func(in *RegisterInput) { in.Location = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateReferenceConflicts(t *testing.T) {
	repo := &stubDocumentsRepo{
		createErr: errors.New(`duplicate key value violates unique constraint "idx_documents_reference_code"`),
	}
	svc, err := NewService(repo, &stubIntakeLedger{}, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Title:         "Deed of Sale 2024-118",
		ReferenceCode: "DOS-2024-118",
		Location:      "Archive Room B, Shelf 12",
		ActorUserID:   uuid.New(),
	})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestRegisterLedgerFailureSurfaces(t *testing.T) {
	svc, err := NewService(&stubDocumentsRepo{}, &stubIntakeLedger{fail: true}, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Title:         "Deed of Sale 2024-118",
		ReferenceCode: "DOS-2024-118",
		Location:      "Archive Room B, Shelf 12",
		ActorUserID:   uuid.New(),
	})
	if err == nil {
		t.Fatal("expected ledger failure to surface")
	}
}

func TestGetUnknownDocument(t *testing.T) {
	svc, err := NewService(&stubDocumentsRepo{}, &stubIntakeLedger{}, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}
