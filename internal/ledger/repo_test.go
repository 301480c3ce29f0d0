package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/handharbeni/notaryflow-backend/pkg/db/models"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	custodyLog := `
CREATE TABLE IF NOT EXISTS custody_log_entries (
  id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  location TEXT NOT NULL,
  holder_user_id TEXT,
  actor_user_id TEXT NOT NULL,
  change_reason TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(custodyLog).Error)
	return db
}

func TestAppendRequiresTransaction(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	entry := &models.CustodyLogEntry{
		ID:           uuid.New(),
		DocumentID:   uuid.New(),
		Location:     "Archive Room B",
		ActorUserID:  uuid.New(),
		ChangeReason: "initial intake",
	}
	err := repo.Append(context.Background(), entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction required")
}

func TestAppendAndListNewestFirst(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	documentID := uuid.New()
	actorID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	locations := []string{"Archive Room B", "In possession of Maria Santos", "Vault 1"}
	err := db.Transaction(func(tx *gorm.DB) error {
		bound := repo.WithTx(tx)
		for i, location := range locations {
			entry := &models.CustodyLogEntry{
				ID:           uuid.New(),
				DocumentID:   documentID,
				Location:     location,
				ActorUserID:  actorID,
				ChangeReason: "custody change",
				CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			}
			if err := bound.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	entries, err := repo.ListByDocumentID(ctx, documentID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Vault 1", entries[0].Location)
	assert.Equal(t, "Archive Room B", entries[2].Location)

	other, err := repo.ListByDocumentID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAppendFailureAbortsTransaction(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	documentID := uuid.New()
	entryID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		bound := repo.WithTx(tx)
		first := &models.CustodyLogEntry{
			ID:           entryID,
			DocumentID:   documentID,
			Location:     "Vault 1",
			ActorUserID:  uuid.New(),
			ChangeReason: "custody change",
		}
		if err := bound.Append(ctx, first); err != nil {
			return err
		}
		// Duplicate primary key forces the insert to fail.
		dup := &models.CustodyLogEntry{
			ID:           entryID,
			DocumentID:   documentID,
			Location:     "Vault 2",
			ActorUserID:  uuid.New(),
			ChangeReason: "custody change",
		}
		return bound.Append(ctx, dup)
	})
	require.Error(t, err)

	entries, listErr := repo.ListByDocumentID(ctx, documentID)
	require.NoError(t, listErr)
	assert.Empty(t, entries)
}
