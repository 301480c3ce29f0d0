package documents

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

func setupDocumentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	documentsTable := `
CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  reference_code TEXT NOT NULL UNIQUE,
  current_holder_id TEXT,
  current_location TEXT NOT NULL,
  is_requested BOOLEAN NOT NULL DEFAULT FALSE,
  active_requester_id TEXT,
  requested_at DATETIME,
  active_request_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(documentsTable).Error)
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	document := &models.Document{
		ID:              uuid.New(),
		Title:           "Deed of Sale 2024-118",
		ReferenceCode:   "DOS-" + uuid.NewString(),
		CurrentLocation: "Archive Room B, Shelf 12",
	}
	require.NoError(t, repo.Create(ctx, document))

	found, err := repo.FindByID(ctx, document.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, document.ReferenceCode, found.ReferenceCode)
	assert.False(t, found.IsRequested)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := repo.Exists(ctx, document.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryUpdateCustody(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	document := &models.Document{
		ID:              uuid.New(),
		Title:           "Deed of Sale 2024-118",
		ReferenceCode:   "DOS-" + uuid.NewString(),
		CurrentLocation: "Archive Room B, Shelf 12",
	}
	require.NoError(t, repo.Create(ctx, document))

	requesterID := uuid.New()
	requestID := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, repo.UpdateCustody(ctx, document.ID, map[string]any{
		"is_requested":        true,
		"active_requester_id": requesterID,
		"requested_at":        now,
		"active_request_id":   requestID,
	}))

	found, err := repo.FindByID(ctx, document.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsRequested)
	require.NotNil(t, found.ActiveRequesterID)
	assert.Equal(t, requesterID, *found.ActiveRequesterID)
	require.NotNil(t, found.ActiveRequestID)
	assert.Equal(t, requestID, *found.ActiveRequestID)

	require.NoError(t, repo.UpdateCustody(ctx, document.ID, map[string]any{
		"is_requested":        false,
		"active_requester_id": nil,
		"requested_at":        nil,
		"active_request_id":   nil,
	}))

	found, err = repo.FindByID(ctx, document.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.IsRequested)
	assert.Nil(t, found.ActiveRequesterID)
	assert.Nil(t, found.ActiveRequestID)

	// Empty update map is a no-op, not an error.
	require.NoError(t, repo.UpdateCustody(ctx, document.ID, nil))
}

func TestFindByIDForUpdateRequiresTransaction(t *testing.T) {
	db := setupDocumentsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByIDForUpdate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction required")
}
