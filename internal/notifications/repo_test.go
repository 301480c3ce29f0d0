package notifications

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
	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	"github.com/handharbeni/notaryflow-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	notificationsTable := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  related_document_id TEXT,
  related_request_id TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(notificationsTable).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, at time.Time, read bool) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationTypeCustodyRequested,
		Title:     "Custody requested",
		Message:   "A custody request is waiting for review.",
		CreatedAt: at,
	}
	if read {
		readAt := at.Add(time.Minute)
		notification.ReadAt = &readAt
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestRepositoryListScopedToUser(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	older := seedNotification(t, db, userID, base, true)
	newer := seedNotification(t, db, userID, base.Add(10*time.Minute), false)
	seedNotification(t, db, uuid.New(), base.Add(20*time.Minute), false)

	rows, total, err := repo.List(ctx, listNotificationsParams{
		UserID: userID,
		Page:   pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)

	rows, total, err = repo.List(ctx, listNotificationsParams{
		UserID:     userID,
		Page:       pagination.Params{Page: 1, Limit: 10},
		UnreadOnly: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	notification := seedNotification(t, db, userID, time.Now().UTC(), false)
	now := time.Now().UTC()

	mark, err := repo.MarkRead(ctx, userID, notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	// Second call finds the row but updates nothing.
	mark, err = repo.MarkRead(ctx, userID, notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)

	// Another user cannot touch the row.
	mark, err = repo.MarkRead(ctx, uuid.New(), notification.ID, now)
	require.NoError(t, err)
	assert.False(t, mark.Found)

	mark, err = repo.MarkRead(ctx, userID, uuid.New(), now)
	require.NoError(t, err)
	assert.False(t, mark.Found)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	seedNotification(t, db, userID, base, false)
	seedNotification(t, db, userID, base.Add(time.Minute), false)
	seedNotification(t, db, userID, base.Add(2*time.Minute), true)
	seedNotification(t, db, uuid.New(), base.Add(3*time.Minute), false)

	count, err := repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, total, err := repo.List(ctx, listNotificationsParams{
		UserID:     userID,
		Page:       pagination.Params{Page: 1, Limit: 10},
		UnreadOnly: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestEmitterWritesInsideTransaction(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	emitter, err := NewEmitter(repo)
	require.NoError(t, err)
	ctx := context.Background()

	userID := uuid.New()
	documentID := uuid.New()

	err = emitter.Emit(ctx, nil, EmitInput{
		UserID:  userID,
		Type:    enums.NotificationTypeCustodyRequested,
		Title:   "Custody requested",
		Message: "A custody request is waiting for review.",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction required")

	err = db.Transaction(func(tx *gorm.DB) error {
		return emitter.Emit(ctx, tx, EmitInput{
			UserID:            userID,
			Type:              enums.NotificationTypeCustodyRequested,
			Title:             "Custody requested",
			Message:           "A custody request is waiting for review.",
			RelatedDocumentID: &documentID,
		})
	})
	require.NoError(t, err)

	rows, total, err := repo.List(ctx, listNotificationsParams{
		UserID: userID,
		Page:   pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].RelatedDocumentID)
	assert.Equal(t, documentID, *rows[0].RelatedDocumentID)
}
