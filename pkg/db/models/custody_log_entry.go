package models

import (
	"time"

	"github.com/google/uuid"
)

// CustodyLogEntry is one row of the append-only custody ledger. Rows are
// inserted inside the same transaction as the state change they record
// and never updated or deleted.
type CustodyLogEntry struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentID   uuid.UUID  `gorm:"column:document_id;type:uuid;not null;index"`
	Location     string     `gorm:"column:location;type:text;not null"`
	HolderUserID *uuid.UUID `gorm:"column:holder_user_id;type:uuid"`
	ActorUserID  uuid.UUID  `gorm:"column:actor_user_id;type:uuid;not null"`
	ChangeReason string     `gorm:"column:change_reason;type:text;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
