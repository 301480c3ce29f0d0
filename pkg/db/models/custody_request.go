package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// CustodyRequest tracks one request through its lifecycle. Requests are
// never deleted; terminal rows remain as history.
type CustodyRequest struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentID            uuid.UUID           `gorm:"column:document_id;type:uuid;not null;index"`
	RequesterID           uuid.UUID           `gorm:"column:requester_id;type:uuid;not null;index"`
	RequestTimestamp      time.Time           `gorm:"column:request_timestamp;not null"`
	Status                enums.RequestStatus `gorm:"column:status;type:request_status;not null;default:'pending_approval'"`
	HandlerUserID         *uuid.UUID          `gorm:"column:handler_user_id;type:uuid"`
	HandledTimestamp      *time.Time          `gorm:"column:handled_timestamp"`
	PickupTimestamp       *time.Time          `gorm:"column:pickup_timestamp"`
	ExpectedReturnDate    *time.Time          `gorm:"column:expected_return_date"`
	ActualReturnTimestamp *time.Time          `gorm:"column:actual_return_timestamp"`
	Notes                 *string             `gorm:"column:notes"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
