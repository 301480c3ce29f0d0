package models

import (
	"time"

	"github.com/google/uuid"
)

// Document carries the denormalized custody projection alongside the
// descriptive fields. Custody columns are written only by the workflow
// engine.
type Document struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title             string     `gorm:"column:title;type:text;not null"`
	ReferenceCode     string     `gorm:"column:reference_code;type:text;not null;uniqueIndex"`
	CurrentHolderID   *uuid.UUID `gorm:"column:current_holder_id;type:uuid"`
	CurrentLocation   string     `gorm:"column:current_location;type:text;not null"`
	IsRequested       bool       `gorm:"column:is_requested;not null;default:false"`
	ActiveRequesterID *uuid.UUID `gorm:"column:active_requester_id;type:uuid"`
	RequestedAt       *time.Time `gorm:"column:requested_at"`
	ActiveRequestID   *uuid.UUID `gorm:"column:active_request_id;type:uuid"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
