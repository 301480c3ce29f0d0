package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users.
type Notification struct {
	ID                uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type              enums.NotificationType `gorm:"type:notification_type;not null"`
	Title             string                 `gorm:"type:text;not null"`
	Message           string                 `gorm:"type:text;not null"`
	RelatedDocumentID *uuid.UUID             `gorm:"column:related_document_id;type:uuid"`
	RelatedRequestID  *uuid.UUID             `gorm:"column:related_request_id;type:uuid"`
	ReadAt            *time.Time             `gorm:"type:timestamptz"`
	CreatedAt         time.Time              `gorm:"type:timestamptz;default:now()"`
}
