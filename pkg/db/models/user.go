package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/handharbeni/notaryflow-backend/pkg/enums"
)

// User represents the canonical identity entity. Credentials live in the
// external identity provider; this table only mirrors directory data.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string         `gorm:"type:text;not null;uniqueIndex"`
	FirstName   string         `gorm:"column:first_name;not null"`
	LastName    string         `gorm:"column:last_name;not null"`
	Role        enums.UserRole `gorm:"column:role;type:user_role;not null;default:'staff'"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName joins the name parts for human-readable text.
func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
