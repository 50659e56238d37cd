package models

import (
	"encoding/json"
	"time"
)

// ReportTemplate stores a saved report request body. Owners and admins can
// always use a template; others only when it is public.
type ReportTemplate struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"index;size:255;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	UserId        *int            `gorm:"index" json:"user_id"`
	IsPublic      bool            `gorm:"not null;default:false" json:"is_public"`
	Configuration json.RawMessage `gorm:"type:json" json:"configuration"`
	IsDeleted     bool            `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt     *time.Time      `json:"deleted_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Owner *User `gorm:"foreignKey:UserId" json:"owner,omitempty"`
}
