package models

import "time"

type Answer struct {
	ID        int        `gorm:"primary_key" json:"id"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	Remarks   string     `gorm:"type:text" json:"remarks"`
	IsDeleted bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
