package models

import "time"

type FormAssignment struct {
	ID         int        `gorm:"primary_key" json:"id"`
	FormId     int        `gorm:"index;not null" json:"form_id"`
	EntityName string     `gorm:"index;size:100;not null" json:"entity_name"`
	EntityId   int        `gorm:"index;not null" json:"entity_id"`
	IsDeleted  bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Form *Form `gorm:"foreignKey:FormId" json:"form,omitempty"`
}
