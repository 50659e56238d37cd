package models

import "time"

type QuestionType struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Type      string    `gorm:"index;size:50;not null" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuestionTypeId" json:"questions,omitempty"`
}
