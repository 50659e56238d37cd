package models

import "time"

type Question struct {
	ID             int        `gorm:"primary_key" json:"id"`
	Text           string     `gorm:"type:text;not null" json:"text"`
	QuestionTypeId *int       `gorm:"index" json:"question_type_id"`
	IsSignature    bool       `gorm:"not null;default:false" json:"is_signature"`
	Remarks        string     `gorm:"type:text" json:"remarks"`
	IsDeleted      bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	QuestionType *QuestionType `gorm:"foreignKey:QuestionTypeId" json:"question_type,omitempty"`
}
