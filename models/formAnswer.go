package models

import "time"

type FormAnswer struct {
	ID             int        `gorm:"primary_key" json:"id"`
	FormQuestionId int        `gorm:"index;not null" json:"form_question_id"`
	AnswerId       int        `gorm:"index;not null" json:"answer_id"`
	Remarks        string     `gorm:"type:text" json:"remarks"`
	IsDeleted      bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	FormQuestion *FormQuestion `gorm:"foreignKey:FormQuestionId" json:"form_question,omitempty"`
	Answer       *Answer       `gorm:"foreignKey:AnswerId" json:"answer,omitempty"`
}
