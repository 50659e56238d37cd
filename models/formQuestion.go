package models

import "time"

type FormQuestion struct {
	ID          int        `gorm:"primary_key" json:"id"`
	FormId      int        `gorm:"index;not null" json:"form_id"`
	QuestionId  int        `gorm:"index;not null" json:"question_id"`
	OrderNumber int        `gorm:"not null;default:0" json:"order_number"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Form     *Form     `gorm:"foreignKey:FormId" json:"form,omitempty"`
	Question *Question `gorm:"foreignKey:QuestionId" json:"question,omitempty"`
}
