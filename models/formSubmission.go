package models

import "time"

type FormSubmission struct {
	ID          int        `gorm:"primary_key" json:"id"`
	FormId      int        `gorm:"index;not null" json:"form_id"`
	SubmittedBy string     `gorm:"index;size:100;not null" json:"submitted_by"`
	SubmittedAt time.Time  `gorm:"index" json:"submitted_at"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Form             *Form             `gorm:"foreignKey:FormId" json:"form,omitempty"`
	AnswersSubmitted []AnswerSubmitted `gorm:"foreignKey:FormSubmissionId" json:"answers_submitted,omitempty"`
	Attachments      []Attachment      `gorm:"foreignKey:FormSubmissionId" json:"attachments,omitempty"`
}
