package models

import "time"

type Form struct {
	ID                  int        `gorm:"primary_key" json:"id"`
	Title               string     `gorm:"index;size:255;not null" json:"title"`
	Description         string     `gorm:"type:text" json:"description"`
	UserId              *int       `gorm:"index" json:"user_id"`
	IsPublic            bool       `gorm:"not null;default:false" json:"is_public"`
	AttachmentsRequired bool       `gorm:"not null;default:false" json:"attachments_required"`
	IsDeleted           bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt           *time.Time `json:"deleted_at"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Creator       *User            `gorm:"foreignKey:UserId" json:"creator,omitempty"`
	FormQuestions []FormQuestion   `gorm:"foreignKey:FormId" json:"form_questions,omitempty"`
	Submissions   []FormSubmission `gorm:"foreignKey:FormId" json:"submissions,omitempty"`
	Assignments   []FormAssignment `gorm:"foreignKey:FormId" json:"assignments,omitempty"`
}
