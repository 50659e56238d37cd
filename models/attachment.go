package models

import "time"

type Attachment struct {
	ID                int        `gorm:"primary_key" json:"id"`
	FormSubmissionId  int        `gorm:"index;not null" json:"form_submission_id"`
	FileType          string     `gorm:"size:50" json:"file_type"`
	FilePath          string     `gorm:"size:512;not null" json:"file_path"`
	IsSignature       bool       `gorm:"not null;default:false" json:"is_signature"`
	SignaturePosition string     `gorm:"size:100" json:"signature_position"`
	SignatureAuthor   string     `gorm:"size:100" json:"signature_author"`
	IsDeleted         bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt         *time.Time `json:"deleted_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	FormSubmission *FormSubmission `gorm:"foreignKey:FormSubmissionId" json:"form_submission,omitempty"`
}
