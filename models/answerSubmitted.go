package models

import "time"

// AnswerSubmitted keeps a denormalized copy of the question text and type so
// submissions stay readable after the form definition changes.
type AnswerSubmitted struct {
	ID               int        `gorm:"primary_key" json:"id"`
	FormSubmissionId int        `gorm:"index;not null" json:"form_submission_id"`
	Question         string     `gorm:"type:text;not null" json:"question"`
	QuestionType     string     `gorm:"size:50" json:"question_type"`
	Answer           string     `gorm:"type:text" json:"answer"`
	Column           *int       `gorm:"column:column" json:"column"`
	Row              *int       `gorm:"column:row" json:"row"`
	CellContent      string     `gorm:"type:text" json:"cell_content"`
	IsDeleted        bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedAt        *time.Time `json:"deleted_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	FormSubmission *FormSubmission `gorm:"foreignKey:FormSubmissionId" json:"form_submission,omitempty"`
}

// table name stays answers_submitted, not the pluralizer's answer_submitteds
func (AnswerSubmitted) TableName() string { return "answers_submitted" }
