package models

import "gorm.io/gorm"

// Migrate runs AutoMigrate for every report-visible table. Order matters for
// foreign key creation.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Environment{},
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&QuestionType{},
		&Question{},
		&Answer{},
		&Form{},
		&FormQuestion{},
		&FormAnswer{},
		&FormAssignment{},
		&FormSubmission{},
		&AnswerSubmitted{},
		&Attachment{},
		&ReportTemplate{},
		&TokenBlocklist{},
	)
}
