package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/models"
)

func TestFlattenDataNestedAndPivot(t *testing.T) {
	desc, err := Describe("form_submissions")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	envName := "Plant A"
	submitted := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	objects := &[]models.FormSubmission{
		{
			ID:          11,
			SubmittedBy: "tech1",
			SubmittedAt: submitted,
			Form: &models.Form{
				Title:    "Daily Check",
				IsPublic: true,
				Creator: &models.User{
					Username:    "manager1",
					Environment: &models.Environment{Name: envName},
				},
			},
			AnswersSubmitted: []models.AnswerSubmitted{
				{Question: "Shift?", Answer: "Night"},
				{Question: "Shift?", Answer: "Day"},                 // duplicate, first wins
				{Question: "Deleted?", Answer: "x", IsDeleted: true}, // skipped
			},
		},
	}

	columns := []string{
		"id", "submitted_by", "submitted_at",
		"form.title", "form.is_public", "form.creator.environment.name",
		"answers.Shift?", "answers.Missing?",
	}
	records := flattenData(objects, columns, desc)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]

	if rec["id"] != 11 {
		t.Fatalf("id = %v", rec["id"])
	}
	if rec["submitted_at"] != "2024-03-05 14:30:00" {
		t.Fatalf("submitted_at = %v", rec["submitted_at"])
	}
	if rec["form.title"] != "Daily Check" {
		t.Fatalf("form.title = %v", rec["form.title"])
	}
	if rec["form.is_public"] != "Yes" {
		t.Fatalf("booleans must render Yes/No, got %v", rec["form.is_public"])
	}
	if rec["form.creator.environment.name"] != envName {
		t.Fatalf("nested path = %v", rec["form.creator.environment.name"])
	}
	if rec["answers.Shift?"] != "Night" {
		t.Fatalf("first answer must win, got %v", rec["answers.Shift?"])
	}
	if rec["answers.Missing?"] != nil {
		t.Fatalf("missing question must be nil, got %v", rec["answers.Missing?"])
	}
	if _, ok := rec["answers.Deleted?"]; ok {
		t.Fatal("deleted answers must not appear")
	}
}

func TestFlattenDataNilRelationship(t *testing.T) {
	desc, _ := Describe("form_submissions")
	objects := &[]models.FormSubmission{{ID: 1, SubmittedBy: "tech1"}}

	records := flattenData(objects, []string{"id", "form.title"}, desc)
	if records[0]["form.title"] != nil {
		t.Fatalf("nil relationship must flatten to nil, got %v", records[0]["form.title"])
	}
}

func TestFlattenDataEmptySlice(t *testing.T) {
	desc, _ := Describe("users")
	records := flattenData(&[]models.User{}, []string{"id"}, desc)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
