package reports

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"bitbucket.org/mmdatafocus/forms_backend/models"
)

func templateRows(t *testing.T, id int, userId *int, isPublic bool, cfg string) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"id", "name", "user_id", "is_public", "configuration", "is_deleted"})
	rows.AddRow(id, "Weekly Audit", userId, isPublic, []byte(cfg), false)
	return rows
}

func TestLoadTemplateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `report_templates`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := loadTemplate(context.Background(), db, 42, testUser("Admin", true, 3))
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadTemplatePrivateNonOwnerDenied(t *testing.T) {
	db, mock := newMockDB(t)
	owner := 99
	mock.ExpectQuery("SELECT .* FROM `report_templates`").
		WillReturnRows(templateRows(t, 4, &owner, false, `{}`))

	_, err := loadTemplate(context.Background(), db, 4, testUser("Technician", false, 3))
	if !IsKind(err, KindPermission) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
}

func TestLoadTemplateOwnerAllowed(t *testing.T) {
	db, mock := newMockDB(t)
	owner := 7 // testUser's id
	mock.ExpectQuery("SELECT .* FROM `report_templates`").
		WillReturnRows(templateRows(t, 4, &owner, false, `{}`))

	template, err := loadTemplate(context.Background(), db, 4, testUser("Technician", false, 3))
	if err != nil {
		t.Fatalf("loadTemplate: %v", err)
	}
	if template.Name != "Weekly Audit" {
		t.Fatalf("got %q", template.Name)
	}
}

func TestLoadTemplatePublicAllowed(t *testing.T) {
	db, mock := newMockDB(t)
	owner := 99
	mock.ExpectQuery("SELECT .* FROM `report_templates`").
		WillReturnRows(templateRows(t, 4, &owner, true, `{}`))

	if _, err := loadTemplate(context.Background(), db, 4, testUser("Technician", false, 3)); err != nil {
		t.Fatalf("public template must be usable: %v", err)
	}
}

func TestMergeTemplateConfigPrecedence(t *testing.T) {
	cfg := `{
		"report_type": "form_submissions",
		"output_format": "pdf",
		"report_title": "Saved Title",
		"filters": [{"field": "submitted_by", "operator": "eq", "value": "tech1"}],
		"per_entity": {"form_submissions": {"sheet_name": "Saved Sheet"}}
	}`
	template := &models.ReportTemplate{ID: 4, Configuration: json.RawMessage(cfg)}

	id := 4
	req := &ReportRequest{
		TemplateId:   &id,
		OutputFormat: "csv",
		PerEntity:    map[string]EntityOverride{"users": {SheetName: "Live Sheet"}},
	}

	merged, err := mergeTemplateConfig(template, req)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	// request wins where set
	if merged.Format() != "csv" {
		t.Fatalf("format = %q", merged.Format())
	}
	// template fills the rest
	if !merged.ReportType.Single || merged.ReportType.Names[0] != "form_submissions" {
		t.Fatalf("report type = %+v", merged.ReportType)
	}
	if merged.ReportTitle != "Saved Title" {
		t.Fatalf("title = %q", merged.ReportTitle)
	}
	if len(merged.Filters) != 1 || merged.Filters[0].Value != "tech1" {
		t.Fatalf("filters = %v", merged.Filters)
	}
	// per-entity maps merge by key
	if merged.PerEntity["form_submissions"].SheetName != "Saved Sheet" ||
		merged.PerEntity["users"].SheetName != "Live Sheet" {
		t.Fatalf("per_entity = %v", merged.PerEntity)
	}
	if merged.TemplateId == nil || *merged.TemplateId != 4 {
		t.Fatalf("template id = %v", merged.TemplateId)
	}
}

func TestMergeTemplateConfigEmptyConfiguration(t *testing.T) {
	template := &models.ReportTemplate{ID: 4}
	_, err := mergeTemplateConfig(template, &ReportRequest{})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	template.Configuration = json.RawMessage(`{not json`)
	_, err = mergeTemplateConfig(template, &ReportRequest{})
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
