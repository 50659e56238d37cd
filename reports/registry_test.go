package reports

import (
	"testing"
)

func TestDescribeUnknownEntity(t *testing.T) {
	_, err := Describe("invoices")
	if err == nil {
		t.Fatal("expected error for unknown entity")
	}
	if !IsKind(err, KindUnknownEntity) {
		t.Fatalf("expected UnknownEntityError, got %v", err)
	}
}

func TestDescribeNormalizesName(t *testing.T) {
	d, err := Describe("  Users ")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Name != "users" {
		t.Fatalf("got %s", d.Name)
	}
}

func TestEntityNamesStable(t *testing.T) {
	names := EntityNames()
	if len(names) == 0 {
		t.Fatal("no entities registered")
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, required := range []string{"users", "roles", "forms", "form_submissions", "answers_submitted", "attachments"} {
		if !seen[required] {
			t.Fatalf("missing entity %s in %v", required, names)
		}
	}
}

func TestSanitizeColumnsHiddenAndSensitive(t *testing.T) {
	d, _ := Describe("users")

	got := d.SanitizeColumns([]string{"password_hash", "username", "bogus_column"}, false)
	if len(got) != 1 || got[0] != "username" {
		t.Fatalf("non-admin sanitize = %v", got)
	}

	// admins still never see hidden columns
	got = d.SanitizeColumns([]string{"password_hash", "username"}, true)
	if len(got) != 1 || got[0] != "username" {
		t.Fatalf("admin sanitize = %v", got)
	}
}

func TestSanitizeColumnsFallsBackToDefaults(t *testing.T) {
	d, _ := Describe("users")
	got := d.SanitizeColumns([]string{"bogus"}, false)
	if len(got) != len(d.DefaultColumns) {
		t.Fatalf("expected default columns, got %v", got)
	}
}

func TestSanitizeColumnsKeepsDynamicAnswers(t *testing.T) {
	d, _ := Describe("form_submissions")
	got := d.SanitizeColumns([]string{"id", "answers.Shift?"}, false)
	if len(got) != 2 || got[1] != "answers.Shift?" {
		t.Fatalf("dynamic answer column dropped: %v", got)
	}

	// entities without dynamic answers reject the prefix
	u, _ := Describe("users")
	got = u.SanitizeColumns([]string{"username", "answers.Shift?"}, false)
	if len(got) != 1 || got[0] != "username" {
		t.Fatalf("answers prefix must be rejected for users: %v", got)
	}
}

func TestDefaultRelatedColumns(t *testing.T) {
	d, _ := Describe("users")
	got := d.DefaultRelatedColumns()
	want := []string{"role.name", "environment.name"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSchemaColumnsIncludeOwnFields(t *testing.T) {
	d, _ := Describe("roles")
	cols := d.SchemaColumns()
	seen := map[string]bool{}
	for _, c := range cols {
		seen[c] = true
	}
	for _, required := range []string{"id", "name", "is_super_user", "created_at"} {
		if !seen[required] {
			t.Fatalf("missing %s in %v", required, cols)
		}
	}
}
