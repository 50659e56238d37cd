package reports

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/forms_backend/models"
)

func TestResolveAttributeDeduplicatesJoins(t *testing.T) {
	db := newDryRunDB(t)
	desc, err := Describe("form_submissions")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	aliases := AliasTable{}
	tx := db.Model(&models.FormSubmission{})

	tx, col := resolveAttribute(tx, desc.Schema, "form.title", aliases)
	if col == nil {
		t.Fatal("form.title did not resolve")
	}
	if col.Expr != "`form`.`title`" {
		t.Fatalf("expected `form`.`title`, got %s", col.Expr)
	}

	// second clause reuses the form join, adds one for the creator
	tx, col2 := resolveAttribute(tx, desc.Schema, "form.creator.username", aliases)
	if col2 == nil {
		t.Fatal("form.creator.username did not resolve")
	}
	if col2.Expr != "`form_creator`.`username`" {
		t.Fatalf("expected `form_creator`.`username`, got %s", col2.Expr)
	}

	if len(aliases) != 2 {
		t.Fatalf("expected 2 aliases, got %d: %v", len(aliases), aliases)
	}
	if aliases["form"] != "form" || aliases["form.creator"] != "form_creator" {
		t.Fatalf("unexpected alias table: %v", aliases)
	}

	stmt := tx.Where(col.Expr+" = ?", "Daily Check").Find(&[]models.FormSubmission{}).Statement
	sql := stmt.SQL.String()
	if n := strings.Count(sql, "LEFT JOIN `forms` `form`"); n != 1 {
		t.Fatalf("expected exactly one forms join, got %d in %s", n, sql)
	}
	if !strings.Contains(sql, "LEFT JOIN `users` `form_creator` ON `form_creator`.`id` = `form`.`user_id`") {
		t.Fatalf("missing creator join in %s", sql)
	}
}

func TestResolveAttributeUnknownSegment(t *testing.T) {
	db := newDryRunDB(t)
	desc, _ := Describe("form_submissions")

	aliases := AliasTable{}
	tx := db.Model(&models.FormSubmission{})

	tx, col := resolveAttribute(tx, desc.Schema, "form.owner.username", aliases)
	if col != nil {
		t.Fatalf("expected nil for unknown relationship, got %v", col)
	}
	tx, col = resolveAttribute(tx, desc.Schema, "nonexistent_column", aliases)
	if col != nil {
		t.Fatalf("expected nil for unknown column, got %v", col)
	}
	// valid join prefix, unknown leaf: the staged form join must be discarded
	tx, col = resolveAttribute(tx, desc.Schema, "form.nonexistent_column", aliases)
	if col != nil {
		t.Fatalf("expected nil for unknown leaf, got %v", col)
	}
	if len(aliases) != 0 {
		t.Fatalf("failed resolutions must not add aliases: %v", aliases)
	}

	// the returned query must carry no join from the failed walks
	sql := tx.Find(&[]models.FormSubmission{}).Statement.SQL.String()
	if strings.Contains(sql, "JOIN") {
		t.Fatalf("failed resolutions must not add joins: %s", sql)
	}
}

func TestResolveAttributeRejectsToMany(t *testing.T) {
	db := newDryRunDB(t)
	desc, _ := Describe("forms")

	aliases := AliasTable{}
	tx := db.Model(&models.Form{})
	_, col := resolveAttribute(tx, desc.Schema, "submissions.submitted_by", aliases)
	if col != nil {
		t.Fatal("to-many path must not resolve for filtering")
	}
}

func TestBuildPreloadPathsKeepsMaximal(t *testing.T) {
	desc, _ := Describe("form_submissions")

	paths := buildPreloadPaths(desc.Schema, []string{
		"id",
		"form.title",
		"form.creator.username",
		"answers.Shift",
	}, true)

	want := map[string]bool{"Form.Creator": true, "AnswersSubmitted": true}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Fatalf("unexpected preload path %q in %v", p, paths)
		}
	}
}
