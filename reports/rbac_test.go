package reports

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/forms_backend/models"
)

func testUser(role string, super bool, envId int) *models.User {
	return &models.User{
		ID:            7,
		Username:      "tech1",
		EnvironmentId: &envId,
		Role:          &models.Role{Name: role, IsSuperUser: super},
	}
}

func visibilitySQL(t *testing.T, entity string, user *models.User) (string, []any) {
	t.Helper()
	db := newDryRunDB(t)
	desc, err := Describe(entity)
	if err != nil {
		t.Fatalf("Describe(%s): %v", entity, err)
	}
	tx := applyVisibility(db.Model(desc.Model), desc, user)
	stmt := tx.Find(desc.NewSlice()).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestVisibilitySuperuserBypasses(t *testing.T) {
	for _, entity := range []string{"users", "forms", "form_submissions", "role_permissions"} {
		sql, _ := visibilitySQL(t, entity, testUser("Admin", true, 3))
		if strings.Contains(sql, "rbac_") || strings.Contains(sql, "environment_id") {
			t.Fatalf("superuser must not be scoped for %s, got %s", entity, sql)
		}
	}
}

func TestVisibilityUsersScopedToEnvironment(t *testing.T) {
	sql, vars := visibilitySQL(t, "users", testUser("Technician", false, 3))
	if !strings.Contains(sql, "`users`.`environment_id` = ?") {
		t.Fatalf("missing environment scope in %s", sql)
	}
	if vars[0] != 3 {
		t.Fatalf("expected env id 3, got %v", vars[0])
	}
}

func TestVisibilitySubmissionsByRole(t *testing.T) {
	// base role sees only own submissions
	sql, vars := visibilitySQL(t, "form_submissions", testUser("Technician", false, 3))
	if !strings.Contains(sql, "`form_submissions`.`submitted_by` = ?") {
		t.Fatalf("missing submitter scope in %s", sql)
	}
	if vars[0] != "tech1" {
		t.Fatalf("expected submitter tech1, got %v", vars[0])
	}

	// managerial roles see their environment's forms' submissions
	for _, role := range []string{"Site Manager", "site_manager", "Supervisor"} {
		sql, _ := visibilitySQL(t, "form_submissions", testUser(role, false, 3))
		if !strings.Contains(sql, "JOIN `forms` `rbac_form`") ||
			!strings.Contains(sql, "`rbac_creator`.`environment_id` = ?") {
			t.Fatalf("role %s missing environment join in %s", role, sql)
		}
	}
}

func TestVisibilityFormsPublicOrOwnEnvironment(t *testing.T) {
	sql, vars := visibilitySQL(t, "forms", testUser("Technician", false, 3))
	if !strings.Contains(sql, "JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `forms`.`user_id`") {
		t.Fatalf("missing creator join in %s", sql)
	}
	if !strings.Contains(sql, "`forms`.`is_public` = ? OR `rbac_creator`.`environment_id` = ?") {
		t.Fatalf("missing public-or-environment predicate in %s", sql)
	}
	if vars[0] != true || vars[1] != 3 {
		t.Fatalf("unexpected vars %v", vars)
	}
}

func TestVisibilityRolePermissionsExcludeSuperuserRows(t *testing.T) {
	sql, vars := visibilitySQL(t, "role_permissions", testUser("Supervisor", false, 3))
	if !strings.Contains(sql, "JOIN `roles` `rbac_role`") {
		t.Fatalf("missing role join in %s", sql)
	}
	if !strings.Contains(sql, "`rbac_role`.`is_super_user` = ?") {
		t.Fatalf("missing superuser exclusion in %s", sql)
	}
	if vars[0] != false {
		t.Fatalf("expected false, got %v", vars[0])
	}
}

func TestVisibilityRolesHideSuperuser(t *testing.T) {
	sql, vars := visibilitySQL(t, "roles", testUser("Technician", false, 3))
	if !strings.Contains(sql, "`roles`.`is_super_user` = ?") || vars[0] != false {
		t.Fatalf("superuser roles must be hidden, got %s %v", sql, vars)
	}
}

func TestVisibilityFallbackOwnerScope(t *testing.T) {
	// token_blocklist has neither environment_id nor user_id: logged pass-through
	sql, _ := visibilitySQL(t, "token_blocklist", testUser("Technician", false, 3))
	if strings.Contains(sql, "WHERE") {
		t.Fatalf("policy-gap entity must pass through unscoped, got %s", sql)
	}
}
