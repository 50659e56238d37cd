package models

import "testing"

func userWithPermissions(perms ...*Permission) *User {
	role := &Role{Name: "Technician"}
	for _, p := range perms {
		role.RolePermissions = append(role.RolePermissions, RolePermission{Permission: p})
	}
	return &User{ID: 1, Username: "tech1", Role: role}
}

func TestHasPermissionSuperuserBypass(t *testing.T) {
	u := &User{Role: &Role{Name: "Admin", IsSuperUser: true}}
	if !HasPermission(u, "delete", "anything_at_all") {
		t.Fatal("superuser must pass every check")
	}
}

func TestHasPermissionNilUserOrRole(t *testing.T) {
	if HasPermission(nil, "view", "users") {
		t.Fatal("nil user must fail")
	}
	if HasPermission(&User{}, "view", "users") {
		t.Fatal("user without role must fail")
	}
}

func TestHasPermissionActionCaseInsensitive(t *testing.T) {
	u := userWithPermissions(&Permission{Action: "View", Entity: "users"})
	if !HasPermission(u, "view", "users") {
		t.Fatal("action match must ignore case")
	}
	if HasPermission(u, "delete", "users") {
		t.Fatal("ungranted action must fail")
	}
}

func TestHasPermissionSingularPluralEntity(t *testing.T) {
	u := userWithPermissions(&Permission{Action: "view", Entity: "form"})
	if !HasPermission(u, "view", "forms") {
		t.Fatal("plural request must match singular grant")
	}

	u = userWithPermissions(&Permission{Action: "view", Entity: "Roles"})
	if !HasPermission(u, "view", "role") {
		t.Fatal("singular request must match plural grant")
	}
}

func TestHasPermissionSubmissionsAlias(t *testing.T) {
	u := userWithPermissions(&Permission{Action: "view", Entity: "submissions"})
	if !HasPermission(u, "view", "form_submissions") {
		t.Fatal("submissions grant must cover form_submissions")
	}

	u = userWithPermissions(&Permission{Action: "view", Entity: "form_submissions"})
	if !HasPermission(u, "view", "submissions") {
		t.Fatal("form_submissions grant must cover submissions")
	}
}

func TestHasPermissionSkipsDanglingRows(t *testing.T) {
	role := &Role{Name: "Technician", RolePermissions: []RolePermission{{Permission: nil}}}
	u := &User{Role: role}
	if HasPermission(u, "view", "users") {
		t.Fatal("rows without a loaded permission must be skipped")
	}
}
