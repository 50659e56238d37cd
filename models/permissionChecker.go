package models

import "strings"

// HasPermission checks whether the user's role carries a permission matching
// the requested action and entity. Superusers pass every check. Entity
// matching is forgiving about singular/plural spelling and about the
// "submissions" vs "form_submissions" alias, because both forms exist in
// seeded permission rows.
//
// The user's Role.RolePermissions.Permission chain must be preloaded.
func HasPermission(user *User, action string, entity string) bool {
	if user == nil || user.Role == nil {
		return false
	}
	if user.Role.IsSuperUser {
		return true
	}
	for _, rp := range user.Role.RolePermissions {
		if rp.Permission == nil {
			continue
		}
		if !strings.EqualFold(rp.Permission.Action, action) {
			continue
		}
		if entityMatches(rp.Permission.Entity, entity) {
			return true
		}
	}
	return false
}

func entityMatches(granted string, requested string) bool {
	g := normalizeEntity(granted)
	r := normalizeEntity(requested)
	if g == r {
		return true
	}
	// submissions and form_submissions name the same table
	if (g == "submission" && r == "form_submission") || (g == "form_submission" && r == "submission") {
		return true
	}
	return false
}

func normalizeEntity(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "s")
	return n
}
