package reports

import (
	"strings"
	"testing"
)

func insightAnalysis(stats map[string]any) *Analysis {
	return &Analysis{
		SummaryStats: stats,
		Charts:       map[string]ChartImage{},
		Insights:     map[string]string{},
	}
}

func TestUserInsightsDominantRole(t *testing.T) {
	records := make([]Record, 4)
	a := insightAnalysis(map[string]any{
		"users_per_role": CountList{{Key: "Admin", Count: 3}, {Key: "Technician", Count: 1}},
	})
	p := &EntityParams{Entity: "users"}

	insights, err := userInsights{}.Insights(records, a, p)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if insights["user_count"] != "Analyzed 4 user records." {
		t.Fatalf("user_count = %q", insights["user_count"])
	}
	if insights["role_distribution"] != "Users are distributed across 2 different roles." {
		t.Fatalf("role_distribution = %q", insights["role_distribution"])
	}
	if insights["dominant_role"] != "The 'Admin' role accounts for 75% of all users." {
		t.Fatalf("dominant_role = %q", insights["dominant_role"])
	}
}

func TestUserInsightsEnvironmentSingular(t *testing.T) {
	records := make([]Record, 2)
	a := insightAnalysis(map[string]any{
		"users_per_environment": CountList{{Key: "Plant A", Count: 2}},
	})
	insights, _ := userInsights{}.Insights(records, a, &EntityParams{Entity: "users"})
	if insights["env_distribution"] != "Users belong to 1 environment." {
		t.Fatalf("env_distribution = %q", insights["env_distribution"])
	}
	if insights["primary_environment"] != "Environment 'Plant A' contains 100% of all users." {
		t.Fatalf("primary_environment = %q", insights["primary_environment"])
	}
}

func TestRoleInsightsSuperuserWarning(t *testing.T) {
	records := make([]Record, 5)
	a := insightAnalysis(map[string]any{
		"roles_by_superuser_status": CountList{{Key: "No", Count: 3}, {Key: "Yes", Count: 2}},
	})
	insights, _ := roleInsights{}.Insights(records, a, &EntityParams{Entity: "roles"})
	if insights["superuser_ratio"] != "Found 2 superuser role(s) and 3 regular role(s)." {
		t.Fatalf("superuser_ratio = %q", insights["superuser_ratio"])
	}
	if !strings.Contains(insights["superuser_warning"], "may pose a security risk") {
		t.Fatalf("superuser_warning = %q", insights["superuser_warning"])
	}

	// a single superuser role raises no warning
	a = insightAnalysis(map[string]any{
		"roles_by_superuser_status": CountList{{Key: "No", Count: 4}, {Key: "Yes", Count: 1}},
	})
	insights, _ = roleInsights{}.Insights(records, a, &EntityParams{Entity: "roles"})
	if _, ok := insights["superuser_warning"]; ok {
		t.Fatal("one superuser role must not warn")
	}
}

func TestGenericInsightsSkipsRecordSummaryWhenVolumePresent(t *testing.T) {
	a := insightAnalysis(map[string]any{})
	a.Insights["user_count"] = "Analyzed 4 user records."

	insights, _ := genericInsights{}.Insights(make([]Record, 4), a, &EntityParams{Entity: "users"})
	if _, ok := insights["record_summary"]; ok {
		t.Fatal("record_summary must be suppressed when a volume insight exists")
	}

	a = insightAnalysis(map[string]any{})
	insights, _ = genericInsights{}.Insights(make([]Record, 4), a, &EntityParams{Entity: "permissions"})
	if insights["record_summary"] != "A total of 4 records were analyzed for permissions." {
		t.Fatalf("record_summary = %q", insights["record_summary"])
	}
}

func TestGenericInsightsDominance(t *testing.T) {
	a := insightAnalysis(map[string]any{
		"counts_action": CountList{{Key: "view", Count: 8}, {Key: "create", Count: 2}},
	})
	insights, _ := genericInsights{}.Insights(make([]Record, 10), a, &EntityParams{Entity: "permissions"})
	if insights["top_category_info"] != "For the column 'action', the most common value was 'view', occurring 8 times." {
		t.Fatalf("top_category_info = %q", insights["top_category_info"])
	}

	// a tie demotes to the analysis note
	a = insightAnalysis(map[string]any{
		"counts_action": CountList{{Key: "create", Count: 5}, {Key: "view", Count: 5}},
	})
	insights, _ = genericInsights{}.Insights(make([]Record, 10), a, &EntityParams{Entity: "permissions"})
	if _, ok := insights["top_category_info"]; ok {
		t.Fatal("tied distribution must not claim dominance")
	}
	if !strings.Contains(insights["category_analysis_note"], "Distribution analysis was performed") {
		t.Fatalf("category_analysis_note = %q", insights["category_analysis_note"])
	}
}

func TestGenericInsightsDateRange(t *testing.T) {
	a := insightAnalysis(map[string]any{
		"range_created_at": map[string]string{"first": "2024-01-01T08:00:00", "last": "2024-02-01T10:00:00"},
	})
	insights, _ := genericInsights{}.Insights(make([]Record, 2), a, &EntityParams{Entity: "roles"})
	if insights["date_range"] != "Records for 'created at' span from 2024-01-01 to 2024-02-01." {
		t.Fatalf("date_range = %q", insights["date_range"])
	}

	a = insightAnalysis(map[string]any{
		"range_created_at": map[string]string{"first": "2024-01-01T08:00:00", "last": "2024-01-01T10:00:00"},
	})
	insights, _ = genericInsights{}.Insights(make([]Record, 2), a, &EntityParams{Entity: "roles"})
	if !strings.Contains(insights["date_info"], "share the same timestamp") {
		t.Fatalf("date_info = %q", insights["date_info"])
	}
}

func TestSubmissionInsights(t *testing.T) {
	a := insightAnalysis(map[string]any{
		"overall_submission_range":  map[string]string{"first": "2024-01-01T08:00:00", "last": "2024-01-03T17:00:00"},
		"average_daily_submissions": 1.5,
		"submissions_per_user_top5": CountList{{Key: "tech1", Count: 2}},
		"submissions_per_form_top5": CountList{{Key: "Daily Check", Count: 2}},
	})
	insights, _ := submissionInsights{}.Insights(make([]Record, 3), a, &EntityParams{Entity: "form_submissions"})

	if insights["volume"] != "Analyzed 3 total submissions." {
		t.Fatalf("volume = %q", insights["volume"])
	}
	if insights["date_range"] != "Data spans from 2024-01-01 to 2024-01-03." {
		t.Fatalf("date_range = %q", insights["date_range"])
	}
	if insights["activity_rate"] != "Average daily submission rate: 1.5." {
		t.Fatalf("activity_rate = %q", insights["activity_rate"])
	}
	if insights["top_user"] != "The most active user was 'tech1'." {
		t.Fatalf("top_user = %q", insights["top_user"])
	}
	if insights["top_form"] != "The most used form was 'Daily Check'." {
		t.Fatalf("top_form = %q", insights["top_form"])
	}
}

func TestAnalyzeMergePrecedence(t *testing.T) {
	desc, _ := Describe("users")
	p := &EntityParams{Entity: "users", Desc: desc, Columns: []string{"id", "role.name"}}
	records := []Record{
		{"id": 1, "role.name": "Admin", "created_at": "2024-01-01"},
		{"id": 2, "role.name": "Admin", "created_at": "2024-01-02"},
		{"id": 3, "role.name": "Technician", "created_at": "2024-01-03"},
	}
	a := analyze(records, p)

	if a.SummaryStats["record_count"] != 3 {
		t.Fatalf("record_count = %v", a.SummaryStats["record_count"])
	}
	// entity generator ran before the generic one
	if _, ok := a.Insights["user_count"]; !ok {
		t.Fatalf("missing user_count in %v", a.Insights)
	}
	if _, ok := a.Insights["record_summary"]; ok {
		t.Fatal("generic record_summary must lose to the user volume insight")
	}
}

func TestAnalyzeEmptyData(t *testing.T) {
	desc, _ := Describe("users")
	p := &EntityParams{Entity: "users", Desc: desc, Columns: []string{"id"}}
	a := analyze(nil, p)
	if a.Insights["status"] != "No data available for analysis." {
		t.Fatalf("status = %q", a.Insights["status"])
	}
	if a.SummaryStats["record_count"] != 0 {
		t.Fatalf("record_count = %v", a.SummaryStats["record_count"])
	}
}
