package reports

import (
	"testing"
)

func TestValueCountsOrdering(t *testing.T) {
	records := []Record{
		{"role": "Technician"},
		{"role": "Technician"},
		{"role": "Admin"},
		{"role": "Supervisor"},
		{"role": "Admin"},
		{"role": nil},
	}
	counts := valueCounts(records, "role", 0)
	if len(counts) != 3 {
		t.Fatalf("expected 3 buckets, got %v", counts)
	}
	// count desc, then key asc for ties
	if counts[0].Key != "Admin" || counts[0].Count != 2 {
		t.Fatalf("tie must break alphabetically: %v", counts)
	}
	if counts[1].Key != "Technician" || counts[2].Key != "Supervisor" {
		t.Fatalf("unexpected order: %v", counts)
	}

	top := valueCounts(records, "role", 2)
	if len(top) != 2 {
		t.Fatalf("topN not applied: %v", top)
	}
}

func TestCountListString(t *testing.T) {
	c := CountList{{Key: "A", Count: 3}, {Key: "B", Count: 1}}
	if c.String() != "A: 3, B: 1" {
		t.Fatalf("got %q", c.String())
	}
}

func TestDateRangeFormat(t *testing.T) {
	records := []Record{
		{"created_at": "2024-01-03 09:00:00"},
		{"created_at": "2024-01-01 08:00:00"},
		{"created_at": "not a date"},
	}
	r := dateRange(dateValues(records, "created_at"))
	if r["first"] != "2024-01-01T08:00:00" || r["last"] != "2024-01-03T09:00:00" {
		t.Fatalf("got %v", r)
	}
}

func TestSubmissionStatsKeys(t *testing.T) {
	desc, _ := Describe("form_submissions")
	p := &EntityParams{
		Entity:  "form_submissions",
		Desc:    desc,
		Columns: []string{"id", "submitted_by", "form.title", "submitted_at", "answers.Shift Time?", "answers.Inspection Date"},
		QuestionTypes: map[string]string{
			"Shift Time?":     "dropdown",
			"Inspection Date": "date",
		},
	}
	records := []Record{
		{"submitted_by": "tech1", "form.title": "Daily Check", "submitted_at": "2024-01-01 08:00:00", "answers.Shift Time?": "Night", "answers.Inspection Date": "2024-01-01"},
		{"submitted_by": "tech1", "form.title": "Daily Check", "submitted_at": "2024-01-02 09:30:00", "answers.Shift Time?": "Night", "answers.Inspection Date": "2024-01-02"},
		{"submitted_by": "tech2", "form.title": "Audit", "submitted_at": "2024-01-03 17:00:00", "answers.Shift Time?": "Day", "answers.Inspection Date": "2024-01-03"},
	}

	stats, err := submissionStats{}.Stats(records, p)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	top := stats["submissions_per_user_top5"].(CountList)
	if top[0].Key != "tech1" || top[0].Count != 2 {
		t.Fatalf("submissions_per_user_top5 = %v", top)
	}
	if _, ok := stats["submissions_per_form_top5"]; !ok {
		t.Fatal("missing submissions_per_form_top5")
	}
	if _, ok := stats["overall_submission_range"]; !ok {
		t.Fatal("missing overall_submission_range")
	}

	// 3 submissions across 2 whole days: 1.5/day
	if rate := stats["average_daily_submissions"].(float64); rate != 1.5 {
		t.Fatalf("average_daily_submissions = %v", rate)
	}

	byDay := stats["submissions_by_day"].(CountList)
	if len(byDay) != 7 || byDay[0].Key != "Monday" || byDay[6].Key != "Sunday" {
		t.Fatalf("submissions_by_day must list all weekdays Monday first: %v", byDay)
	}
	total := 0
	for _, d := range byDay {
		total += d.Count
	}
	if total != 3 {
		t.Fatalf("weekday counts must sum to record count, got %d", total)
	}

	byHour := stats["submissions_by_hour"].(CountList)
	if len(byHour) != 3 {
		t.Fatalf("only present hours appear: %v", byHour)
	}
	if byHour[0].Key != "8" {
		t.Fatalf("hours sort ascending: %v", byHour)
	}

	// dynamic answer columns: categorical counts and temporal range
	if counts, ok := stats["counts_shift_time"].(CountList); !ok || counts[0].Key != "Night" {
		t.Fatalf("counts_shift_time = %v", stats["counts_shift_time"])
	}
	if _, ok := stats["range_inspection_date"]; !ok {
		t.Fatal("missing range_inspection_date")
	}
}

func TestGenericStatsSelectsSuitableColumns(t *testing.T) {
	desc, _ := Describe("roles")
	p := &EntityParams{Entity: "roles", Desc: desc, Columns: []string{"id", "name", "description"}}
	records := []Record{
		{"id": 1, "name": "Admin", "description": "a"},
		{"id": 2, "name": "Technician", "description": "a"},
		{"id": 3, "name": "Technician", "description": "a"},
	}
	stats, err := genericStats{}.Stats(records, p)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if _, ok := stats["counts_name"]; !ok {
		t.Fatalf("expected counts_name, got %v", stats)
	}
	// single-value columns are not narratable
	if _, ok := stats["counts_description"]; ok {
		t.Fatal("single-bucket column must be skipped")
	}
}

func TestMonthlyCountsAscending(t *testing.T) {
	records := []Record{
		{"created_at": "2024-03-01"},
		{"created_at": "2024-01-15"},
		{"created_at": "2024-01-20"},
	}
	monthly := monthlyCounts(dateValues(records, "created_at"))
	if len(monthly) != 2 || monthly[0].Key != "2024-01" || monthly[0].Count != 2 || monthly[1].Key != "2024-03" {
		t.Fatalf("got %v", monthly)
	}
}

func TestNumericSummary(t *testing.T) {
	records := []Record{
		{"order_number": 1},
		{"order_number": 2},
		{"order_number": 4},
	}
	s := numericSummary(records, "order_number")
	if s["min"] != "1" || s["max"] != "4" || s["mean"] != "2.33" {
		t.Fatalf("got %v", s)
	}
}
