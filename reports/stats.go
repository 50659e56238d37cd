package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/utils"
	"github.com/shopspring/decimal"
)

// CountItem is one bucket of a value distribution. Distributions keep their
// order (count desc, key asc) all the way into the rendered report.
type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type CountList []CountItem

func (c CountList) String() string {
	parts := make([]string, 0, len(c))
	for _, item := range c {
		parts = append(parts, fmt.Sprintf("%s: %d", item.Key, item.Count))
	}
	return strings.Join(parts, ", ")
}

// valueCounts tallies non-nil values of a column, top-N by count. topN <= 0
// means unlimited.
func valueCounts(records []Record, col string, topN int) CountList {
	counts := map[string]int{}
	for _, rec := range records {
		v, ok := rec[col]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		counts[s]++
	}
	if len(counts) == 0 {
		return nil
	}
	out := make(CountList, 0, len(counts))
	for k, n := range counts {
		out = append(out, CountItem{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func distinctCount(records []Record, col string) int {
	seen := map[string]bool{}
	for _, rec := range records {
		if v, ok := rec[col]; ok && v != nil {
			seen[fmt.Sprint(v)] = true
		}
	}
	return len(seen)
}

// dateValues parses a column's values as timestamps, dropping what fails.
func dateValues(records []Record, col string) []time.Time {
	var out []time.Time
	for _, rec := range records {
		v, ok := rec[col]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			out = append(out, t)
		case string:
			if parsed, err := utils.ParseLenientTime(t); err == nil {
				out = append(out, parsed)
			}
		}
	}
	return out
}

func dateRange(dates []time.Time) map[string]string {
	if len(dates) == 0 {
		return nil
	}
	first, last := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return map[string]string{
		"first": first.Format("2006-01-02T15:04:05"),
		"last":  last.Format("2006-01-02T15:04:05"),
	}
}

// numericSummary computes min/max/mean with decimal arithmetic so means of
// large id-like columns stay exact.
func numericSummary(records []Record, col string) map[string]string {
	var values []decimal.Decimal
	for _, rec := range records {
		v, ok := rec[col]
		if !ok || v == nil {
			continue
		}
		if d, err := utils.ParseDecimal(fmt.Sprint(v)); err == nil {
			values = append(values, d)
		}
	}
	if len(values) == 0 {
		return nil
	}
	min, max, sum := values[0], values[0], decimal.Zero
	for _, d := range values {
		if d.LessThan(min) {
			min = d
		}
		if d.GreaterThan(max) {
			max = d
		}
		sum = sum.Add(d)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2)
	return map[string]string{
		"min":  min.String(),
		"max":  max.String(),
		"mean": mean.String(),
	}
}

func isIntLike(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func firstNonNil(records []Record, col string) any {
	for _, rec := range records {
		if v, ok := rec[col]; ok && v != nil {
			return v
		}
	}
	return nil
}

// genericStats covers any entity: up to five value distributions over the
// requested columns plus one date range from the hinted date columns.
type genericStats struct{}

func (genericStats) Name() string { return "generic_stats" }

func (genericStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	const maxCategoricalStats = 5

	generated := 0
	for _, col := range p.Columns {
		if generated >= maxCategoricalStats {
			break
		}
		unique := distinctCount(records, col)
		sample := firstNonNil(records, col)
		if sample == nil {
			continue
		}
		suitable := false
		if isIntLike(sample) {
			suitable = unique > 1 && unique <= maxUniqueChartCats*2
		} else if _, isStr := sample.(string); isStr {
			suitable = unique > 1
		}
		if !suitable {
			continue
		}
		counts := valueCounts(records, col, 10)
		if counts == nil {
			continue
		}
		stats["counts_"+utils.SafeKey(col)] = counts
		generated++
	}

	for _, col := range p.Desc.AnalysisHints.DateColumns {
		if r := dateRange(dateValues(records, col)); r != nil {
			stats["range_"+utils.SafeKey(col)] = r
			break
		}
	}

	for _, col := range p.Desc.AnalysisHints.NumericalColumns {
		if col == "id" {
			continue
		}
		if s := numericSummary(records, col); s != nil {
			stats["numeric_"+utils.SafeKey(col)] = s
			break
		}
	}

	return stats, nil
}

var categoricalQuestionTypes = map[string]bool{
	"multiple_choices": true, "dropdown": true, "user": true,
	"checkbox": true, "single_choice": true,
}

var temporalQuestionTypes = map[string]bool{"date": true, "datetime": true}

type submissionStats struct{}

func (submissionStats) Name() string { return "submission_stats" }

func (submissionStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}

	for _, col := range p.Columns {
		if !strings.HasPrefix(col, AnswersPrefix) {
			continue
		}
		question := strings.TrimPrefix(col, AnswersPrefix)
		qType := p.QuestionTypes[question]
		key := utils.SafeKey(strings.ReplaceAll(strings.ToLower(question), "?", ""))
		if categoricalQuestionTypes[qType] {
			if counts := valueCounts(records, col, 10); counts != nil {
				stats["counts_"+key] = counts
			}
		} else if temporalQuestionTypes[qType] {
			if r := dateRange(dateValues(records, col)); r != nil {
				stats["range_"+key] = r
			}
		}
	}

	if counts := valueCounts(records, "submitted_by", 5); counts != nil {
		stats["submissions_per_user_top5"] = counts
	}
	if counts := valueCounts(records, "form.title", 5); counts != nil {
		stats["submissions_per_form_top5"] = counts
	}

	dates := dateValues(records, "submitted_at")
	if r := dateRange(dates); r != nil {
		stats["overall_submission_range"] = r

		first, _ := utils.ParseLenientTime(r["first"])
		last, _ := utils.ParseLenientTime(r["last"])
		days := int(last.Sub(first).Hours() / 24)
		if days < 1 {
			days = 1
		}
		stats["average_daily_submissions"] = float64(int(float64(len(records))/float64(days)*10+0.5)) / 10

		dayCounts := map[string]int{}
		hourCounts := map[int]int{}
		for _, d := range dates {
			dayCounts[d.Weekday().String()]++
			hourCounts[d.Hour()]++
		}
		dayOrder := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
		byDay := make(CountList, 0, len(dayOrder))
		for _, day := range dayOrder {
			byDay = append(byDay, CountItem{Key: day, Count: dayCounts[day]})
		}
		stats["submissions_by_day"] = byDay

		byHour := make(CountList, 0, len(hourCounts))
		for hour := 0; hour < 24; hour++ {
			if n, ok := hourCounts[hour]; ok {
				byHour = append(byHour, CountItem{Key: fmt.Sprintf("%d", hour), Count: n})
			}
		}
		stats["submissions_by_hour"] = byHour
	}

	return stats, nil
}

// monthlyCounts buckets timestamps by calendar month, ascending.
func monthlyCounts(dates []time.Time) CountList {
	counts := map[string]int{}
	for _, d := range dates {
		counts[d.Format("2006-01")]++
	}
	keys := sortedKeys(counts)
	out := make(CountList, 0, len(keys))
	for _, k := range keys {
		out = append(out, CountItem{Key: k, Count: counts[k]})
	}
	return out
}

type userStats struct{}

func (userStats) Name() string { return "user_stats" }

func (userStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "role.name", 0); counts != nil {
		stats["users_per_role"] = counts
	}
	if counts := valueCounts(records, "environment.name", 0); counts != nil {
		stats["users_per_environment"] = counts
	}
	dates := dateValues(records, "created_at")
	if r := dateRange(dates); r != nil {
		stats["user_creation_range"] = r
		if len(dates) > 5 {
			stats["users_created_by_month"] = monthlyCounts(dates)
		}
	}
	return stats, nil
}

type formStats struct{}

func (formStats) Name() string { return "form_stats" }

func (formStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "creator.username", 5); counts != nil {
		stats["forms_per_creator_top5"] = counts
	}
	if counts := valueCounts(records, "creator.environment.name", 0); counts != nil {
		stats["forms_per_environment"] = counts
	}
	if counts := valueCounts(records, "is_public", 0); counts != nil {
		stats["public_vs_private_forms"] = counts
	}
	dates := dateValues(records, "created_at")
	if r := dateRange(dates); r != nil {
		stats["form_creation_range"] = r
		if len(dates) > 5 {
			stats["forms_created_by_month"] = monthlyCounts(dates)
		}
	}
	return stats, nil
}

type environmentStats struct{}

func (environmentStats) Name() string { return "environment_stats" }

func (environmentStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{"total_environments_reported": len(records)}
	if r := dateRange(dateValues(records, "created_at")); r != nil {
		stats["environment_creation_range"] = r
	}
	return stats, nil
}

type roleStats struct{}

func (roleStats) Name() string { return "role_stats" }

func (roleStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{"total_roles": len(records)}
	if counts := valueCounts(records, "is_super_user", 0); counts != nil {
		stats["roles_by_superuser_status"] = counts
	}
	return stats, nil
}

type questionTypeStats struct{}

func (questionTypeStats) Name() string { return "question_type_stats" }

func (questionTypeStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{"total_question_types": len(records)}
	if counts := valueCounts(records, "type", 0); counts != nil {
		stats["question_types_count"] = counts
	}
	return stats, nil
}

type questionStats struct{}

func (questionStats) Name() string { return "question_stats" }

func (questionStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "question_type.type", 0); counts != nil {
		stats["questions_by_type"] = counts
	}
	if counts := valueCounts(records, "is_signature", 0); counts != nil {
		stats["questions_by_signature_status"] = counts
	}
	return stats, nil
}

type permissionStats struct{}

func (permissionStats) Name() string { return "permission_stats" }

func (permissionStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "action", 0); counts != nil {
		stats["permissions_by_action"] = counts
	}
	if counts := valueCounts(records, "entity", 0); counts != nil {
		stats["permissions_by_entity"] = counts
	}
	return stats, nil
}

type rolePermissionStats struct{}

func (rolePermissionStats) Name() string { return "role_permission_stats" }

func (rolePermissionStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "role.name", 0); counts != nil {
		stats["permissions_per_role"] = counts
	}
	return stats, nil
}

type formQuestionStats struct{}

func (formQuestionStats) Name() string { return "form_question_stats" }

func (formQuestionStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "form.title", 0); counts != nil {
		stats["questions_per_form"] = counts
	}
	if counts := valueCounts(records, "question.question_type.type", 0); counts != nil {
		stats["form_questions_by_type"] = counts
	}
	return stats, nil
}

type answersSubmittedStats struct{}

func (answersSubmittedStats) Name() string { return "answers_submitted_stats" }

func (answersSubmittedStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "question_type", 10); counts != nil {
		stats["answers_per_question_type"] = counts
	}
	if counts := valueCounts(records, "question", 10); counts != nil {
		stats["answers_per_question_text_top10"] = counts
	}
	if counts := valueCounts(records, "form_submission.form.title", 10); counts != nil {
		stats["answers_per_form_top10"] = counts
	}
	return stats, nil
}

type attachmentStats struct{}

func (attachmentStats) Name() string { return "attachment_stats" }

func (attachmentStats) Stats(records []Record, p *EntityParams) (map[string]any, error) {
	stats := map[string]any{}
	if counts := valueCounts(records, "file_type", 0); counts != nil {
		stats["attachments_by_type"] = counts
	}
	if counts := valueCounts(records, "is_signature", 0); counts != nil {
		stats["attachments_by_signature_status"] = counts
	}
	if counts := valueCounts(records, "signature_author", 5); counts != nil {
		stats["attachments_per_author_top5"] = counts
	}
	if counts := valueCounts(records, "form_submission.form.title", 5); counts != nil {
		stats["attachments_per_form_top5"] = counts
	}
	return stats, nil
}
