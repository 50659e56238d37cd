package reports

import (
	"fmt"
	"sort"
	"strings"
)

func statCounts(stats map[string]any, key string) CountList {
	if c, ok := stats[key].(CountList); ok {
		return c
	}
	return nil
}

func statRange(stats map[string]any, key string) map[string]string {
	if r, ok := stats[key].(map[string]string); ok {
		return r
	}
	return nil
}

func datePart(ts string) string {
	if i := strings.IndexAny(ts, "T "); i > 0 {
		return ts[:i]
	}
	return ts
}

// genericInsights narrates record volume, date span and the dominant category.
// It runs last so entity-specific generators keep precedence on shared keys.
type genericInsights struct{}

func (genericInsights) Name() string { return "generic_insights" }

func (genericInsights) Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error) {
	insights := map[string]string{}
	stats := a.SummaryStats
	recordCount := len(records)

	volumeKeys := []string{"user_count", "form_count", "submission_count", "role_count", "record_summary", "volume"}
	hasVolume := false
	for _, k := range volumeKeys {
		if _, ok := a.Insights[k]; ok {
			hasVolume = true
			break
		}
	}
	if !hasVolume {
		insights["record_summary"] = fmt.Sprintf("A total of %d records were analyzed for %s.", recordCount, p.Entity)
	}

	var rangeKeys []string
	for k := range stats {
		if strings.HasPrefix(k, "range_") {
			rangeKeys = append(rangeKeys, k)
		}
	}
	sort.Strings(rangeKeys)
	if len(rangeKeys) > 0 {
		if r := statRange(stats, rangeKeys[0]); r != nil {
			colName := strings.ReplaceAll(strings.TrimPrefix(rangeKeys[0], "range_"), "_", " ")
			first, last := datePart(r["first"]), datePart(r["last"])
			if first == last {
				insights["date_info"] = fmt.Sprintf("All analyzed records share the same timestamp for '%s': %s.", colName, first)
			} else {
				insights["date_range"] = fmt.Sprintf("Records for '%s' span from %s to %s.", colName, first, last)
			}
		}
	}

	if key := primaryCountKey(stats); key != "" {
		counts := statCounts(stats, key)
		colName := strings.ReplaceAll(strings.TrimPrefix(key, "counts_"), "_", " ")
		top := counts[0]
		dominant := true
		if len(counts) > 1 {
			if top.Count <= counts[1].Count || top.Count <= 1 {
				dominant = false
			}
		} else if top.Count <= 1 {
			dominant = false
		}
		if dominant {
			insights["top_category_info"] = fmt.Sprintf("For the column '%s', the most common value was '%s', occurring %d times.", colName, top.Key, top.Count)
		} else if top.Count > 0 {
			insights["category_analysis_note"] = fmt.Sprintf("Distribution analysis was performed for '%s'. The most frequent value found was '%s' (occurrences: %d).", colName, top.Key, top.Count)
		}
	}

	return insights, nil
}

// primaryCountKey picks the most narratable counts_ stat: common categorical
// names first, then fewer buckets, then alphabetical.
func primaryCountKey(stats map[string]any) string {
	var keys []string
	for k := range stats {
		if strings.HasPrefix(k, "counts_") && len(statCounts(stats, k)) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	named := func(k string) int {
		if strings.Contains(k, "name") || strings.Contains(k, "title") || strings.Contains(k, "type") {
			return 0
		}
		return 1
	}
	sort.Slice(keys, func(i, j int) bool {
		if named(keys[i]) != named(keys[j]) {
			return named(keys[i]) < named(keys[j])
		}
		li, lj := len(statCounts(stats, keys[i])), len(statCounts(stats, keys[j]))
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys[0]
}

type submissionInsights struct{}

func (submissionInsights) Name() string { return "submission_insights" }

func (submissionInsights) Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error) {
	insights := map[string]string{}
	stats := a.SummaryStats

	insights["volume"] = fmt.Sprintf("Analyzed %d total submissions.", len(records))

	if r := statRange(stats, "overall_submission_range"); r != nil {
		insights["date_range"] = fmt.Sprintf("Data spans from %s to %s.", datePart(r["first"]), datePart(r["last"]))
	}
	if rate, ok := stats["average_daily_submissions"].(float64); ok {
		insights["activity_rate"] = fmt.Sprintf("Average daily submission rate: %.1f.", rate)
	}
	if top := statCounts(stats, "submissions_per_user_top5"); top != nil {
		insights["top_user"] = fmt.Sprintf("The most active user was '%s'.", top[0].Key)
	}
	if top := statCounts(stats, "submissions_per_form_top5"); top != nil {
		insights["top_form"] = fmt.Sprintf("The most used form was '%s'.", top[0].Key)
	}

	var deptKeys []string
	for k := range stats {
		if strings.HasPrefix(k, "counts_") && strings.Contains(k, "department") {
			deptKeys = append(deptKeys, k)
		}
	}
	sort.Strings(deptKeys)
	for _, k := range deptKeys {
		if counts := statCounts(stats, k); counts != nil {
			insights["top_department"] = fmt.Sprintf("'%s' submitted the most forms.", counts[0].Key)
			break
		}
	}

	return insights, nil
}

type userInsights struct{}

func (userInsights) Name() string { return "user_insights" }

func (userInsights) Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error) {
	insights := map[string]string{}
	stats := a.SummaryStats
	recordCount := len(records)

	insights["user_count"] = fmt.Sprintf("Analyzed %d user records.", recordCount)

	if roles := statCounts(stats, "users_per_role"); roles != nil {
		insights["role_distribution"] = fmt.Sprintf("Users are distributed across %d different roles.", len(roles))
		top := roles[0]
		if top.Count*3 > recordCount {
			percentage := top.Count * 100 / recordCount
			insights["dominant_role"] = fmt.Sprintf("The '%s' role accounts for %d%% of all users.", top.Key, percentage)
		}
	}

	if envs := statCounts(stats, "users_per_environment"); envs != nil {
		plural := "s"
		if len(envs) == 1 {
			plural = ""
		}
		insights["env_distribution"] = fmt.Sprintf("Users belong to %d environment%s.", len(envs), plural)
		top := envs[0]
		percentage := top.Count * 100 / recordCount
		insights["primary_environment"] = fmt.Sprintf("Environment '%s' contains %d%% of all users.", top.Key, percentage)
	}

	if r := statRange(stats, "user_creation_range"); r != nil {
		first, last := datePart(r["first"]), datePart(r["last"])
		if first != last {
			insights["creation_period"] = fmt.Sprintf("Users were created between %s and %s.", first, last)
		} else {
			insights["creation_period"] = fmt.Sprintf("All users were created on %s.", first)
		}
	}

	return insights, nil
}

type formInsights struct{}

func (formInsights) Name() string { return "form_insights" }

func (formInsights) Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error) {
	insights := map[string]string{}
	stats := a.SummaryStats
	recordCount := len(records)

	insights["form_count"] = fmt.Sprintf("Analyzed %d form records.", recordCount)

	if visibility := statCounts(stats, "public_vs_private_forms"); visibility != nil {
		public, private := 0, 0
		for _, item := range visibility {
			switch item.Key {
			case "Yes":
				public = item.Count
			case "No":
				private = item.Count
			}
		}
		insights["public_status"] = fmt.Sprintf("%d public and %d private forms found.", public, private)
		insights["visibility_ratio"] = fmt.Sprintf("%d%% of forms are publicly accessible.", public*100/recordCount)
	}

	if creators := statCounts(stats, "forms_per_creator_top5"); creators != nil {
		insights["creator_activity"] = fmt.Sprintf("The most active form creator is '%s'.", creators[0].Key)
	}
	if envs := statCounts(stats, "forms_per_environment"); envs != nil {
		insights["environment_distribution"] = fmt.Sprintf("Most forms belong to the '%s' environment.", envs[0].Key)
	}

	return insights, nil
}

type roleInsights struct{}

func (roleInsights) Name() string { return "role_insights" }

func (roleInsights) Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error) {
	insights := map[string]string{}
	stats := a.SummaryStats

	insights["role_count"] = fmt.Sprintf("Analyzed %d role records.", len(records))

	if status := statCounts(stats, "roles_by_superuser_status"); status != nil {
		superusers, regular := 0, 0
		for _, item := range status {
			switch item.Key {
			case "Yes":
				superusers = item.Count
			case "No":
				regular = item.Count
			}
		}
		insights["superuser_ratio"] = fmt.Sprintf("Found %d superuser role(s) and %d regular role(s).", superusers, regular)
		if superusers > 1 {
			insights["superuser_warning"] = fmt.Sprintf("Having multiple superuser roles (%d) may pose a security risk. Consider consolidating privileges.", superusers)
		}
	}

	return insights, nil
}
