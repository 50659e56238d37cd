package reports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/utils"
)

// EntityResult is one entity's slice of a report: either an error or the
// flattened rows plus their analysis.
type EntityResult struct {
	Err      error
	Params   *EntityParams
	Data     []Record
	Analysis *Analysis
}

// ProcessedData is the renderer input. Order preserves the request's entity
// order so multi-entity output is deterministic.
type ProcessedData struct {
	Order       []string
	Results     map[string]*EntityResult
	ReportTitle string
	GeneratedAt time.Time
	// Letterhead is an optional image placed at the top of page-oriented
	// formats, already fetched from storage.
	Letterhead []byte
}

func (pd *ProcessedData) timestamp() string {
	return pd.GeneratedAt.Format("2006-01-02 15:04:05 MST")
}

// errored collects every failed entity as "entity: error" lines.
func (pd *ProcessedData) errored() []string {
	var out []string
	for _, entity := range pd.Order {
		if r := pd.Results[entity]; r != nil && r.Err != nil {
			out = append(out, fmt.Sprintf("%s: %v", entity, r.Err))
		}
	}
	return out
}

func parseLengthPoints(value string) (float64, error) {
	return utils.ParseLength(value)
}

// headerTitle turns a column path into a display header:
// "creator.environment.name" becomes "Creator Environment Name".
func headerTitle(col string) string {
	return titleCaseWords(strings.ReplaceAll(col, ".", " "))
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// sortRecordsByID orders rows by numeric id ascending, rows without a numeric
// id after, matching the stable presentation the spreadsheet output wants.
func sortRecordsByID(data []Record, columns []string) {
	hasID := false
	for _, c := range columns {
		if c == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		return
	}
	sort.SliceStable(data, func(i, j int) bool {
		a, aOK := numericID(data[i]["id"])
		b, bOK := numericID(data[j]["id"])
		if aOK != bOK {
			return aOK
		}
		if !aOK {
			return cellString(data[i]["id"]) < cellString(data[j]["id"])
		}
		return a < b
	})
}

func numericID(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float64:
		return n, true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// sortedChartKeys yields the charts in deterministic order, skipping entries
// that only carry an error.
func sortedChartKeys(a *Analysis) []string {
	var keys []string
	for k, img := range a.Charts {
		if len(img.PNG) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// scalarStats filters the summary down to printable single values, ordered.
func scalarStats(stats map[string]any) [][2]string {
	var out [][2]string
	for _, k := range sortedKeys(stats) {
		switch v := stats[k].(type) {
		case nil, CountList, map[string]string:
			continue
		default:
			out = append(out, [2]string{titleCaseWords(k), fmt.Sprint(v)})
		}
	}
	return out
}

// insightLines orders insights for display, dropping the status marker when
// real insights exist alongside it.
func insightLines(insights map[string]string) []string {
	var keys []string
	for k := range insights {
		if k == "status" && len(insights) > 1 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, insights[k])
	}
	return lines
}

func sheetNameFor(entity string, p *EntityParams) string {
	name := titleCaseWords(entity)
	if p != nil && p.SheetName != "" {
		name = p.SheetName
	}
	if len(name) > MaxSheetNameLen {
		name = name[:MaxSheetNameLen]
	}
	return name
}
