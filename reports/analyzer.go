package reports

import (
	"fmt"

	"bitbucket.org/mmdatafocus/forms_backend/config"
)

// ChartImage is a rendered chart. A non-empty Err means rendering failed and
// renderers should show a placeholder note instead of an image.
type ChartImage struct {
	Title string
	PNG   []byte
	Err   string
}

// Analysis bundles everything the renderers consume for one entity.
type Analysis struct {
	SummaryStats map[string]any
	Charts       map[string]ChartImage
	Insights     map[string]string
}

// EntityParams carries the per-entity shaping of one report request.
type EntityParams struct {
	Entity           string
	Desc             *EntityDescriptor
	Columns          []string
	Filters          []FilterClause
	SortBy           []SortClause
	ReportTitle      string
	SheetName        string
	TableOptions     TableOptions
	IncludeDataTable bool
	IsAdmin          bool
	// QuestionTypes maps question text to question type for dynamic answer
	// column typing, shared across the request.
	QuestionTypes map[string]string
}

type StatsGenerator interface {
	Name() string
	Stats(records []Record, p *EntityParams) (map[string]any, error)
}

type ChartGenerator interface {
	Name() string
	Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error)
}

type InsightGenerator interface {
	Name() string
	Insights(records []Record, a *Analysis, p *EntityParams) (map[string]string, error)
}

// analyze runs the entity's generator chain. A failing generator contributes
// a "<name>_error" entry instead of aborting; record_count is always present.
func analyze(records []Record, p *EntityParams) *Analysis {
	a := &Analysis{
		SummaryStats: map[string]any{"record_count": len(records)},
		Charts:       map[string]ChartImage{},
		Insights:     map[string]string{},
	}

	if len(records) == 0 {
		a.Insights["status"] = "No data available for analysis."
		return a
	}

	for _, g := range p.Desc.StatsGenerators {
		stats, err := runStats(g, records, p)
		if err != nil {
			config.LogError(config.GetLogger(), "reports", "analyze", "stats generator failed", g.Name(), err)
			a.SummaryStats[g.Name()+"_error"] = err.Error()
			continue
		}
		for k, v := range stats {
			if _, exists := a.SummaryStats[k]; !exists {
				a.SummaryStats[k] = v
			}
		}
	}

	for _, g := range p.Desc.ChartGenerators {
		charts, err := runCharts(g, records, a.SummaryStats, p)
		if err != nil {
			config.LogError(config.GetLogger(), "reports", "analyze", "chart generator failed", g.Name(), err)
			a.Charts[g.Name()+"_error"] = ChartImage{Err: err.Error()}
			continue
		}
		for k, v := range charts {
			if _, exists := a.Charts[k]; !exists {
				a.Charts[k] = v
			}
		}
	}

	for _, g := range p.Desc.InsightGenerators {
		insights, err := runInsights(g, records, a, p)
		if err != nil {
			config.LogError(config.GetLogger(), "reports", "analyze", "insight generator failed", g.Name(), err)
			a.Insights[g.Name()+"_error"] = err.Error()
			continue
		}
		for k, v := range insights {
			if _, exists := a.Insights[k]; !exists {
				a.Insights[k] = v
			}
		}
	}

	return a
}

func runStats(g StatsGenerator, records []Record, p *EntityParams) (out map[string]any, err error) {
	defer recoverGenerator(&err)
	return g.Stats(records, p)
}

func runCharts(g ChartGenerator, records []Record, stats map[string]any, p *EntityParams) (out map[string]ChartImage, err error) {
	defer recoverGenerator(&err)
	return g.Charts(records, stats, p)
}

func runInsights(g InsightGenerator, records []Record, a *Analysis, p *EntityParams) (out map[string]string, err error) {
	defer recoverGenerator(&err)
	return g.Insights(records, a, p)
}

// generators work on arbitrary client data; a panic must degrade, not crash
func recoverGenerator(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("generator panic: %v", r)
	}
}
