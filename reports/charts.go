package reports

import (
	"bytes"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidthPx  = 800
	chartHeightPx = 400
	pieWidthPx    = 600
	pieHeightPx   = 400

	maxGenericCharts = 3
	maxPieSlices     = 8
)

// renderBarChart draws a vertical bar chart for a value distribution. Failures
// come back as a ChartImage with Err set so renderers can show a placeholder.
func renderBarChart(counts CountList, title string) ChartImage {
	if len(counts) < 2 {
		return ChartImage{Title: title, Err: "not enough categories to chart"}
	}
	bars := make([]chart.Value, 0, len(counts))
	for _, item := range counts {
		bars = append(bars, chart.Value{Label: truncateLabel(item.Key, 20), Value: float64(item.Count)})
	}
	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidthPx,
		Height:   chartHeightPx,
		BarWidth: 40,
		Bars:     bars,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return ChartImage{Title: title, Err: err.Error()}
	}
	return ChartImage{Title: title, PNG: buf.Bytes()}
}

func renderPieChart(counts CountList, title string) ChartImage {
	if len(counts) < 2 {
		return ChartImage{Title: title, Err: "not enough categories to chart"}
	}
	if len(counts) > maxPieSlices {
		counts = counts[:maxPieSlices]
	}
	values := make([]chart.Value, 0, len(counts))
	for _, item := range counts {
		values = append(values, chart.Value{Label: truncateLabel(item.Key, 20), Value: float64(item.Count)})
	}
	graph := chart.PieChart{
		Title:  title,
		Width:  pieWidthPx,
		Height: pieHeightPx,
		Values: values,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return ChartImage{Title: title, Err: err.Error()}
	}
	return ChartImage{Title: title, PNG: buf.Bytes()}
}

// renderTimeSeries draws a monthly trend line from pre-bucketed counts keyed
// "2006-01". Needs at least two months to be worth plotting.
func renderTimeSeries(monthly CountList, title string, yLabel string) ChartImage {
	if len(monthly) < 2 {
		return ChartImage{Title: title, Err: "not enough data points to chart"}
	}
	xs := make([]time.Time, 0, len(monthly))
	ys := make([]float64, 0, len(monthly))
	for _, item := range monthly {
		t, err := time.Parse("2006-01", item.Key)
		if err != nil {
			continue
		}
		xs = append(xs, t)
		ys = append(ys, float64(item.Count))
	}
	if len(xs) < 2 {
		return ChartImage{Title: title, Err: "not enough data points to chart"}
	}
	graph := chart.Chart{
		Title:  title,
		Width:  chartWidthPx,
		Height: chartHeightPx,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{Name: yLabel},
		Series: []chart.Series{
			chart.TimeSeries{XValues: xs, YValues: ys},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return ChartImage{Title: title, Err: err.Error()}
	}
	return ChartImage{Title: title, PNG: buf.Bytes()}
}

// resizePNG scales a chart down to maxWidth pixels, keeping the aspect ratio.
// Embedding targets with fixed page geometry (docx, pptx) use this.
func resizePNG(png []byte, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() <= maxWidth {
		return png, nil
	}
	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func titleCaseWords(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func addChart(charts map[string]ChartImage, key string, img ChartImage) {
	if img.Err == "" {
		charts[key] = img
	}
}

// genericCharts turns up to three counts_ distributions into bar charts.
type genericCharts struct{}

func (genericCharts) Name() string { return "generic_charts" }

func (genericCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	for _, key := range sortedKeys(stats) {
		if len(charts) >= maxGenericCharts {
			break
		}
		if !strings.HasPrefix(key, "counts_") {
			continue
		}
		counts := statCounts(stats, key)
		if len(counts) == 0 || len(counts) > maxUniqueChartCats {
			continue
		}
		name := strings.TrimPrefix(key, "counts_")
		chartKey := "generic_dist_" + strings.ReplaceAll(truncateLabel(name, 20), ".", "_")
		addChart(charts, chartKey, renderBarChart(counts, "Distribution by "+titleCaseWords(name)))
	}
	return charts, nil
}

type submissionCharts struct{}

func (submissionCharts) Name() string { return "submission_charts" }

func (submissionCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}

	dates := dateValues(records, "submitted_at")
	if len(dates) > 0 {
		addChart(charts, "time_series_monthly",
			renderTimeSeries(monthlyCounts(dates), "Submissions Trend (Monthly)", "# Submissions"))
	}
	if top := statCounts(stats, "submissions_per_user_top5"); top != nil {
		addChart(charts, "user_distribution", renderBarChart(top, "Top 5 Users by Submissions"))
	}
	if top := statCounts(stats, "submissions_per_form_top5"); top != nil {
		addChart(charts, "form_distribution", renderPieChart(top, "Submissions by Form Type (Top 5)"))
	}

	// Per-question answer distributions from the dynamic stats.
	for _, key := range sortedKeys(stats) {
		if !strings.HasPrefix(key, "counts_") {
			continue
		}
		counts := statCounts(stats, key)
		if len(counts) == 0 {
			continue
		}
		name := strings.TrimPrefix(key, "counts_")
		chartKey := "dist_" + truncateLabel(name, 20)
		addChart(charts, chartKey, renderBarChart(counts, "Distribution by: "+titleCaseWords(name)))
	}

	return charts, nil
}

type userCharts struct{}

func (userCharts) Name() string { return "user_charts" }

func (userCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "users_per_role"); counts != nil {
		addChart(charts, "user_role_distribution", renderBarChart(counts, "User Count by Role"))
	}
	if counts := statCounts(stats, "users_per_environment"); counts != nil {
		addChart(charts, "user_environment_distribution", renderBarChart(counts, "User Count by Environment"))
	}
	if dates := dateValues(records, "created_at"); len(dates) > 0 {
		addChart(charts, "user_creation_trend",
			renderTimeSeries(monthlyCounts(dates), "User Creation Trend (Monthly)", "# Users Created"))
	}
	return charts, nil
}

type roleCharts struct{}

func (roleCharts) Name() string { return "role_charts" }

func (roleCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "roles_by_superuser_status"); counts != nil {
		addChart(charts, "role_superuser_status", renderPieChart(counts, "Roles by Superuser Status"))
	}
	return charts, nil
}

type formCharts struct{}

func (formCharts) Name() string { return "form_charts" }

func (formCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "public_vs_private_forms"); counts != nil {
		addChart(charts, "form_public_private", renderPieChart(counts, "Forms: Public vs. Private"))
	}
	if counts := statCounts(stats, "forms_per_creator_top5"); counts != nil {
		addChart(charts, "forms_per_creator", renderBarChart(counts, "Top Form Creators"))
	}
	if dates := dateValues(records, "created_at"); len(dates) > 0 {
		addChart(charts, "form_creation_trend",
			renderTimeSeries(monthlyCounts(dates), "Form Creation Trend (Monthly)", "# Forms Created"))
	}
	return charts, nil
}

type permissionCharts struct{}

func (permissionCharts) Name() string { return "permission_charts" }

func (permissionCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "permissions_by_action"); counts != nil {
		addChart(charts, "permissions_by_action", renderPieChart(counts, "Permissions by Action Type"))
	}
	if counts := statCounts(stats, "permissions_by_entity"); counts != nil {
		addChart(charts, "permissions_by_entity", renderBarChart(counts, "Permissions by Entity Type"))
	}
	return charts, nil
}

type environmentCharts struct{}

func (environmentCharts) Name() string { return "environment_charts" }

func (environmentCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if dates := dateValues(records, "created_at"); len(dates) > 0 {
		addChart(charts, "environment_creation_trend",
			renderTimeSeries(monthlyCounts(dates), "Environment Creation Trend (Monthly)", "# Environments"))
	}
	return charts, nil
}

type answersSubmittedCharts struct{}

func (answersSubmittedCharts) Name() string { return "answers_submitted_charts" }

func (answersSubmittedCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "answers_per_question_type"); counts != nil {
		addChart(charts, "answers_by_question_type", renderPieChart(counts, "Answers by Question Type"))
	}
	if counts := statCounts(stats, "answers_per_question_text_top10"); counts != nil {
		addChart(charts, "answers_by_question", renderBarChart(counts, "Top 10 Questions by Answer Count"))
	}
	if counts := statCounts(stats, "answers_per_form_top10"); counts != nil {
		addChart(charts, "answers_by_form", renderBarChart(counts, "Top 10 Forms by Answer Count"))
	}
	return charts, nil
}

type attachmentCharts struct{}

func (attachmentCharts) Name() string { return "attachment_charts" }

func (attachmentCharts) Charts(records []Record, stats map[string]any, p *EntityParams) (map[string]ChartImage, error) {
	charts := map[string]ChartImage{}
	if counts := statCounts(stats, "attachments_by_type"); counts != nil {
		addChart(charts, "attachments_by_file_type", renderPieChart(counts, "Attachments by File Type"))
	}
	if counts := statCounts(stats, "attachments_by_signature_status"); counts != nil {
		addChart(charts, "attachments_by_signature", renderPieChart(counts, "Attachments by Signature Status"))
	}
	if counts := statCounts(stats, "attachments_per_author_top5"); counts != nil {
		addChart(charts, "attachments_by_author", renderBarChart(counts, "Top 5 Authors by Attachment Count"))
	}
	if counts := statCounts(stats, "attachments_per_form_top5"); counts != nil {
		addChart(charts, "attachments_by_form", renderBarChart(counts, "Top 5 Forms by Attachment Count"))
	}
	return charts, nil
}
