package reports

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
)

// SlideTemplate binds an entity to the slide deck output. Only entities with
// a binding can be rendered as pptx; everything else reports
// ErrNotImplementedForFormat.
type SlideTemplate interface {
	// SubtitleLines feeds the title slide below the report title.
	SubtitleLines(result *EntityResult, generated string) []string
	// ConclusionKeys orders which insights lead the conclusion slide.
	ConclusionKeys() []string
}

type userSlides struct{}

func (userSlides) SubtitleLines(result *EntityResult, generated string) []string {
	return []string{
		"Entity: " + result.Params.SheetName,
		"Generated: " + generated,
	}
}

func (userSlides) ConclusionKeys() []string {
	return []string{"dominant_role", "primary_environment", "role_distribution", "top_category_info"}
}

type submissionSlides struct{}

func (submissionSlides) SubtitleLines(result *EntityResult, generated string) []string {
	lines := []string{"Entity: " + result.Params.SheetName}
	if r := statRange(result.Analysis.SummaryStats, "overall_submission_range"); r != nil {
		lines = append(lines, fmt.Sprintf("Period: %s to %s", datePart(r["first"]), datePart(r["last"])))
	}
	return append(lines, "Generated: "+generated)
}

func (submissionSlides) ConclusionKeys() []string {
	return []string{"top_user", "top_form", "activity_rate", "top_department", "top_category_info"}
}

// renderPptx builds a deck from the first successful entity: title, summary,
// one slide per chart, an optional data sample, insights and a conclusion.
func renderPptx(pd *ProcessedData) ([]byte, error) {
	var primary *EntityResult
	var entity string
	for _, name := range pd.Order {
		if r := pd.Results[name]; r != nil && r.Err == nil {
			primary, entity = r, name
			break
		}
	}

	if primary == nil {
		deck := &pptxDeck{}
		deck.AddTitleSlide("Report Error", pd.errored())
		return deck.Bytes()
	}

	if primary.Params.Desc.SlideTemplate == nil {
		return nil, fmt.Errorf("%w: %s as pptx", ErrNotImplementedForFormat, entity)
	}
	template := primary.Params.Desc.SlideTemplate

	deck := &pptxDeck{}
	deck.AddTitleSlide(pd.ReportTitle, template.SubtitleLines(primary, pd.timestamp()))

	addPptxSummary(deck, primary)
	for _, key := range sortedChartKeys(primary.Analysis) {
		img := primary.Analysis.Charts[key]
		w, h := pngSize(img.PNG)
		deck.AddImageSlide(titleCaseWords(key), img.PNG, w, h)
	}
	if primary.Params.IncludeDataTable && len(primary.Data) > 0 {
		addPptxDataTable(deck, primary)
	}
	addPptxInsights(deck, primary)
	addPptxConclusion(deck, primary, template)

	return deck.Bytes()
}

func addPptxSummary(deck *pptxDeck, result *EntityResult) {
	bullets := []pptxBullet{
		{Text: fmt.Sprintf("Total Records: %d", len(result.Data)), Bold: true},
	}
	stats := scalarStats(result.Analysis.SummaryStats)
	filtered := stats[:0]
	for _, kv := range stats {
		if kv[0] != "Record Count" {
			filtered = append(filtered, kv)
		}
	}
	if len(filtered) > 0 {
		bullets = append(bullets, pptxBullet{Text: "Key Statistics:", Bold: true})
		for _, kv := range filtered {
			bullets = append(bullets, pptxBullet{Text: kv[0] + ": " + kv[1], Level: 1})
		}
	}
	deck.AddBulletSlide(result.Params.SheetName+" - Summary", bullets)
}

// addPptxDataTable picks up to five readable columns, favoring identifiers.
func addPptxDataTable(deck *pptxDeck, result *EntityResult) {
	columns := result.Params.Columns
	var display []string
	for _, col := range []string{"id", "name", "title", "submitted_by", "created_at", "status"} {
		for _, c := range columns {
			if c == col {
				display = append(display, c)
			}
		}
	}
	if len(display) < 3 {
		for _, c := range columns {
			if strings.HasPrefix(c, AnswersPrefix) || contains(display, c) {
				continue
			}
			display = append(display, c)
			if len(display) >= 5 {
				break
			}
		}
	}
	if len(display) == 0 {
		return
	}

	headers := make([]string, len(display))
	for i, c := range display {
		headers[i] = headerTitle(c)
	}

	maxRows := pdfSampleRows
	rows := make([][]string, 0, maxRows)
	for _, rec := range result.Data {
		if len(rows) >= maxRows {
			break
		}
		row := make([]string, len(display))
		for i, c := range display {
			val := cellString(rec[c])
			if len(val) > 50 {
				val = val[:47] + "..."
			}
			row[i] = val
		}
		rows = append(rows, row)
	}

	note := ""
	if len(result.Data) > maxRows {
		note = fmt.Sprintf("Note: Showing %d of %d records.", maxRows, len(result.Data))
	}
	deck.AddTableSlide(result.Params.SheetName+" - Data Sample", headers, rows, note)
}

func addPptxInsights(deck *pptxDeck, result *EntityResult) {
	lines := insightLines(result.Analysis.Insights)
	if len(lines) == 0 {
		return
	}
	bullets := make([]pptxBullet, 0, len(lines))
	for _, line := range lines {
		bullets = append(bullets, pptxBullet{Text: line, Size: 1800})
	}
	deck.AddBulletSlide("Key Insights", bullets)
}

func addPptxConclusion(deck *pptxDeck, result *EntityResult, template SlideTemplate) {
	insights := result.Analysis.Insights
	bullets := []pptxBullet{
		{Text: fmt.Sprintf("Analysis completed for %d %s records.", len(result.Data), result.Params.SheetName), Bold: true},
	}

	added := 0
	priority := template.ConclusionKeys()
	for _, key := range priority {
		if text, ok := insights[key]; ok && added < 3 {
			bullets = append(bullets, pptxBullet{Text: text, Level: 1})
			added++
		}
	}
	if added < 3 {
		for _, line := range insightLines(insights) {
			if added >= 3 {
				break
			}
			if containsValue(priority, insights, line) {
				continue
			}
			bullets = append(bullets, pptxBullet{Text: line, Level: 1})
			added++
		}
	}

	bullets = append(bullets, pptxBullet{Text: "Thank you for reviewing this report.", Italic: true})
	deck.AddBulletSlide("Conclusions", bullets)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsValue(keys []string, m map[string]string, value string) bool {
	for _, k := range keys {
		if m[k] == value {
			return true
		}
	}
	return false
}

func pngSize(data []byte) (int, int) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
