package reports

import (
	"bytes"
	"fmt"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"github.com/fumiama/go-docx"
)

const docxChartWidthPx = 620

// renderDocx mirrors the pdf layout as a word document: title block, then one
// section per entity with insights, stats, a 10-row sample table and charts.
func renderDocx(pd *ProcessedData) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.AddText(pd.ReportTitle).Size("36").Bold()
	title.Justification("center")

	stamp := doc.AddParagraph()
	stamp.AddText("Generated: " + pd.timestamp()).Size("20").Italic()
	stamp.Justification("center")
	doc.AddParagraph()

	first := true
	for _, entity := range pd.Order {
		result := pd.Results[entity]
		if result == nil {
			continue
		}

		if result.Err != nil {
			doc.AddParagraph().AddText(fmt.Sprintf("Error: %s:", entity)).Italic()
			doc.AddParagraph().AddText(result.Err.Error()).Italic()
			doc.AddParagraph()
			continue
		}

		if !first {
			doc.AddParagraph().AddPageBreaks()
		}
		first = false

		heading := doc.AddParagraph()
		heading.AddText(sheetNameFor(entity, result.Params)).Size("32").Bold()

		if lines := insightLines(result.Analysis.Insights); len(lines) > 0 {
			doc.AddParagraph().AddText("Key Insights").Size("26").Bold()
			for _, line := range lines {
				doc.AddParagraph().AddText("- " + line)
			}
			doc.AddParagraph()
		}

		if stats := scalarStats(result.Analysis.SummaryStats); len(stats) > 0 {
			doc.AddParagraph().AddText("Summary Statistics").Size("26").Bold()
			for _, kv := range stats {
				p := doc.AddParagraph()
				p.AddText(kv[0] + ": ").Bold()
				p.AddText(kv[1])
			}
			doc.AddParagraph()
		}

		writeDocxSample(doc, result)
		writeDocxCharts(doc, result)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDocxSample(doc *docx.Docx, result *EntityResult) {
	columns := result.Params.Columns
	if len(result.Data) == 0 || len(columns) == 0 {
		return
	}

	doc.AddParagraph().AddText("Data Sample").Size("26").Bold()

	rows := len(result.Data)
	if rows > pdfSampleRows {
		rows = pdfSampleRows
	}

	table := doc.AddTable(rows+1, len(columns), 0, nil)
	for c, col := range columns {
		cell := table.TableRows[0].TableCells[c]
		p := cell.AddParagraph()
		p.AddText(headerTitle(col)).Bold()
		p.Justification("center")
	}
	for r := 0; r < rows; r++ {
		for c, col := range columns {
			cell := table.TableRows[r+1].TableCells[c]
			cell.AddParagraph().AddText(cellString(result.Data[r][col]))
		}
	}

	if len(result.Data) > rows {
		note := doc.AddParagraph()
		note.AddText(fmt.Sprintf("Note: Showing %d of %d records.", rows, len(result.Data))).Italic().Size("16")
		note.Justification("center")
	}
	doc.AddParagraph()
}

func writeDocxCharts(doc *docx.Docx, result *EntityResult) {
	keys := sortedChartKeys(result.Analysis)
	if len(keys) == 0 {
		return
	}

	doc.AddParagraph().AddText("Visual Analysis").Size("26").Bold()
	for _, key := range keys {
		img := result.Analysis.Charts[key]
		caption := doc.AddParagraph()
		caption.AddText(titleCaseWords(key)).Italic().Size("18")
		caption.Justification("center")

		png, err := resizePNG(img.PNG, docxChartWidthPx)
		if err != nil {
			png = img.PNG
		}
		p := doc.AddParagraph()
		if _, err := p.AddInlineDrawing(png); err != nil {
			config.LogError(config.GetLogger(), "reports", "renderDocx", "chart embed failed", key, err)
			p.AddText("Error displaying chart: " + key).Italic()
			continue
		}
		p.Justification("center")
		doc.AddParagraph()
	}
}
