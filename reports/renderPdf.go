package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginPt      = 54  // 0.75 inch
	pdfChartWidthPt  = 432 // 6 inches
	pdfChartHeightPt = 252 // 3.5 inches
	pdfSampleRows    = 10
)

// renderPdf lays the report out as a paged document: title page header, then
// one section per entity with insights, scalar stats, a data sample and the
// charts. Failed entities become a short error section.
func renderPdf(pd *ProcessedData) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMarginPt, pdfMarginPt, pdfMarginPt)
	pdf.SetAutoPageBreak(true, pdfMarginPt)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMarginPt

	if len(pd.Letterhead) > 0 {
		pdf.RegisterImageOptionsReader("letterhead", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(pd.Letterhead))
		pdf.ImageOptions("letterhead", pdfMarginPt, pdf.GetY(), usable, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(10)
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(usable, 24, pd.ReportTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(usable, 14, "Generated: "+pd.timestamp(), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	first := true
	for _, entity := range pd.Order {
		result := pd.Results[entity]
		if result == nil {
			continue
		}

		if result.Err != nil {
			pdf.SetFont("Helvetica", "B", 13)
			pdf.CellFormat(usable, 18, fmt.Sprintf("Error: %s:", entity), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(usable, 13, result.Err.Error(), "", "L", false)
			pdf.Ln(8)
			continue
		}

		if !first {
			pdf.AddPage()
		}
		first = false

		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(usable, 22, sheetNameFor(entity, result.Params), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		if lines := insightLines(result.Analysis.Insights); len(lines) > 0 {
			pdf.SetFont("Helvetica", "B", 13)
			pdf.CellFormat(usable, 18, "Key Insights:", "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for _, line := range lines {
				pdf.MultiCell(usable-20, 13, "- "+line, "", "L", false)
			}
			pdf.Ln(8)
		}

		if stats := scalarStats(result.Analysis.SummaryStats); len(stats) > 0 {
			pdf.SetFont("Helvetica", "B", 13)
			pdf.CellFormat(usable, 18, "Summary Statistics:", "", 1, "L", false, 0, "")
			for _, kv := range stats {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.CellFormat(pdf.GetStringWidth(kv[0]+": ")+2, 13, kv[0]+":", "", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 10)
				pdf.CellFormat(0, 13, kv[1], "", 1, "L", false, 0, "")
			}
			pdf.Ln(8)
		}

		writePdfSample(pdf, usable, result)
		writePdfCharts(pdf, usable, result)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePdfSample(pdf *fpdf.Fpdf, usable float64, result *EntityResult) {
	columns := result.Params.Columns
	if len(result.Data) == 0 || len(columns) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(usable, 18, "Data Sample:", "", 1, "L", false, 0, "")

	colWidth := usable / float64(len(columns))
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0, 0, 139)
	pdf.SetTextColor(245, 245, 245)
	for _, col := range columns {
		pdf.CellFormat(colWidth, 15, clipCell(pdf, headerTitle(col), colWidth), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	rows := len(result.Data)
	if rows > pdfSampleRows {
		rows = pdfSampleRows
	}
	for i := 0; i < rows; i++ {
		fill := i%2 == 0
		pdf.SetFillColor(245, 245, 220)
		for _, col := range columns {
			pdf.CellFormat(colWidth, 13, clipCell(pdf, cellString(result.Data[i][col]), colWidth), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(result.Data) > rows {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(usable, 12, fmt.Sprintf("Note: Showing %d of %d records.", rows, len(result.Data)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(10)
}

func writePdfCharts(pdf *fpdf.Fpdf, usable float64, result *EntityResult) {
	keys := sortedChartKeys(result.Analysis)
	if len(keys) == 0 {
		return
	}

	chartW := float64(pdfChartWidthPt)
	chartH := float64(pdfChartHeightPt)
	if cw := result.Params.TableOptions.ChartWidth; cw != "" {
		if pts, err := parseLengthPoints(cw); err == nil && pts > 0 {
			chartW = pts
			chartH = pts * pdfChartHeightPt / pdfChartWidthPt
		}
	}
	if chartW > usable {
		chartH = chartH * usable / chartW
		chartW = usable
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(usable, 18, "Visual Analysis:", "", 1, "L", false, 0, "")

	for _, key := range keys {
		img := result.Analysis.Charts[key]
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(usable, 16, titleCaseWords(key), "", 1, "C", false, 0, "")

		name := "chart_" + result.Params.Entity + "_" + key
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))
		x := pdfMarginPt + (usable-chartW)/2
		pdf.ImageOptions(name, x, pdf.GetY(), chartW, chartH, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(10)
	}
}

func clipCell(pdf *fpdf.Fpdf, s string, width float64) string {
	for pdf.GetStringWidth(s) > width-4 && len(s) > 1 {
		s = s[:len(s)-1]
	}
	return s
}
