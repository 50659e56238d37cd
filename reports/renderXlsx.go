package reports

import (
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"github.com/xuri/excelize/v2"
)

// renderXlsx writes one worksheet per entity: a merged title block, the data
// table, then the charts below it. Failed entities get an ERROR_ sheet so the
// workbook still opens with everything that succeeded.
func renderXlsx(pd *ProcessedData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D7E4BC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	stampStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	used := map[string]bool{}
	first := true
	for _, entity := range pd.Order {
		result := pd.Results[entity]
		if result == nil {
			continue
		}

		if result.Err != nil {
			name := uniqueSheetName("ERROR_"+entity, used)
			addSheet(f, name, &first)
			f.SetCellValue(name, "A1", fmt.Sprintf("Error: %s:", entity))
			f.SetCellValue(name, "A2", result.Err.Error())
			f.SetColWidth(name, "A", "A", 100)
			continue
		}

		name := uniqueSheetName(sheetNameFor(entity, result.Params), used)
		addSheet(f, name, &first)
		if err := writeEntitySheet(f, name, result, pd, headerStyle, titleStyle, stampStyle); err != nil {
			config.LogError(config.GetLogger(), "reports", "renderXlsx", "sheet failed", name, err)
			errName := uniqueSheetName("ERROR_"+name, used)
			addSheet(f, errName, &first)
			f.SetCellValue(errName, "A1", fmt.Sprintf("Failed generating sheet %q. Error:", name))
			f.SetCellValue(errName, "A2", err.Error())
			f.SetColWidth(errName, "A", "A", 100)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addSheet reuses the default Sheet1 for the first sheet so the workbook has
// no leftover blank tab.
func addSheet(f *excelize.File, name string, first *bool) {
	if *first {
		f.SetSheetName("Sheet1", name)
		*first = false
		return
	}
	f.NewSheet(name)
}

func uniqueSheetName(name string, used map[string]bool) string {
	if len(name) > MaxSheetNameLen {
		name = name[:MaxSheetNameLen]
	}
	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > MaxSheetNameLen {
			trimmed = trimmed[:MaxSheetNameLen-len(suffix)]
		}
		name = trimmed + suffix
	}
	used[name] = true
	return name
}

func writeEntitySheet(f *excelize.File, sheet string, result *EntityResult, pd *ProcessedData, headerStyle, titleStyle, stampStyle int) error {
	columns := result.Params.Columns
	if len(columns) == 0 {
		f.SetCellValue(sheet, "A1", "No columns to report.")
		return nil
	}

	data := result.Data
	sortRecordsByID(data, columns)

	titleSpan := len(columns)
	if titleSpan < 4 {
		titleSpan = 4
	}
	endCol, _ := excelize.ColumnNumberToName(titleSpan)

	f.SetCellValue(sheet, "A1", "Report: "+sheet)
	f.MergeCell(sheet, "A1", endCol+"1")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", "Generated: "+pd.timestamp())
	f.MergeCell(sheet, "A2", endCol+"2")
	f.SetCellStyle(sheet, "A2", "A2", stampStyle)

	headerRow := 4
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		title := headerTitle(col)
		f.SetCellValue(sheet, cell, title)
		colWidths[i] = len(title)
	}

	for r, rec := range data {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			val := cellString(rec[col])
			f.SetCellValue(sheet, cell, val)
			if len(val) > colWidths[c] {
				colWidths[c] = len(val)
			}
		}
	}

	for i, w := range colWidths {
		width := w
		if width < 10 {
			width = 10
		}
		width += 2
		if width > 60 {
			width = 60
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, float64(width))
	}

	lastRow := headerRow + len(data)
	opts := result.Params.TableOptions
	autofilter := opts.Autofilter == nil || *opts.Autofilter
	if len(data) > 0 && autofilter {
		lastCell, _ := excelize.CoordinatesToCellName(len(columns), lastRow)
		firstCell, _ := excelize.CoordinatesToCellName(1, headerRow)
		banded := opts.BandedRows == nil || *opts.BandedRows
		style := opts.Style
		if style == "" {
			style = "Table Style Medium 9"
		}
		if err := f.AddTable(sheet, &excelize.Table{
			Range:          firstCell + ":" + lastCell,
			Name:           strings.ReplaceAll(sheet, " ", "_") + "_Table",
			StyleName:      strings.ReplaceAll(style, " ", ""),
			ShowRowStripes: &banded,
		}); err != nil {
			return err
		}
	} else {
		firstCell, _ := excelize.CoordinatesToCellName(1, headerRow)
		lastHeader, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
		f.SetCellStyle(sheet, firstCell, lastHeader, headerStyle)
	}

	chartRow := lastRow + 3
	for _, key := range sortedChartKeys(result.Analysis) {
		img := result.Analysis.Charts[key]
		labelCell, _ := excelize.CoordinatesToCellName(1, chartRow)
		f.SetCellValue(sheet, labelCell, titleCaseWords(key)+":")
		imgCell, _ := excelize.CoordinatesToCellName(2, chartRow+1)
		err := f.AddPictureFromBytes(sheet, imgCell, &excelize.Picture{
			Extension: ".png",
			File:      img.PNG,
			Format:    &excelize.GraphicOptions{ScaleX: 0.6, ScaleY: 0.6},
		})
		if err != nil {
			f.SetCellValue(sheet, labelCell, "Error chart: "+key)
			chartRow++
			continue
		}
		chartRow += 20
	}

	return nil
}
