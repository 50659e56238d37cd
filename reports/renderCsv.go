package reports

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// renderCsv produces a single CSV for one entity and a zip of per-entity CSVs
// for multi-entity reports. The returned content type reflects which one.
func renderCsv(pd *ProcessedData) ([]byte, string, error) {
	if len(pd.Order) == 0 {
		return messageCsv("Message", "No data to report.")
	}

	if len(pd.Order) == 1 {
		entity := pd.Order[0]
		result := pd.Results[entity]
		if result == nil || result.Err != nil {
			detail := "missing result"
			if result != nil {
				detail = result.Err.Error()
			}
			return messageCsv("Error", fmt.Sprintf("Error for %s: %s", entity, detail))
		}
		if len(result.Params.Columns) == 0 {
			return messageCsv("Error", "No columns available for report: "+entity)
		}
		data, err := entityCsv(result)
		if err != nil {
			return nil, "", err
		}
		return data, "text/csv", nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entity := range pd.Order {
		result := pd.Results[entity]
		if result == nil {
			continue
		}
		base := strings.ReplaceAll(sheetNameFor(entity, result.Params), "/", "_")
		if result.Err != nil {
			w, err := zw.Create(base + "_error.txt")
			if err != nil {
				return nil, "", err
			}
			fmt.Fprintf(w, "Error for %s: %v", entity, result.Err)
			continue
		}
		if len(result.Params.Columns) == 0 {
			w, err := zw.Create(base + "_error.txt")
			if err != nil {
				return nil, "", err
			}
			fmt.Fprintf(w, "No columns for %s.", entity)
			continue
		}
		data, err := entityCsv(result)
		if err != nil {
			return nil, "", err
		}
		w, err := zw.Create(base + ".csv")
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(data); err != nil {
			return nil, "", err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "application/zip", nil
}

func entityCsv(result *EntityResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	columns := result.Params.Columns

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, rec := range result.Data {
		for i, col := range columns {
			row[i] = cellString(rec[col])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func messageCsv(header, message string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{header})
	w.Write([]string{message})
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "text/csv", nil
}
