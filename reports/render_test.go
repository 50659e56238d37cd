package reports

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func renderFixture(t *testing.T, entity string, columns []string, data []Record) *ProcessedData {
	t.Helper()
	desc, err := Describe(entity)
	if err != nil {
		t.Fatalf("Describe(%s): %v", entity, err)
	}
	p := &EntityParams{
		Entity:    entity,
		Desc:      desc,
		Columns:   columns,
		SheetName: sheetNameFor(entity, nil),
	}
	return &ProcessedData{
		Order: []string{entity},
		Results: map[string]*EntityResult{
			entity: {
				Params: p,
				Data:   data,
				Analysis: &Analysis{
					SummaryStats: map[string]any{"record_count": len(data)},
					Charts:       map[string]ChartImage{},
					Insights:     map[string]string{"volume": "Analyzed records."},
				},
			},
		},
		ReportTitle: "Test Report",
		GeneratedAt: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
	}
}

func TestRenderCsvSingleEntity(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username", "role.name"}, []Record{
		{"id": 1, "username": "tech1", "role.name": "Technician"},
		{"id": 2, "username": "mgr1", "role.name": nil},
	})

	data, contentType, err := renderCsv(pd)
	if err != nil {
		t.Fatalf("renderCsv: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("contentType = %q", contentType)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	// csv headers are raw column paths, not display titles
	if rows[0][0] != "id" || rows[0][2] != "role.name" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "tech1" || rows[2][2] != "" {
		t.Fatalf("rows = %v", rows[1:])
	}
}

func TestRenderCsvMultiEntityZip(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username"}, []Record{{"id": 1, "username": "tech1"}})
	rolesDesc, _ := Describe("roles")
	pd.Order = append(pd.Order, "roles")
	pd.Results["roles"] = &EntityResult{
		Params: &EntityParams{Entity: "roles", Desc: rolesDesc},
		Err:    errors.New("access denied"),
	}

	data, contentType, err := renderCsv(pd)
	if err != nil {
		t.Fatalf("renderCsv: %v", err)
	}
	if contentType != "application/zip" {
		t.Fatalf("contentType = %q", contentType)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["Users.csv"] {
		t.Fatalf("missing Users.csv in %v", names)
	}
	if !names["Roles_error.txt"] {
		t.Fatalf("missing Roles_error.txt in %v", names)
	}
}

func TestRenderCsvNoEntities(t *testing.T) {
	data, contentType, err := renderCsv(&ProcessedData{})
	if err != nil {
		t.Fatalf("renderCsv: %v", err)
	}
	if contentType != "text/csv" {
		t.Fatalf("contentType = %q", contentType)
	}
	if !strings.Contains(string(data), "No data to report.") {
		t.Fatalf("got %q", data)
	}
}

func TestRenderXlsxWorkbookLayout(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username"}, []Record{
		{"id": 2, "username": "mgr1"},
		{"id": 1, "username": "tech1"},
	})

	data, err := renderXlsx(pd)
	if err != nil {
		t.Fatalf("renderXlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Users" {
		t.Fatalf("sheets = %v", sheets)
	}

	title, _ := f.GetCellValue("Users", "A1")
	if title != "Report: Users" {
		t.Fatalf("title = %q", title)
	}
	header, _ := f.GetCellValue("Users", "B4")
	if header != "Username" {
		t.Fatalf("header = %q", header)
	}
	// rows sort ascending by id
	first, _ := f.GetCellValue("Users", "B5")
	if first != "tech1" {
		t.Fatalf("first data row = %q", first)
	}
}

func TestRenderXlsxErrorSheet(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id"}, nil)
	pd.Results["users"].Err = errors.New("query timed out")

	data, err := renderXlsx(pd)
	if err != nil {
		t.Fatalf("renderXlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "ERROR_users" {
		t.Fatalf("sheets = %v", sheets)
	}
	msg, _ := f.GetCellValue("ERROR_users", "A2")
	if msg != "query timed out" {
		t.Fatalf("error cell = %q", msg)
	}
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	if got := uniqueSheetName("Users", used); got != "Users" {
		t.Fatalf("got %q", got)
	}
	if got := uniqueSheetName("Users", used); got != "Users_2" {
		t.Fatalf("got %q", got)
	}
	long := strings.Repeat("x", MaxSheetNameLen+10)
	if got := uniqueSheetName(long, used); len(got) != MaxSheetNameLen {
		t.Fatalf("long name not clipped: %d chars", len(got))
	}
}

func TestRenderPdfMagicBytes(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username"}, []Record{{"id": 1, "username": "tech1"}})
	data, err := renderPdf(pd)
	if err != nil {
		t.Fatalf("renderPdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderDocxIsZipArchive(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username"}, []Record{{"id": 1, "username": "tech1"}})
	data, err := renderDocx(pd)
	if err != nil {
		t.Fatalf("renderDocx: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatal("output is not a zip container")
	}
}

func TestRenderPptxDeckStructure(t *testing.T) {
	pd := renderFixture(t, "users", []string{"id", "username"}, []Record{{"id": 1, "username": "tech1"}})

	data, err := renderPptx(pd)
	if err != nil {
		t.Fatalf("renderPptx: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pptx: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, required := range []string{"[Content_Types].xml", "ppt/presentation.xml", "ppt/slides/slide1.xml"} {
		if !names[required] {
			t.Fatalf("missing %s in %v", required, names)
		}
	}
}

func TestRenderPptxUnsupportedEntity(t *testing.T) {
	pd := renderFixture(t, "roles", []string{"id", "name"}, []Record{{"id": 1, "name": "Admin"}})
	_, err := renderPptx(pd)
	if !errors.Is(err, ErrNotImplementedForFormat) {
		t.Fatalf("expected ErrNotImplementedForFormat, got %v", err)
	}
}

func TestHeaderTitle(t *testing.T) {
	if got := headerTitle("form.creator.environment.name"); got != "Form Creator Environment Name" {
		t.Fatalf("got %q", got)
	}
}

func TestSortRecordsByID(t *testing.T) {
	data := []Record{{"id": "x"}, {"id": 3}, {"id": 1}}
	sortRecordsByID(data, []string{"id", "name"})
	if data[0]["id"] != 1 || data[1]["id"] != 3 || data[2]["id"] != "x" {
		t.Fatalf("got %v", data)
	}

	unsorted := []Record{{"id": 2}, {"id": 1}}
	sortRecordsByID(unsorted, []string{"name"})
	if unsorted[0]["id"] != 2 {
		t.Fatal("must not sort when id is not a selected column")
	}
}

func TestInsightLinesDropStatusMarker(t *testing.T) {
	lines := insightLines(map[string]string{"status": "No data available for analysis."})
	if len(lines) != 1 || lines[0] != "No data available for analysis." {
		t.Fatalf("lone status must survive: %v", lines)
	}
	lines = insightLines(map[string]string{"status": "x", "volume": "Analyzed 3 total submissions."})
	if len(lines) != 1 || lines[0] != "Analyzed 3 total submissions." {
		t.Fatalf("status must be dropped alongside real insights: %v", lines)
	}
}
