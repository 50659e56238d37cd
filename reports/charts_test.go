package reports

import (
	"bytes"
	"fmt"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderBarChartProducesPNG(t *testing.T) {
	counts := CountList{{Key: "Night", Count: 5}, {Key: "Day", Count: 3}}
	img := renderBarChart(counts, "Shifts")
	if img.Err != "" {
		t.Fatalf("render failed: %s", img.Err)
	}
	if !bytes.HasPrefix(img.PNG, pngMagic) {
		t.Fatal("output is not a PNG")
	}
	if img.Title != "Shifts" {
		t.Fatalf("title = %q", img.Title)
	}
}

func TestRenderBarChartNeedsTwoCategories(t *testing.T) {
	img := renderBarChart(CountList{{Key: "Only", Count: 1}}, "One")
	if img.Err == "" {
		t.Fatal("single category must not chart")
	}
	if len(img.PNG) != 0 {
		t.Fatal("failed chart must carry no image bytes")
	}
}

func TestRenderPieChartCapsSlices(t *testing.T) {
	counts := make(CountList, 0, maxPieSlices+4)
	for i := 0; i < maxPieSlices+4; i++ {
		counts = append(counts, CountItem{Key: fmt.Sprintf("cat%02d", i), Count: 20 - i})
	}
	img := renderPieChart(counts, "Many")
	if img.Err != "" {
		t.Fatalf("render failed: %s", img.Err)
	}
	if !bytes.HasPrefix(img.PNG, pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderTimeSeriesNeedsTwoMonths(t *testing.T) {
	img := renderTimeSeries(CountList{{Key: "2024-01", Count: 3}}, "Trend", "#")
	if img.Err == "" {
		t.Fatal("single month must not chart")
	}

	img = renderTimeSeries(CountList{{Key: "2024-01", Count: 3}, {Key: "2024-02", Count: 5}}, "Trend", "#")
	if img.Err != "" {
		t.Fatalf("render failed: %s", img.Err)
	}
	if !bytes.HasPrefix(img.PNG, pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestAddChartDropsFailures(t *testing.T) {
	charts := map[string]ChartImage{}
	addChart(charts, "bad", ChartImage{Title: "Bad", Err: "boom"})
	addChart(charts, "good", ChartImage{Title: "Good", PNG: pngMagic})
	if _, ok := charts["bad"]; ok {
		t.Fatal("failed charts must be dropped")
	}
	if _, ok := charts["good"]; !ok {
		t.Fatal("successful chart missing")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short", 20); got != "short" {
		t.Fatalf("got %q", got)
	}
	got := truncateLabel("abcdefghij", 5)
	if got != "abcd…" {
		t.Fatalf("got %q", got)
	}
}

func TestTitleCaseWords(t *testing.T) {
	if got := titleCaseWords("shift_time"); got != "Shift Time" {
		t.Fatalf("got %q", got)
	}
	if got := titleCaseWords("users_per_role"); got != "Users Per Role" {
		t.Fatalf("got %q", got)
	}
}

func TestResizePNGKeepsSmallImages(t *testing.T) {
	img := renderBarChart(CountList{{Key: "A", Count: 1}, {Key: "B", Count: 2}}, "T")
	if img.Err != "" {
		t.Fatalf("render failed: %s", img.Err)
	}

	same, err := resizePNG(img.PNG, chartWidthPx+100)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if !bytes.Equal(same, img.PNG) {
		t.Fatal("images narrower than the limit must pass through unchanged")
	}

	smaller, err := resizePNG(img.PNG, 200)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if !bytes.HasPrefix(smaller, pngMagic) {
		t.Fatal("resized output is not a PNG")
	}
	if len(smaller) >= len(img.PNG) {
		t.Fatal("downscaled image should be smaller")
	}
}
