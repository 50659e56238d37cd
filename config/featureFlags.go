package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ReportParallelEntities processes multi-entity report requests concurrently,
// one goroutine per entity, sharing the request's DB handle.
//
// Set via env:
// - REPORT_PARALLEL_ENTITIES=true
func ReportParallelEntities() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REPORT_PARALLEL_ENTITIES")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ReportTimeout bounds end-to-end report generation.
//
// Set via env:
// - REPORT_TIMEOUT_SECONDS (default 120)
func ReportTimeout() time.Duration {
	raw := strings.TrimSpace(os.Getenv("REPORT_TIMEOUT_SECONDS"))
	if raw == "" {
		return 120 * time.Second
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 120 * time.Second
	}
	return time.Duration(n) * time.Second
}
