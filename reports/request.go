package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SupportedFormats maps output formats to the MIME type of a single-artifact
// response. Multi-entity CSV is zipped and served as application/zip instead.
var SupportedFormats = map[string]string{
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// EntitySelector accepts "users", ["users","forms"] or "all".
type EntitySelector struct {
	All    bool
	Names  []string
	Single bool
}

func (s *EntitySelector) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		one = strings.TrimSpace(one)
		if strings.EqualFold(one, "all") {
			*s = EntitySelector{All: true}
			return nil
		}
		*s = EntitySelector{Names: []string{one}, Single: true}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		cleaned := make([]string, 0, len(many))
		for _, n := range many {
			n = strings.TrimSpace(n)
			if n != "" {
				cleaned = append(cleaned, n)
			}
		}
		*s = EntitySelector{Names: cleaned, Single: len(cleaned) == 1}
		return nil
	}
	return errors.New("report_type must be a string or a list of strings")
}

func (s EntitySelector) MarshalJSON() ([]byte, error) {
	if s.All {
		return json.Marshal("all")
	}
	if s.Single && len(s.Names) == 1 {
		return json.Marshal(s.Names[0])
	}
	return json.Marshal(s.Names)
}

func (s EntitySelector) IsZero() bool {
	return !s.All && len(s.Names) == 0
}

type FilterClause struct {
	Field    string `json:"field" validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Value    any    `json:"value"`
}

type SortClause struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction"`
}

// TableOptions tunes rendered tables and chart sizing. Dimensions carry
// explicit units ("6.5in", "460pt"); bare numbers are rejected up front.
type TableOptions struct {
	Style      string `json:"style"`
	BandedRows *bool  `json:"banded_rows"`
	Autofilter *bool  `json:"autofilter"`
	ChartWidth string `json:"chart_width"`
}

type EntityOverride struct {
	SheetName    string        `json:"sheet_name"`
	TableOptions *TableOptions `json:"table_options"`
}

type ReportRequest struct {
	TemplateId            *int                      `json:"template_id"`
	ReportType            EntitySelector            `json:"report_type"`
	Columns               []string                  `json:"columns"`
	Filters               []FilterClause            `json:"filters" validate:"dive"`
	SortBy                []SortClause              `json:"sort_by" validate:"dive"`
	OutputFormat          string                    `json:"output_format"`
	Filename              string                    `json:"filename"`
	ReportTitle           string                    `json:"report_title"`
	IncludeDeleted        bool                      `json:"include_deleted"`
	IncludeDataTableInPpt bool                      `json:"include_data_table_in_ppt"`
	TableOptions          *TableOptions             `json:"table_options"`
	PerEntity             map[string]EntityOverride `json:"per_entity"`
	Letterhead            string                    `json:"letterhead"`
}

var validate = validator.New()

var validOperators = map[string]bool{
	"eq": true, "neq": true,
	"like": true, "notlike": true,
	"startswith": true, "endswith": true,
	"in": true, "notin": true,
	"gt": true, "lt": true, "gte": true, "lte": true,
	"between": true,
	"isnull":  true, "isnotnull": true,
}

// Validate checks structural validity of the request. Per-clause semantic
// checks (arity, coercion) happen later in the query builder so that a bad
// clause degrades instead of failing the whole report.
func (r *ReportRequest) Validate() error {
	if r.ReportType.IsZero() && r.TemplateId == nil {
		return newValidationError("report_type is required")
	}
	if err := validate.Struct(r); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return newValidationError("invalid request: %v", ve)
		}
		return newValidationError("invalid request: %v", err)
	}
	if r.OutputFormat != "" {
		if _, ok := SupportedFormats[strings.ToLower(r.OutputFormat)]; !ok {
			return newValidationError("unsupported output format %q", r.OutputFormat)
		}
	}
	for _, f := range r.Filters {
		if !validOperators[strings.ToLower(f.Operator)] {
			return newValidationError("unsupported filter operator %q", f.Operator)
		}
	}
	if r.TableOptions != nil && r.TableOptions.ChartWidth != "" {
		if err := checkLength(r.TableOptions.ChartWidth); err != nil {
			return newValidationError("table_options.chart_width: %v", err)
		}
	}
	for name, ov := range r.PerEntity {
		if ov.TableOptions != nil && ov.TableOptions.ChartWidth != "" {
			if err := checkLength(ov.TableOptions.ChartWidth); err != nil {
				return newValidationError("per_entity.%s.table_options.chart_width: %v", name, err)
			}
		}
	}
	return nil
}

// Format returns the normalized output format, defaulting to xlsx.
func (r *ReportRequest) Format() string {
	if r.OutputFormat == "" {
		return "xlsx"
	}
	return strings.ToLower(r.OutputFormat)
}

// HasDetailedParams reports whether the request carries entity-specific
// shaping that only makes sense for a single-entity report.
func (r *ReportRequest) HasDetailedParams() bool {
	return len(r.Columns) > 0 || len(r.Filters) > 0 || len(r.SortBy) > 0
}

// overrideFor returns the per-entity override, zero-valued when absent.
func (r *ReportRequest) overrideFor(entity string) EntityOverride {
	if r.PerEntity == nil {
		return EntityOverride{}
	}
	return r.PerEntity[entity]
}

func checkLength(value string) error {
	if _, err := parseLengthPoints(value); err != nil {
		return fmt.Errorf("%v", err)
	}
	return nil
}
