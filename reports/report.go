package reports

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"bitbucket.org/mmdatafocus/forms_backend/models"
	"bitbucket.org/mmdatafocus/forms_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("bitbucket.org/mmdatafocus/forms_backend/reports")

// Report is the finished artifact handed back to the transport layer.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// GenerateReport runs the full pipeline for one request: template merge,
// validation, per-entity fetch/flatten/analyze, then rendering. A failing
// entity degrades to an error section; the report only fails outright when
// every entity does, or the rendering itself breaks.
func GenerateReport(ctx context.Context, db *gorm.DB, req *ReportRequest, requester *models.User) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ReportTimeout())
	defer cancel()

	ctx, span := tracer.Start(ctx, "reports.GenerateReport")
	defer span.End()

	templateName := ""
	if req.TemplateId != nil {
		template, err := loadTemplate(ctx, db, *req.TemplateId, requester)
		if err != nil {
			return nil, err
		}
		merged, err := mergeTemplateConfig(template, req)
		if err != nil {
			return nil, err
		}
		req = merged
		templateName = template.Name
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	entities := req.ReportType.Names
	if req.ReportType.All {
		entities = EntityNames()
	}
	span.SetAttributes(
		attribute.Int("report.entities", len(entities)),
		attribute.String("report.format", req.Format()),
	)

	pd := processEntities(ctx, db, req, requester, entities)

	succeeded := false
	for _, r := range pd.Results {
		if r != nil && r.Err == nil {
			succeeded = true
			break
		}
	}
	if !succeeded {
		return nil, &ReportError{
			Kind: KindAllFailed,
			Msg:  "no data generated. Errors: " + strings.Join(pd.errored(), "; "),
		}
	}

	if req.Letterhead != "" {
		provider, err := utils.GetStorageProvider()
		if err == nil {
			var img []byte
			img, err = provider.Fetch(ctx, req.Letterhead)
			if err == nil {
				pd.Letterhead = img
			}
		}
		if err != nil {
			config.LogError(config.GetLogger(), "reports", "GenerateReport", "letterhead fetch failed", req.Letterhead, err)
		}
	}

	data, contentType, err := renderReport(pd, req)
	if err != nil {
		return nil, err
	}

	filename := baseFilename(req, templateName, pd.GeneratedAt)
	ext := req.Format()
	if contentType == "application/zip" {
		ext = "zip"
	}

	return &Report{
		Filename:    filename + "." + ext,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// processEntities builds one EntityResult per requested entity, in parallel
// when enabled.
func processEntities(ctx context.Context, db *gorm.DB, req *ReportRequest, requester *models.User, entities []string) *ProcessedData {
	pd := &ProcessedData{
		Order:       entities,
		Results:     make(map[string]*EntityResult, len(entities)),
		ReportTitle: reportTitle(req),
		GeneratedAt: time.Now(),
	}

	qtCache := &QuestionTypeCache{}

	if config.ReportParallelEntities() && len(entities) > 1 {
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, entity := range entities {
			wg.Add(1)
			go func(entity string) {
				defer wg.Done()
				result := processEntity(ctx, db, req, requester, entity, qtCache)
				mu.Lock()
				pd.Results[entity] = result
				mu.Unlock()
			}(entity)
		}
		wg.Wait()
		return pd
	}

	for _, entity := range entities {
		pd.Results[entity] = processEntity(ctx, db, req, requester, entity, qtCache)
	}
	return pd
}

func processEntity(ctx context.Context, db *gorm.DB, req *ReportRequest, requester *models.User, entity string, qtCache *QuestionTypeCache) (result *EntityResult) {
	ctx, span := tracer.Start(ctx, "reports.processEntity")
	span.SetAttributes(attribute.String("report.entity", entity))
	defer span.End()

	logger := config.GetLogger()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("processing panic: %v", r)
			config.LogError(logger, "reports", "processEntity", "panic", entity, err)
			result = &EntityResult{Err: newDataAccessError(entity, err)}
		}
	}()

	desc, err := Describe(entity)
	if err != nil {
		return &EntityResult{Err: err}
	}

	if !models.HasPermission(requester, string(models.PermissionActionView), string(desc.ViewEntity)) {
		return &EntityResult{Err: newPermissionError(entity, "permission denied for "+entity+" report")}
	}

	isAdmin := requester.IsSuperUser()
	params := buildEntityParams(req, entity, desc, isAdmin)
	if len(params.Columns) == 0 {
		return &EntityResult{Err: newValidationError("no accessible columns for %s", entity)}
	}

	if desc.AnalysisHints.DynamicAnswers {
		types, qtErr := qtCache.Types(ctx, db)
		if qtErr != nil {
			config.LogError(logger, "reports", "processEntity", "question type preload failed", entity, qtErr)
		} else {
			params.QuestionTypes = types
		}
	}

	objects, err := fetchEntityData(ctx, db, desc, params.Filters, params.SortBy, params.Columns, requester, req.IncludeDeleted)
	if err != nil {
		return &EntityResult{Err: newDataAccessError(entity, err), Params: params}
	}

	data := flattenData(objects, params.Columns, desc)

	if entity == "form_assignments" {
		if err := enrichAssignments(ctx, db, data); err != nil {
			config.LogError(logger, "reports", "processEntity", "assignment enrichment failed", entity, err)
		}
	}

	analysis := analyze(data, params)

	return &EntityResult{
		Params:   params,
		Data:     data,
		Analysis: analysis,
	}
}

// buildEntityParams resolves the columns, filters, sort and presentation
// options for one entity. Detailed shaping only applies to single-entity
// requests; everything else runs on the entity's defaults.
func buildEntityParams(req *ReportRequest, entity string, desc *EntityDescriptor, isAdmin bool) *EntityParams {
	detailed := req.ReportType.Single && req.HasDetailedParams()

	var columns []string
	filters := []FilterClause{}
	sorts := desc.DefaultSort

	if detailed {
		columns = req.Columns
		filters = req.Filters
		if len(req.SortBy) > 0 {
			sorts = req.SortBy
		}
	}
	if len(columns) == 0 {
		columns = append(desc.SchemaColumns(), desc.DefaultRelatedColumns()...)
	}
	columns = desc.SanitizeColumns(columns, isAdmin)

	override := req.overrideFor(entity)
	sheetName := titleCaseWords(entity)
	if override.SheetName != "" {
		sheetName = override.SheetName
	}
	if len(sheetName) > MaxSheetNameLen {
		sheetName = sheetName[:MaxSheetNameLen]
	}

	opts := TableOptions{}
	if req.TableOptions != nil {
		opts = *req.TableOptions
	}
	if override.TableOptions != nil {
		opts = *override.TableOptions
	}

	return &EntityParams{
		Entity:           entity,
		Desc:             desc,
		Columns:          columns,
		Filters:          filters,
		SortBy:           sorts,
		ReportTitle:      reportTitle(req),
		SheetName:        sheetName,
		TableOptions:     opts,
		IncludeDataTable: req.IncludeDataTableInPpt,
		IsAdmin:          isAdmin,
	}
}

func reportTitle(req *ReportRequest) string {
	if req.ReportTitle != "" {
		return req.ReportTitle
	}
	return DefaultReportTitle
}

func renderReport(pd *ProcessedData, req *ReportRequest) ([]byte, string, error) {
	format := req.Format()
	switch format {
	case "xlsx":
		data, err := renderXlsx(pd)
		return data, SupportedFormats[format], wrapRenderErr(format, err)
	case "csv":
		return renderCsv(pd)
	case "pdf":
		data, err := renderPdf(pd)
		return data, SupportedFormats[format], wrapRenderErr(format, err)
	case "docx":
		data, err := renderDocx(pd)
		return data, SupportedFormats[format], wrapRenderErr(format, err)
	case "pptx":
		data, err := renderPptx(pd)
		return data, SupportedFormats[format], wrapRenderErr(format, err)
	default:
		return nil, "", newValidationError("unsupported output format %q", format)
	}
}

func wrapRenderErr(format string, err error) error {
	if err == nil {
		return nil
	}
	return newRenderError(format, err)
}

func baseFilename(req *ReportRequest, templateName string, generatedAt time.Time) string {
	if req.Filename != "" {
		return req.Filename
	}
	ts := generatedAt.Format("20060102_1504")
	if templateName != "" {
		return "template_" + safeFilenamePart(templateName) + "_" + ts
	}
	switch {
	case req.ReportType.All:
		return "full_report_" + ts
	case req.ReportType.Single:
		return "report_" + req.ReportType.Names[0] + "_" + ts
	default:
		return "multi_report_" + ts
	}
}

func safeFilenamePart(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// AvailableColumns serves the live column list for one entity, including the
// dynamic answer columns for submission reports.
func AvailableColumns(ctx context.Context, db *gorm.DB, entity string) ([]string, error) {
	desc, err := Describe(entity)
	if err != nil {
		return nil, err
	}
	columns := append([]string{}, desc.AvailableColumns...)
	if desc.AnalysisHints.DynamicAnswers {
		cache := &QuestionTypeCache{}
		types, err := cache.Types(ctx, db)
		if err != nil {
			return nil, newDataAccessError(entity, err)
		}
		for _, q := range sortedKeys(types) {
			columns = append(columns, AnswersPrefix+q)
		}
	}
	return columns, nil
}
