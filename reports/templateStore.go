package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/forms_backend/models"
	"gorm.io/gorm"
)

// loadTemplate fetches a saved report template and checks the requester may
// use it: owner, public template, or superuser.
func loadTemplate(ctx context.Context, db *gorm.DB, id int, requester *models.User) (*models.ReportTemplate, error) {
	var template models.ReportTemplate
	err := db.WithContext(ctx).
		Where("`report_templates`.`id` = ? AND `report_templates`.`is_deleted` = ?", id, false).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newValidationError("report template with ID %d not found", id)
		}
		return nil, newDataAccessError("report_templates", err)
	}

	owner := template.UserId != nil && *template.UserId == requester.ID
	if !owner && !template.IsPublic && !requester.IsSuperUser() {
		return nil, newPermissionError("report_templates", fmt.Sprintf("permission denied to use report template ID %d", id))
	}
	return &template, nil
}

// mergeTemplateConfig layers the live request over the template configuration.
// Anything the request sets explicitly wins; template values fill the rest.
func mergeTemplateConfig(template *models.ReportTemplate, req *ReportRequest) (*ReportRequest, error) {
	var base ReportRequest
	if len(template.Configuration) == 0 {
		return nil, newValidationError("report template %d has no configuration", template.ID)
	}
	if err := json.Unmarshal(template.Configuration, &base); err != nil {
		return nil, newValidationError("report template %d has invalid configuration: %v", template.ID, err)
	}

	merged := base
	merged.TemplateId = req.TemplateId
	if !req.ReportType.IsZero() {
		merged.ReportType = req.ReportType
	}
	if len(req.Columns) > 0 {
		merged.Columns = req.Columns
	}
	if len(req.Filters) > 0 {
		merged.Filters = req.Filters
	}
	if len(req.SortBy) > 0 {
		merged.SortBy = req.SortBy
	}
	if req.OutputFormat != "" {
		merged.OutputFormat = req.OutputFormat
	}
	if req.Filename != "" {
		merged.Filename = req.Filename
	}
	if req.ReportTitle != "" {
		merged.ReportTitle = req.ReportTitle
	}
	if req.IncludeDeleted {
		merged.IncludeDeleted = true
	}
	if req.IncludeDataTableInPpt {
		merged.IncludeDataTableInPpt = true
	}
	if req.TableOptions != nil {
		merged.TableOptions = req.TableOptions
	}
	if len(req.PerEntity) > 0 {
		if merged.PerEntity == nil {
			merged.PerEntity = map[string]EntityOverride{}
		}
		for name, ov := range req.PerEntity {
			merged.PerEntity[name] = ov
		}
	}
	if req.Letterhead != "" {
		merged.Letterhead = req.Letterhead
	}
	return &merged, nil
}
