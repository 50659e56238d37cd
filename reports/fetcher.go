package reports

import (
	"context"
	"fmt"
	"sync"

	"bitbucket.org/mmdatafocus/forms_backend/models"
	"bitbucket.org/mmdatafocus/forms_backend/utils"
	"gorm.io/gorm"
)

// fetchEntityData runs the scoped query for one entity and returns a pointer
// to a typed slice of model rows. Scope order: soft-delete, visibility, user
// filters and sorts, then the eager-load plan for every relationship path the
// requested columns touch.
func fetchEntityData(ctx context.Context, db *gorm.DB, desc *EntityDescriptor, filters []FilterClause, sorts []SortClause, columns []string, requester *models.User, includeDeleted bool) (any, error) {
	ctx = utils.SetReportQueryInContext(ctx, true)
	_, softDeletable := desc.Schema.FieldsByDBName["is_deleted"]
	if includeDeleted || !softDeletable {
		ctx = utils.SetDeletedScopedInContext(ctx, true)
	}

	tx := db.WithContext(ctx).Model(desc.Model)

	if softDeletable && !includeDeleted {
		tx = tx.Where("`"+desc.Schema.Table+"`.`is_deleted` = ?", false)
	}

	tx = applyVisibility(tx, desc, requester)
	tx = applyFiltersAndSort(tx, desc.Schema, filters, sorts)

	for _, path := range buildPreloadPaths(desc.Schema, columns, desc.AnalysisHints.DynamicAnswers) {
		tx = tx.Preload(path)
	}

	dest := desc.NewSlice()
	if err := tx.Find(dest).Error; err != nil {
		return nil, err
	}
	return dest, nil
}

// QuestionTypeCache loads the question-text to question-type mapping once per
// report request. It backs both dynamic answer column typing and the live
// available-columns endpoint.
type QuestionTypeCache struct {
	mu     sync.Mutex
	loaded bool
	types  map[string]string
	err    error
}

func (c *QuestionTypeCache) Types(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.types, c.err
	}
	c.loaded = true

	var rows []struct {
		Text string
		Type string
	}
	err := db.WithContext(ctx).
		Table("questions").
		Select("`questions`.`text` AS text, `question_types`.`type` AS type").
		Joins("JOIN `question_types` ON `question_types`.`id` = `questions`.`question_type_id`").
		Where("`questions`.`is_deleted` = ?", false).
		Scan(&rows).Error
	if err != nil {
		c.err = err
		return nil, err
	}

	c.types = make(map[string]string, len(rows))
	for _, r := range rows {
		c.types[r.Text] = r.Type
	}
	return c.types, nil
}

// enrichAssignments fills the computed assigned_entity_identifier column on
// flattened form_assignment rows: username for users, name for roles and
// environments. Lookups are batched per entity kind.
func enrichAssignments(ctx context.Context, db *gorm.DB, records []Record) error {
	idsByKind := map[string][]int{}
	for _, rec := range records {
		kind, _ := rec["entity_name"].(string)
		id, ok := asInt(rec["entity_id"])
		if kind == "" || !ok {
			continue
		}
		idsByKind[kind] = append(idsByKind[kind], id)
	}

	names := map[string]map[int]string{}
	for kind, ids := range idsByKind {
		var table, column string
		switch kind {
		case "users", "user":
			table, column = "users", "username"
		case "roles", "role":
			table, column = "roles", "name"
		case "environments", "environment":
			table, column = "environments", "name"
		default:
			continue
		}
		var rows []struct {
			ID    int
			Label string
		}
		err := db.WithContext(ctx).
			Table(table).
			Select(fmt.Sprintf("`id`, `%s` AS label", column)).
			Where("`id` IN ?", utils.UniqueSlice(ids)).
			Scan(&rows).Error
		if err != nil {
			return err
		}
		names[kind] = make(map[int]string, len(rows))
		for _, r := range rows {
			names[kind][r.ID] = r.Label
		}
	}

	for _, rec := range records {
		if _, present := rec["assigned_entity_identifier"]; !present {
			continue
		}
		kind, _ := rec["entity_name"].(string)
		id, ok := asInt(rec["entity_id"])
		if !ok {
			continue
		}
		if label, found := names[kind][id]; found {
			rec["assigned_entity_identifier"] = label
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
