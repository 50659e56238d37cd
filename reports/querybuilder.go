package reports

import (
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"bitbucket.org/mmdatafocus/forms_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var booleanWords = map[string]bool{
	"true": true, "yes": true, "1": true, "on": true,
	"false": false, "no": false, "0": false, "off": false,
}

// applyFiltersAndSort resolves every filter and sort path against the entity
// schema and appends the corresponding conditions. Clauses that fail to
// resolve or coerce are skipped with a warning so one bad clause cannot sink
// the report. One alias table is shared by all clauses, deduplicating joins.
func applyFiltersAndSort(tx *gorm.DB, sch *schema.Schema, filters []FilterClause, sorts []SortClause) *gorm.DB {
	logger := config.GetLogger()
	aliases := AliasTable{}

	for _, f := range filters {
		op := strings.ToLower(strings.TrimSpace(f.Operator))
		var col *ResolvedColumn
		tx, col = resolveAttribute(tx, sch, f.Field, aliases)
		if col == nil {
			continue
		}

		if f.Value == nil && op != "isnull" && op != "isnotnull" {
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "applyFiltersAndSort",
				"field": f.Field, "operator": op,
			}).Warn("nil filter value, skipping clause")
			continue
		}

		switch op {
		case "eq", "neq":
			value, ok := coerceValue(col.Field, f.Value)
			if !ok {
				logger.WithFields(logrus.Fields{
					"module": "reports", "funcName": "applyFiltersAndSort",
					"field": f.Field, "value": f.Value,
				}).Warn("uncoercible filter value, skipping clause")
				continue
			}
			if op == "eq" {
				tx = tx.Where(col.Expr+" = ?", value)
			} else {
				tx = tx.Where(col.Expr+" <> ?", value)
			}
		case "like":
			tx = tx.Where("LOWER("+col.Expr+") LIKE ?", "%"+lowerString(f.Value)+"%")
		case "notlike":
			tx = tx.Where("LOWER("+col.Expr+") NOT LIKE ?", "%"+lowerString(f.Value)+"%")
		case "startswith":
			tx = tx.Where("LOWER("+col.Expr+") LIKE ?", lowerString(f.Value)+"%")
		case "endswith":
			tx = tx.Where("LOWER("+col.Expr+") LIKE ?", "%"+lowerString(f.Value))
		case "in", "notin":
			list, ok := f.Value.([]any)
			if !ok || len(list) == 0 {
				logger.WithFields(logrus.Fields{
					"module": "reports", "funcName": "applyFiltersAndSort",
					"field": f.Field, "operator": op,
				}).Warn("in/notin requires a non-empty list, skipping clause")
				continue
			}
			if op == "in" {
				tx = tx.Where(col.Expr+" IN ?", list)
			} else {
				tx = tx.Where(col.Expr+" NOT IN ?", list)
			}
		case "gt":
			tx = tx.Where(col.Expr+" > ?", f.Value)
		case "lt":
			tx = tx.Where(col.Expr+" < ?", f.Value)
		case "gte":
			tx = tx.Where(col.Expr+" >= ?", f.Value)
		case "lte":
			tx = tx.Where(col.Expr+" <= ?", f.Value)
		case "between":
			var applied bool
			tx, applied = applyBetween(tx, col, f)
			if !applied {
				continue
			}
		case "isnull":
			tx = tx.Where(col.Expr + " IS NULL")
		case "isnotnull":
			tx = tx.Where(col.Expr + " IS NOT NULL")
		default:
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "applyFiltersAndSort",
				"field": f.Field, "operator": op,
			}).Warn("unsupported operator, skipping clause")
		}
	}

	for _, s := range sorts {
		var col *ResolvedColumn
		tx, col = resolveAttribute(tx, sch, s.Field, aliases)
		if col == nil {
			continue
		}
		direction := strings.ToLower(strings.TrimSpace(s.Direction))
		if direction != "asc" && direction != "desc" {
			if direction != "" {
				logger.WithFields(logrus.Fields{
					"module": "reports", "funcName": "applyFiltersAndSort",
					"field": s.Field, "direction": s.Direction,
				}).Warn("invalid sort direction, defaulting to asc")
			}
			direction = "asc"
		}
		tx = tx.Order(col.Expr + " " + strings.ToUpper(direction))
	}

	return tx
}

// applyBetween handles the two-element range operator. Temporal columns get
// lenient date parsing; date-typed columns are compared on the day boundary.
func applyBetween(tx *gorm.DB, col *ResolvedColumn, f FilterClause) (*gorm.DB, bool) {
	logger := config.GetLogger()
	list, ok := f.Value.([]any)
	if !ok || len(list) != 2 {
		logger.WithFields(logrus.Fields{
			"module": "reports", "funcName": "applyBetween",
			"field": f.Field, "value": f.Value,
		}).Warn("between requires exactly two values, skipping clause")
		return tx, false
	}

	low, high := list[0], list[1]
	if isTemporalColumn(col.Field) {
		lowT, err1 := temporalValue(low)
		highT, err2 := temporalValue(high)
		if err1 != nil || err2 != nil {
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "applyBetween",
				"field": f.Field, "value": f.Value,
			}).Warn("unparseable temporal range, skipping clause")
			return tx, false
		}
		if isDateOnlyColumn(col.Field) {
			lowT = utils.TruncateToDate(lowT)
			highT = utils.TruncateToDate(highT)
		}
		return tx.Where(col.Expr+" BETWEEN ? AND ?", lowT, highT), true
	}

	return tx.Where(col.Expr+" BETWEEN ? AND ?", low, high), true
}

func isTemporalColumn(field *schema.Field) bool {
	if field.DataType == schema.Time {
		return true
	}
	name := strings.ToLower(field.DBName)
	return strings.Contains(name, "date") || strings.Contains(name, "at")
}

func isDateOnlyColumn(field *schema.Field) bool {
	dt := strings.ToLower(string(field.DataType))
	return strings.Contains(dt, "date") && !strings.Contains(dt, "datetime")
}

func temporalValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return utils.ParseLenientTime(t)
	default:
		return utils.ParseLenientTime(fmt.Sprint(v))
	}
}

// coerceValue maps client-friendly spellings onto the column type. Boolean
// columns accept true/yes/1/on and false/no/0/off in any case.
func coerceValue(field *schema.Field, value any) (any, bool) {
	if field.DataType == schema.Bool {
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			b, ok := booleanWords[strings.ToLower(strings.TrimSpace(v))]
			return b, ok
		case float64:
			if v == 0 || v == 1 {
				return v == 1, true
			}
			return nil, false
		default:
			return nil, false
		}
	}
	return value, true
}

func lowerString(v any) string {
	return strings.ToLower(fmt.Sprint(v))
}
