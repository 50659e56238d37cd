package config

import (
	"context"
	"strings"

	"bitbucket.org/mmdatafocus/forms_backend/appctx"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SoftDeleteGuardPlugin watches queries issued by the report engine and logs
// a warning when a soft-deletable table is read without an is_deleted
// condition. Rows are never filtered here; scoping stays in the fetcher so
// include_deleted requests keep working. The guard only flags the gap.
//
// NOTE:
// - This does NOT apply to Raw SQL queries.
type SoftDeleteGuardPlugin struct{}

func NewSoftDeleteGuardPlugin() *SoftDeleteGuardPlugin { return &SoftDeleteGuardPlugin{} }

func (p *SoftDeleteGuardPlugin) Name() string { return "soft_delete_guard" }

func (p *SoftDeleteGuardPlugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("soft_delete_guard:query", softDeleteGuardCallback); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("soft_delete_guard:row", softDeleteGuardCallback); err != nil {
		return err
	}
	return nil
}

func softDeleteGuardCallback(db *gorm.DB) {
	if db == nil || db.Statement == nil {
		return
	}
	ctx := db.Statement.Context
	if ctx == nil || !isReportQuery(ctx) {
		return
	}
	if deletedScopeWaived(ctx) {
		return
	}
	if db.Statement.Schema == nil {
		return
	}
	hasIsDeleted := false
	for _, f := range db.Statement.Schema.Fields {
		if strings.EqualFold(f.DBName, "is_deleted") {
			hasIsDeleted = true
			break
		}
	}
	if !hasIsDeleted {
		return
	}
	if whereHasIsDeleted(db.Statement.Clauses["WHERE"]) {
		return
	}

	GetLogger().WithFields(logrus.Fields{
		"module":     "config",
		"funcName":   "softDeleteGuardCallback",
		"table":      db.Statement.Table,
		"policy_gap": true,
	}).Warn("report query on soft-deletable table lacks an is_deleted condition")
}

func isReportQuery(ctx context.Context) bool {
	v, ok := ctx.Value(appctx.ContextKeyReportQuery).(bool)
	return ok && v
}

func deletedScopeWaived(ctx context.Context) bool {
	v, ok := ctx.Value(appctx.ContextKeyDeletedScoped).(bool)
	return ok && v
}

func whereHasIsDeleted(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range w.Exprs {
		if exprHasIsDeleted(e) {
			return true
		}
	}
	return false
}

func exprHasIsDeleted(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		return colIsIsDeleted(v.Column)
	case clause.Neq:
		return colIsIsDeleted(v.Column)
	case clause.IN:
		return colIsIsDeleted(v.Column)
	case clause.AndConditions:
		for _, x := range v.Exprs {
			if exprHasIsDeleted(x) {
				return true
			}
		}
		return false
	case clause.OrConditions:
		for _, x := range v.Exprs {
			if exprHasIsDeleted(x) {
				return true
			}
		}
		return false
	case clause.Expr:
		// Best-effort for raw expressions.
		return strings.Contains(strings.ToLower(v.SQL), "is_deleted")
	default:
		return false
	}
}

func colIsIsDeleted(col any) bool {
	switch c := col.(type) {
	case string:
		return strings.Contains(strings.ToLower(c), "is_deleted")
	case clause.Column:
		return strings.EqualFold(c.Name, "is_deleted")
	default:
		return false
	}
}
