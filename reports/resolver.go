package reports

import (
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// AliasTable maps dotted relationship path prefixes (request spelling) to the
// SQL alias joined for that prefix. Sharing one table across every filter and
// sort clause of a query guarantees each prefix is joined exactly once.
type AliasTable map[string]string

// ResolvedColumn is a filterable/sortable column reference.
type ResolvedColumn struct {
	Expr  string // quoted `alias`.`column`
	Field *schema.Field
}

// resolveAttribute walks a dot-separated attribute path from the entity's
// schema, adding one aliased LEFT JOIN per unseen relationship prefix.
// Returns nil when any segment is unknown or crosses a to-many relationship;
// callers skip the clause instead of failing the report. Joins and alias
// entries stage locally and only commit once the leaf field resolves, so a
// bad path leaves both the query and the alias table untouched.
func resolveAttribute(tx *gorm.DB, sch *schema.Schema, path string, aliases AliasTable) (*gorm.DB, *ResolvedColumn) {
	logger := config.GetLogger()
	parts := strings.Split(path, ".")

	currentSchema := sch
	currentAlias := sch.Table
	prefix := ""

	pendingAliases := map[string]string{}
	var pendingOrder []string
	var pendingJoins []string

	for _, segment := range parts[:len(parts)-1] {
		rel := findRelationship(currentSchema, segment)
		if rel == nil {
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "resolveAttribute",
				"path": path, "segment": segment,
			}).Warn("unknown relationship segment, skipping clause")
			return tx, nil
		}
		if rel.Type != schema.BelongsTo && rel.Type != schema.HasOne {
			// to-many links cannot back a WHERE/ORDER BY reference
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "resolveAttribute",
				"path": path, "segment": segment,
			}).Warn("to-many relationship in filter/sort path, skipping clause")
			return tx, nil
		}

		if prefix == "" {
			prefix = segment
		} else {
			prefix = prefix + "." + segment
		}

		alias, seen := aliases[prefix]
		if !seen {
			alias, seen = pendingAliases[prefix]
		}
		if !seen {
			alias = strings.ReplaceAll(prefix, ".", "_")
			conds := make([]string, 0, len(rel.References))
			for _, ref := range rel.References {
				if ref.OwnPrimaryKey {
					// HasOne: FK lives on the related table
					conds = append(conds, fmt.Sprintf("`%s`.`%s` = `%s`.`%s`",
						alias, ref.ForeignKey.DBName, currentAlias, ref.PrimaryKey.DBName))
				} else {
					// BelongsTo: FK lives on the current table
					conds = append(conds, fmt.Sprintf("`%s`.`%s` = `%s`.`%s`",
						alias, ref.PrimaryKey.DBName, currentAlias, ref.ForeignKey.DBName))
				}
			}
			pendingJoins = append(pendingJoins, fmt.Sprintf("LEFT JOIN `%s` `%s` ON %s",
				rel.FieldSchema.Table, alias, strings.Join(conds, " AND ")))
			pendingAliases[prefix] = alias
			pendingOrder = append(pendingOrder, prefix)
		}

		currentSchema = rel.FieldSchema
		currentAlias = alias
	}

	field := findField(currentSchema, parts[len(parts)-1])
	if field == nil {
		logger.WithFields(logrus.Fields{
			"module": "reports", "funcName": "resolveAttribute",
			"path": path, "segment": parts[len(parts)-1],
		}).Warn("unknown attribute, skipping clause")
		return tx, nil
	}

	for _, join := range pendingJoins {
		tx = tx.Joins(join)
	}
	for _, p := range pendingOrder {
		aliases[p] = pendingAliases[p]
	}

	return tx, &ResolvedColumn{
		Expr:  fmt.Sprintf("`%s`.`%s`", currentAlias, field.DBName),
		Field: field,
	}
}

// findRelationship matches a snake_case request segment against the schema's
// relationship fields ("question_type" matches QuestionType).
func findRelationship(s *schema.Schema, segment string) *schema.Relationship {
	want := normalizeSegment(segment)
	for _, rel := range s.Relationships.Relations {
		if normalizeSegment(rel.Name) == want {
			return rel
		}
	}
	return nil
}

func findField(s *schema.Schema, segment string) *schema.Field {
	if f, ok := s.FieldsByDBName[segment]; ok {
		return f
	}
	want := normalizeSegment(segment)
	for _, f := range s.Fields {
		if normalizeSegment(f.Name) == want {
			return f
		}
	}
	return nil
}

func normalizeSegment(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// buildPreloadPaths turns requested columns into GORM Preload paths so nested
// reads during flattening never trigger lazy queries. Only maximal paths are
// kept; Preload("Form.Creator") already loads Form.
func buildPreloadPaths(sch *schema.Schema, columns []string, dynamicAnswers bool) []string {
	seen := map[string]bool{}
	var paths []string

	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, col := range columns {
		if strings.HasPrefix(col, AnswersPrefix) {
			continue
		}
		if !strings.Contains(col, ".") {
			continue
		}
		segments := strings.Split(col, ".")
		currentSchema := sch
		var goPath []string
		valid := true
		for _, segment := range segments[:len(segments)-1] {
			rel := findRelationship(currentSchema, segment)
			if rel == nil {
				valid = false
				break
			}
			goPath = append(goPath, rel.Name)
			currentSchema = rel.FieldSchema
		}
		if valid && len(goPath) > 0 {
			add(strings.Join(goPath, "."))
		}
	}

	if dynamicAnswers {
		if rel := findRelationship(sch, "answers_submitted"); rel != nil {
			add(rel.Name)
		}
	}

	// drop paths covered by a longer one
	var maximal []string
	for _, p := range paths {
		covered := false
		for _, q := range paths {
			if p != q && strings.HasPrefix(q, p+".") {
				covered = true
				break
			}
		}
		if !covered {
			maximal = append(maximal, p)
		}
	}
	return maximal
}
