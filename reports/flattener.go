package reports

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"github.com/sirupsen/logrus"
)

// Record is one flattened report row keyed by requested column name.
type Record map[string]any

// flattenData converts fetched model rows into flat records. Dotted paths are
// walked by reflection; times render as "2006-01-02 15:04:05", booleans as
// Yes/No. For submission entities the "answers." columns pivot the object's
// own submitted answers into the row, first answer wins on duplicates.
func flattenData(objects any, columns []string, desc *EntityDescriptor) []Record {
	items := reflect.Indirect(reflect.ValueOf(objects))
	if !items.IsValid() || items.Kind() != reflect.Slice || items.Len() == 0 {
		return []Record{}
	}

	records := make([]Record, 0, items.Len())
	for i := 0; i < items.Len(); i++ {
		obj := items.Index(i)
		row := make(Record, len(columns))
		wantDynamic := false

		for _, col := range columns {
			if desc.AnalysisHints.DynamicAnswers && strings.HasPrefix(col, AnswersPrefix) {
				wantDynamic = true
				continue
			}
			row[col] = getAttributeRecursive(obj, col)
		}

		if wantDynamic {
			answers := submittedAnswers(obj)
			for _, col := range columns {
				if !strings.HasPrefix(col, AnswersPrefix) {
					continue
				}
				question := strings.TrimPrefix(col, AnswersPrefix)
				if v, ok := answers[question]; ok {
					row[col] = v
				} else {
					row[col] = nil
				}
			}
		}

		records = append(records, row)
	}
	return records
}

// submittedAnswers pivots a submission's answer rows into question -> answer.
// Deleted answers are skipped; the first answer per question wins and
// duplicates are logged.
func submittedAnswers(obj reflect.Value) map[string]any {
	out := map[string]any{}
	list := fieldByNormalizedName(reflect.Indirect(obj), "answers_submitted")
	if !list.IsValid() || list.Kind() != reflect.Slice {
		return out
	}
	logger := config.GetLogger()
	for i := 0; i < list.Len(); i++ {
		ans := reflect.Indirect(list.Index(i))
		if !ans.IsValid() {
			continue
		}
		if deleted := fieldByNormalizedName(ans, "is_deleted"); deleted.IsValid() && deleted.Kind() == reflect.Bool && deleted.Bool() {
			continue
		}
		question := fieldByNormalizedName(ans, "question")
		answer := fieldByNormalizedName(ans, "answer")
		if !question.IsValid() || question.Kind() != reflect.String {
			continue
		}
		q := question.String()
		if _, dup := out[q]; dup {
			logger.WithFields(logrus.Fields{
				"module": "reports", "funcName": "submittedAnswers",
				"question": q,
			}).Warn("duplicate answer for question, keeping first")
			continue
		}
		out[q] = formatValue(answer)
	}
	return out
}

// getAttributeRecursive walks a dot path through struct fields, dereferencing
// pointers and supporting "items[0]" index syntax. Any miss yields nil.
func getAttributeRecursive(obj reflect.Value, path string) any {
	value := obj
	for _, segment := range strings.Split(path, ".") {
		value = reflect.Indirect(value)
		if !value.IsValid() {
			return nil
		}
		name := segment
		index := -1
		if open := strings.Index(segment, "["); open > 0 && strings.HasSuffix(segment, "]") {
			idx, err := strconv.Atoi(segment[open+1 : len(segment)-1])
			if err != nil {
				return nil
			}
			name = segment[:open]
			index = idx
		}
		if value.Kind() != reflect.Struct {
			return nil
		}
		value = fieldByNormalizedName(value, name)
		if !value.IsValid() {
			return nil
		}
		if index >= 0 {
			value = reflect.Indirect(value)
			if !value.IsValid() || value.Kind() != reflect.Slice || value.Len() <= index {
				return nil
			}
			value = value.Index(index)
		}
	}
	return formatValue(value)
}

// fieldByNormalizedName matches snake_case request segments against Go field
// names ("question_type" finds QuestionType).
func fieldByNormalizedName(structValue reflect.Value, name string) reflect.Value {
	if !structValue.IsValid() || structValue.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	want := normalizeSegment(name)
	t := structValue.Type()
	for i := 0; i < t.NumField(); i++ {
		if normalizeSegment(t.Field(i).Name) == want {
			return structValue.Field(i)
		}
	}
	return reflect.Value{}
}

func formatValue(v reflect.Value) any {
	v = reflect.Indirect(v)
	if !v.IsValid() {
		return nil
	}
	switch val := v.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val.Format("2006-01-02 15:04:05")
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	default:
		return val
	}
}
