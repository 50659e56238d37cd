package reports

import (
	"sort"
	"strings"
	"sync"

	"bitbucket.org/mmdatafocus/forms_backend/models"
	"gorm.io/gorm/schema"
)

const (
	DefaultReportTitle  = "Data Analysis Report"
	MaxSheetNameLen     = 31
	AnswersPrefix       = "answers."
	maxUniqueChartCats  = 15
	defaultChartWidthIn = 6.5
	defaultChartHeightIn = 3.5
)

// genericCategoricalCols are column names worth counting when an entity has
// no explicit hints.
var genericCategoricalCols = []string{
	"type", "name", "status", "action", "role", "environment", "is_public",
	"is_deleted", "is_super_user", "is_signature", "file_type", "question_type",
	"entity_name",
}

type AnalysisHints struct {
	DateColumns        []string
	CategoricalColumns []string
	NumericalColumns   []string
	TextColumns        []string
	// DynamicAnswers marks entities whose rows grow pivoted answer columns.
	DynamicAnswers bool
}

type ChartHints struct {
	BarCharts  []string
	PieCharts  []string
	TimeSeries []string
}

// EntityDescriptor is one registry row: everything the engine knows about a
// reportable entity.
type EntityDescriptor struct {
	Name              string
	Model             any
	Schema            *schema.Schema
	ViewEntity        models.EntityType
	DefaultColumns    []string
	AvailableColumns  []string
	SensitiveColumns  []string
	HiddenColumns     []string
	AnalysisHints     AnalysisHints
	ChartHints        ChartHints
	DefaultSort       []SortClause
	StatsGenerators   []StatsGenerator
	ChartGenerators   []ChartGenerator
	InsightGenerators []InsightGenerator
	SlideTemplate     SlideTemplate
	NewSlice          func() any
}

var (
	registryOnce  sync.Once
	registryByName map[string]*EntityDescriptor
	registryOrder  []string
	schemaCache    = &sync.Map{}
)

func mustParseSchema(model any) *schema.Schema {
	s, err := schema.Parse(model, schemaCache, schema.NamingStrategy{})
	if err != nil {
		panic("reports: cannot parse model schema: " + err.Error())
	}
	return s
}

func register(d *EntityDescriptor) {
	d.Schema = mustParseSchema(d.Model)
	registryByName[d.Name] = d
	registryOrder = append(registryOrder, d.Name)
}

func buildRegistry() {
	registryByName = make(map[string]*EntityDescriptor)

	register(&EntityDescriptor{
		Name:       "users",
		Model:      &models.User{},
		ViewEntity: models.EntityTypeUsers,
		DefaultColumns: []string{
			"id", "username", "first_name", "last_name", "email",
			"contact_number", "role.name", "environment.name", "created_at",
		},
		AvailableColumns: []string{
			"id", "username", "first_name", "last_name", "email",
			"contact_number", "role_id", "environment_id",
			"role.name", "role.description", "role.is_super_user",
			"environment.name", "environment.description",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		SensitiveColumns: []string{"password_hash"},
		HiddenColumns:    []string{"password_hash"},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"role.name", "environment.name", "is_deleted",
				"username", "email", "first_name", "last_name",
			},
			NumericalColumns: []string{"id", "role_id", "environment_id"},
		},
		ChartHints: ChartHints{
			BarCharts:  []string{"role.name", "environment.name", "is_deleted"},
			PieCharts:  []string{"role.name", "environment.name", "is_deleted"},
			TimeSeries: []string{"created_at", "updated_at"},
		},
		DefaultSort:       []SortClause{{Field: "username", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{userStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{userCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{userInsights{}, genericInsights{}},
		SlideTemplate:     userSlides{},
		NewSlice:          func() any { return &[]models.User{} },
	})

	register(&EntityDescriptor{
		Name:           "roles",
		Model:          &models.Role{},
		ViewEntity:     models.EntityTypeRoles,
		DefaultColumns: []string{"id", "name", "description", "is_super_user", "created_at"},
		AvailableColumns: []string{
			"id", "name", "description", "is_super_user",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{"is_super_user", "name", "description", "is_deleted"},
			NumericalColumns:   []string{"id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"is_super_user", "name"},
			PieCharts: []string{"is_super_user", "name"},
		},
		DefaultSort:       []SortClause{{Field: "name", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{roleStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{roleCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{roleInsights{}, genericInsights{}},
		NewSlice:          func() any { return &[]models.Role{} },
	})

	register(&EntityDescriptor{
		Name:           "permissions",
		Model:          &models.Permission{},
		ViewEntity:     models.EntityTypeRoles,
		DefaultColumns: []string{"id", "name", "action", "entity", "description"},
		AvailableColumns: []string{
			"id", "name", "action", "entity", "description",
			"created_at", "updated_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at"},
			CategoricalColumns: []string{"name", "action", "entity", "description"},
			NumericalColumns:   []string{"id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"action", "entity"},
			PieCharts: []string{"action", "entity"},
		},
		DefaultSort:       []SortClause{{Field: "name", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{permissionStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{permissionCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.Permission{} },
	})

	register(&EntityDescriptor{
		Name:       "role_permissions",
		Model:      &models.RolePermission{},
		ViewEntity: models.EntityTypeRoles,
		DefaultColumns: []string{
			"id", "role_id", "permission_id", "role.name",
			"permission.name", "permission.action", "permission.entity",
		},
		AvailableColumns: []string{
			"id", "role_id", "permission_id",
			"role.name", "role.description", "role.is_super_user",
			"permission.name", "permission.action", "permission.entity", "permission.description",
			"created_at", "updated_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at"},
			CategoricalColumns: []string{
				"role.name", "permission.name", "permission.action", "permission.entity",
			},
			NumericalColumns: []string{"id", "role_id", "permission_id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"role.name", "permission.action", "permission.entity"},
			PieCharts: []string{"role.name", "permission.action", "permission.entity"},
		},
		DefaultSort: []SortClause{
			{Field: "role_id", Direction: "asc"},
			{Field: "permission_id", Direction: "asc"},
		},
		StatsGenerators:   []StatsGenerator{rolePermissionStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.RolePermission{} },
	})

	register(&EntityDescriptor{
		Name:           "environments",
		Model:          &models.Environment{},
		ViewEntity:     models.EntityTypeEnvironments,
		DefaultColumns: []string{"id", "name", "description", "created_at"},
		AvailableColumns: []string{
			"id", "name", "description",
			"created_at", "updated_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at"},
			CategoricalColumns: []string{"name", "description"},
			NumericalColumns:   []string{"id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"name"},
			PieCharts: []string{"name"},
		},
		DefaultSort:       []SortClause{{Field: "name", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{environmentStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{environmentCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.Environment{} },
	})

	register(&EntityDescriptor{
		Name:           "question_types",
		Model:          &models.QuestionType{},
		ViewEntity:     models.EntityTypeQuestionTypes,
		DefaultColumns: []string{"id", "type", "created_at"},
		AvailableColumns: []string{
			"id", "type",
			"created_at", "updated_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at"},
			CategoricalColumns: []string{"type"},
			NumericalColumns:   []string{"id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"type"},
			PieCharts: []string{"type"},
		},
		DefaultSort:       []SortClause{{Field: "type", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{questionTypeStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.QuestionType{} },
	})

	register(&EntityDescriptor{
		Name:       "questions",
		Model:      &models.Question{},
		ViewEntity: models.EntityTypeQuestions,
		DefaultColumns: []string{
			"id", "text", "question_type.type", "is_signature",
			"remarks", "created_at",
		},
		AvailableColumns: []string{
			"id", "text", "question_type_id", "is_signature", "remarks",
			"question_type.type",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{"question_type.type", "is_signature", "is_deleted"},
			NumericalColumns:   []string{"id", "question_type_id"},
			TextColumns:        []string{"text", "remarks"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"question_type.type", "is_signature"},
			PieCharts: []string{"question_type.type", "is_signature"},
		},
		DefaultSort:       []SortClause{{Field: "text", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{questionStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.Question{} },
	})

	register(&EntityDescriptor{
		Name:           "answers",
		Model:          &models.Answer{},
		ViewEntity:     models.EntityTypeAnswers,
		DefaultColumns: []string{"id", "value", "remarks", "created_at"},
		AvailableColumns: []string{
			"id", "value", "remarks",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns:        []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{"is_deleted"},
			NumericalColumns:   []string{"id"},
			TextColumns:        []string{"value", "remarks"},
		},
		DefaultSort:       []SortClause{{Field: "value", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.Answer{} },
	})

	register(&EntityDescriptor{
		Name:       "forms",
		Model:      &models.Form{},
		ViewEntity: models.EntityTypeForms,
		DefaultColumns: []string{
			"id", "title", "description", "creator.username",
			"creator.environment.name", "is_public", "attachments_required",
			"created_at",
		},
		AvailableColumns: []string{
			"id", "title", "description", "user_id", "is_public",
			"attachments_required",
			"creator.username", "creator.email", "creator.first_name", "creator.last_name",
			"creator.environment.name", "creator.environment.description",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"creator.username", "creator.environment.name",
				"is_public", "is_deleted", "title", "attachments_required",
			},
			NumericalColumns: []string{"id", "user_id"},
			TextColumns:      []string{"title", "description"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"creator.username", "is_public", "creator.environment.name", "attachments_required"},
			PieCharts: []string{"is_public", "creator.environment.name", "attachments_required"},
		},
		DefaultSort:       []SortClause{{Field: "title", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{formStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{formCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{formInsights{}, genericInsights{}},
		NewSlice:          func() any { return &[]models.Form{} },
	})

	register(&EntityDescriptor{
		Name:       "form_questions",
		Model:      &models.FormQuestion{},
		ViewEntity: models.EntityTypeForms,
		DefaultColumns: []string{
			"id", "form_id", "question_id", "order_number",
			"form.title", "question.text", "question.question_type.type",
		},
		AvailableColumns: []string{
			"id", "form_id", "question_id", "order_number",
			"form.title", "form.description", "form.is_public",
			"question.text", "question.is_signature", "question.question_type.type",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"form.title", "question.text", "question.question_type.type",
				"question.is_signature", "is_deleted",
			},
			NumericalColumns: []string{"id", "form_id", "question_id", "order_number"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"form.title", "question.question_type.type", "order_number"},
			PieCharts: []string{"question.question_type.type"},
		},
		DefaultSort: []SortClause{
			{Field: "form_id", Direction: "asc"},
			{Field: "order_number", Direction: "asc"},
		},
		StatsGenerators:   []StatsGenerator{formQuestionStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.FormQuestion{} },
	})

	register(&EntityDescriptor{
		Name:       "form_answers",
		Model:      &models.FormAnswer{},
		ViewEntity: models.EntityTypeForms,
		DefaultColumns: []string{
			"id", "form_question_id", "answer_id",
			"form_question.question.text", "answer.value", "remarks",
		},
		AvailableColumns: []string{
			"id", "form_question_id", "answer_id", "remarks",
			"form_question.form.title", "form_question.form.description",
			"form_question.question.text", "form_question.question.question_type.type",
			"form_question.order_number", "answer.value", "answer.remarks",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"form_question.question.text",
				"form_question.question.question_type.type",
				"answer.value", "is_deleted",
			},
			NumericalColumns: []string{"id", "form_question_id", "answer_id"},
			TextColumns:      []string{"remarks", "answer.value", "answer.remarks"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"form_question.form.title", "form_question.question.question_type.type"},
			PieCharts: []string{"form_question.question.question_type.type"},
		},
		DefaultSort:       []SortClause{{Field: "form_question_id", Direction: "asc"}},
		StatsGenerators:   []StatsGenerator{genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.FormAnswer{} },
	})

	register(&EntityDescriptor{
		Name:       "form_assignments",
		Model:      &models.FormAssignment{},
		ViewEntity: models.EntityTypeForms,
		DefaultColumns: []string{
			"id", "form_id", "form.title", "entity_name", "entity_id",
			"assigned_entity_identifier", "created_at",
		},
		AvailableColumns: []string{
			"id", "form_id", "entity_name", "entity_id",
			"form.title", "form.description", "form.is_public",
			"form.creator.username",
			"created_at", "updated_at", "is_deleted", "deleted_at",
			"assigned_entity_identifier",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"entity_name", "form.title", "is_deleted", "assigned_entity_identifier",
			},
			NumericalColumns: []string{"id", "form_id", "entity_id"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"entity_name", "form.title", "assigned_entity_identifier"},
			PieCharts: []string{"entity_name"},
		},
		DefaultSort: []SortClause{
			{Field: "form_id", Direction: "asc"},
			{Field: "entity_name", Direction: "asc"},
		},
		StatsGenerators:   []StatsGenerator{genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.FormAssignment{} },
	})

	register(&EntityDescriptor{
		Name:       "form_submissions",
		Model:      &models.FormSubmission{},
		ViewEntity: models.EntityTypeFormSubmissions,
		DefaultColumns: []string{
			"id", "form_id", "form.title", "submitted_by",
			"submitted_at", "created_at",
		},
		AvailableColumns: []string{
			"id", "form_id", "submitted_by", "submitted_at",
			"form.title", "form.description", "form.is_public",
			"form.creator.username", "form.creator.email",
			"form.creator.environment.name",
			"created_at", "updated_at", "is_deleted", "deleted_at",
			// dynamic "answers.<question>" columns are added at flatten time
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"submitted_at", "created_at", "updated_at", "deleted_at"},
			CategoricalColumns: []string{
				"submitted_by", "form.title", "form.creator.username",
				"form.creator.environment.name", "is_deleted",
			},
			NumericalColumns: []string{"id", "form_id"},
			DynamicAnswers:   true,
		},
		ChartHints: ChartHints{
			BarCharts:  []string{"submitted_by", "form.title", "form.creator.environment.name"},
			PieCharts:  []string{"form.title", "submitted_by", "form.creator.environment.name"},
			TimeSeries: []string{"submitted_at", "created_at"},
		},
		DefaultSort:       []SortClause{{Field: "submitted_at", Direction: "desc"}},
		StatsGenerators:   []StatsGenerator{submissionStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{submissionCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{submissionInsights{}, genericInsights{}},
		SlideTemplate:     submissionSlides{},
		NewSlice:          func() any { return &[]models.FormSubmission{} },
	})

	register(&EntityDescriptor{
		Name:       "answers_submitted",
		Model:      &models.AnswerSubmitted{},
		ViewEntity: models.EntityTypeFormSubmissions,
		DefaultColumns: []string{
			"id", "form_submission_id", "form_submission.form.title",
			"question", "question_type", "answer", "created_at",
		},
		AvailableColumns: []string{
			"id", "question", "question_type", "answer", "form_submission_id",
			"column", "row", "cell_content",
			"form_submission.submitted_by", "form_submission.submitted_at",
			"form_submission.form.title", "form_submission.form.description",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at", "form_submission.submitted_at"},
			CategoricalColumns: []string{
				"question", "question_type", "form_submission.form.title",
				"form_submission.submitted_by", "is_deleted",
			},
			NumericalColumns: []string{"id", "form_submission_id", "column", "row"},
			TextColumns:      []string{"answer", "cell_content"},
		},
		ChartHints: ChartHints{
			BarCharts: []string{"question_type", "form_submission.form.title", "form_submission.submitted_by"},
			PieCharts: []string{"question_type", "form_submission.form.title"},
		},
		DefaultSort:       []SortClause{{Field: "created_at", Direction: "desc"}},
		StatsGenerators:   []StatsGenerator{answersSubmittedStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{answersSubmittedCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.AnswerSubmitted{} },
	})

	register(&EntityDescriptor{
		Name:       "attachments",
		Model:      &models.Attachment{},
		ViewEntity: models.EntityTypeAttachments,
		DefaultColumns: []string{
			"id", "form_submission_id", "form_submission.form.title",
			"file_path", "file_type", "is_signature",
			"signature_author", "created_at",
		},
		AvailableColumns: []string{
			"id", "form_submission_id", "file_type", "file_path",
			"is_signature", "signature_position", "signature_author",
			"form_submission.submitted_by", "form_submission.submitted_at",
			"form_submission.form.title", "form_submission.form.description",
			"created_at", "updated_at", "is_deleted", "deleted_at",
		},
		AnalysisHints: AnalysisHints{
			DateColumns: []string{"created_at", "updated_at", "deleted_at", "form_submission.submitted_at"},
			CategoricalColumns: []string{
				"file_type", "is_signature", "signature_author",
				"form_submission.form.title", "form_submission.submitted_by", "is_deleted",
			},
			NumericalColumns: []string{"id", "form_submission_id"},
			TextColumns:      []string{"file_path", "signature_position"},
		},
		ChartHints: ChartHints{
			BarCharts:  []string{"file_type", "is_signature", "form_submission.form.title"},
			PieCharts:  []string{"file_type", "is_signature", "form_submission.form.title"},
			TimeSeries: []string{"created_at", "form_submission.submitted_at"},
		},
		DefaultSort:       []SortClause{{Field: "created_at", Direction: "desc"}},
		StatsGenerators:   []StatsGenerator{attachmentStats{}, genericStats{}},
		ChartGenerators:   []ChartGenerator{attachmentCharts{}, genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.Attachment{} },
	})

	register(&EntityDescriptor{
		Name:             "token_blocklist",
		Model:            &models.TokenBlocklist{},
		ViewEntity:       models.EntityTypeUsers, // admin/security relevant
		DefaultColumns:   []string{"id", "jti", "created_at"},
		AvailableColumns: []string{"id", "jti", "created_at"},
		AnalysisHints: AnalysisHints{
			DateColumns:      []string{"created_at"},
			NumericalColumns: []string{"id"},
			TextColumns:      []string{"jti"},
		},
		ChartHints: ChartHints{
			TimeSeries: []string{"created_at"},
		},
		DefaultSort:       []SortClause{{Field: "created_at", Direction: "desc"}},
		StatsGenerators:   []StatsGenerator{genericStats{}},
		ChartGenerators:   []ChartGenerator{genericCharts{}},
		InsightGenerators: []InsightGenerator{genericInsights{}},
		NewSlice:          func() any { return &[]models.TokenBlocklist{} },
	})
}

func ensureRegistry() {
	registryOnce.Do(buildRegistry)
}

// Describe looks up a registry entry by entity name.
func Describe(name string) (*EntityDescriptor, error) {
	ensureRegistry()
	d, ok := registryByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, newUnknownEntityError(name)
	}
	return d, nil
}

// EntityNames returns all registered entity names in registration order.
func EntityNames() []string {
	ensureRegistry()
	out := make([]string, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// SchemaColumns returns the entity's own database column names in declaration
// order.
func (d *EntityDescriptor) SchemaColumns() []string {
	out := make([]string, len(d.Schema.DBNames))
	copy(out, d.Schema.DBNames)
	return out
}

// DefaultRelatedColumns returns the dotted (relationship) entries of the
// default column list.
func (d *EntityDescriptor) DefaultRelatedColumns() []string {
	var out []string
	for _, c := range d.DefaultColumns {
		if strings.Contains(c, ".") && !strings.HasPrefix(c, AnswersPrefix) {
			out = append(out, c)
		}
	}
	return out
}

// SanitizeColumns drops columns the requester must not see. Hidden columns
// never appear; sensitive columns only for admins. An empty result falls back
// to the sanitized default list so a report always has at least one column.
func (d *EntityDescriptor) SanitizeColumns(requested []string, isAdmin bool) []string {
	available := make(map[string]bool, len(d.AvailableColumns))
	for _, c := range d.AvailableColumns {
		available[c] = true
	}
	hidden := make(map[string]bool, len(d.HiddenColumns))
	for _, c := range d.HiddenColumns {
		hidden[c] = true
	}
	sensitive := make(map[string]bool, len(d.SensitiveColumns))
	for _, c := range d.SensitiveColumns {
		sensitive[c] = true
	}

	var out []string
	for _, c := range requested {
		dynamic := d.AnalysisHints.DynamicAnswers && strings.HasPrefix(c, AnswersPrefix)
		if !available[c] && !dynamic {
			continue
		}
		if hidden[c] {
			continue
		}
		if sensitive[c] && !isAdmin {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		for _, c := range d.DefaultColumns {
			if hidden[c] || (sensitive[c] && !isAdmin) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// sortedKeys is shared by stats and renderers for deterministic map output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
