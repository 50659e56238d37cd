package models

type RoleType string

const (
	RoleTypeAdmin       RoleType = "Admin"
	RoleTypeSiteManager RoleType = "Site Manager"
	RoleTypeSupervisor  RoleType = "Supervisor"
	RoleTypeTechnician  RoleType = "Technician"
)

func (t RoleType) String() string { return string(t) }

type EntityType string

const (
	EntityTypeUsers            EntityType = "users"
	EntityTypeRoles            EntityType = "roles"
	EntityTypePermissions      EntityType = "permissions"
	EntityTypeRolePermissions  EntityType = "role_permissions"
	EntityTypeEnvironments     EntityType = "environments"
	EntityTypeQuestionTypes    EntityType = "question_types"
	EntityTypeQuestions        EntityType = "questions"
	EntityTypeAnswers          EntityType = "answers"
	EntityTypeForms            EntityType = "forms"
	EntityTypeFormQuestions    EntityType = "form_questions"
	EntityTypeFormAnswers      EntityType = "form_answers"
	EntityTypeFormAssignments  EntityType = "form_assignments"
	EntityTypeFormSubmissions  EntityType = "form_submissions"
	EntityTypeAnswersSubmitted EntityType = "answers_submitted"
	EntityTypeAttachments      EntityType = "attachments"
)

func (t EntityType) String() string { return string(t) }

type PermissionAction string

const (
	PermissionActionView   PermissionAction = "view"
	PermissionActionCreate PermissionAction = "create"
	PermissionActionUpdate PermissionAction = "update"
	PermissionActionDelete PermissionAction = "delete"
)
