// seed-admin creates the base roles, the action/entity permission matrix and
// an admin console user (username: formsAdmin).
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"bitbucket.org/mmdatafocus/forms_backend/models"
	"bitbucket.org/mmdatafocus/forms_backend/utils"
	"gorm.io/gorm"
)

const (
	adminUsername = "formsAdmin"
	adminPassword = "F0rm$Admin"
	adminEmail    = "admin@forms.local"
)

var seededEntities = []models.EntityType{
	models.EntityTypeUsers,
	models.EntityTypeRoles,
	models.EntityTypePermissions,
	models.EntityTypeRolePermissions,
	models.EntityTypeEnvironments,
	models.EntityTypeQuestionTypes,
	models.EntityTypeQuestions,
	models.EntityTypeAnswers,
	models.EntityTypeForms,
	models.EntityTypeFormQuestions,
	models.EntityTypeFormAnswers,
	models.EntityTypeFormAssignments,
	models.EntityTypeFormSubmissions,
	models.EntityTypeAnswersSubmitted,
	models.EntityTypeAttachments,
}

var seededActions = []models.PermissionAction{
	models.PermissionActionView,
	models.PermissionActionCreate,
	models.PermissionActionUpdate,
	models.PermissionActionDelete,
}

// grantedActions lists which actions each non-admin role receives per entity.
// Admin is a superuser and bypasses the matrix entirely.
var grantedActions = map[models.RoleType]map[models.EntityType][]models.PermissionAction{
	models.RoleTypeSiteManager: {
		models.EntityTypeUsers:            {models.PermissionActionView},
		models.EntityTypeRoles:            {models.PermissionActionView},
		models.EntityTypeEnvironments:     {models.PermissionActionView},
		models.EntityTypeForms:            {models.PermissionActionView, models.PermissionActionCreate, models.PermissionActionUpdate, models.PermissionActionDelete},
		models.EntityTypeFormQuestions:    {models.PermissionActionView, models.PermissionActionCreate, models.PermissionActionUpdate},
		models.EntityTypeFormAnswers:      {models.PermissionActionView, models.PermissionActionCreate, models.PermissionActionUpdate},
		models.EntityTypeFormAssignments:  {models.PermissionActionView, models.PermissionActionCreate, models.PermissionActionUpdate, models.PermissionActionDelete},
		models.EntityTypeFormSubmissions:  {models.PermissionActionView},
		models.EntityTypeAnswersSubmitted: {models.PermissionActionView},
		models.EntityTypeAttachments:      {models.PermissionActionView},
	},
	models.RoleTypeSupervisor: {
		models.EntityTypeForms:            {models.PermissionActionView},
		models.EntityTypeFormAssignments:  {models.PermissionActionView, models.PermissionActionCreate},
		models.EntityTypeFormSubmissions:  {models.PermissionActionView},
		models.EntityTypeAnswersSubmitted: {models.PermissionActionView},
		models.EntityTypeAttachments:      {models.PermissionActionView},
	},
	models.RoleTypeTechnician: {
		models.EntityTypeForms:            {models.PermissionActionView},
		models.EntityTypeFormSubmissions:  {models.PermissionActionView, models.PermissionActionCreate},
		models.EntityTypeAnswersSubmitted: {models.PermissionActionView, models.PermissionActionCreate},
		models.EntityTypeAttachments:      {models.PermissionActionView, models.PermissionActionCreate},
	},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	permissions, err := seedPermissions(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed permissions: %v\n", err)
		os.Exit(1)
	}

	roles, err := seedRoles(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed roles: %v\n", err)
		os.Exit(1)
	}

	if err := seedRolePermissions(ctx, db, roles, permissions); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed role permissions: %v\n", err)
		os.Exit(1)
	}

	if err := seedAdminUser(ctx, db, roles[models.RoleTypeAdmin]); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d permissions, %d roles and admin user %q\n", len(permissions), len(roles), adminUsername)
}

// seedPermissions upserts the full action/entity matrix and returns each row
// keyed "action:entity".
func seedPermissions(ctx context.Context, db *gorm.DB) (map[string]*models.Permission, error) {
	out := make(map[string]*models.Permission, len(seededActions)*len(seededEntities))
	for _, action := range seededActions {
		for _, entity := range seededEntities {
			name := string(action) + "_" + string(entity)
			var p models.Permission
			err := db.WithContext(ctx).
				Where("`permissions`.`action` = ? AND `permissions`.`entity` = ?", string(action), string(entity)).
				First(&p).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					return nil, err
				}
				p = models.Permission{
					Name:        name,
					Action:      string(action),
					Entity:      string(entity),
					Description: fmt.Sprintf("Allows %s on %s", action, entity),
				}
				if err := db.WithContext(ctx).Create(&p).Error; err != nil {
					return nil, err
				}
			}
			out[string(action)+":"+string(entity)] = &p
		}
	}
	return out, nil
}

func seedRoles(ctx context.Context, db *gorm.DB) (map[models.RoleType]*models.Role, error) {
	descriptions := map[models.RoleType]string{
		models.RoleTypeAdmin:       "Full access to all entities and reports",
		models.RoleTypeSiteManager: "Manages forms and assignments for one environment",
		models.RoleTypeSupervisor:  "Reviews submissions within one environment",
		models.RoleTypeTechnician:  "Submits forms in the field",
	}

	out := make(map[models.RoleType]*models.Role, len(descriptions))
	for _, roleType := range []models.RoleType{models.RoleTypeAdmin, models.RoleTypeSiteManager, models.RoleTypeSupervisor, models.RoleTypeTechnician} {
		var role models.Role
		err := db.WithContext(ctx).
			Where("`roles`.`name` = ? AND `roles`.`is_deleted` = ?", string(roleType), false).
			First(&role).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			role = models.Role{
				Name:        string(roleType),
				Description: descriptions[roleType],
				IsSuperUser: roleType == models.RoleTypeAdmin,
			}
			if err := db.WithContext(ctx).Create(&role).Error; err != nil {
				return nil, err
			}
		}
		out[roleType] = &role
	}
	return out, nil
}

func seedRolePermissions(ctx context.Context, db *gorm.DB, roles map[models.RoleType]*models.Role, permissions map[string]*models.Permission) error {
	for roleType, grants := range grantedActions {
		role := roles[roleType]
		for entity, actions := range grants {
			for _, action := range actions {
				perm := permissions[string(action)+":"+string(entity)]
				if perm == nil {
					continue
				}
				var count int64
				err := db.WithContext(ctx).
					Model(&models.RolePermission{}).
					Where("`role_permissions`.`role_id` = ? AND `role_permissions`.`permission_id` = ?", role.ID, perm.ID).
					Count(&count).Error
				if err != nil {
					return err
				}
				if count > 0 {
					continue
				}
				rp := models.RolePermission{RoleId: role.ID, PermissionId: perm.ID}
				if err := db.WithContext(ctx).Create(&rp).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, db *gorm.DB, adminRole *models.Role) error {
	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	var existing models.User
	err = db.WithContext(ctx).
		Where("`users`.`username` = ? AND `users`.`is_deleted` = ?", adminUsername, false).
		First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		u := models.User{
			FirstName:    "Forms",
			LastName:     "Admin",
			Email:        adminEmail,
			Username:     adminUsername,
			PasswordHash: string(hashed),
			RoleId:       &adminRole.ID,
		}
		return db.WithContext(ctx).Create(&u).Error
	}

	return db.WithContext(ctx).
		Model(&models.User{}).
		Where("`users`.`id` = ?", existing.ID).
		Updates(map[string]any{
			"password_hash": string(hashed),
			"role_id":       adminRole.ID,
		}).Error
}
