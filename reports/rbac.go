package reports

import (
	"strings"

	"bitbucket.org/mmdatafocus/forms_backend/config"
	"bitbucket.org/mmdatafocus/forms_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// applyVisibility injects the row-level access scope for the requesting user.
// Superusers bypass everything. Entities without an explicit rule fall back
// to an environment column, then an owner column, then a logged pass-through.
// RBAC join aliases carry an rbac_ prefix so they can never collide with the
// path resolver's aliases.
func applyVisibility(tx *gorm.DB, desc *EntityDescriptor, requester *models.User) *gorm.DB {
	if requester.IsSuperUser() {
		return tx
	}

	envId := requester.EnvironmentID()

	switch desc.Name {
	case "users":
		return tx.Where("`users`.`environment_id` = ?", envId)
	case "environments":
		return tx.Where("`environments`.`id` = ?", envId)
	case "roles":
		return tx.Where("`roles`.`is_super_user` = ?", false)
	case "role_permissions":
		return tx.
			Joins("JOIN `roles` `rbac_role` ON `rbac_role`.`id` = `role_permissions`.`role_id`").
			Where("`rbac_role`.`is_super_user` = ?", false)
	case "forms":
		return tx.
			Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `forms`.`user_id`").
			Where("`forms`.`is_public` = ? OR `rbac_creator`.`environment_id` = ?", true, envId)
	case "form_questions":
		return tx.
			Joins("JOIN `forms` `rbac_form` ON `rbac_form`.`id` = `form_questions`.`form_id`").
			Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `rbac_form`.`user_id`").
			Where("`rbac_form`.`is_public` = ? OR `rbac_creator`.`environment_id` = ?", true, envId)
	case "form_answers":
		return tx.
			Joins("JOIN `form_questions` `rbac_fq` ON `rbac_fq`.`id` = `form_answers`.`form_question_id`").
			Joins("JOIN `forms` `rbac_form` ON `rbac_form`.`id` = `rbac_fq`.`form_id`").
			Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `rbac_form`.`user_id`").
			Where("`rbac_form`.`is_public` = ? OR `rbac_creator`.`environment_id` = ?", true, envId)
	case "form_submissions":
		if isManagerRole(requester.RoleName()) {
			return tx.
				Joins("JOIN `forms` `rbac_form` ON `rbac_form`.`id` = `form_submissions`.`form_id`").
				Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `rbac_form`.`user_id`").
				Where("`rbac_creator`.`environment_id` = ?", envId)
		}
		return tx.Where("`form_submissions`.`submitted_by` = ?", requester.Username)
	case "answers_submitted":
		return tx.
			Joins("JOIN `form_submissions` `rbac_fs` ON `rbac_fs`.`id` = `answers_submitted`.`form_submission_id`").
			Joins("JOIN `forms` `rbac_form` ON `rbac_form`.`id` = `rbac_fs`.`form_id`").
			Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `rbac_form`.`user_id`").
			Where("`rbac_creator`.`environment_id` = ?", envId)
	case "attachments":
		return tx.
			Joins("JOIN `form_submissions` `rbac_fs` ON `rbac_fs`.`id` = `attachments`.`form_submission_id`").
			Joins("JOIN `forms` `rbac_form` ON `rbac_form`.`id` = `rbac_fs`.`form_id`").
			Joins("JOIN `users` `rbac_creator` ON `rbac_creator`.`id` = `rbac_form`.`user_id`").
			Where("`rbac_creator`.`environment_id` = ?", envId)
	}

	// Fallback chain for entities without an explicit rule.
	logger := config.GetLogger()
	if _, ok := desc.Schema.FieldsByDBName["environment_id"]; ok {
		logger.WithFields(logrus.Fields{
			"module": "reports", "funcName": "applyVisibility",
			"entity": desc.Name,
		}).Warn("applying default environment scope")
		return tx.Where("`"+desc.Schema.Table+"`.`environment_id` = ?", envId)
	}
	if _, ok := desc.Schema.FieldsByDBName["user_id"]; ok {
		logger.WithFields(logrus.Fields{
			"module": "reports", "funcName": "applyVisibility",
			"entity": desc.Name,
		}).Warn("applying default owner scope")
		return tx.Where("`"+desc.Schema.Table+"`.`user_id` = ?", requester.ID)
	}

	logger.WithFields(logrus.Fields{
		"module": "reports", "funcName": "applyVisibility",
		"entity": desc.Name, "role": requester.RoleName(), "policy_gap": true,
	}).Warn("no visibility rule for entity, allowing")
	return tx
}

// isManagerRole matches both "Site Manager" and "site_manager" spellings.
func isManagerRole(roleName string) bool {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(roleName)), " ", "_")
	return n == "site_manager" || n == "supervisor"
}
