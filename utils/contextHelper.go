package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/forms_backend/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyRoleName      = appctx.ContextKeyRoleName
	ContextKeyEnvironmentId = appctx.ContextKeyEnvironmentId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId

	ContextKeyReportQuery   = appctx.ContextKeyReportQuery
	ContextKeyDeletedScoped = appctx.ContextKeyDeletedScoped
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetRoleNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRoleName)
}

func GetEnvironmentIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyEnvironmentId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetRoleNameInContext(ctx context.Context, roleName string) context.Context {
	return appctx.Set(ctx, ContextKeyRoleName, roleName)
}

func SetEnvironmentIdInContext(ctx context.Context, environmentId int) context.Context {
	return appctx.Set(ctx, ContextKeyEnvironmentId, environmentId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetReportQueryFromContext(ctx context.Context) (bool, bool) {
	return appctx.GetBool(ctx, ContextKeyReportQuery)
}

func SetReportQueryInContext(ctx context.Context, on bool) context.Context {
	return appctx.Set(ctx, ContextKeyReportQuery, on)
}

func GetDeletedScopedFromContext(ctx context.Context) (bool, bool) {
	return appctx.GetBool(ctx, ContextKeyDeletedScoped)
}

func SetDeletedScopedInContext(ctx context.Context, scoped bool) context.Context {
	return appctx.Set(ctx, ContextKeyDeletedScoped, scoped)
}
