package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyToken         = ContextKey("Token")
	ContextKeyUserId        = ContextKey("UserId")
	ContextKeyUsername      = ContextKey("Username")
	ContextKeyRoleName      = ContextKey("RoleName")
	ContextKeyEnvironmentId = ContextKey("EnvironmentId")
	ContextKeyCorrelationId = ContextKey("CorrelationId")

	// ContextKeyReportQuery marks queries issued by the report engine so the
	// soft-delete guard plugin knows they must be visibility-scoped.
	ContextKeyReportQuery = ContextKey("ReportQuery")

	// ContextKeyDeletedScoped is set once the fetcher has applied (or the
	// caller explicitly waived) soft-delete scoping for the current query.
	ContextKeyDeletedScoped = ContextKey("DeletedScoped")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetBool(ctx context.Context, key ContextKey) (bool, bool) {
	v, ok := ctx.Value(key).(bool)
	return v, ok
}

func GetInt(ctx context.Context, key ContextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
