package reports

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "ValidationError"
	KindPermission    ErrorKind = "PermissionError"
	KindUnknownEntity ErrorKind = "UnknownEntityError"
	KindDataAccess    ErrorKind = "DataAccessError"
	KindRender        ErrorKind = "RenderError"
	KindAllFailed     ErrorKind = "AllEntitiesFailed"
)

// ReportError is the engine's error taxonomy. Entity is empty for request
// level failures.
type ReportError struct {
	Kind   ErrorKind
	Entity string
	Msg    string
	Err    error
}

func (e *ReportError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Entity, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ReportError) Unwrap() error { return e.Err }

func newValidationError(format string, args ...any) *ReportError {
	return &ReportError{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func newPermissionError(entity string, msg string) *ReportError {
	return &ReportError{Kind: KindPermission, Entity: entity, Msg: msg}
}

func newUnknownEntityError(entity string) *ReportError {
	return &ReportError{Kind: KindUnknownEntity, Entity: entity, Msg: "unknown report entity"}
}

func newDataAccessError(entity string, err error) *ReportError {
	return &ReportError{Kind: KindDataAccess, Entity: entity, Msg: err.Error(), Err: err}
}

func newRenderError(format string, err error) *ReportError {
	return &ReportError{Kind: KindRender, Msg: fmt.Sprintf("rendering %s: %v", format, err), Err: err}
}

// ErrNotImplementedForFormat is returned when the requested output format has
// no binding for the entity being rendered (slide decks only cover a subset).
var ErrNotImplementedForFormat = errors.New("entity has no template for the requested format")

// IsKind reports whether err is a ReportError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}
