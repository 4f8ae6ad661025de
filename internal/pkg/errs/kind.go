package errs

import "errors"

// Kind is the caller-facing classification of an error.
type Kind string

const (
	KindNotFound     Kind = "NotFound"
	KindForbidden    Kind = "Forbidden"
	KindInvalidState Kind = "InvalidState"
	KindExpired      Kind = "Expired"
	KindConflict     Kind = "Conflict"
	KindValidation   Kind = "ValidationError"
	KindInternal     Kind = "Internal"
)

// KindOf classifies err. Joined errors are classified by their first match in
// the order below, so a validation failure joined with anything stays a
// validation failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	default:
		return KindInternal
	}
}
