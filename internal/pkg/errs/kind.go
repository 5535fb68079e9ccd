package errs

import "errors"

// Kind is the caller-facing error category.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindInvariantViolation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationError"
	case KindInvariantViolation:
		return "InvariantViolation"
	case KindConflict:
		return "Conflict"
	default:
		return "Internal"
	}
}

// Retryable reports whether the caller may retry after re-reading state.
func (k Kind) Retryable() bool {
	return k == KindConflict
}

// KindOf classifies err. Anything unrecognised is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariantViolation
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange),
		errors.Is(err, ErrValueIsRequired):
		return KindValidation
	default:
		return KindInternal
	}
}
