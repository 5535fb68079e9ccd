// Package errs provides standardized error types for the production routing service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input (ValidationError)
//   - ObjectNotFoundError: a pallet, machine, cell, part or route stage is absent (NotFound)
//   - RuleViolationError: a transition would break a business rule (InvariantViolation)
//   - ConflictError: the current state does not allow the change right now (Conflict)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf maps any wrapped error onto the caller-facing taxonomy. NotFound and
// ValidationError are caller mistakes, Conflict is retryable after re-reading
// state, and InvariantViolation aborts the whole transaction.
package errs
