package apperror

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup inside a scoped collection finds nothing.
// It is also returned when the row exists but is outside the caller's scope.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a filter or payload value that violates its declared shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a mutation rejected by a role constraint.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Reason)
}

// Forbidden builds an AuthorizationError.
func Forbidden(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// TransactionError wraps a storage failure of a unit of work.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Transaction wraps err as a TransactionError unless it already carries a
// more specific classification.
func Transaction(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsAuthorization(err) || errors.Is(err, ErrNotFound) {
		return err
	}
	var txErr *TransactionError
	if errors.As(err, &txErr) {
		return err
	}
	return &TransactionError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
