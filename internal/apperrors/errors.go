// Package apperrors defines the error taxonomy shared by all services.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid means the order or debt has already been settled.
	ErrAlreadyPaid = errors.New("already paid")

	// ErrOrderClosed means the order is completed or cancelled and its
	// items can no longer be edited.
	ErrOrderClosed = errors.New("order is closed")

	// ErrItemUnavailable means a menu item is missing or marked unavailable.
	ErrItemUnavailable = errors.New("menu item unavailable")

	// ErrInvalidCredentials means the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicate means a unique field collides with an existing row.
	ErrDuplicate = errors.New("already exists")
)

// ValidationError reports malformed or missing input. It is always the
// caller's fault and maps to a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError for the given field.
func Validation(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
