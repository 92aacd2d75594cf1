package services

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrLaborNotFound    = errors.New("labor type not found in quote")

	// ErrBusy is returned when a quote preview is already in flight for the session.
	ErrBusy = errors.New("a quote preview is already in progress")

	// ErrSessionCleared is returned by a preview whose session was cleared or
	// switched to another project before the response arrived.
	ErrSessionCleared = errors.New("quote session was cleared during preview")
)

// ValidationError reports a missing or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateNameError is returned when a catalog category already uses the name
// (compared case-insensitively).
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("category %q already exists", e.Name)
}

// InUseError is returned when a category cannot be deleted because line items
// still reference it.
type InUseError struct {
	Name  string
	Count int
}

func (e *InUseError) Error() string {
	noun := "items"
	if e.Count == 1 {
		noun = "item"
	}
	return fmt.Sprintf("category %q is used by %d %s", e.Name, e.Count, noun)
}

// AlreadyAddedError is returned when a labor type is added to a quote twice.
type AlreadyAddedError struct {
	LaborID string
	Name    string
}

func (e *AlreadyAddedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is already added to the quote", e.Name)
	}
	return fmt.Sprintf("labor type %s is already added to the quote", e.LaborID)
}

// AuthError means the token is missing or was rejected by the API. Callers
// must clear the token and send the user back to login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication required"
	}
	return "authentication required: " + e.Message
}

// NetworkError wraps a failed or non-2xx API call. Message is taken from the
// response body's detail/message field when present.
type NetworkError struct {
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
	}
	return "api error: " + e.Message
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or anything it wraps) is an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
