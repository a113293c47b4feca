package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidPIN       = errors.New("invalid PIN")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrRoleUnresolved   = errors.New("role could not be resolved")
	ErrProductNotFound  = errors.New("product not found")
)

// ValidationError reports bad or missing input. It is always raised before any
// backend call is made.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionError wraps a failed write to the order service. Local state is
// left as it was before the call.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// FetchError wraps a failed read from a backend service.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AuthError means the session token is no longer accepted.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "authentication required"
	}
	return fmt.Sprintf("authentication required: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
