package errors

import "fmt"

// ErrNotFound represents a "not found" error
// This should be used when a requested resource doesn't exist
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found
type NotFoundError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "resource not found"
}

// Is implements the error interface for error comparison
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// NewNotFoundError creates a new NotFoundError with a custom message
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// ErrValidation represents a validation error
// This should be used when client input fails validation
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field: %s", e.Field)
	}
	return "validation error"
}

// Is implements the error interface for error comparison
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError with a custom message
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ErrNotProcessed represents a "not yet processed" error.
// This should be used when an operation needs ingestion output (chunks,
// embeddings) that doesn't exist yet. It signals "run ingestion first",
// not a generic failure, so handlers can return an actionable message.
var ErrNotProcessed = &NotProcessedError{}

// NotProcessedError is a sentinel error for documents whose chunks don't exist yet
type NotProcessedError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *NotProcessedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s has not been processed yet", e.Resource)
	}
	return "resource has not been processed yet"
}

// Is implements the error interface for error comparison
func (e *NotProcessedError) Is(target error) bool {
	_, ok := target.(*NotProcessedError)
	return ok
}

// NewNotProcessedError creates a new NotProcessedError with a custom message
func NewNotProcessedError(resource, message string) *NotProcessedError {
	return &NotProcessedError{
		Resource: resource,
		Message:  message,
	}
}

// ErrUpstream represents an upstream provider failure.
// This should be used when an embedding or completion call fails; the whole
// dual-provider request fails with it, never a partial one-sided result.
var ErrUpstream = &UpstreamError{}

// UpstreamError is a sentinel error for failed provider calls
type UpstreamError struct {
	Provider string
	Err      error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Provider != "" && e.Err != nil {
		return fmt.Sprintf("%s provider call failed: %v", e.Provider, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider call failed: %v", e.Err)
	}
	return "provider call failed"
}

// Unwrap returns the underlying provider error
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is implements the error interface for error comparison
func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)
	return ok
}

// NewUpstreamError wraps a provider call failure
func NewUpstreamError(provider string, err error) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Err:      err,
	}
}
