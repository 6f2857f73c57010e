package tp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrCacheDisabled       = errors.New("cache disabled")
	ErrCacheKeyNotFound    = errors.New("key not found")
	ErrCacheEntryExpired   = errors.New("entry expired")
)

// ValidationError reports malformed caller input (filter, include, or
// orderBy). It names the offending fragment and is never retried.
type ValidationError struct {
	Fragment string
	Reason   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Fragment == "" {
		return "validation failed: " + e.Reason
	}

	return fmt.Sprintf("validation failed for %q: %s", e.Fragment, e.Reason)
}

// InvalidEntityTypeError reports an entity type the remote system does not
// recognize. Valid enumerates the currently known types.
type InvalidEntityTypeError struct {
	Type  string
	Valid []string
}

// Error implements the error interface.
func (e *InvalidEntityTypeError) Error() string {
	return fmt.Sprintf("invalid entity type %q, valid types: %s", e.Type, strings.Join(e.Valid, ", "))
}

// APIError represents a non-2xx response from the Targetprocess API.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Message    string `json:"message"     yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether retrying the request could change the outcome.
// Bad requests and failed authentication are terminal.
func (e *APIError) Retryable() bool {
	return e.StatusCode != http.StatusBadRequest && e.StatusCode != http.StatusUnauthorized
}

// RetriesExhaustedError is raised once the bounded retry budget is spent on
// a retryable failure. It wraps the last underlying error.
type RetriesExhaustedError struct {
	Context  string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s: retries exhausted after %d attempts: %v", e.Context, e.Attempts, e.Err)
}

// Unwrap returns the last underlying error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that could not be decoded, including
// the metadata endpoint after its one-shot repair attempt.
type ParseError struct {
	Context string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorBody is the best-effort error payload shape returned by the API.
// Any subset of the fields may be present.
type ErrorBody struct {
	Message      string `json:"Message"`
	ErrorMessage string `json:"ErrorMessage"`
	Description  string `json:"Description"`
}

// Text returns the first present message field, or the empty string.
func (b *ErrorBody) Text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.ErrorMessage != "":
		return b.ErrorMessage
	default:
		return b.Description
	}
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	validationErr := &ValidationError{}

	return errors.As(err, &validationErr)
}

// IsInvalidEntityType checks if the error is an invalid entity type error.
func IsInvalidEntityType(err error) bool {
	typeErr := &InvalidEntityTypeError{}

	return errors.As(err, &typeErr)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is a failed authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsRetriesExhausted checks if the error is a retries exhausted error.
func IsRetriesExhausted(err error) bool {
	exhaustedErr := &RetriesExhaustedError{}

	return errors.As(err, &exhaustedErr)
}
