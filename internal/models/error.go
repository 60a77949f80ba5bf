package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData     = errors.New("data conflicts with existing data")
	ErrDataNotFound     = errors.New("data not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUnknownProduct   = errors.New("unknown product reference")
	ErrInvalidAmount    = errors.New("computed price is not positive")
	ErrOrderNotEditable = errors.New("order is frozen and cannot be edited")
)

// ValidationError reports a precondition the caller can correct, e.g. a
// missing tracking code for a SHIPPED transition. The commit is rejected
// atomically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) ValidationError {
	return ValidationError{Field: field, Reason: reason}
}

// UpstreamError carries the raw diagnostic payload of a failed carrier or
// gateway call so an operator can escalate with the counterpart's support.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	OutboundIP string
	Retryable  bool
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("%s call failed: status=%d body=%q ip=%s", e.Service, e.StatusCode, e.Body, e.OutboundIP)
}

// ConfigurationError reports missing credentials or settings. Raised before
// any network I/O is attempted.
type ConfigurationError struct {
	Setting string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Setting)
}
