package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a store that could not be reached at all,
	// as opposed to a single failed operation.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError is missing or malformed caller input. Never retried.
type ValidationError struct {
	Message       string
	MissingFields []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.MissingFields, ", "))
	}
	return e.Message
}

func NewValidationError(msg string, missing ...string) *ValidationError {
	return &ValidationError{Message: msg, MissingFields: missing}
}

// InvalidPayloadError is a webhook delivery that cannot be applied.
type InvalidPayloadError struct {
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return "invalid payload: " + e.Reason
}

// UpstreamError wraps a failed CDN or AI service call.
type UpstreamError struct {
	Service string
	Op      string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StoreError wraps a failed key-value or document store operation.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Store, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AuthError is a missing or rejected caller identity.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "unauthorized: " + e.Reason
}

// IncompleteRecordError is a job record lacking fields a history entry needs.
type IncompleteRecordError struct {
	JobID   string
	Missing []string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("job %s record incomplete: missing %s", e.JobID, strings.Join(e.Missing, ", "))
}
