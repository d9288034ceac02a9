package models

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Callers branch on the kind, never on
// the message text.
type Kind string

const (
	// KindConflict: duplicate unique value (handle, category name, item name).
	KindConflict Kind = "CONFLICT"
	// KindReferentialBlock: delete blocked by a dependent row.
	KindReferentialBlock Kind = "REFERENTIAL_BLOCK"
	// KindNotFound: referenced order/item/account does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindInvalidTransition: status change not reachable from the current status.
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	// KindPermissionDenied: actor is not the owner or lacks the required role.
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	// KindPreconditionFailed: required session state or required field missing.
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	// KindValidationFailed: out-of-range or malformed input.
	KindValidationFailed Kind = "VALIDATION_FAILED"
)

// DomainError is the structured failure every engine operation returns.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a DomainError with a formatted message.
func NewError(kind Kind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches an underlying cause to a DomainError.
func WrapError(kind Kind, err error, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or "" if err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
