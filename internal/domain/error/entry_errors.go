// Package error defines domain-specific errors for the PocketLedger backend.
package error

import "errors"

// Entry domain errors.
var (
	// ErrInvalidEntryType is returned when the entry type is not 'in' or 'out'.
	ErrInvalidEntryType = errors.New("entry type must be 'in' or 'out'")

	// ErrNegativeAmount is returned when the amount is negative. The cash-flow
	// sign is carried by the entry type, never by the amount.
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrNoteTooLong is returned when the note exceeds the maximum length.
	ErrNoteTooLong = errors.New("note exceeds maximum length")

	// ErrEntryNotFound is returned when the requested entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
)

// EntryErrorCode defines error codes for entry errors.
// Format: ENT-XXYYYY where XX is category and YYYY is specific error.
type EntryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidEntryType EntryErrorCode = "ENT-010001"
	ErrCodeNegativeAmount   EntryErrorCode = "ENT-010002"
	ErrCodeNoteTooLong      EntryErrorCode = "ENT-010003"

	// Not found errors (02XXXX)
	ErrCodeEntryNotFound EntryErrorCode = "ENT-020001"

	// Internal errors (99XXXX)
	ErrCodeEntryInternalError EntryErrorCode = "ENT-990001"
)

// EntryError represents an entry error with code and message.
type EntryError struct {
	Code    EntryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// NewEntryError creates a new EntryError with the given code and message.
func NewEntryError(code EntryErrorCode, message string, err error) *EntryError {
	return &EntryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
