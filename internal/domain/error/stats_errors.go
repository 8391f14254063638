// Package error defines domain-specific errors for the PocketLedger backend.
package error

import "errors"

// Stats domain errors.
var (
	// ErrUnknownFilter is returned when the range filter name is not supported.
	ErrUnknownFilter = errors.New("unknown range filter")

	// ErrMissingCustomBounds is returned when the custom filter is selected
	// without explicit start and end dates.
	ErrMissingCustomBounds = errors.New("custom filter requires start and end dates")

	// ErrRunAborted is returned when an aggregation run was canceled or
	// superseded by a newer run before it completed.
	ErrRunAborted = errors.New("aggregation run aborted")

	// ErrSourceFailure is returned when the entry source failed while
	// producing bulk data or a page.
	ErrSourceFailure = errors.New("entry source failed")
)

// StatsErrorCode defines error codes for stats errors.
// Format: STA-XXYYYY where XX is category and YYYY is specific error.
type StatsErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeUnknownFilter       StatsErrorCode = "STA-010001"
	ErrCodeMissingCustomBounds StatsErrorCode = "STA-010002"
	ErrCodeInvalidPivot        StatsErrorCode = "STA-010003"

	// Run lifecycle errors (02XXXX)
	ErrCodeRunAborted    StatsErrorCode = "STA-020001"
	ErrCodeSourceFailure StatsErrorCode = "STA-020002"

	// Internal errors (99XXXX)
	ErrCodeStatsInternalError StatsErrorCode = "STA-990001"
)

// StatsError represents a stats error with code and message.
type StatsError struct {
	Code    StatsErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatsError) Unwrap() error {
	return e.Err
}

// NewStatsError creates a new StatsError with the given code and message.
func NewStatsError(code StatsErrorCode, message string, err error) *StatsError {
	return &StatsError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsRunAborted reports whether err marks a canceled or superseded run.
// Callers must never mistake an aborted run for a legitimate empty result.
func IsRunAborted(err error) bool {
	return errors.Is(err, ErrRunAborted)
}

// IsSourceFailure reports whether err marks a failure of the entry source.
func IsSourceFailure(err error) bool {
	return errors.Is(err, ErrSourceFailure)
}
