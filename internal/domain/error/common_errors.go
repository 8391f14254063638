// Package error defines domain-specific errors for the PocketLedger backend.
package error

// Common API error codes shared across endpoints.
// Format: API-XXYYYY where XX is category and YYYY is specific error.
const (
	// ErrCodeMissingUserID is returned when the request carries no user identity.
	ErrCodeMissingUserID = "API-010001"

	// ErrCodeRateLimited is returned when a client exceeds the write rate limit.
	ErrCodeRateLimited = "API-020001"
)
