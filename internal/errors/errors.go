// Package errors defines stable error codes and structured errors for the
// Qber client.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// RemoteUnavailable indicates the Qber API is not reachable
	RemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE"
	// Unauthorized indicates the API rejected the supplied token
	Unauthorized ErrorCode = "UNAUTHORIZED"
	// NotFound indicates the project or questionnaire does not exist
	NotFound ErrorCode = "NOT_FOUND"
	// LookupFailed indicates a flattened section resolved to no record
	LookupFailed ErrorCode = "LOOKUP_FAILED"
	// TaxonomyMalformed indicates inconsistent category levels in the input
	TaxonomyMalformed ErrorCode = "TAXONOMY_MALFORMED"
	// CacheStale indicates the offline cache has expired
	CacheStale ErrorCode = "CACHE_STALE"
	// MutationRejected indicates the API refused a reorder or visibility change
	MutationRejected ErrorCode = "MUTATION_REJECTED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Safe        bool   `json:"safe,omitempty"`
	Description string `json:"description,omitempty"`
}

// QberError represents a client error with code, message, and suggestions
type QberError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new QberError
func New(code ErrorCode, message string, cause error) *QberError {
	return &QberError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *QberError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *QberError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *QberError) WithDetails(details interface{}) *QberError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	RemoteUnavailable: {
		{
			Command:     "qber config show",
			Safe:        true,
			Description: "Check the configured API endpoint",
		},
	},
	Unauthorized: {
		{
			Command:     "qber config init",
			Safe:        true,
			Description: "Re-create credentials with a fresh API token",
		},
	},
	CacheStale: {
		{
			Command:     "qber toc",
			Safe:        true,
			Description: "Refresh the cache by fetching without --offline",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
