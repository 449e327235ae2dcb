package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeValidation represents POI contract validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAdmission represents admission filter errors
	ErrorTypeAdmission ErrorType = "admission"
	// ErrorTypeCanonical represents canonicalization/backfill errors
	ErrorTypeCanonical ErrorType = "canonical"
	// ErrorTypeConsistency represents relationship maintenance errors
	ErrorTypeConsistency ErrorType = "consistency"
	// ErrorTypeEnrich represents enrichment adapter errors
	ErrorTypeEnrich ErrorType = "enrich"
	// ErrorTypeProvenance represents relational provenance store errors
	ErrorTypeProvenance ErrorType = "provenance"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrPOINotFound is returned when a POI is not found in the graph
type ErrPOINotFound struct {
	*BaseError
	POIID string
}

func NewPOINotFound(poiID string) *ErrPOINotFound {
	return &ErrPOINotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("POI not found: %s", poiID), nil),
		POIID:     poiID,
	}
}

// Validation Errors

// ErrDraftInvalid is returned when a POI draft fails contract validation.
// FieldErrors carries the full field-keyed problem list; callers never
// receive a partially-accepted record.
type ErrDraftInvalid struct {
	*BaseError
	FieldErrors []FieldError
}

// FieldError describes a single field-level validation problem
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewDraftInvalid(fieldErrors []FieldError) *ErrDraftInvalid {
	return &ErrDraftInvalid{
		BaseError:   NewBaseError(ErrorTypeValidation, fmt.Sprintf("draft failed validation with %d field error(s)", len(fieldErrors)), nil),
		FieldErrors: fieldErrors,
	}
}

// Admission Errors

// ErrCandidateRejected is returned when the admission filter rejects a
// candidate. Never fatal for a batch; carries the machine-readable reason.
type ErrCandidateRejected struct {
	*BaseError
	Reason string
}

func NewCandidateRejected(name, reason string) *ErrCandidateRejected {
	return &ErrCandidateRejected{
		BaseError: NewBaseError(ErrorTypeAdmission, fmt.Sprintf("candidate rejected: %s", name), nil),
		Reason:    reason,
	}
}

// Canonicalization Errors

// ErrEvidenceOverwriteRefused is returned when a backfill would overwrite
// existing human-entered score evidence
type ErrEvidenceOverwriteRefused struct {
	*BaseError
	POIID string
}

func NewEvidenceOverwriteRefused(poiID string) *ErrEvidenceOverwriteRefused {
	return &ErrEvidenceOverwriteRefused{
		BaseError: NewBaseError(ErrorTypeCanonical, fmt.Sprintf("refusing to overwrite existing score evidence on POI %s", poiID), nil),
		POIID:     poiID,
	}
}

// Enrichment Errors

// ErrEnrichmentFailed is returned when the enrichment LLM request fails
type ErrEnrichmentFailed struct {
	*BaseError
	POIID    string
	Attempts int
}

func NewEnrichmentFailed(poiID string, attempts int, err error) *ErrEnrichmentFailed {
	return &ErrEnrichmentFailed{
		BaseError: NewBaseError(ErrorTypeEnrich, fmt.Sprintf("enrichment failed after %d attempt(s)", attempts), err),
		POIID:     poiID,
		Attempts:  attempts,
	}
}

// Provenance Errors

// ErrProvenanceWriteFailed is returned when the relational store rejects a
// provenance record
type ErrProvenanceWriteFailed struct {
	*BaseError
	POIID string
}

func NewProvenanceWriteFailed(poiID string, err error) *ErrProvenanceWriteFailed {
	return &ErrProvenanceWriteFailed{
		BaseError: NewBaseError(ErrorTypeProvenance, fmt.Sprintf("failed to write provenance for POI %s", poiID), err),
		POIID:     poiID,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		inner := wrapped.Unwrap()
		if inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Validation and admission outcomes are deterministic; retrying changes nothing
	if IsErrorType(err, ErrorTypeValidation) || IsErrorType(err, ErrorTypeAdmission) {
		return false
	}
	// Store-level failures are retryable: every maintenance write is
	// idempotent or merge-based, so at-least-once retry is safe
	if IsErrorType(err, ErrorTypeGraph) || IsErrorType(err, ErrorTypeProvenance) {
		return true
	}
	if IsErrorType(err, ErrorTypeEnrich) {
		return true
	}
	return false
}
