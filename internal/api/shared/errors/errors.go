package errors

import (
	"encoding/json"
	"strings"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest         ErrorCode = "bad_request"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeValidationFailed   ErrorCode = "validation_failed"
	ErrCodeUnauthorized       ErrorCode = "unauthorized"
	ErrCodeEvaluationFailed   ErrorCode = "evaluation_failed"
	ErrCodeUnsupportedQuery   ErrorCode = "unsupported_query"
	ErrCodeUnsupportedService ErrorCode = "unsupported_service"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// ErrorResponse is the envelope every REST error is returned in
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeBadRequest, message, details...)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeNotFound, message, details...)
}

func NewValidationError(details ...string) *APIError {
	return newAPIError(ErrCodeValidationFailed, "Validation failed", details...)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeUnauthorized, message, details...)
}

func NewEvaluationError(details ...string) *APIError {
	return newAPIError(ErrCodeEvaluationFailed, "Transaction bundle could not be evaluated", details...)
}

func NewUnsupportedQueryError(details ...string) *APIError {
	return newAPIError(ErrCodeUnsupportedQuery, "Lookup query not supported", details...)
}

func NewUnsupportedServiceError(details ...string) *APIError {
	return newAPIError(ErrCodeUnsupportedService, "Lookup service not supported", details...)
}

func NewInternalError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeInternalError, message, details...)
}

func newAPIError(code ErrorCode, message string, details ...string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}
