package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the payment pipeline.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrUpstream         = errors.New("upstream request failed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
	ErrInternal         = errors.New("internal error")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents the JSON error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Validation creates a validation error for malformed caller input.
func Validation(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        ErrBadRequest,
	}
}

// Upstream creates an error for a failed or rejected processor API call.
func Upstream(message string, err error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        errors.Join(ErrUpstream, err),
	}
}

// InvalidSignature creates a signature verification error. It is terminal at
// the webhook handler boundary: the processor retries delivery on non-2xx.
func InvalidSignature(err error) *AppError {
	return &AppError{
		Code:       "SIGNATURE_INVALID",
		Message:    "webhook signature verification failed",
		StatusCode: http.StatusBadRequest,
		Err:        errors.Join(ErrInvalidSignature, err),
	}
}

// MalformedEvent creates an error for a verified but structurally unexpected
// payload. It is logged and swallowed, never returned over HTTP.
func MalformedEvent(message string) *AppError {
	return &AppError{
		Code:       "MALFORMED_EVENT",
		Message:    message,
		StatusCode: http.StatusOK,
		Err:        ErrMalformedEvent,
	}
}

// Internal creates an internal error.
func Internal(err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
		Err:        errors.Join(ErrInternal, err),
	}
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus returns the HTTP status code for an error, defaulting to 500.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ToResponse converts an error to an ErrorResponse for JSON serialization.
func ToResponse(err error) ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}}
	}
	return ErrorResponse{Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: "internal server error"}}
}
