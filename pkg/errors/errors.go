package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the review gateway failure kinds.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrUnconfigured     = errors.New("upstream not configured")
	ErrUpstreamRejected = errors.New("upstream rejected request")
	ErrTransportFailure = errors.New("upstream transport failure")
	ErrNotFound         = errors.New("resource not found")
	ErrRateLimited      = errors.New("rate limited")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// MissingParameter creates a 400 error for an absent required query parameter.
// The message is what callers see in the response body.
func MissingParameter(name string) *AppError {
	return &AppError{
		Code:    "MISSING_PARAMETER",
		Message: name + " is required",
		Status:  http.StatusBadRequest,
		Err:     ErrMissingParameter,
	}
}

// Unconfigured marks a degraded mode where a dependency has no credentials.
// It maps to 200: callers get defaults, not a failure.
func Unconfigured(message string) *AppError {
	return &AppError{
		Code:    "UNCONFIGURED",
		Message: message,
		Status:  http.StatusOK,
		Err:     ErrUnconfigured,
	}
}

// UpstreamRejected marks an upstream answer that carried no usable data.
// It maps to 200 because the response body is still a defaulted payload.
func UpstreamRejected(message string, cause error) *AppError {
	err := ErrUpstreamRejected
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrUpstreamRejected, cause)
	}
	return &AppError{
		Code:    "UPSTREAM_REJECTED",
		Message: message,
		Status:  http.StatusOK,
		Err:     err,
	}
}

// TransportFailure marks a network or decode failure talking to upstream.
func TransportFailure(message string, cause error) *AppError {
	err := ErrTransportFailure
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrTransportFailure, cause)
	}
	return &AppError{
		Code:    "TRANSPORT_FAILURE",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NotFound creates a 404 error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// RateLimited creates a 429 error.
func RateLimited() *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: "too many requests",
		Status:  http.StatusTooManyRequests,
		Err:     ErrRateLimited,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
// A nil error maps to 200.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnconfigured), errors.Is(err, ErrUpstreamRejected):
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsAbsorbed reports whether err is one of the kinds that degrade to a
// defaulted payload instead of failing the request.
func IsAbsorbed(err error) bool {
	return errors.Is(err, ErrUnconfigured) ||
		errors.Is(err, ErrUpstreamRejected) ||
		errors.Is(err, ErrTransportFailure)
}
