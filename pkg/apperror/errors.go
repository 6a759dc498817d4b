package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrBackend           = errors.New("backend unavailable")
)

// Machine-readable codes returned in the "code" field of error responses.
const (
	CodeAuthenticationRequired = "authentication_required"
	CodeForbidden              = "forbidden"
	CodeInvalidInput           = "invalid_input"
	CodeNotFound               = "not_found"
	CodeTargetNotFound         = "target_not_found"
	CodeNotificationNotFound   = "notification_not_found"
	CodeTrainingNotFound       = "training_not_found"
	CodePlayerNotFound         = "player_not_found"
	CodePostNotFound           = "post_not_found"
	CodeClubNotFound           = "club_not_found"
	CodeMatchNotFound          = "match_not_found"
	CodeRateLimited            = "rate_limited"
	CodeBackendUnavailable     = "backend_unavailable"
	CodeInternal               = "internal_error"
)

// AppError is a custom error type that carries the HTTP status and a machine-readable code
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(code, message string) *AppError {
	return New(http.StatusNotFound, code, message, ErrNotFound)
}

func InvalidInput(message string) *AppError {
	return New(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeAuthenticationRequired, message, ErrUnauthorized)
}

// Backend wraps a failed store call. It is surfaced once, never retried.
func Backend(err error) *AppError {
	return &AppError{
		Status:  http.StatusServiceUnavailable,
		Code:    CodeBackendUnavailable,
		Message: ErrBackend.Error(),
		Err:     errors.Join(ErrBackend, err),
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrBackend) {
		return http.StatusServiceUnavailable
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// CodeOf returns the machine-readable code for err.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	switch MapErrorToStatus(err) {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnauthorized:
		return CodeAuthenticationRequired
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusBadRequest:
		return CodeInvalidInput
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusServiceUnavailable:
		return CodeBackendUnavailable
	}
	return CodeInternal
}
