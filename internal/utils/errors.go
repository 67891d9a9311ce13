package utils

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Error codes
const (
	ErrValidation      = "VALIDATION_ERROR"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrForbidden       = "FORBIDDEN" // authenticated but not allowed
	ErrNotFound        = "NOT_FOUND"
	ErrConflict        = "CONFLICT"

	ErrVoteWriteFailed    = "VOTE_WRITE_FAILED"
	ErrCommentWriteFailed = "COMMENT_WRITE_FAILED"
	ErrWriteFailed        = "WRITE_FAILED"

	ErrGateway  = "GATEWAY_ERROR"
	ErrInternal = "INTERNAL"
)

func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: ErrUnauthenticated, Message: "You must be logged in"}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{Code: ErrForbidden, Message: "Forbidden: " + reason}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: resource + " not found"}
}

// ErrorCode extracts the code of the outermost AppError in err's chain.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsErrorCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides the wrapped origin of internal failures from clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
