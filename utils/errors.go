package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an error that is safe to show to the caller. Err holds the underlying cause
// and is only ever logged.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

var (
	ErrDuplicateEmail     = &AppError{Status: fiber.StatusBadRequest, Code: CodeDuplicateEmail, Message: "Email already in use"}
	ErrInvalidCredentials = &AppError{Status: fiber.StatusBadRequest, Code: CodeInvalidCredentials, Message: "Invalid credentials"}
	ErrUnauthenticated    = &AppError{Status: fiber.StatusUnauthorized, Code: CodeUnauthenticated, Message: "No token provided"}
	ErrTokenRejected      = &AppError{Status: fiber.StatusUnauthorized, Code: CodeInvalidToken, Message: "Invalid token"}
)

func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Internal wraps an unexpected failure. The message is logged, never returned.
func Internal(err error, message string) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: message, Err: err}
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
