package utils

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse writes the standard error envelope. message repeats error for clients that
// read that key.
func ErrorResponse(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"error":   message,
		"message": message,
	})
}

// MessageResponse is the body returned by operations that have nothing else to return.
func MessageResponse(message string) fiber.Map {
	return fiber.Map{"message": message}
}

// ErrorHandler renders every error returned by a handler. Unexpected errors are logged and
// reported, and the client only sees a generic message.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				reportInternal(logger, c, appErr)
				return ErrorResponse(c, appErr.Status, CodeInternal, internalErrorMessage)
			}
			return ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				return ErrorResponse(c, fiberErr.Code, CodeNotFound, fiberErr.Message)
			case fiberErr.Code == fiber.StatusUnprocessableEntity, fiberErr.Code == fiber.StatusBadRequest:
				return ErrorResponse(c, fiber.StatusBadRequest, CodeValidation, "Invalid request body")
			case fiberErr.Code < fiber.StatusInternalServerError:
				return ErrorResponse(c, fiberErr.Code, CodeValidation, fiberErr.Message)
			}
		}

		reportInternal(logger, c, err)
		return ErrorResponse(c, fiber.StatusInternalServerError, CodeInternal, internalErrorMessage)
	}
}

func reportInternal(logger *logrus.Logger, c *fiber.Ctx, err error) {
	LogError(logger, "request_failed", err, map[string]interface{}{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals(RequestIDKey),
	})
}

// ParseID parses a positive numeric path id. Anything else cannot name a row, so it is
// reported as not found.
func ParseID(raw, resource string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, NewNotFoundError(resource + " not found")
	}
	return uint(id), nil
}
