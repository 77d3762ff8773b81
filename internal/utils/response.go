package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError points a client error at the offending input key.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string, fieldErrors ...FieldError) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Errors:  fieldErrors,
	})
}

// SendAppError maps a service error onto a status code and envelope.
// Unclassified errors are reported as 500 without leaking their text.
func SendAppError(c *fiber.Ctx, err error) error {
	status, message, fieldErrors := Classify(err)
	return SendError(c, status, message, fieldErrors...)
}

// Classify returns the HTTP status, client message and field errors for err.
func Classify(err error) (int, string, []FieldError) {
	var validation *apperror.ValidationError
	var authorization *apperror.AuthorizationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, "validation failed", []FieldError{{Field: validation.Field, Reason: validation.Reason}}
	case errors.As(err, &authorization):
		return fiber.StatusForbidden, authorization.Reason, nil
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound, "not found", nil
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message, nil
	default:
		return fiber.StatusInternalServerError, "internal server error", nil
	}
}
