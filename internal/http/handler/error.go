package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/http/middleware"
	"lendflow/internal/service"
)

// errorPayload is the body of every error response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError writes the standard error envelope. message must be safe to show clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// requestError is a malformed request detected before a service is called.
type requestError struct {
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{code: code, message: message}
}

// handleError translates err into a response. Sentinel-wrapped messages are
// composed by the services and returned verbatim; anything else is a 500.
func handleError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return writeError(c, fiber.StatusBadRequest, re.code, re.message)
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorPayload{
			RequestID: middleware.RequestIDFrom(c),
			Error:     errorEnvelope{Code: "VALIDATION_ERROR", Message: ve.Message, Field: ve.Field},
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		return writeError(c, fiber.StatusForbidden, "ACCOUNT_DISABLED", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler is the fiber global error handler. It covers errors raised
// by middleware and the router itself.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := ""
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", orDefault(message, "authentication required"))
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", orDefault(message, "access denied"))
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", orDefault(message, "too many requests"))
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "SERVICE_UNAVAILABLE", orDefault(message, "service unavailable"))
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
