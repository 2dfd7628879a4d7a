package handler

import (
	"github.com/gofiber/fiber/v2"
)

// errorResponse is the standardized error body. Details are only set for
// client-input errors; internal failure details stay in the logs.
type errorResponse struct {
	Success      bool     `json:"success"`
	Error        string   `json:"error"`
	Code         string   `json:"code"`
	Details      string   `json:"details,omitempty"`
	AllowedTypes []string `json:"allowed_types,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NO_FILE", "SERVICE_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorResponse{
		Error: message,
		Code:  code,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses. Oversized request bodies rejected by the transport surface as
// FILE_TOO_LARGE so clients see the same code whether the ceiling is hit at
// the body limit or in the pipeline.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "File too large (max 16MB)")
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "Internal server error")
		}
	}
}
