package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse is the envelope of every successful JSON response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failed JSON response.
// Details carries the field -> rule map of validation failures.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// Message answers 200 with a message and no data.
func Message(c *fiber.Ctx, message string) error {
	return c.JSON(SuccessResponse{Success: true, Message: message})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Download sends body as a file attachment. Attachment guesses the type from
// the extension, so contentType is set afterwards to win.
func Download(c *fiber.Ctx, filename, contentType string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}

func respondError(c *fiber.Ctx, status int, message string, details map[string]string) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
		Details: details,
	})
}

// Error writes err's text with the given status.
func Error(c *fiber.Ctx, status int, err error) error {
	return respondError(c, status, err.Error(), nil)
}

// ValidationError answers 422 with a field -> rule map.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return respondError(c, fiber.StatusUnprocessableEntity, "Validation failed", fields)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusBadRequest, message, nil)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusForbidden, message, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusNotFound, message, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusConflict, message, nil)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return respondError(c, fiber.StatusInternalServerError, message, nil)
}
