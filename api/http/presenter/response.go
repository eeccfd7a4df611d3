package presenter

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/portfolio/pkg/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// Error writes a transport-level error; the kind follows from the status.
func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Kind: kindForStatus(status), Message: message})
}

// Fail writes a classified pipeline error.
func Fail(c *fiber.Ctx, err error) error {
	return JSON(c, apperr.HTTPStatus(err), ErrorResponse{
		Kind:    string(apperr.KindOf(err)),
		Message: apperr.MessageOf(err),
	})
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return string(apperr.KindInvalidInput)
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	return string(apperr.KindInternal)
}
