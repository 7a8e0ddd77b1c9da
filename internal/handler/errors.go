package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/status"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps an outcome to the HTTP response: NotFound is 404,
// AlreadyExists and Invalid are 400, provider failures are 502, the rest
// is 500.
func respondError(c fiber.Ctx, err error) error {
	switch status.Of(err) {
	case status.NotFound:
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case status.AlreadyExists, status.Invalid:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case status.Transient, status.ProviderError:
		slog.Error("provider failure", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "catalog provider unavailable"})
	default:
		slog.Error("internal error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
