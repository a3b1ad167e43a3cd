package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain errors to HTTP responses. Infrastructure failures
// become an opaque 500; their detail goes to the log, not the client.
func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
		})
	case errors.Is(err, inventory.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Code: "CONFLICT", Message: err.Error(),
		})
	case errors.Is(err, inventory.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: err.Error(),
		})
	case errors.Is(err, inventory.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Code: "INVALID_INPUT", Message: err.Error(),
		})
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Code: "INTERNAL", Message: "internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Code: "INVALID_INPUT", Message: msg,
	})
}
