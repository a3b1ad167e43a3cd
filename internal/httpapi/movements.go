package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

func (h *Handler) MovementsByProduct(c *fiber.Ctx) error {
	movements, err := h.svc.MovementsByProduct(c.UserContext(), c.Params("productId"), limitParam(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(movements)
}

func (h *Handler) MovementsByWarehouse(c *fiber.Ctx) error {
	movements, err := h.svc.MovementsByWarehouse(c.UserContext(), c.Params("warehouseId"), limitParam(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(movements)
}

func (h *Handler) MovementsByType(c *fiber.Ctx) error {
	movementType := inventory.MovementType(c.Params("movementType"))
	movements, err := h.svc.MovementsByType(c.UserContext(), movementType, limitParam(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(movements)
}

func limitParam(c *fiber.Ctx) int32 {
	return int32(c.QueryInt("limit", 0))
}
