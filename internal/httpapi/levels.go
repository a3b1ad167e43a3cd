package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetLevel(c *fiber.Ctx) error {
	level, err := h.svc.GetLevel(c.UserContext(), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(level)
}

func (h *Handler) LevelsByProduct(c *fiber.Ctx) error {
	levels, err := h.svc.LevelsByProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(levels)
}

func (h *Handler) LevelsByWarehouse(c *fiber.Ctx) error {
	levels, err := h.svc.LevelsByWarehouse(c.UserContext(), c.Params("warehouseId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(levels)
}

func (h *Handler) LowStockLevels(c *fiber.Ctx) error {
	levels, err := h.svc.LowStockLevels(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(levels)
}
