package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// CreateWarehouseRequest is the POST /inventory/warehouses body.
type CreateWarehouseRequest struct {
	Name     string             `json:"name"`
	Address  *inventory.Address `json:"address"`
	Capacity int64              `json:"capacity"`
	IsActive *bool              `json:"isActive"`
}

func (h *Handler) CreateWarehouse(c *fiber.Ctx) error {
	var req CreateWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.svc.CreateWarehouse(c.UserContext(), inventory.Warehouse{
		Name:     req.Name,
		Address:  req.Address,
		Capacity: req.Capacity,
		IsActive: active,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) ListWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.svc.ListWarehouses(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(warehouses)
}

func (h *Handler) GetWarehouse(c *fiber.Ctx) error {
	warehouse, err := h.svc.GetWarehouse(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(warehouse)
}

func (h *Handler) UpdateWarehouse(c *fiber.Ctx) error {
	var patch inventory.WarehousePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	updated, err := h.svc.UpdateWarehouse(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteWarehouse(c *fiber.Ctx) error {
	if err := h.svc.DeleteWarehouse(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
