package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// CreateSupplierRequest is the POST /inventory/suppliers body.
type CreateSupplierRequest struct {
	Name         string             `json:"name"`
	ContactEmail string             `json:"contactEmail"`
	ContactPhone string             `json:"contactPhone"`
	Address      *inventory.Address `json:"address"`
	PaymentTerms string             `json:"paymentTerms"`
	LeadTimeDays int64              `json:"leadTimeDays"`
	IsActive     *bool              `json:"isActive"`
}

func (h *Handler) CreateSupplier(c *fiber.Ctx) error {
	var req CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.svc.CreateSupplier(c.UserContext(), inventory.Supplier{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		LeadTimeDays: req.LeadTimeDays,
		IsActive:     active,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) ListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.svc.ListSuppliers(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(suppliers)
}

func (h *Handler) GetSupplier(c *fiber.Ctx) error {
	supplier, err := h.svc.GetSupplier(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(supplier)
}

func (h *Handler) UpdateSupplier(c *fiber.Ctx) error {
	var patch inventory.SupplierPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	updated, err := h.svc.UpdateSupplier(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteSupplier(c *fiber.Ctx) error {
	if err := h.svc.DeleteSupplier(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
