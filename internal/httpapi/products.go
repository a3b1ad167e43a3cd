package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// CreateProductRequest is the POST /inventory/products body. IsActive
// defaults to true when omitted.
type CreateProductRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	SKU          string                `json:"sku"`
	CategoryID   string                `json:"categoryId"`
	SupplierID   string                `json:"supplierId"`
	UnitPrice    inventory.Money       `json:"unitPrice"`
	UnitCost     inventory.Money       `json:"unitCost"`
	MinimumStock int64                 `json:"minimumStock"`
	MaximumStock int64                 `json:"maximumStock"`
	Weight       float64               `json:"weight"`
	Dimensions   *inventory.Dimensions `json:"dimensions"`
	IsActive     *bool                 `json:"isActive"`
	Tags         []string              `json:"tags"`
}

func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.svc.CreateProduct(c.UserContext(), inventory.Product{
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		UnitPrice:    req.UnitPrice,
		UnitCost:     req.UnitCost,
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
		Weight:       req.Weight,
		Dimensions:   req.Dimensions,
		IsActive:     active,
		Tags:         req.Tags,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) ListProducts(c *fiber.Ctx) error {
	products, err := h.svc.ListProducts(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	p, err := h.svc.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) GetProductBySKU(c *fiber.Ctx) error {
	p, err := h.svc.FindProductBySKU(c.UserContext(), c.Params("sku"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) ProductsByCategory(c *fiber.Ctx) error {
	products, err := h.svc.ProductsByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) ProductsBySupplier(c *fiber.Ctx) error {
	products, err := h.svc.ProductsBySupplier(c.UserContext(), c.Params("supplierId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	var patch inventory.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	updated, err := h.svc.UpdateProduct(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.svc.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
