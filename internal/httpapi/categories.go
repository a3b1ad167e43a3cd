package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// CreateCategoryRequest is the POST /inventory/categories body.
type CreateCategoryRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ParentCategoryID string `json:"parentCategoryId"`
	IsActive         *bool  `json:"isActive"`
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.svc.CreateCategory(c.UserContext(), inventory.Category{
		Name:             req.Name,
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
		IsActive:         active,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.svc.ListCategories(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(categories)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	category, err := h.svc.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(category)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	var patch inventory.CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	updated, err := h.svc.UpdateCategory(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.svc.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
