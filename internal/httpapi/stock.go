package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockroomhq/stockroom/inventory"
)

// UpdateStockRequest is the POST /inventory/stock/update body. Quantity is
// the signed delta.
type UpdateStockRequest struct {
	ProductID     string                 `json:"productId"`
	WarehouseID   string                 `json:"warehouseId"`
	MovementType  inventory.MovementType `json:"movementType"`
	Quantity      int64                  `json:"quantity"`
	UnitCost      *inventory.Money       `json:"unitCost"`
	ReferenceType string                 `json:"referenceType"`
	ReferenceID   string                 `json:"referenceId"`
	Notes         string                 `json:"notes"`
}

// AdjustInventoryRequest is the POST /inventory/stock/adjust body.
// NewQuantity is the absolute target.
type AdjustInventoryRequest struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	NewQuantity int64  `json:"newQuantity"`
	Notes       string `json:"notes"`
}

// StockResponse pairs the resulting level with the ledger record that
// produced it.
type StockResponse struct {
	Level    inventory.InventoryLevel `json:"level"`
	Movement inventory.StockMovement  `json:"movement"`
}

func (h *Handler) UpdateStock(c *fiber.Ctx) error {
	var req UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	level, movement, err := h.svc.UpdateStock(c.UserContext(), inventory.UpdateStockInput{
		ProductID:     req.ProductID,
		WarehouseID:   req.WarehouseID,
		MovementType:  req.MovementType,
		Quantity:      req.Quantity,
		UnitCost:      req.UnitCost,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
		PerformedBy:   Subject(c),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(StockResponse{Level: level, Movement: movement})
}

func (h *Handler) AdjustInventory(c *fiber.Ctx) error {
	var req AdjustInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}

	level, movement, err := h.svc.AdjustInventory(c.UserContext(), inventory.AdjustInventoryInput{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		NewQuantity: req.NewQuantity,
		Notes:       req.Notes,
		PerformedBy: Subject(c),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(StockResponse{Level: level, Movement: movement})
}
