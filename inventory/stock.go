package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/stockroomhq/stockroom/keyspace"
	"github.com/stockroomhq/stockroom/store"
)

// Defaults applied when a stock mutation creates a level that does not exist
// yet.
const (
	defaultReorderPoint    = 10
	defaultReorderQuantity = 50
)

// UpdateStockInput describes one stock mutation. Quantity is the signed
// delta: positive for inbound movements, negative for outbound.
type UpdateStockInput struct {
	ProductID     string
	WarehouseID   string
	MovementType  MovementType
	Quantity      int64
	UnitCost      *Money
	ReferenceType string
	ReferenceID   string
	Notes         string
	PerformedBy   string
}

// AdjustInventoryInput sets a level to an absolute quantity, recording the
// difference as an ADJUSTMENT movement.
type AdjustInventoryInput struct {
	ProductID   string
	WarehouseID string
	NewQuantity int64
	Notes       string
	PerformedBy string
}

// UpdateStock applies a signed quantity delta to a product's level in one
// warehouse and appends the matching ledger record, atomically. A delta that
// would take the quantity below zero fails with ErrInsufficientStock and
// leaves the level untouched.
func (s *Service) UpdateStock(ctx context.Context, in UpdateStockInput) (InventoryLevel, StockMovement, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return InventoryLevel{}, StockMovement{}, fmt.Errorf("%w: productId and warehouseId are required", ErrInvalidInput)
	}
	if !in.MovementType.Valid() {
		return InventoryLevel{}, StockMovement{}, fmt.Errorf("%w: unknown movement type %q", ErrInvalidInput, in.MovementType)
	}
	if in.Quantity == 0 {
		return InventoryLevel{}, StockMovement{}, fmt.Errorf("%w: quantity must be non-zero", ErrInvalidInput)
	}

	return s.applyStock(ctx, in.ProductID, in.WarehouseID,
		func(prev int64) (int64, error) {
			next := prev + in.Quantity
			if next < 0 {
				return 0, fmt.Errorf("%w: have %d, requested %+d", ErrInsufficientStock, prev, in.Quantity)
			}
			return next, nil
		},
		StockMovement{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			MovementType:  in.MovementType,
			UnitCost:      in.UnitCost,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Notes:         in.Notes,
			PerformedBy:   in.PerformedBy,
		},
	)
}

// AdjustInventory sets a level's quantity on hand to an absolute value,
// recording the signed difference as an ADJUSTMENT movement. Negative
// targets are rejected unless the service is configured to allow them.
func (s *Service) AdjustInventory(ctx context.Context, in AdjustInventoryInput) (InventoryLevel, StockMovement, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return InventoryLevel{}, StockMovement{}, fmt.Errorf("%w: productId and warehouseId are required", ErrInvalidInput)
	}
	if in.NewQuantity < 0 && !s.cfg.AllowNegativeAdjustment {
		return InventoryLevel{}, StockMovement{}, fmt.Errorf("%w: negative quantity %d not permitted", ErrInvalidInput, in.NewQuantity)
	}

	return s.applyStock(ctx, in.ProductID, in.WarehouseID,
		func(prev int64) (int64, error) { return in.NewQuantity, nil },
		StockMovement{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			MovementType:  MovementAdjustment,
			ReferenceType: "MANUAL",
			Notes:         in.Notes,
			PerformedBy:   in.PerformedBy,
		},
	)
}

// applyStock runs the read-compute-commit loop. The level rewrite is
// conditioned on the quantity still matching the value just read, and the
// ledger append on its key being unused; both land in one transaction or
// neither does. Losing the quantity condition means a concurrent writer got
// in between, so the loop re-reads and recomputes, up to the configured
// retry bound.
func (s *Service) applyStock(ctx context.Context, productID, warehouseID string, compute func(prev int64) (int64, error), movement StockMovement) (InventoryLevel, StockMovement, error) {
	for attempt := 0; attempt < s.cfg.StockRetries; attempt++ {
		level, existed, err := s.loadOrInitLevel(ctx, productID, warehouseID)
		if err != nil {
			return InventoryLevel{}, StockMovement{}, err
		}
		prev := level.QuantityOnHand

		next, err := compute(prev)
		if err != nil {
			return InventoryLevel{}, StockMovement{}, err
		}

		now := s.st.Now().UTC()
		stamp := now.Format(time.RFC3339)
		level.QuantityOnHand = next
		level.QuantityAvailable = next - level.QuantityReserved
		level.LastUpdated = stamp
		level.UpdatedAt = stamp
		if !existed {
			level.CreatedAt = stamp
		}

		mv := movement
		mv.ID = s.st.NextID()
		mv.Quantity = next - prev
		mv.PreviousQuantity = prev
		mv.NewQuantity = next
		mv.Timestamp = now
		mv.CreatedAt = stamp
		mv.UpdatedAt = stamp

		levelPut := store.ConditionalPut{
			Entity: level,
			New:    !existed,
		}
		if existed {
			levelPut.Condition = "#q = :prev"
			levelPut.Names = map[string]string{"#q": "quantityOnHand"}
			levelPut.Values = map[string]types.AttributeValue{
				":prev": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", prev)},
			}
		} else {
			levelPut.Condition = "attribute_not_exists(pk)"
		}

		err = s.st.TransactPut(ctx,
			levelPut,
			store.ConditionalPut{
				Entity:    mv,
				Condition: "attribute_not_exists(pk)",
				New:       true,
			},
		)
		if err == nil {
			s.log.Info().
				Str("productId", productID).
				Str("warehouseId", warehouseID).
				Str("movementType", string(mv.MovementType)).
				Int64("previousQuantity", prev).
				Int64("newQuantity", next).
				Msg("stock updated")
			return level, mv, nil
		}

		var condErr *store.ConditionFailedError
		if errors.As(err, &condErr) && condErr.Index == 0 {
			s.log.Debug().
				Str("productId", productID).
				Str("warehouseId", warehouseID).
				Int("attempt", attempt+1).
				Msg("stock update lost concurrent write, retrying")
			continue
		}
		return InventoryLevel{}, StockMovement{}, translate(err)
	}

	return InventoryLevel{}, StockMovement{}, fmt.Errorf(
		"%w: stock update for product %s in warehouse %s contended %d times",
		ErrConflict, productID, warehouseID, s.cfg.StockRetries)
}

// loadOrInitLevel reads the current level, or initializes a zero-quantity
// one with default reorder settings when the pair has no stock record yet.
func (s *Service) loadOrInitLevel(ctx context.Context, productID, warehouseID string) (InventoryLevel, bool, error) {
	level, err := store.Get[InventoryLevel](ctx, s.st, keyspace.InventoryLevelPrimary(productID, warehouseID))
	if err == nil {
		return level, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return InventoryLevel{}, false, err
	}
	return InventoryLevel{
		ProductID:       productID,
		WarehouseID:     warehouseID,
		ReorderPoint:    defaultReorderPoint,
		ReorderQuantity: defaultReorderQuantity,
	}, false, nil
}
