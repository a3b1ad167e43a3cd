// Package stream watches the table's DynamoDB stream for inventory levels
// crossing their reorder point and emits replenishment suggestions.
package stream

import (
	"context"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Suggestion is a replenishment prompt for one level that just went low.
type Suggestion struct {
	ProductID       string `json:"productId"`
	WarehouseID     string `json:"warehouseId"`
	QuantityOnHand  int64  `json:"quantityOnHand"`
	ReorderPoint    int64  `json:"reorderPoint"`
	ReorderQuantity int64  `json:"reorderQuantity"`
}

// Notifier receives replenishment suggestions. BatchID correlates every
// suggestion raised by one stream invocation.
type Notifier interface {
	Notify(ctx context.Context, batchID string, s Suggestion) error
}

// LogNotifier writes suggestions to the log. It stands in until a real
// purchasing integration consumes them.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, batchID string, s Suggestion) error {
	n.Log.Warn().
		Str("batchId", batchID).
		Str("productId", s.ProductID).
		Str("warehouseId", s.WarehouseID).
		Int64("quantityOnHand", s.QuantityOnHand).
		Int64("reorderPoint", s.ReorderPoint).
		Int64("reorderQuantity", s.ReorderQuantity).
		Msg("inventory level at or below reorder point")
	return nil
}

// Watcher turns stream records into replenishment suggestions.
type Watcher struct {
	notifier Notifier
	log      zerolog.Logger
}

// NewWatcher creates a Watcher.
func NewWatcher(notifier Notifier, log zerolog.Logger) *Watcher {
	return &Watcher{notifier: notifier, log: log}
}

// HandleStream processes one DynamoDB stream event. It is shaped for use as
// an AWS Lambda handler. A notifier failure fails the whole batch so the
// stream redelivers it; notifications are idempotent per level state.
func (w *Watcher) HandleStream(ctx context.Context, event events.DynamoDBEvent) error {
	batchID := uuid.New().String()
	for _, record := range event.Records {
		suggestion, ok := lowStockTransition(record)
		if !ok {
			continue
		}
		if err := w.notifier.Notify(ctx, batchID, suggestion); err != nil {
			w.log.Error().
				Err(err).
				Str("eventId", record.EventID).
				Str("productId", suggestion.ProductID).
				Msg("failed to notify low stock")
			return err
		}
	}
	return nil
}

// lowStockTransition reports whether a record represents a level newly
// arriving at or below its reorder point. A level that was already low in
// the old image does not fire again.
func lowStockTransition(record events.DynamoDBEventRecord) (Suggestion, bool) {
	if record.EventName != "INSERT" && record.EventName != "MODIFY" {
		return Suggestion{}, false
	}

	newImage := record.Change.NewImage
	if getStringAttr(newImage, "entityType") != "InventoryLevel" {
		return Suggestion{}, false
	}

	onHand := getNumberAttr(newImage, "quantityOnHand")
	reorderPoint := getNumberAttr(newImage, "reorderPoint")
	if onHand > reorderPoint {
		return Suggestion{}, false
	}

	if record.EventName == "MODIFY" {
		oldOnHand := getNumberAttr(record.Change.OldImage, "quantityOnHand")
		oldReorderPoint := getNumberAttr(record.Change.OldImage, "reorderPoint")
		if oldOnHand <= oldReorderPoint {
			return Suggestion{}, false
		}
	}

	return Suggestion{
		ProductID:       getStringAttr(newImage, "productId"),
		WarehouseID:     getStringAttr(newImage, "warehouseId"),
		QuantityOnHand:  onHand,
		ReorderPoint:    reorderPoint,
		ReorderQuantity: getNumberAttr(newImage, "reorderQuantity"),
	}, true
}

// getStringAttr extracts a string attribute from a stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getNumberAttr extracts a number attribute from a stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeNumber {
		n, _ := strconv.ParseInt(v.Number(), 10, 64)
		return n
	}
	return 0
}
