// Package keyspace computes the partition, sort and secondary-index keys that
// place every entity type in the single inventory table. All functions are
// pure: the same field values always produce the same key record.
package keyspace

import (
	"fmt"
	"time"
)

// Index names for the table's global secondary indexes.
const (
	IndexGSI1 = "gsi1"
	IndexGSI2 = "gsi2"
	IndexGSI3 = "gsi3"
)

// Keys is the structured key record for one item. Empty GSI fields mean the
// item is not projected into that index.
type Keys struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string
	GSI2PK string
	GSI2SK string
	GSI3PK string
	GSI3SK string
}

// IndexAttrs returns the partition and sort attribute names for an index.
// The empty index name selects the table's primary key.
func IndexAttrs(index string) (pkAttr, skAttr string) {
	switch index {
	case "":
		return "pk", "sk"
	case IndexGSI1:
		return "gsi1pk", "gsi1sk"
	case IndexGSI2:
		return "gsi2pk", "gsi2sk"
	case IndexGSI3:
		return "gsi3pk", "gsi3sk"
	default:
		return "", ""
	}
}

// metadataSK marks the single metadata item of an entity keyed by its own id.
const metadataSK = "METADATA"

// ProductKeys computes all keys for a product. gsi1 lists products by
// category ordered by name, gsi2 lists products by supplier, and gsi3 is the
// SKU uniqueness index (one constant partition, SKU as sort key).
func ProductKeys(id, name, sku, categoryID, supplierID string) Keys {
	return Keys{
		PK:     "PRODUCT#" + id,
		SK:     metadataSK,
		GSI1PK: "CATEGORY#" + categoryID,
		GSI1SK: "PRODUCT#" + name,
		GSI2PK: "SUPPLIER#" + supplierID,
		GSI2SK: "PRODUCT#" + id,
		GSI3PK: "SKU",
		GSI3SK: sku,
	}
}

// ProductPrimary returns just the primary key for a product id.
func ProductPrimary(id string) Keys {
	return Keys{PK: "PRODUCT#" + id, SK: metadataSK}
}

// CategoryKeys computes all keys for a category. gsi1 lists all categories
// ordered by name.
func CategoryKeys(id, name string) Keys {
	return Keys{
		PK:     "CATEGORY#" + id,
		SK:     metadataSK,
		GSI1PK: "CATEGORIES",
		GSI1SK: "CATEGORY#" + name,
	}
}

// CategoryPrimary returns just the primary key for a category id.
func CategoryPrimary(id string) Keys {
	return Keys{PK: "CATEGORY#" + id, SK: metadataSK}
}

// SupplierKeys computes all keys for a supplier. gsi1 lists all suppliers
// ordered by name.
func SupplierKeys(id, name string) Keys {
	return Keys{
		PK:     "SUPPLIER#" + id,
		SK:     metadataSK,
		GSI1PK: "SUPPLIERS",
		GSI1SK: "SUPPLIER#" + name,
	}
}

// SupplierPrimary returns just the primary key for a supplier id.
func SupplierPrimary(id string) Keys {
	return Keys{PK: "SUPPLIER#" + id, SK: metadataSK}
}

// WarehouseKeys computes all keys for a warehouse. gsi1 lists all warehouses
// ordered by name.
func WarehouseKeys(id, name string) Keys {
	return Keys{
		PK:     "WAREHOUSE#" + id,
		SK:     metadataSK,
		GSI1PK: "WAREHOUSES",
		GSI1SK: "WAREHOUSE#" + name,
	}
}

// WarehousePrimary returns just the primary key for a warehouse id.
func WarehousePrimary(id string) Keys {
	return Keys{PK: "WAREHOUSE#" + id, SK: metadataSK}
}

// InventoryLevelKeys computes all keys for an inventory level. The primary
// key groups levels under their warehouse, gsi1 inverts that to group by
// product, and gsi2 is the low-stock index: the projection is attached only
// while quantityOnHand <= reorderPoint, so items above their reorder point
// are absent from the index rather than filtered out at query time.
func InventoryLevelKeys(productID, warehouseID string, quantityOnHand, reorderPoint int64) Keys {
	k := Keys{
		PK:     "WAREHOUSE#" + warehouseID,
		SK:     "PRODUCT#" + productID,
		GSI1PK: "PRODUCT#" + productID,
		GSI1SK: "WAREHOUSE#" + warehouseID,
	}
	if quantityOnHand <= reorderPoint {
		k.GSI2PK = "LOW_STOCK"
		k.GSI2SK = padQuantity(quantityOnHand) + "#" + productID
	}
	return k
}

// InventoryLevelPrimary returns just the primary key for a level pair.
func InventoryLevelPrimary(productID, warehouseID string) Keys {
	return Keys{PK: "WAREHOUSE#" + warehouseID, SK: "PRODUCT#" + productID}
}

// StockMovementKeys computes all keys for a stock movement. The sort key
// embeds the RFC 3339 timestamp so movements are time-ordered under their
// product; the id breaks ties within the same instant. gsi1 orders the same
// records by warehouse, gsi2 by movement type.
func StockMovementKeys(id, productID, warehouseID, movementType string, timestamp time.Time) Keys {
	sk := "MOVEMENT#" + timestamp.UTC().Format(time.RFC3339) + "#" + id
	return Keys{
		PK:     "PRODUCT#" + productID,
		SK:     sk,
		GSI1PK: "WAREHOUSE#" + warehouseID,
		GSI1SK: sk,
		GSI2PK: "MOVEMENT_TYPE#" + movementType,
		GSI2SK: sk,
	}
}

// PurchaseOrderKeys computes all keys for a purchase order. gsi1 lists orders
// by supplier in date order, gsi2 by status in date order.
func PurchaseOrderKeys(id, supplierID, status string, orderDate time.Time) Keys {
	sk := "PO#" + orderDate.UTC().Format(time.RFC3339) + "#" + id
	return Keys{
		PK:     "PURCHASE_ORDER#" + id,
		SK:     metadataSK,
		GSI1PK: "SUPPLIER#" + supplierID,
		GSI1SK: sk,
		GSI2PK: "PO_STATUS#" + status,
		GSI2SK: sk,
	}
}

// PurchaseOrderItemKeys computes all keys for a purchase order line item.
// Line items share their order's partition; gsi1 finds every order line that
// references a product.
func PurchaseOrderItemKeys(purchaseOrderID, productID string) Keys {
	return Keys{
		PK:     "PURCHASE_ORDER#" + purchaseOrderID,
		SK:     "ITEM#" + productID,
		GSI1PK: "PRODUCT#" + productID,
		GSI1SK: "PO_ITEM#" + purchaseOrderID,
	}
}

// padQuantity renders a quantity as a fixed-width decimal so lexicographic
// order in the low-stock sort key matches numeric order. Quantities below
// zero (possible only via an allowed negative adjustment) clamp to zero.
func padQuantity(q int64) string {
	if q < 0 {
		q = 0
	}
	return fmt.Sprintf("%010d", q)
}
