// Package inventory implements the inventory domain: products, categories,
// suppliers, warehouses, per-warehouse stock levels and the stock-movement
// ledger, with the business rules that keep them consistent.
package inventory

import (
	"time"

	"github.com/stockroomhq/stockroom/keyspace"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementReceipt    MovementType = "RECEIPT"
	MovementShipment   MovementType = "SHIPMENT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementReturn     MovementType = "RETURN"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReceipt, MovementShipment, MovementAdjustment, MovementTransfer, MovementReturn:
		return true
	}
	return false
}

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ORDERED"
	PurchaseOrderReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderCancelled PurchaseOrderStatus = "CANCELLED"
)

// Dimensions are the physical dimensions of a product, in inches.
type Dimensions struct {
	Length float64 `json:"length,omitempty" dynamodbav:"length,omitempty"`
	Width  float64 `json:"width,omitempty" dynamodbav:"width,omitempty"`
	Height float64 `json:"height,omitempty" dynamodbav:"height,omitempty"`
}

// Address is a postal address for suppliers and warehouses.
type Address struct {
	Street  string `json:"street,omitempty" dynamodbav:"street,omitempty"`
	City    string `json:"city,omitempty" dynamodbav:"city,omitempty"`
	State   string `json:"state,omitempty" dynamodbav:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" dynamodbav:"zipCode,omitempty"`
	Country string `json:"country,omitempty" dynamodbav:"country,omitempty"`
}

// Product is a sellable item. SKU is globally unique across active and
// inactive products.
type Product struct {
	ID           string      `json:"id" dynamodbav:"id"`
	Name         string      `json:"name" dynamodbav:"name"`
	Description  string      `json:"description,omitempty" dynamodbav:"description,omitempty"`
	SKU          string      `json:"sku" dynamodbav:"sku"`
	CategoryID   string      `json:"categoryId" dynamodbav:"categoryId"`
	SupplierID   string      `json:"supplierId" dynamodbav:"supplierId"`
	UnitPrice    Money       `json:"unitPrice" dynamodbav:"unitPrice"`
	UnitCost     Money       `json:"unitCost" dynamodbav:"unitCost"`
	MinimumStock int64       `json:"minimumStock" dynamodbav:"minimumStock"`
	MaximumStock int64       `json:"maximumStock,omitempty" dynamodbav:"maximumStock,omitempty"`
	Weight       float64     `json:"weight,omitempty" dynamodbav:"weight,omitempty"`
	Dimensions   *Dimensions `json:"dimensions,omitempty" dynamodbav:"dimensions,omitempty"`
	IsActive     bool        `json:"isActive" dynamodbav:"isActive"`
	Tags         []string    `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	CreatedAt    string      `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt    string      `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (p Product) EntityType() string { return "Product" }
func (p Product) Keys() keyspace.Keys {
	return keyspace.ProductKeys(p.ID, p.Name, p.SKU, p.CategoryID, p.SupplierID)
}
func (p Product) GeneratedID() string       { return p.ID }
func (p *Product) SetGeneratedID(id string) { p.ID = id }

// Category groups products; categories may nest via ParentCategoryID.
type Category struct {
	ID               string `json:"id" dynamodbav:"id"`
	Name             string `json:"name" dynamodbav:"name"`
	Description      string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	ParentCategoryID string `json:"parentCategoryId,omitempty" dynamodbav:"parentCategoryId,omitempty"`
	IsActive         bool   `json:"isActive" dynamodbav:"isActive"`
	CreatedAt        string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (c Category) EntityType() string        { return "Category" }
func (c Category) Keys() keyspace.Keys       { return keyspace.CategoryKeys(c.ID, c.Name) }
func (c Category) GeneratedID() string       { return c.ID }
func (c *Category) SetGeneratedID(id string) { c.ID = id }

// Supplier is a source of products.
type Supplier struct {
	ID           string   `json:"id" dynamodbav:"id"`
	Name         string   `json:"name" dynamodbav:"name"`
	ContactEmail string   `json:"contactEmail" dynamodbav:"contactEmail"`
	ContactPhone string   `json:"contactPhone,omitempty" dynamodbav:"contactPhone,omitempty"`
	Address      *Address `json:"address,omitempty" dynamodbav:"address,omitempty"`
	PaymentTerms string   `json:"paymentTerms,omitempty" dynamodbav:"paymentTerms,omitempty"`
	LeadTimeDays int64    `json:"leadTimeDays,omitempty" dynamodbav:"leadTimeDays,omitempty"`
	IsActive     bool     `json:"isActive" dynamodbav:"isActive"`
	CreatedAt    string   `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (s Supplier) EntityType() string        { return "Supplier" }
func (s Supplier) Keys() keyspace.Keys       { return keyspace.SupplierKeys(s.ID, s.Name) }
func (s Supplier) GeneratedID() string       { return s.ID }
func (s *Supplier) SetGeneratedID(id string) { s.ID = id }

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        string   `json:"id" dynamodbav:"id"`
	Name      string   `json:"name" dynamodbav:"name"`
	Address   *Address `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Capacity  int64    `json:"capacity,omitempty" dynamodbav:"capacity,omitempty"`
	IsActive  bool     `json:"isActive" dynamodbav:"isActive"`
	CreatedAt string   `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (w Warehouse) EntityType() string        { return "Warehouse" }
func (w Warehouse) Keys() keyspace.Keys       { return keyspace.WarehouseKeys(w.ID, w.Name) }
func (w Warehouse) GeneratedID() string       { return w.ID }
func (w *Warehouse) SetGeneratedID(id string) { w.ID = id }

// InventoryLevel is the stock position of one product in one warehouse. It
// has no surrogate id; the (warehouseId, productId) pair is the identity.
// QuantityAvailable is derived from QuantityOnHand - QuantityReserved and is
// recomputed on every write, never set independently.
type InventoryLevel struct {
	ProductID         string `json:"productId" dynamodbav:"productId"`
	WarehouseID       string `json:"warehouseId" dynamodbav:"warehouseId"`
	QuantityOnHand    int64  `json:"quantityOnHand" dynamodbav:"quantityOnHand"`
	QuantityReserved  int64  `json:"quantityReserved" dynamodbav:"quantityReserved"`
	QuantityAvailable int64  `json:"quantityAvailable" dynamodbav:"quantityAvailable"`
	ReorderPoint      int64  `json:"reorderPoint" dynamodbav:"reorderPoint"`
	ReorderQuantity   int64  `json:"reorderQuantity" dynamodbav:"reorderQuantity"`
	LastStockCount    string `json:"lastStockCount,omitempty" dynamodbav:"lastStockCount,omitempty"`
	LastUpdated       string `json:"lastUpdated,omitempty" dynamodbav:"lastUpdated,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (l InventoryLevel) EntityType() string { return "InventoryLevel" }
func (l InventoryLevel) Keys() keyspace.Keys {
	return keyspace.InventoryLevelKeys(l.ProductID, l.WarehouseID, l.QuantityOnHand, l.ReorderPoint)
}

// StockMovement is one immutable entry in the stock ledger. PreviousQuantity
// and NewQuantity bracket the exact before/after state of the mutation that
// produced it.
type StockMovement struct {
	ID               string       `json:"id" dynamodbav:"id"`
	ProductID        string       `json:"productId" dynamodbav:"productId"`
	WarehouseID      string       `json:"warehouseId" dynamodbav:"warehouseId"`
	MovementType     MovementType `json:"movementType" dynamodbav:"movementType"`
	Quantity         int64        `json:"quantity" dynamodbav:"quantity"`
	PreviousQuantity int64        `json:"previousQuantity" dynamodbav:"previousQuantity"`
	NewQuantity      int64        `json:"newQuantity" dynamodbav:"newQuantity"`
	UnitCost         *Money       `json:"unitCost,omitempty" dynamodbav:"unitCost,omitempty"`
	ReferenceType    string       `json:"referenceType,omitempty" dynamodbav:"referenceType,omitempty"`
	ReferenceID      string       `json:"referenceId,omitempty" dynamodbav:"referenceId,omitempty"`
	Notes            string       `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	PerformedBy      string       `json:"performedBy" dynamodbav:"performedBy"`
	Timestamp        time.Time    `json:"timestamp" dynamodbav:"timestamp"`
	CreatedAt        string       `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt        string       `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (m StockMovement) EntityType() string { return "StockMovement" }
func (m StockMovement) Keys() keyspace.Keys {
	return keyspace.StockMovementKeys(m.ID, m.ProductID, m.WarehouseID, string(m.MovementType), m.Timestamp)
}
func (m StockMovement) GeneratedID() string       { return m.ID }
func (m *StockMovement) SetGeneratedID(id string) { m.ID = id }

// PurchaseOrder and PurchaseOrderItem carry the purchase-order schema shape.
// There is no order workflow in the service; the types exist so the key
// space covers the full table layout.
type PurchaseOrder struct {
	ID                   string              `json:"id" dynamodbav:"id"`
	SupplierID           string              `json:"supplierId" dynamodbav:"supplierId"`
	WarehouseID          string              `json:"warehouseId" dynamodbav:"warehouseId"`
	OrderDate            time.Time           `json:"orderDate" dynamodbav:"orderDate"`
	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate,omitempty" dynamodbav:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time          `json:"actualDeliveryDate,omitempty" dynamodbav:"actualDeliveryDate,omitempty"`
	Status               PurchaseOrderStatus `json:"status" dynamodbav:"status"`
	TotalAmount          Money               `json:"totalAmount" dynamodbav:"totalAmount"`
	Notes                string              `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
	CreatedAt            string              `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt            string              `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (o PurchaseOrder) EntityType() string { return "PurchaseOrder" }
func (o PurchaseOrder) Keys() keyspace.Keys {
	return keyspace.PurchaseOrderKeys(o.ID, o.SupplierID, string(o.Status), o.OrderDate)
}
func (o PurchaseOrder) GeneratedID() string       { return o.ID }
func (o *PurchaseOrder) SetGeneratedID(id string) { o.ID = id }

type PurchaseOrderItem struct {
	PurchaseOrderID  string `json:"purchaseOrderId" dynamodbav:"purchaseOrderId"`
	ProductID        string `json:"productId" dynamodbav:"productId"`
	QuantityOrdered  int64  `json:"quantityOrdered" dynamodbav:"quantityOrdered"`
	QuantityReceived int64  `json:"quantityReceived" dynamodbav:"quantityReceived"`
	UnitCost         Money  `json:"unitCost" dynamodbav:"unitCost"`
	TotalCost        Money  `json:"totalCost" dynamodbav:"totalCost"`
	CreatedAt        string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

func (i PurchaseOrderItem) EntityType() string { return "PurchaseOrderItem" }
func (i PurchaseOrderItem) Keys() keyspace.Keys {
	return keyspace.PurchaseOrderItemKeys(i.PurchaseOrderID, i.ProductID)
}
