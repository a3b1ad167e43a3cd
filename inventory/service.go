package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockroomhq/stockroom/keyspace"
	"github.com/stockroomhq/stockroom/store"
)

// defaultMovementLimit caps movement history queries when the caller does not
// ask for a specific page size.
const defaultMovementLimit = 50

// Config carries the service's tunable policies.
type Config struct {
	// AllowNegativeAdjustment permits manual adjustments to drive a level's
	// quantity on hand below zero, for sites that track shrinkage as
	// negative stock. Stock updates through UpdateStock never go negative
	// regardless of this setting.
	AllowNegativeAdjustment bool

	// StockRetries bounds how many times a stock mutation re-reads and
	// retries after losing an optimistic-concurrency race. Zero means the
	// default of 3.
	StockRetries int
}

// Service implements the inventory business rules over the entity store.
type Service struct {
	st  *store.Store
	log zerolog.Logger
	cfg Config
}

// NewService creates a Service.
func NewService(st *store.Store, log zerolog.Logger, cfg Config) *Service {
	if cfg.StockRetries <= 0 {
		cfg.StockRetries = 3
	}
	return &Service{st: st, log: log, cfg: cfg}
}

// translate maps store-level errors onto the domain's error vocabulary.
// Infrastructure failures pass through unmapped.
func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return ErrConflict
	default:
		return err
	}
}

// --- Products ---

// CreateProduct registers a new product after verifying its SKU is not in
// use by any other product, active or inactive.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.Name == "" || p.SKU == "" || p.CategoryID == "" || p.SupplierID == "" {
		return Product{}, fmt.Errorf("%w: name, sku, categoryId and supplierId are required", ErrInvalidInput)
	}

	existing, err := s.findBySKU(ctx, p.SKU)
	if err != nil {
		return Product{}, err
	}
	if existing != nil {
		return Product{}, fmt.Errorf("%w: sku %q already in use", ErrConflict, p.SKU)
	}

	created, err := store.Create(ctx, s.st, p)
	if err != nil {
		return Product{}, translate(err)
	}
	s.log.Info().Str("productId", created.ID).Str("sku", created.SKU).Msg("product created")
	return created, nil
}

// GetProduct fetches a product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := store.Get[Product](ctx, s.st, keyspace.ProductPrimary(id))
	if err != nil {
		return Product{}, translate(err)
	}
	return p, nil
}

// FindProductBySKU fetches the product holding the given SKU.
func (s *Service) FindProductBySKU(ctx context.Context, sku string) (Product, error) {
	p, err := s.findBySKU(ctx, sku)
	if err != nil {
		return Product{}, err
	}
	if p == nil {
		return Product{}, fmt.Errorf("%w: sku %q", ErrNotFound, sku)
	}
	return *p, nil
}

// findBySKU resolves a SKU through the uniqueness index. The index query is a
// prefix match, so results are re-checked for exact equality.
func (s *Service) findBySKU(ctx context.Context, sku string) (*Product, error) {
	candidates, err := store.Find[Product](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI3,
		PartitionKey: "SKU",
		SortPrefix:   sku,
	})
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].SKU == sku {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// ListProducts returns every product. No index spans all products, so this
// is a filtered table scan.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return store.Scan[Product](ctx, s.st)
}

// ProductsByCategory lists the products of one category, ordered by name.
func (s *Service) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	return store.Find[Product](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "CATEGORY#" + categoryID,
		SortPrefix:   "PRODUCT#",
	})
}

// ProductsBySupplier lists the products sourced from one supplier.
func (s *Service) ProductsBySupplier(ctx context.Context, supplierID string) ([]Product, error) {
	return store.Find[Product](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI2,
		PartitionKey: "SUPPLIER#" + supplierID,
		SortPrefix:   "PRODUCT#",
	})
}

// UpdateProduct applies a partial update. Changing the SKU re-runs the
// uniqueness check against the new value; every other field change is
// unconditional.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if patch.SKU != nil && *patch.SKU != p.SKU {
		existing, err := s.findBySKU(ctx, *patch.SKU)
		if err != nil {
			return Product{}, err
		}
		if existing != nil && existing.ID != id {
			return Product{}, fmt.Errorf("%w: sku %q already in use", ErrConflict, *patch.SKU)
		}
	}

	patch.apply(&p)
	updated, err := store.Update(ctx, s.st, p)
	if err != nil {
		return Product{}, translate(err)
	}
	return updated, nil
}

// DeleteProduct removes a product. A product with inventory levels on record
// is deactivated instead of removed, so its movement history stays
// resolvable; a product with no levels is removed outright.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	levels, err := s.LevelsByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("check inventory levels for product %s: %w", id, err)
	}

	if len(levels) > 0 {
		p.IsActive = false
		if _, err := store.Update(ctx, s.st, p); err != nil {
			return translate(err)
		}
		s.log.Info().Str("productId", id).Int("levels", len(levels)).Msg("product deactivated")
		return nil
	}

	if err := store.Remove(ctx, s.st, keyspace.ProductPrimary(id)); err != nil {
		return translate(err)
	}
	s.log.Info().Str("productId", id).Msg("product deleted")
	return nil
}

// --- Categories ---

// CreateCategory registers a new category.
func (s *Service) CreateCategory(ctx context.Context, c Category) (Category, error) {
	if c.Name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	created, err := store.Create(ctx, s.st, c)
	if err != nil {
		return Category{}, translate(err)
	}
	s.log.Info().Str("categoryId", created.ID).Msg("category created")
	return created, nil
}

// GetCategory fetches a category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	c, err := store.Get[Category](ctx, s.st, keyspace.CategoryPrimary(id))
	if err != nil {
		return Category{}, translate(err)
	}
	return c, nil
}

// ListCategories returns every category, ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return store.Find[Category](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "CATEGORIES",
	})
}

// UpdateCategory applies a partial update.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	patch.apply(&c)
	updated, err := store.Update(ctx, s.st, c)
	if err != nil {
		return Category{}, translate(err)
	}
	return updated, nil
}

// DeleteCategory removes a category. Removal is refused while any product
// still references it.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	products, err := s.ProductsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check products for category %s: %w", id, err)
	}
	if len(products) > 0 {
		return fmt.Errorf("%w: category %s has %d products", ErrConflict, id, len(products))
	}

	if err := store.Remove(ctx, s.st, keyspace.CategoryPrimary(id)); err != nil {
		return translate(err)
	}
	s.log.Info().Str("categoryId", id).Msg("category deleted")
	return nil
}

// --- Suppliers ---

// CreateSupplier registers a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, sup Supplier) (Supplier, error) {
	if sup.Name == "" || sup.ContactEmail == "" {
		return Supplier{}, fmt.Errorf("%w: name and contactEmail are required", ErrInvalidInput)
	}
	created, err := store.Create(ctx, s.st, sup)
	if err != nil {
		return Supplier{}, translate(err)
	}
	s.log.Info().Str("supplierId", created.ID).Msg("supplier created")
	return created, nil
}

// GetSupplier fetches a supplier by id.
func (s *Service) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	sup, err := store.Get[Supplier](ctx, s.st, keyspace.SupplierPrimary(id))
	if err != nil {
		return Supplier{}, translate(err)
	}
	return sup, nil
}

// ListSuppliers returns every supplier, ordered by name.
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return store.Find[Supplier](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "SUPPLIERS",
	})
}

// UpdateSupplier applies a partial update.
func (s *Service) UpdateSupplier(ctx context.Context, id string, patch SupplierPatch) (Supplier, error) {
	sup, err := s.GetSupplier(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	patch.apply(&sup)
	updated, err := store.Update(ctx, s.st, sup)
	if err != nil {
		return Supplier{}, translate(err)
	}
	return updated, nil
}

// DeleteSupplier removes a supplier. A supplier with products on record is
// deactivated instead, so existing products keep a resolvable source.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	sup, err := s.GetSupplier(ctx, id)
	if err != nil {
		return err
	}

	products, err := s.ProductsBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("check products for supplier %s: %w", id, err)
	}

	if len(products) > 0 {
		sup.IsActive = false
		if _, err := store.Update(ctx, s.st, sup); err != nil {
			return translate(err)
		}
		s.log.Info().Str("supplierId", id).Int("products", len(products)).Msg("supplier deactivated")
		return nil
	}

	if err := store.Remove(ctx, s.st, keyspace.SupplierPrimary(id)); err != nil {
		return translate(err)
	}
	s.log.Info().Str("supplierId", id).Msg("supplier deleted")
	return nil
}

// --- Warehouses ---

// CreateWarehouse registers a new warehouse.
func (s *Service) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	if w.Name == "" {
		return Warehouse{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	created, err := store.Create(ctx, s.st, w)
	if err != nil {
		return Warehouse{}, translate(err)
	}
	s.log.Info().Str("warehouseId", created.ID).Msg("warehouse created")
	return created, nil
}

// GetWarehouse fetches a warehouse by id.
func (s *Service) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	w, err := store.Get[Warehouse](ctx, s.st, keyspace.WarehousePrimary(id))
	if err != nil {
		return Warehouse{}, translate(err)
	}
	return w, nil
}

// ListWarehouses returns every warehouse, ordered by name.
func (s *Service) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return store.Find[Warehouse](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "WAREHOUSES",
	})
}

// UpdateWarehouse applies a partial update.
func (s *Service) UpdateWarehouse(ctx context.Context, id string, patch WarehousePatch) (Warehouse, error) {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return Warehouse{}, err
	}
	patch.apply(&w)
	updated, err := store.Update(ctx, s.st, w)
	if err != nil {
		return Warehouse{}, translate(err)
	}
	return updated, nil
}

// DeleteWarehouse removes a warehouse. Removal is refused while any
// inventory level still lives in it.
func (s *Service) DeleteWarehouse(ctx context.Context, id string) error {
	if _, err := s.GetWarehouse(ctx, id); err != nil {
		return err
	}

	levels, err := s.LevelsByWarehouse(ctx, id)
	if err != nil {
		return fmt.Errorf("check inventory levels for warehouse %s: %w", id, err)
	}
	if len(levels) > 0 {
		return fmt.Errorf("%w: warehouse %s holds %d inventory levels", ErrConflict, id, len(levels))
	}

	if err := store.Remove(ctx, s.st, keyspace.WarehousePrimary(id)); err != nil {
		return translate(err)
	}
	s.log.Info().Str("warehouseId", id).Msg("warehouse deleted")
	return nil
}

// --- Inventory levels ---

// GetLevel fetches the stock position of one product in one warehouse.
func (s *Service) GetLevel(ctx context.Context, productID, warehouseID string) (InventoryLevel, error) {
	l, err := store.Get[InventoryLevel](ctx, s.st, keyspace.InventoryLevelPrimary(productID, warehouseID))
	if err != nil {
		return InventoryLevel{}, translate(err)
	}
	return l, nil
}

// LevelsByProduct lists a product's stock positions across all warehouses.
func (s *Service) LevelsByProduct(ctx context.Context, productID string) ([]InventoryLevel, error) {
	return store.Find[InventoryLevel](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "PRODUCT#" + productID,
		SortPrefix:   "WAREHOUSE#",
	})
}

// LevelsByWarehouse lists every stock position held in one warehouse.
func (s *Service) LevelsByWarehouse(ctx context.Context, warehouseID string) ([]InventoryLevel, error) {
	return store.Find[InventoryLevel](ctx, s.st, store.Query{
		PartitionKey: "WAREHOUSE#" + warehouseID,
		SortPrefix:   "PRODUCT#",
	})
}

// LowStockLevels lists every level at or below its reorder point, most
// depleted first. The low-stock index holds only such levels, so this is a
// single partition read with no filtering.
func (s *Service) LowStockLevels(ctx context.Context) ([]InventoryLevel, error) {
	return store.Find[InventoryLevel](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI2,
		PartitionKey: "LOW_STOCK",
	})
}

// --- Stock movements ---

// MovementsByProduct lists a product's movement history, newest first.
func (s *Service) MovementsByProduct(ctx context.Context, productID string, limit int32) ([]StockMovement, error) {
	return store.Find[StockMovement](ctx, s.st, store.Query{
		PartitionKey: "PRODUCT#" + productID,
		SortPrefix:   "MOVEMENT#",
		Limit:        movementLimit(limit),
		Descending:   true,
	})
}

// MovementsByWarehouse lists a warehouse's movement history, newest first.
func (s *Service) MovementsByWarehouse(ctx context.Context, warehouseID string, limit int32) ([]StockMovement, error) {
	return store.Find[StockMovement](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "WAREHOUSE#" + warehouseID,
		SortPrefix:   "MOVEMENT#",
		Limit:        movementLimit(limit),
		Descending:   true,
	})
}

// MovementsByType lists movements of one type across all products, newest
// first.
func (s *Service) MovementsByType(ctx context.Context, movementType MovementType, limit int32) ([]StockMovement, error) {
	if !movementType.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrInvalidInput, movementType)
	}
	return store.Find[StockMovement](ctx, s.st, store.Query{
		Index:        keyspace.IndexGSI2,
		PartitionKey: "MOVEMENT_TYPE#" + string(movementType),
		SortPrefix:   "MOVEMENT#",
		Limit:        movementLimit(limit),
		Descending:   true,
	})
}

func movementLimit(limit int32) int32 {
	if limit <= 0 {
		return defaultMovementLimit
	}
	return limit
}
