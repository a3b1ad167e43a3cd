package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/inventory"
	"github.com/stockroomhq/stockroom/store"
	"github.com/stockroomhq/stockroom/store/storetest"
)

func newTestService(t *testing.T, cfg inventory.Config) (*inventory.Service, *storetest.Client) {
	t.Helper()
	client := storetest.New()
	seq := 0
	st := store.New(client, "inventory-test",
		store.WithClock(func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
		store.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("01TEST%04d", seq)
		}),
	)
	return inventory.NewService(st, zerolog.Nop(), cfg), client
}

func testProduct(sku string) inventory.Product {
	return inventory.Product{
		Name:       "Widget " + sku,
		SKU:        sku,
		CategoryID: "cat1",
		SupplierID: "sup1",
		UnitPrice:  inventory.MoneyFromFloat(100),
		UnitCost:   inventory.MoneyFromFloat(50),
		IsActive:   true,
	}
}

func TestCreateProductEnforcesSKUUniqueness(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = svc.CreateProduct(ctx, testProduct("WID-001"))
	assert.ErrorIs(t, err, inventory.ErrConflict)

	// A SKU that is merely a prefix of an existing one is still free.
	_, err = svc.CreateProduct(ctx, testProduct("WID-00"))
	assert.NoError(t, err)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})

	p := testProduct("WID-001")
	p.SKU = ""
	_, err := svc.CreateProduct(context.Background(), p)
	assert.ErrorIs(t, err, inventory.ErrInvalidInput)
}

func TestFindProductBySKU(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)

	found, err := svc.FindProductBySKU(ctx, "WID-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindProductBySKU(ctx, "NOPE")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestUpdateProductSKUChange(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	a, err := svc.CreateProduct(ctx, testProduct("SKU-A"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, testProduct("SKU-B"))
	require.NoError(t, err)

	// Taking another product's SKU is a conflict.
	taken := "SKU-B"
	_, err = svc.UpdateProduct(ctx, a.ID, inventory.ProductPatch{SKU: &taken})
	assert.ErrorIs(t, err, inventory.ErrConflict)

	// Re-submitting the product's own SKU is a no-op, not a conflict.
	same := "SKU-A"
	_, err = svc.UpdateProduct(ctx, a.ID, inventory.ProductPatch{SKU: &same})
	assert.NoError(t, err)

	// Moving to a fresh SKU works and frees the old one.
	fresh := "SKU-C"
	updated, err := svc.UpdateProduct(ctx, a.ID, inventory.ProductPatch{SKU: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "SKU-C", updated.SKU)
	_, err = svc.FindProductBySKU(ctx, "SKU-A")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.UpdateProduct(ctx, created.ID, inventory.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "WID-001", updated.SKU)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestDeleteProductHardWhenNoLevels(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestDeleteProductSoftWhenLevelsExist(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)
	_, _, err = svc.UpdateStock(ctx, inventory.UpdateStockInput{
		ProductID:    created.ID,
		WarehouseID:  "w1",
		MovementType: inventory.MovementReceipt,
		Quantity:     10,
		PerformedBy:  "tester",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err, "product with stock history must remain readable")
	assert.False(t, got.IsActive)
}

func TestDeleteProductAbortsWhenGuardCheckFails(t *testing.T) {
	svc, client := newTestService(t, inventory.Config{})
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, testProduct("WID-001"))
	require.NoError(t, err)

	client.QueryErr = errors.New("throttled")
	err = svc.DeleteProduct(ctx, created.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, inventory.ErrNotFound)

	client.QueryErr = nil
	_, err = svc.GetProduct(ctx, created.ID)
	assert.NoError(t, err, "product must survive an aborted delete")
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, inventory.Category{Name: "Gadgets", IsActive: true})
	require.NoError(t, err)

	p := testProduct("WID-001")
	p.CategoryID = cat.ID
	_, err = svc.CreateProduct(ctx, p)
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, inventory.ErrConflict)

	// Empty category deletes cleanly.
	empty, err := svc.CreateCategory(ctx, inventory.Category{Name: "Empty", IsActive: true})
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteCategory(ctx, empty.ID))
}

func TestDeleteWarehouseBlockedByLevels(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	wh, err := svc.CreateWarehouse(ctx, inventory.Warehouse{Name: "Main", IsActive: true})
	require.NoError(t, err)

	_, _, err = svc.UpdateStock(ctx, inventory.UpdateStockInput{
		ProductID:    "p1",
		WarehouseID:  wh.ID,
		MovementType: inventory.MovementReceipt,
		Quantity:     5,
		PerformedBy:  "tester",
	})
	require.NoError(t, err)

	err = svc.DeleteWarehouse(ctx, wh.ID)
	assert.ErrorIs(t, err, inventory.ErrConflict)
}

func TestDeleteSupplierSoftWhenProductsExist(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	sup, err := svc.CreateSupplier(ctx, inventory.Supplier{
		Name:         "Acme",
		ContactEmail: "sales@acme.example",
		IsActive:     true,
	})
	require.NoError(t, err)

	p := testProduct("WID-001")
	p.SupplierID = sup.ID
	_, err = svc.CreateProduct(ctx, p)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSupplier(ctx, sup.ID))
	got, err := svc.GetSupplier(ctx, sup.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// A supplier with no products is removed outright.
	lone, err := svc.CreateSupplier(ctx, inventory.Supplier{
		Name:         "Lone",
		ContactEmail: "lone@example.com",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSupplier(ctx, lone.ID))
	_, err = svc.GetSupplier(ctx, lone.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestListingsAndLookups(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, inventory.Category{Name: "B-Cat", IsActive: true})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, inventory.Category{Name: "A-Cat", IsActive: true})
	require.NoError(t, err)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "A-Cat", cats[0].Name, "categories listed in name order")

	_, err = svc.CreateProduct(ctx, testProduct("SKU-1"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, testProduct("SKU-2"))
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCat, err := svc.ProductsByCategory(ctx, "cat1")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	bySup, err := svc.ProductsBySupplier(ctx, "sup1")
	require.NoError(t, err)
	assert.Len(t, bySup, 2)
}

func TestMovementsByTypeRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t, inventory.Config{})

	_, err := svc.MovementsByType(context.Background(), "TELEPORT", 10)
	assert.ErrorIs(t, err, inventory.ErrInvalidInput)
}
