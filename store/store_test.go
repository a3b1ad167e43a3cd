package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/stockroomhq/stockroom/inventory"
	"github.com/stockroomhq/stockroom/keyspace"
	"github.com/stockroomhq/stockroom/store"
	"github.com/stockroomhq/stockroom/store/storetest"
)

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*store.Store, *storetest.Client) {
	t.Helper()
	client := storetest.New()
	seq := 0
	st := store.New(client, "inventory-test",
		store.WithClock(func() time.Time { return testClock }),
		store.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("01TEST%04d", seq)
		}),
	)
	return st, client
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	st, client := newTestStore(t)

	created, err := store.Create(context.Background(), st, inventory.Category{
		Name: "Electronics",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "01TEST0001" {
		t.Errorf("ID = %q, want generated id", created.ID)
	}

	item := client.Item("CATEGORY#01TEST0001", "METADATA")
	if item == nil {
		t.Fatal("item not written at primary key")
	}
	for _, attr := range []string{"createdAt", "updatedAt"} {
		v, ok := item[attr].(*types.AttributeValueMemberS)
		if !ok || v.Value != "2025-06-01T12:00:00Z" {
			t.Errorf("%s = %v, want clock timestamp", attr, item[attr])
		}
	}
	if v, ok := item["entityType"].(*types.AttributeValueMemberS); !ok || v.Value != "Category" {
		t.Errorf("entityType = %v, want Category", item["entityType"])
	}
}

func TestCreateKeepsProvidedID(t *testing.T) {
	st, _ := newTestStore(t)

	created, err := store.Create(context.Background(), st, inventory.Category{
		ID:   "cat-explicit",
		Name: "Tools",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "cat-explicit" {
		t.Errorf("ID = %q, want provided id preserved", created.ID)
	}
}

func TestCreateDuplicateKey(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	level := inventory.InventoryLevel{
		ProductID:      "p1",
		WarehouseID:    "w1",
		QuantityOnHand: 5,
		ReorderPoint:   10,
	}
	if _, err := store.Create(ctx, st, level); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, st, level); !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("second Create err = %v, want ErrDuplicateKey", err)
	}
}

func TestGetNotFound(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := store.Get[inventory.Product](context.Background(), st, keyspace.ProductPrimary("missing"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
}

func TestGetRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, st, inventory.Product{
		Name:       "Widget",
		SKU:        "WID-001",
		CategoryID: "cat1",
		SupplierID: "sup1",
		UnitPrice:  inventory.MoneyFromFloat(19.99),
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get[inventory.Product](ctx, st, keyspace.ProductPrimary(created.ID))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SKU != "WID-001" || got.Name != "Widget" || !got.IsActive {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.UnitPrice.String() != "19.99" {
		t.Errorf("UnitPrice = %s, want 19.99", got.UnitPrice)
	}
	if got.CreatedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("CreatedAt = %q, want stamped timestamp", got.CreatedAt)
	}
}

func TestFindByIndex(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	for _, p := range []inventory.Product{
		{Name: "A", SKU: "SKU-A", CategoryID: "cat1", SupplierID: "sup1", IsActive: true},
		{Name: "B", SKU: "SKU-B", CategoryID: "cat1", SupplierID: "sup2", IsActive: true},
		{Name: "C", SKU: "SKU-C", CategoryID: "cat2", SupplierID: "sup1", IsActive: true},
	} {
		if _, err := store.Create(ctx, st, p); err != nil {
			t.Fatalf("Create %s: %v", p.Name, err)
		}
	}

	byCategory, err := store.Find[inventory.Product](ctx, st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "CATEGORY#cat1",
		SortPrefix:   "PRODUCT#",
	})
	if err != nil {
		t.Fatalf("Find by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Errorf("category cat1 products = %d, want 2", len(byCategory))
	}

	bySupplier, err := store.Find[inventory.Product](ctx, st, store.Query{
		Index:        keyspace.IndexGSI2,
		PartitionKey: "SUPPLIER#sup1",
		SortPrefix:   "PRODUCT#",
	})
	if err != nil {
		t.Fatalf("Find by supplier: %v", err)
	}
	if len(bySupplier) != 2 {
		t.Errorf("supplier sup1 products = %d, want 2", len(bySupplier))
	}
}

func TestFindEmptyResult(t *testing.T) {
	st, _ := newTestStore(t)

	got, err := store.Find[inventory.Product](context.Background(), st, store.Query{
		Index:        keyspace.IndexGSI1,
		PartitionKey: "CATEGORY#nothing",
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Find = %v, want empty non-nil slice", got)
	}
}

func TestFindDescendingWithLimit(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		mv := inventory.StockMovement{
			ProductID:    "p1",
			WarehouseID:  "w1",
			MovementType: inventory.MovementReceipt,
			Quantity:     int64(i + 1),
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
		}
		if _, err := store.Create(ctx, st, mv); err != nil {
			t.Fatalf("Create movement %d: %v", i, err)
		}
	}

	got, err := store.Find[inventory.StockMovement](ctx, st, store.Query{
		PartitionKey: "PRODUCT#p1",
		SortPrefix:   "MOVEMENT#",
		Limit:        2,
		Descending:   true,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Quantity != 4 || got[1].Quantity != 3 {
		t.Errorf("order = [%d %d], want newest first [4 3]", got[0].Quantity, got[1].Quantity)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := store.Update(context.Background(), st, inventory.Category{ID: "ghost", Name: "Ghost"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRecomputesProjections(t *testing.T) {
	st, client := newTestStore(t)
	ctx := context.Background()

	level := inventory.InventoryLevel{
		ProductID:      "p1",
		WarehouseID:    "w1",
		QuantityOnHand: 50,
		ReorderPoint:   10,
	}
	if _, err := store.Create(ctx, st, level); err != nil {
		t.Fatalf("Create: %v", err)
	}

	item := client.Item("WAREHOUSE#w1", "PRODUCT#p1")
	if _, ok := item["gsi2pk"]; ok {
		t.Error("healthy level carries low-stock projection")
	}

	level.QuantityOnHand = 5
	if _, err := store.Update(ctx, st, level); err != nil {
		t.Fatalf("Update: %v", err)
	}
	item = client.Item("WAREHOUSE#w1", "PRODUCT#p1")
	if v, ok := item["gsi2pk"].(*types.AttributeValueMemberS); !ok || v.Value != "LOW_STOCK" {
		t.Errorf("gsi2pk = %v, want LOW_STOCK after dropping below reorder point", item["gsi2pk"])
	}

	level.QuantityOnHand = 40
	if _, err := store.Update(ctx, st, level); err != nil {
		t.Fatalf("Update: %v", err)
	}
	item = client.Item("WAREHOUSE#w1", "PRODUCT#p1")
	if _, ok := item["gsi2pk"]; ok {
		t.Error("replenished level still carries low-stock projection")
	}
}

func TestRemove(t *testing.T) {
	st, client := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, st, inventory.Warehouse{Name: "Main"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Remove(ctx, st, keyspace.WarehousePrimary(created.ID)); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if client.Len() != 0 {
		t.Errorf("items remaining = %d, want 0", client.Len())
	}
	if err := store.Remove(ctx, st, keyspace.WarehousePrimary(created.ID)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Remove err = %v, want ErrNotFound", err)
	}
}

func TestScanFiltersByEntityType(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, st, inventory.Product{Name: "P", SKU: "S", IsActive: true}); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	if _, err := store.Create(ctx, st, inventory.Warehouse{Name: "W"}); err != nil {
		t.Fatalf("Create warehouse: %v", err)
	}

	products, err := store.Scan[inventory.Product](ctx, st)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(products) != 1 || products[0].Name != "P" {
		t.Errorf("Scan products = %+v, want single product", products)
	}
}

func TestTransactPutAtomic(t *testing.T) {
	st, client := newTestStore(t)
	ctx := context.Background()

	level := inventory.InventoryLevel{
		ProductID:      "p1",
		WarehouseID:    "w1",
		QuantityOnHand: 10,
	}
	movement := inventory.StockMovement{
		ID:           "m1",
		ProductID:    "p1",
		WarehouseID:  "w1",
		MovementType: inventory.MovementReceipt,
		Quantity:     10,
		Timestamp:    testClock,
	}

	err := st.TransactPut(ctx,
		store.ConditionalPut{Entity: level, Condition: "attribute_not_exists(pk)", New: true},
		store.ConditionalPut{Entity: movement, Condition: "attribute_not_exists(pk)", New: true},
	)
	if err != nil {
		t.Fatalf("TransactPut: %v", err)
	}
	if client.Len() != 2 {
		t.Errorf("items = %d, want 2", client.Len())
	}
}

func TestTransactPutConditionFailureIndex(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	level := inventory.InventoryLevel{ProductID: "p1", WarehouseID: "w1", QuantityOnHand: 10}
	if _, err := store.Create(ctx, st, level); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Condition expects a stale quantity: the equality check loses.
	level.QuantityOnHand = 20
	movement := inventory.StockMovement{
		ID:           "m1",
		ProductID:    "p1",
		WarehouseID:  "w1",
		MovementType: inventory.MovementAdjustment,
		Quantity:     10,
		Timestamp:    testClock,
	}
	err := st.TransactPut(ctx,
		store.ConditionalPut{
			Entity:    level,
			Condition: "#q = :prev",
			Names:     map[string]string{"#q": "quantityOnHand"},
			Values: map[string]types.AttributeValue{
				":prev": &types.AttributeValueMemberN{Value: "999"},
			},
		},
		store.ConditionalPut{Entity: movement, Condition: "attribute_not_exists(pk)", New: true},
	)

	var condErr *store.ConditionFailedError
	if !errors.As(err, &condErr) {
		t.Fatalf("err = %v, want ConditionFailedError", err)
	}
	if condErr.Index != 0 {
		t.Errorf("failed index = %d, want 0", condErr.Index)
	}

	// The ledger write must not have landed.
	got, err := store.Find[inventory.StockMovement](ctx, st, store.Query{
		PartitionKey: "PRODUCT#p1",
		SortPrefix:   "MOVEMENT#",
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("movements written = %d, want 0 after cancelled transaction", len(got))
	}
}

func TestTransactPutHookMutatesBeforeConditions(t *testing.T) {
	st, client := newTestStore(t)
	ctx := context.Background()

	level := inventory.InventoryLevel{ProductID: "p1", WarehouseID: "w1", QuantityOnHand: 10}
	if _, err := store.Create(ctx, st, level); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The hook stands in for a concurrent writer. It must be able to call
	// the exported mutators, which take the client lock themselves, and the
	// condition evaluation must observe the mutated value.
	fired := false
	client.PreTransact = func(c *storetest.Client) {
		fired = true
		c.SetAttr("WAREHOUSE#w1", "PRODUCT#p1", "quantityOnHand",
			&types.AttributeValueMemberN{Value: "11"})
	}

	done := make(chan error, 1)
	go func() {
		level.QuantityOnHand = 20
		done <- st.TransactPut(ctx, store.ConditionalPut{
			Entity:    level,
			Condition: "#q = :prev",
			Names:     map[string]string{"#q": "quantityOnHand"},
			Values: map[string]types.AttributeValue{
				":prev": &types.AttributeValueMemberN{Value: "10"},
			},
		})
	}()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("TransactPut did not return; hook blocked on the client lock")
	}

	if !fired {
		t.Fatal("PreTransact hook did not run")
	}
	var condErr *store.ConditionFailedError
	if !errors.As(err, &condErr) || condErr.Index != 0 {
		t.Fatalf("err = %v, want ConditionFailedError at index 0 after hook mutation", err)
	}
}

func TestEnsureTableCreatesAndMarks(t *testing.T) {
	client := storetest.NewUnprovisioned()
	st := store.New(client, "inventory-test",
		store.WithClock(func() time.Time { return testClock }),
	)

	if err := st.EnsureTable(context.Background(), keyspace.TableSchema()); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	marker := client.Item("_SCHEMA", "_SCHEMA")
	if marker == nil {
		t.Fatal("schema marker not written")
	}
	if v, ok := marker["format"].(*types.AttributeValueMemberS); !ok || v.Value != keyspace.SchemaFormat {
		t.Errorf("marker format = %v, want %q", marker["format"], keyspace.SchemaFormat)
	}

	// Second run against the provisioned table is a no-op.
	if err := st.EnsureTable(context.Background(), keyspace.TableSchema()); err != nil {
		t.Fatalf("second EnsureTable: %v", err)
	}
}

func TestEnsureTableSchemaMismatch(t *testing.T) {
	client := storetest.New()
	client.SetItem(map[string]types.AttributeValue{
		"pk":     &types.AttributeValueMemberS{Value: "_SCHEMA"},
		"sk":     &types.AttributeValueMemberS{Value: "_SCHEMA"},
		"format": &types.AttributeValueMemberS{Value: "legacy:0"},
	})
	st := store.New(client, "inventory-test")

	err := st.EnsureTable(context.Background(), keyspace.TableSchema())
	if !errors.Is(err, store.ErrSchemaMismatch) {
		t.Errorf("EnsureTable err = %v, want ErrSchemaMismatch", err)
	}
}
