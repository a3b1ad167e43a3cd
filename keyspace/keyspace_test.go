package keyspace

import (
	"testing"
	"time"
)

func TestProductKeys(t *testing.T) {
	k := ProductKeys("01HK9Z8X", "Wireless Headphones", "WH-1000", "cat-1", "sup-1")

	if k.PK != "PRODUCT#01HK9Z8X" {
		t.Errorf("expected PK 'PRODUCT#01HK9Z8X', got %q", k.PK)
	}
	if k.SK != "METADATA" {
		t.Errorf("expected SK 'METADATA', got %q", k.SK)
	}
	if k.GSI1PK != "CATEGORY#cat-1" || k.GSI1SK != "PRODUCT#Wireless Headphones" {
		t.Errorf("unexpected gsi1 keys: %q / %q", k.GSI1PK, k.GSI1SK)
	}
	if k.GSI2PK != "SUPPLIER#sup-1" || k.GSI2SK != "PRODUCT#01HK9Z8X" {
		t.Errorf("unexpected gsi2 keys: %q / %q", k.GSI2PK, k.GSI2SK)
	}
	if k.GSI3PK != "SKU" || k.GSI3SK != "WH-1000" {
		t.Errorf("unexpected gsi3 keys: %q / %q", k.GSI3PK, k.GSI3SK)
	}
}

func TestListingKeys(t *testing.T) {
	tests := []struct {
		name   string
		keys   Keys
		pk     string
		gsi1pk string
		gsi1sk string
	}{
		{"category", CategoryKeys("c1", "Audio"), "CATEGORY#c1", "CATEGORIES", "CATEGORY#Audio"},
		{"supplier", SupplierKeys("s1", "Acme"), "SUPPLIER#s1", "SUPPLIERS", "SUPPLIER#Acme"},
		{"warehouse", WarehouseKeys("w1", "East"), "WAREHOUSE#w1", "WAREHOUSES", "WAREHOUSE#East"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.keys.PK != tt.pk {
				t.Errorf("expected PK %q, got %q", tt.pk, tt.keys.PK)
			}
			if tt.keys.SK != "METADATA" {
				t.Errorf("expected SK 'METADATA', got %q", tt.keys.SK)
			}
			if tt.keys.GSI1PK != tt.gsi1pk {
				t.Errorf("expected GSI1PK %q, got %q", tt.gsi1pk, tt.keys.GSI1PK)
			}
			if tt.keys.GSI1SK != tt.gsi1sk {
				t.Errorf("expected GSI1SK %q, got %q", tt.gsi1sk, tt.keys.GSI1SK)
			}
			if tt.keys.GSI2PK != "" || tt.keys.GSI3PK != "" {
				t.Error("listing entities must not project into gsi2 or gsi3")
			}
		})
	}
}

func TestInventoryLevelKeys_LowStockProjection(t *testing.T) {
	tests := []struct {
		name         string
		onHand       int64
		reorderPoint int64
		projected    bool
		gsi2sk       string
	}{
		{"above threshold", 50, 10, false, ""},
		{"at threshold", 10, 10, true, "0000000010#p1"},
		{"below threshold", 3, 10, true, "0000000003#p1"},
		{"zero stock", 0, 10, true, "0000000000#p1"},
		{"negative clamps to zero", -5, 10, true, "0000000000#p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := InventoryLevelKeys("p1", "w1", tt.onHand, tt.reorderPoint)

			if k.PK != "WAREHOUSE#w1" || k.SK != "PRODUCT#p1" {
				t.Errorf("unexpected primary keys: %q / %q", k.PK, k.SK)
			}
			if k.GSI1PK != "PRODUCT#p1" || k.GSI1SK != "WAREHOUSE#w1" {
				t.Errorf("unexpected gsi1 keys: %q / %q", k.GSI1PK, k.GSI1SK)
			}

			if !tt.projected {
				if k.GSI2PK != "" || k.GSI2SK != "" {
					t.Errorf("expected no low-stock projection, got %q / %q", k.GSI2PK, k.GSI2SK)
				}
				return
			}
			if k.GSI2PK != "LOW_STOCK" {
				t.Errorf("expected GSI2PK 'LOW_STOCK', got %q", k.GSI2PK)
			}
			if k.GSI2SK != tt.gsi2sk {
				t.Errorf("expected GSI2SK %q, got %q", tt.gsi2sk, k.GSI2SK)
			}
		})
	}
}

func TestPadQuantity_Ordering(t *testing.T) {
	// Lexicographic order of padded quantities must equal numeric order.
	quantities := []int64{0, 1, 9, 10, 99, 100, 5000, 9999999}
	for i := 1; i < len(quantities); i++ {
		prev := padQuantity(quantities[i-1])
		cur := padQuantity(quantities[i])
		if !(prev < cur) {
			t.Errorf("padQuantity(%d)=%q not below padQuantity(%d)=%q",
				quantities[i-1], prev, quantities[i], cur)
		}
	}
}

func TestStockMovementKeys(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	k := StockMovementKeys("01HKM1", "p1", "w1", "RECEIPT", ts)

	wantSK := "MOVEMENT#2024-03-15T10:30:00Z#01HKM1"
	if k.PK != "PRODUCT#p1" {
		t.Errorf("expected PK 'PRODUCT#p1', got %q", k.PK)
	}
	if k.SK != wantSK {
		t.Errorf("expected SK %q, got %q", wantSK, k.SK)
	}
	if k.GSI1PK != "WAREHOUSE#w1" || k.GSI1SK != wantSK {
		t.Errorf("unexpected gsi1 keys: %q / %q", k.GSI1PK, k.GSI1SK)
	}
	if k.GSI2PK != "MOVEMENT_TYPE#RECEIPT" || k.GSI2SK != wantSK {
		t.Errorf("unexpected gsi2 keys: %q / %q", k.GSI2PK, k.GSI2SK)
	}
}

func TestStockMovementKeys_TimeOrdered(t *testing.T) {
	earlier := StockMovementKeys("01AAAA", "p1", "w1", "RECEIPT", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	later := StockMovementKeys("01BBBB", "p1", "w1", "SHIPMENT", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	if !(earlier.SK < later.SK) {
		t.Errorf("expected %q to sort before %q", earlier.SK, later.SK)
	}
}

func TestPurchaseOrderKeys(t *testing.T) {
	orderDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	k := PurchaseOrderKeys("po1", "s1", "PENDING", orderDate)

	wantSort := "PO#2024-02-01T00:00:00Z#po1"
	if k.PK != "PURCHASE_ORDER#po1" || k.SK != "METADATA" {
		t.Errorf("unexpected primary keys: %q / %q", k.PK, k.SK)
	}
	if k.GSI1PK != "SUPPLIER#s1" || k.GSI1SK != wantSort {
		t.Errorf("unexpected gsi1 keys: %q / %q", k.GSI1PK, k.GSI1SK)
	}
	if k.GSI2PK != "PO_STATUS#PENDING" || k.GSI2SK != wantSort {
		t.Errorf("unexpected gsi2 keys: %q / %q", k.GSI2PK, k.GSI2SK)
	}

	item := PurchaseOrderItemKeys("po1", "p1")
	if item.PK != "PURCHASE_ORDER#po1" || item.SK != "ITEM#p1" {
		t.Errorf("unexpected item primary keys: %q / %q", item.PK, item.SK)
	}
	if item.GSI1PK != "PRODUCT#p1" || item.GSI1SK != "PO_ITEM#po1" {
		t.Errorf("unexpected item gsi1 keys: %q / %q", item.GSI1PK, item.GSI1SK)
	}
}

func TestIndexAttrs(t *testing.T) {
	tests := []struct {
		index string
		pk    string
		sk    string
	}{
		{"", "pk", "sk"},
		{IndexGSI1, "gsi1pk", "gsi1sk"},
		{IndexGSI2, "gsi2pk", "gsi2sk"},
		{IndexGSI3, "gsi3pk", "gsi3sk"},
		{"bogus", "", ""},
	}

	for _, tt := range tests {
		pk, sk := IndexAttrs(tt.index)
		if pk != tt.pk || sk != tt.sk {
			t.Errorf("IndexAttrs(%q) = %q/%q, want %q/%q", tt.index, pk, sk, tt.pk, tt.sk)
		}
	}
}

func TestTableSchema(t *testing.T) {
	s := TableSchema()

	if s.Format != SchemaFormat {
		t.Errorf("expected format %q, got %q", SchemaFormat, s.Format)
	}
	if s.Version != SchemaVersion {
		t.Errorf("expected version %q, got %q", SchemaVersion, s.Version)
	}
	if s.Primary.PartitionAttr != "pk" || s.Primary.SortAttr != "sk" {
		t.Errorf("unexpected primary attrs: %q / %q", s.Primary.PartitionAttr, s.Primary.SortAttr)
	}
	if len(s.GSIs) != 3 {
		t.Fatalf("expected 3 GSIs, got %d", len(s.GSIs))
	}
	for i, gsi := range s.GSIs {
		wantPK, wantSK := IndexAttrs(gsi.Name)
		if gsi.PartitionAttr != wantPK || gsi.SortAttr != wantSK {
			t.Errorf("GSI %d attrs %q/%q disagree with IndexAttrs(%q)", i, gsi.PartitionAttr, gsi.SortAttr, gsi.Name)
		}
	}
}
