package ledger_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
)

func newLedger() *ledger.Ledger {
	seq := 0

	return ledger.New(ledger.WithIDFunc(func() string {
		seq++
		return fmt.Sprintf("new-%d", seq)
	}))
}

func sku1() inventory.StockItem {
	return inventory.StockItem{
		ID:        "1",
		Code:      "SKU-1",
		Name:      "Item",
		Qty:       10,
		BuyPrice:  1000,
		SellPrice: 1200,
		Colors:    []string{"Merah", "Biru"},
		Variants:  []inventory.Variant{{Name: "Merah", Qty: 10}, {Name: "Biru", Qty: 10}},
	}
}

func sale(id string, lines ...inventory.SaleItem) inventory.SaleTransaction {
	tx := inventory.SaleTransaction{ID: id, Customer: inventory.DefaultCustomer, Items: lines}
	tx.Total = tx.ItemsTotal()

	return tx
}

func TestLedger_ApplySale(t *testing.T) {
	type testCase struct {
		name         string
		lines        []inventory.SaleItem
		wantQty      int
		wantVariants []inventory.Variant
	}

	tests := []testCase{
		{
			name:         "WithinStock",
			lines:        []inventory.SaleItem{{Code: "SKU-1", Qty: 3, Color: "Merah"}},
			wantQty:      7,
			wantVariants: []inventory.Variant{{Name: "Merah", Qty: 7}, {Name: "Biru", Qty: 10}},
		},
		{
			name:         "OversellClampsToZero",
			lines:        []inventory.SaleItem{{Code: "SKU-1", Qty: 15, Color: "Biru"}},
			wantQty:      0,
			wantVariants: []inventory.Variant{{Name: "Merah", Qty: 10}, {Name: "Biru", Qty: 0}},
		},
		{
			name:         "NoColorLeavesVariants",
			lines:        []inventory.SaleItem{{Code: "SKU-1", Qty: 2, Color: inventory.NoColor}},
			wantQty:      8,
			wantVariants: []inventory.Variant{{Name: "Merah", Qty: 10}, {Name: "Biru", Qty: 10}},
		},
		{
			name: "LinesSharingCodeAreSummed",
			lines: []inventory.SaleItem{
				{Code: "SKU-1", Qty: 2, Color: "merah"},
				{Code: "SKU-1", Qty: 1, Color: "Biru"},
			},
			wantQty:      7,
			wantVariants: []inventory.Variant{{Name: "Merah", Qty: 8}, {Name: "Biru", Qty: 9}},
		},
		{
			name:         "UnknownCodeIgnored",
			lines:        []inventory.SaleItem{{Code: "SKU-404", Qty: 1}},
			wantQty:      10,
			wantVariants: []inventory.Variant{{Name: "Merah", Qty: 10}, {Name: "Biru", Qty: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger()
			l.SetItems([]inventory.StockItem{sku1()})

			l.ApplySale(sale("PJ-1", tt.lines...))

			it, ok := l.ItemByCode("SKU-1")
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, it.Qty)
			assert.Equal(t, tt.wantVariants, it.Variants)

			require.Len(t, l.Sales(), 1)
			assert.Equal(t, "PJ-1", l.Sales()[0].ID)
		})
	}
}

func TestLedger_ApplyPurchase_ExistingCode(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	l.ApplyPurchase(inventory.PurchaseTransaction{
		ID: "BL-1",
		Items: []inventory.PurchaseItem{
			{Code: "SKU-1", Name: "Item", Qty: 5, BuyPrice: 1100, Color: "Merah"},
			{Code: "SKU-1", Name: "Item", Qty: 2, BuyPrice: 1050, Color: "Hijau"},
		},
	})

	it, ok := l.ItemByCode("SKU-1")
	require.True(t, ok)
	assert.Equal(t, 17, it.Qty)
	assert.Equal(t, int64(1050), it.BuyPrice)
	assert.Equal(t, int64(1200), it.SellPrice)
	assert.Equal(t, []string{"Merah", "Biru", "Hijau"}, it.Colors)
	assert.Equal(t, []inventory.Variant{{Name: "Merah", Qty: 15}, {Name: "Biru", Qty: 10}, {Name: "Hijau", Qty: 2}}, it.Variants)
	assert.Len(t, l.Items(), 1)
}

func TestLedger_ApplyPurchase_NewCode(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	l.ApplyPurchase(inventory.PurchaseTransaction{
		ID: "BL-2",
		Items: []inventory.PurchaseItem{
			{Code: "SKU-99", Name: "Baru", Qty: 4, BuyPrice: 5000, Color: "Hitam"},
			{Code: "SKU-98", Name: "Polos", Qty: 1, BuyPrice: 999, Color: inventory.NoColor},
			{Code: "SKU-99", Name: "Baru", Qty: 1, BuyPrice: 5000, Color: "Hitam"},
		},
	})

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "SKU-1", items[0].Code)

	created := items[1]
	assert.Equal(t, "SKU-99", created.Code)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, 5, created.Qty)
	assert.Equal(t, int64(5000), created.BuyPrice)
	assert.Equal(t, int64(6000), created.SellPrice)
	assert.Equal(t, []string{"Hitam"}, created.Colors)
	assert.Equal(t, []inventory.Variant{{Name: "Hitam", Qty: 5}}, created.Variants)

	plain := items[2]
	assert.Equal(t, "SKU-98", plain.Code)
	assert.Equal(t, int64(1199), plain.SellPrice)
	assert.Empty(t, plain.Colors)
	assert.Nil(t, plain.Variants)
}

func TestLedger_HistoryKeepsMostRecent(t *testing.T) {
	l := newLedger()

	for i := range 60 {
		l.ApplySale(sale(fmt.Sprintf("PJ-%02d", i)))
		l.ApplyPurchase(inventory.PurchaseTransaction{ID: fmt.Sprintf("BL-%02d", i)})
	}

	sales := l.Sales()
	require.Len(t, sales, inventory.HistoryLimit)
	assert.Equal(t, "PJ-59", sales[0].ID)
	assert.Equal(t, "PJ-10", sales[len(sales)-1].ID)

	purchases := l.Purchases()
	require.Len(t, purchases, inventory.HistoryLimit)
	assert.Equal(t, "BL-59", purchases[0].ID)
}

func TestLedger_WithHistoryLimit(t *testing.T) {
	l := ledger.New(ledger.WithHistoryLimit(2))

	l.ApplySale(sale("a"))
	l.ApplySale(sale("b"))
	l.ApplySale(sale("c"))

	sales := l.Sales()
	require.Len(t, sales, 2)
	assert.Equal(t, "c", sales[0].ID)
	assert.Equal(t, "b", sales[1].ID)
}

func TestLedger_AddItem(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	added, err := l.AddItem(inventory.StockItem{ID: "ignored", Code: " SKU-2 ", Name: "Kedua", Qty: 3, Colors: []string{"Putih"}})
	require.NoError(t, err)
	assert.Equal(t, "new-1", added.ID)
	assert.Equal(t, "SKU-2", added.Code)
	assert.Equal(t, []inventory.Variant{{Name: "Putih", Qty: 3}}, added.Variants)

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "SKU-2", items[0].Code)

	_, err = l.AddItem(inventory.StockItem{Code: "SKU-1", Name: "Dup"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateCode)
	assert.Len(t, l.Items(), 2)
}

func TestLedger_UpdateItem(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	qty := 4
	colors := []string{"Hitam"}
	name := "  Renamed "

	got, err := l.UpdateItem("1", ledger.Patch{Name: &name, Qty: &qty, Colors: &colors})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 4, got.Qty)
	assert.Equal(t, []inventory.Variant{{Name: "Hitam", Qty: 4}}, got.Variants)
	assert.Equal(t, int64(1000), got.BuyPrice)

	got, err = l.UpdatePrice("1", 2000, 2600)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.BuyPrice)
	assert.Equal(t, int64(2600), got.SellPrice)
	assert.Equal(t, 4, got.Qty)

	_, err = l.UpdatePrice("missing", 1, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestLedger_RemoveItem(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	require.NoError(t, l.RemoveItem("1"))
	assert.Empty(t, l.Items())
	assert.ErrorIs(t, l.RemoveItem("1"), ledger.ErrNotFound)
}

func TestLedger_SnapshotsAreCopies(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{sku1()})

	items := l.Items()
	items[0].Qty = 999
	items[0].Variants[0].Qty = 999

	it, ok := l.Item("1")
	require.True(t, ok)
	assert.Equal(t, 10, it.Qty)
	assert.Equal(t, 10, it.Variants[0].Qty)
}

func TestLedger_Query(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{
		{ID: "1", Code: "KAOS-01", Name: "Kaos Polos", Qty: 0, Colors: []string{"Hitam"}},
		{ID: "2", Code: "KAOS-02", Name: "Kaos Motif", Qty: 3, Colors: []string{"Merah"}},
		{ID: "3", Code: "TOPI-01", Name: "Topi", Qty: 7, Colors: []string{}},
		{ID: "4", Code: "TAS-01", Name: "Tas Kanvas", Qty: 25, Variants: []inventory.Variant{{Name: "Merah", Qty: 25}}},
	})

	type testCase struct {
		name   string
		filter ledger.Filter
		want   []string
	}

	tests := []testCase{
		{name: "All", filter: ledger.Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "SearchName", filter: ledger.Filter{Search: "kaos"}, want: []string{"1", "2"}},
		{name: "SearchCode", filter: ledger.Filter{Search: "topi-"}, want: []string{"3"}},
		{name: "Empty", filter: ledger.Filter{Level: inventory.LevelEmpty}, want: []string{"1"}},
		{name: "Low", filter: ledger.Filter{Level: inventory.LevelLow}, want: []string{"2"}},
		{name: "Mid", filter: ledger.Filter{Level: inventory.LevelMid}, want: []string{"3"}},
		{name: "OK", filter: ledger.Filter{Level: inventory.LevelOK}, want: []string{"4"}},
		{name: "Color", filter: ledger.Filter{Color: "Merah"}, want: []string{"2", "4"}},
		{name: "Combined", filter: ledger.Filter{Search: "kaos", Color: "Merah"}, want: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, it := range l.Query(tt.filter) {
				ids = append(ids, it.ID)
			}

			assert.Equal(t, tt.want, ids)
		})
	}

	assert.Equal(t, []string{"Hitam", "Merah"}, l.Colors())
}

func TestLedger_Summary(t *testing.T) {
	l := newLedger()
	l.SetItems([]inventory.StockItem{
		{ID: "1", Code: "A", Name: "A", Qty: 2, BuyPrice: 1000},
		{ID: "2", Code: "B", Name: "B", Qty: 10, BuyPrice: 500},
		{ID: "3", Code: "C", Name: "C", Qty: 9, BuyPrice: 0},
	})

	assert.Equal(t, ledger.Summary{Items: 3, Quantity: 21, Value: 7000, LowStock: 2}, l.Summary())
}
