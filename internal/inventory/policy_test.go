package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aglafone/stokpos/internal/inventory"
)

func TestDefaultSellPrice(t *testing.T) {
	type testCase struct {
		name string
		buy  int64
		want int64
	}

	tests := []testCase{
		{name: "Whole", buy: 1000, want: 1200},
		{name: "PurchaseFiveThousand", buy: 5000, want: 6000},
		{name: "RoundsHalfUp", buy: 1003, want: 1204}, // 1203.6
		{name: "Zero", buy: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.DefaultSellPrice(tt.buy))
		})
	}
}

func TestSellMarkupIsOnePointTwo(t *testing.T) {
	assert.Equal(t, "1.2", inventory.SellMarkup.String())
}

func TestParseColors(t *testing.T) {
	assert.Equal(t, []string{"Merah", "Biru"}, inventory.ParseColors("Merah, Biru"))
	assert.Equal(t, []string{"Hitam"}, inventory.ParseColors(" , Hitam ,,"))
	assert.Empty(t, inventory.ParseColors(""))
}

func TestUniformVariants(t *testing.T) {
	got := inventory.UniformVariants([]string{"Merah", "Biru"}, 10)
	assert.Equal(t, []inventory.Variant{{Name: "Merah", Qty: 10}, {Name: "Biru", Qty: 10}}, got)
	assert.Nil(t, inventory.UniformVariants(nil, 10))
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, inventory.LevelEmpty, inventory.LevelOf(0))
	assert.Equal(t, inventory.LevelLow, inventory.LevelOf(4))
	assert.Equal(t, inventory.LevelMid, inventory.LevelOf(5))
	assert.Equal(t, inventory.LevelMid, inventory.LevelOf(10))
	assert.Equal(t, inventory.LevelOK, inventory.LevelOf(11))
}

func TestIsColor(t *testing.T) {
	assert.True(t, inventory.IsColor("Merah"))
	assert.False(t, inventory.IsColor(inventory.NoColor))
	assert.False(t, inventory.IsColor("  "))
}

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp 12.345", inventory.FormatIDR(12345))
	assert.Equal(t, "Rp 500", inventory.FormatIDR(500))
}

func TestStockItem_CloneDoesNotShareSlices(t *testing.T) {
	item := inventory.StockItem{
		Colors:   []string{"Merah"},
		Variants: []inventory.Variant{{Name: "Merah", Qty: 3}},
	}

	c := item.Clone()
	c.Colors[0] = "Biru"
	c.Variants[0].Qty = 0

	assert.Equal(t, "Merah", item.Colors[0])
	assert.Equal(t, 3, item.Variants[0].Qty)
}

func TestTransactionTotals(t *testing.T) {
	sale := inventory.SaleTransaction{Items: []inventory.SaleItem{{Subtotal: 100}, {Subtotal: 250}}}
	assert.Equal(t, int64(350), sale.ItemsTotal())

	purchase := inventory.PurchaseTransaction{Items: []inventory.PurchaseItem{
		{Qty: 2, BuyPrice: 1000},
		{Qty: 1, BuyPrice: 500},
	}}
	assert.Equal(t, int64(2500), purchase.ItemsTotal())
}
