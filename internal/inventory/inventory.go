package inventory

import (
	"strings"
	"time"
)

// Variant is the per-color stock breakdown of a StockItem.
type Variant struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// StockItem is one product line in the ledger. Prices are whole rupiah.
type StockItem struct {
	ID        string    `json:"id"`
	Code      string    `json:"kode"`
	Name      string    `json:"nama"`
	Qty       int       `json:"qty"`
	BuyPrice  int64     `json:"hargaBeli"`
	SellPrice int64     `json:"hargaJual"`
	Colors    []string  `json:"warna"`
	Variants  []Variant `json:"variantStock,omitempty"`
}

// HasColors reports whether a color must be chosen when selling this item.
func (s StockItem) HasColors() bool {
	return len(s.Variants) > 0 || len(s.Colors) > 0
}

// Variant returns the variant with the given name.
func (s StockItem) Variant(name string) (Variant, bool) {
	for _, v := range s.Variants {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}

	return Variant{}, false
}

// Clone returns a copy that shares no slices with s.
func (s StockItem) Clone() StockItem {
	c := s
	if s.Colors != nil {
		c.Colors = append([]string(nil), s.Colors...)
	}

	if s.Variants != nil {
		c.Variants = append([]Variant(nil), s.Variants...)
	}

	return c
}

// SaleItem is a single line of a sale.
type SaleItem struct {
	Code      string `json:"kode"`
	Name      string `json:"nama"`
	Color     string `json:"warna"`
	Qty       int    `json:"qty"`
	SellPrice int64  `json:"hargaJual"`
	Subtotal  int64  `json:"subtotal"`
}

// SaleTransaction is an immutable record of a completed sale.
type SaleTransaction struct {
	ID        string     `json:"id"`
	Customer  string     `json:"customer"`
	Timestamp time.Time  `json:"timestamp"`
	Items     []SaleItem `json:"items"`
	Total     int64      `json:"total"`
}

// ItemsTotal sums the line subtotals.
func (t SaleTransaction) ItemsTotal() int64 {
	var sum int64
	for _, it := range t.Items {
		sum += it.Subtotal
	}

	return sum
}

// PurchaseItem is a single line of a purchase.
type PurchaseItem struct {
	Code     string    `json:"kode"`
	Name     string    `json:"nama"`
	Color    string    `json:"warna"`
	Qty      int       `json:"qty"`
	BuyPrice int64     `json:"hargaBeli"`
	Supplier string    `json:"supplier"`
	Date     time.Time `json:"tanggal"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

// Subtotal is qty times the purchase price.
func (p PurchaseItem) Subtotal() int64 {
	return int64(p.Qty) * p.BuyPrice
}

// PurchaseTransaction is an immutable record of a completed purchase.
type PurchaseTransaction struct {
	ID       string         `json:"id"`
	Items    []PurchaseItem `json:"items"`
	Total    int64          `json:"total"`
	ImageURL string         `json:"imageUrl,omitempty"`
}

// ItemsTotal sums qty times purchase price over all lines.
func (t PurchaseTransaction) ItemsTotal() int64 {
	var sum int64
	for _, it := range t.Items {
		sum += it.Subtotal()
	}

	return sum
}
