// Package normalize turns loosely shaped webhook payloads into inventory records.
//
// The webhook is a no-code automation backend whose responses drift in shape:
// bare arrays, arrays wrapped under one of several keys, objects keyed by code,
// snake_case or camelCase fields, numbers sent as formatted strings. Nothing in
// here returns an error; rows that cannot be read are dropped and unreadable
// fields fall back to documented defaults.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/aglafone/stokpos/internal/inventory"
)

// Normalizer converts payloads. Now is used for missing or invalid timestamps
// and NewID for synthesized stock item identifiers.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

func New() *Normalizer {
	return &Normalizer{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Stock normalizes a stock listing. Rows without a code or name are dropped.
// Output order follows input order.
func (n *Normalizer) Stock(payload gjson.Result) []inventory.StockItem {
	shape := Locate(payload, StockLocator)
	items := make([]inventory.StockItem, 0, len(shape.Rows))

	for _, row := range shape.Rows {
		item, ok := n.stockItem(row)
		if !ok {
			continue
		}

		items = append(items, item)
	}

	return items
}

func (n *Normalizer) stockItem(row gjson.Result) (inventory.StockItem, bool) {
	code := firstText(row, CodeKeys)
	name := firstText(row, NameKeys)

	if code == "" || name == "" {
		return inventory.StockItem{}, false
	}

	qty := toQty(Number(firstValue(row, QtyKeys), decimal.Zero))
	buy := toMoney(Number(firstValue(row, BuyPriceKeys), decimal.Zero))

	sell := inventory.DefaultSellPrice(buy)
	if v := firstValue(row, SellPriceKeys); present(v) {
		sell = toMoney(Number(v, decimal.Zero))
	}

	colors := readColors(firstValue(row, ColorKeys))

	return inventory.StockItem{
		ID:        n.NewID(),
		Code:      code,
		Name:      name,
		Qty:       qty,
		BuyPrice:  buy,
		SellPrice: sell,
		Colors:    colors,
		Variants:  inventory.UniformVariants(colors, qty),
	}, true
}

// readColors accepts the webhook's comma separated string as well as a JSON
// array of names, which is how normalized items serialize.
func readColors(v gjson.Result) []string {
	if v.IsArray() {
		var parts []string
		for _, c := range v.Array() {
			if s := Text(c); s != "" {
				parts = append(parts, s)
			}
		}

		return inventory.ParseColors(strings.Join(parts, ","))
	}

	return inventory.ParseColors(Text(v))
}

// SaleHistory normalizes a sale history listing.
func (n *Normalizer) SaleHistory(payload gjson.Result) []inventory.SaleTransaction {
	shape := Locate(payload, HistoryLocator)
	txs := make([]inventory.SaleTransaction, 0, len(shape.Rows))

	for idx, row := range shape.Rows {
		var items []inventory.SaleItem

		for _, it := range lineSources(row) {
			code := LineCode.text(it, row)
			name := LineName.text(it, row)

			if code == "" || name == "" {
				continue
			}

			qty := toQty(Number(LineQty.value(it, row), decimal.Zero))
			price := toMoney(Number(LineSellPrice.value(it, row), decimal.Zero))

			items = append(items, inventory.SaleItem{
				Code:      code,
				Name:      name,
				Color:     LineColor.text(it, row),
				Qty:       qty,
				SellPrice: price,
				Subtotal:  int64(qty) * price,
			})
		}

		tx := inventory.SaleTransaction{
			ID:        transactionID(row, "tx", idx),
			Customer:  firstText(row, CustomerKeys),
			Timestamp: n.timestamp(firstTruthy(row, TimestampKeys)),
			Items:     items,
		}

		if tx.Customer == "" {
			tx.Customer = inventory.DefaultCustomer
		}

		tx.Total = explicitTotal(row, tx.ItemsTotal())
		txs = append(txs, tx)
	}

	return txs
}

// PurchaseHistory normalizes a purchase history listing.
func (n *Normalizer) PurchaseHistory(payload gjson.Result) []inventory.PurchaseTransaction {
	shape := Locate(payload, HistoryLocator)
	txs := make([]inventory.PurchaseTransaction, 0, len(shape.Rows))

	for idx, row := range shape.Rows {
		var items []inventory.PurchaseItem

		for _, it := range lineSources(row) {
			code := LineCode.text(it, row)
			name := LineName.text(it, row)

			if code == "" || name == "" {
				continue
			}

			date := firstTruthy(it, LineDate.Item)
			if !truthy(date) {
				date = firstTruthy(row, LineDate.Row)
			}

			items = append(items, inventory.PurchaseItem{
				Code:     code,
				Name:     name,
				Color:    LineColor.text(it, row),
				Qty:      toQty(Number(LineQty.value(it, row), decimal.Zero)),
				BuyPrice: toMoney(Number(LineBuyPrice.value(it, row), decimal.Zero)),
				Supplier: LineSupplier.text(it, row),
				Date:     n.timestamp(date),
				ImageURL: LineImage.text(it, row),
			})
		}

		tx := inventory.PurchaseTransaction{
			ID:    transactionID(row, "px", idx),
			Items: items,
		}

		if len(items) > 0 {
			tx.ImageURL = items[0].ImageURL
		}

		tx.Total = explicitTotal(row, tx.ItemsTotal())
		txs = append(txs, tx)
	}

	return txs
}

// lineSources returns the nested items of a transaction row, or the row
// itself when it is a flattened single line.
func lineSources(row gjson.Result) []gjson.Result {
	if items := row.Get("items"); items.IsArray() {
		if arr := items.Array(); len(arr) > 0 {
			return arr
		}
	}

	return []gjson.Result{row}
}

func transactionID(row gjson.Result, prefix string, idx int) string {
	if id := firstText(row, TransactionIDKeys); id != "" {
		return id
	}

	return fmt.Sprintf("%s-%d", prefix, idx)
}

// explicitTotal prefers a readable total field over the computed one.
func explicitTotal(row gjson.Result, computed int64) int64 {
	for _, k := range TotalKeys {
		v := row.Get(k)
		if !present(v) {
			continue
		}

		if d, ok := parseNumber(v); ok {
			return toMoney(d)
		}
	}

	if computed < 0 {
		return 0
	}

	return computed
}

func (n *Normalizer) timestamp(v gjson.Result) time.Time {
	if t, ok := parseTime(v); ok {
		return t
	}

	return n.Now()
}

// truthy mirrors what a loosely typed client treats as "set".
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str) != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	}

	return false
}

func firstTruthy(obj gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); truthy(v) {
			return v
		}
	}

	return gjson.Result{}
}
