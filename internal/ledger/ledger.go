// Package ledger holds the session's stock items and the most recent sale and
// purchase transactions. It is the only writer of stock state; every read
// returns a copy.
package ledger

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aglafone/stokpos/internal/inventory"
)

var (
	ErrNotFound      = errors.New("stock item not found")
	ErrDuplicateCode = errors.New("stock code already exists")
)

type Ledger struct {
	mu        sync.RWMutex
	items     []inventory.StockItem
	sales     []inventory.SaleTransaction
	purchases []inventory.PurchaseTransaction

	newID func() string
	limit int
}

type Option func(*Ledger)

// WithIDFunc sets the identifier source for added and purchased items.
func WithIDFunc(f func() string) Option {
	return func(l *Ledger) { l.newID = f }
}

// WithHistoryLimit caps each history. Non-positive values are ignored.
func WithHistoryLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.limit = n
		}
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		newID: uuid.NewString,
		limit: inventory.HistoryLimit,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetItems replaces all stock items.
func (l *Ledger) SetItems(items []inventory.StockItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = cloneItems(items)
}

func (l *Ledger) Items() []inventory.StockItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return cloneItems(l.items)
}

func (l *Ledger) Item(id string) (inventory.StockItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.items[i].Clone(), true
	}

	return inventory.StockItem{}, false
}

func (l *Ledger) ItemByCode(code string) (inventory.StockItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOfCode(code); i >= 0 {
		return l.items[i].Clone(), true
	}

	return inventory.StockItem{}, false
}

// Patch lists the fields of an edit. Nil fields are left unchanged.
type Patch struct {
	Name      *string
	Qty       *int
	BuyPrice  *int64
	SellPrice *int64
	Colors    *[]string
}

// UpdateItem applies p to the item with the given id. Editing the quantity or
// colors rebuilds the variants with the aggregate quantity.
func (l *Ledger) UpdateItem(id string, p Patch) (inventory.StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return inventory.StockItem{}, ErrNotFound
	}

	it := l.items[i].Clone()

	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}

	if p.BuyPrice != nil {
		it.BuyPrice = *p.BuyPrice
	}

	if p.SellPrice != nil {
		it.SellPrice = *p.SellPrice
	}

	if p.Qty != nil {
		it.Qty = max(0, *p.Qty)
	}

	if p.Colors != nil {
		it.Colors = slices.Clone(*p.Colors)
	}

	if p.Qty != nil || p.Colors != nil {
		it.Variants = inventory.UniformVariants(it.Colors, it.Qty)
	}

	l.items[i] = it

	return it.Clone(), nil
}

// UpdatePrice sets both prices of an item.
func (l *Ledger) UpdatePrice(id string, buy, sell int64) (inventory.StockItem, error) {
	return l.UpdateItem(id, Patch{BuyPrice: &buy, SellPrice: &sell})
}

func (l *Ledger) RemoveItem(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	l.items = slices.Delete(l.items, i, i+1)

	return nil
}

// AddItem prepends item under a fresh identifier. Codes are unique; adding a
// code that already exists is rejected.
func (l *Ledger) AddItem(item inventory.StockItem) (inventory.StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	it := item.Clone()
	it.Code = strings.TrimSpace(it.Code)
	it.Name = strings.TrimSpace(it.Name)
	it.Qty = max(0, it.Qty)

	if l.indexOfCode(it.Code) >= 0 {
		return inventory.StockItem{}, ErrDuplicateCode
	}

	it.ID = l.newID()
	if it.Variants == nil {
		it.Variants = inventory.UniformVariants(it.Colors, it.Qty)
	}

	l.items = slices.Insert(l.items, 0, it)

	return it.Clone(), nil
}

// ApplySale deducts every line from the item sharing its code, clamping at
// zero. Lines with a color also deduct from that variant. Lines whose code is
// not stocked are ignored.
func (l *Ledger) ApplySale(tx inventory.SaleTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		it := &l.items[i]

		for _, line := range tx.Items {
			if line.Code != it.Code {
				continue
			}

			it.Qty = max(0, it.Qty-line.Qty)

			if inventory.IsColor(line.Color) {
				adjustVariant(it, line.Color, -line.Qty)
			}
		}
	}

	l.sales = prepend(l.sales, cloneSale(tx), l.limit)
}

// ApplyPurchase adds every line to the item sharing its code and replaces its
// purchase price. Codes not yet stocked become new items, one per code, priced
// with inventory.DefaultSellPrice.
func (l *Ledger) ApplyPurchase(tx inventory.PurchaseTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var added []inventory.StockItem

	for _, line := range tx.Items {
		if i := l.indexOfCode(line.Code); i >= 0 {
			receive(&l.items[i], line)
			continue
		}

		if j := slices.IndexFunc(added, func(it inventory.StockItem) bool { return it.Code == line.Code }); j >= 0 {
			receive(&added[j], line)
			continue
		}

		it := inventory.StockItem{
			ID:        l.newID(),
			Code:      line.Code,
			Name:      line.Name,
			Qty:       max(0, line.Qty),
			BuyPrice:  line.BuyPrice,
			SellPrice: inventory.DefaultSellPrice(line.BuyPrice),
			Colors:    []string{},
		}

		// a colorless line gives a plain item without variants, which sells
		// without choosing a color
		if inventory.IsColor(line.Color) {
			c := strings.TrimSpace(line.Color)
			it.Colors = []string{c}
			it.Variants = []inventory.Variant{{Name: c, Qty: it.Qty}}
		}

		added = append(added, it)
	}

	l.items = append(l.items, added...)
	l.purchases = prepend(l.purchases, clonePurchase(tx), l.limit)
}

// Sales returns the retained sales, most recent first.
func (l *Ledger) Sales() []inventory.SaleTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]inventory.SaleTransaction, len(l.sales))
	for i, tx := range l.sales {
		out[i] = cloneSale(tx)
	}

	return out
}

// Purchases returns the retained purchases, most recent first.
func (l *Ledger) Purchases() []inventory.PurchaseTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]inventory.PurchaseTransaction, len(l.purchases))
	for i, tx := range l.purchases {
		out[i] = clonePurchase(tx)
	}

	return out
}

func receive(it *inventory.StockItem, line inventory.PurchaseItem) {
	it.Qty += max(0, line.Qty)
	it.BuyPrice = line.BuyPrice

	if !inventory.IsColor(line.Color) {
		return
	}

	c := strings.TrimSpace(line.Color)
	if _, ok := it.Variant(c); !ok {
		it.Variants = append(it.Variants, inventory.Variant{Name: c})
		if !slices.ContainsFunc(it.Colors, func(s string) bool { return strings.EqualFold(s, c) }) {
			it.Colors = append(it.Colors, c)
		}
	}

	adjustVariant(it, c, line.Qty)
}

func adjustVariant(it *inventory.StockItem, color string, delta int) {
	for k := range it.Variants {
		if strings.EqualFold(it.Variants[k].Name, color) {
			it.Variants[k].Qty = max(0, it.Variants[k].Qty+delta)
			return
		}
	}
}

func (l *Ledger) indexOf(id string) int {
	return slices.IndexFunc(l.items, func(it inventory.StockItem) bool { return it.ID == id })
}

func (l *Ledger) indexOfCode(code string) int {
	return slices.IndexFunc(l.items, func(it inventory.StockItem) bool { return it.Code == code })
}

func prepend[T any](list []T, v T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, v)

	for _, x := range list {
		if len(out) == limit {
			break
		}

		out = append(out, x)
	}

	return out
}

func cloneItems(items []inventory.StockItem) []inventory.StockItem {
	out := make([]inventory.StockItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}

	return out
}

func cloneSale(tx inventory.SaleTransaction) inventory.SaleTransaction {
	tx.Items = slices.Clone(tx.Items)
	return tx
}

func clonePurchase(tx inventory.PurchaseTransaction) inventory.PurchaseTransaction {
	tx.Items = slices.Clone(tx.Items)
	return tx
}
