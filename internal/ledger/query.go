package ledger

import (
	"slices"
	"strings"

	"github.com/aglafone/stokpos/internal/inventory"
)

// Filter narrows Query results. Zero values match everything.
type Filter struct {
	// Search matches code or name, case-insensitively.
	Search string
	Level  inventory.Level
	// Color matches a variant name or listed color exactly.
	Color string
}

func (f Filter) match(it inventory.StockItem) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(it.Name), q) && !strings.Contains(strings.ToLower(it.Code), q) {
			return false
		}
	}

	if f.Level != inventory.LevelAll && inventory.LevelOf(it.Qty) != f.Level {
		return false
	}

	if f.Color != "" && !hasColor(it, f.Color) {
		return false
	}

	return true
}

func hasColor(it inventory.StockItem, c string) bool {
	return slices.ContainsFunc(it.Variants, func(v inventory.Variant) bool { return v.Name == c }) ||
		slices.Contains(it.Colors, c)
}

// Query returns the items matching f in ledger order.
func (l *Ledger) Query(f Filter) []inventory.StockItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]inventory.StockItem, 0, len(l.items))

	for _, it := range l.items {
		if f.match(it) {
			out = append(out, it.Clone())
		}
	}

	return out
}

// Colors lists every distinct color across items, sorted.
func (l *Ledger) Colors() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{})

	for _, it := range l.items {
		for _, v := range it.Variants {
			seen[v.Name] = struct{}{}
		}

		for _, c := range it.Colors {
			seen[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}

	slices.Sort(out)

	return out
}

// LowStockThreshold is the quantity below which the summary counts an item as running low.
const LowStockThreshold = 10

type Summary struct {
	Items    int   `json:"items"`
	Quantity int   `json:"quantity"`
	Value    int64 `json:"value"`
	LowStock int   `json:"lowStock"`
}

// Summary totals the stock. Value is quantity times purchase price.
func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Summary{Items: len(l.items)}

	for _, it := range l.items {
		s.Quantity += it.Qty
		s.Value += int64(it.Qty) * it.BuyPrice

		if it.Qty < LowStockThreshold {
			s.LowStock++
		}
	}

	return s
}
