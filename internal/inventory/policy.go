package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// HistoryLimit is how many transactions of each kind the ledger keeps.
	HistoryLimit = 50

	// DefaultCustomer names walk-in buyers.
	DefaultCustomer = "Umum"

	// NoColor is sent on the wire for lines without a color.
	NoColor = "-"

	SalePrefix     = "PJ"
	PurchasePrefix = "BL"
)

// SellMarkup is the ratio applied to the purchase price when a sale price is unknown.
var SellMarkup = decimal.RequireFromString("1.2")

// DefaultSellPrice derives a sale price from a purchase price using SellMarkup,
// rounded half away from zero to whole rupiah.
func DefaultSellPrice(buy int64) int64 {
	return decimal.NewFromInt(buy).Mul(SellMarkup).Round(0).IntPart()
}

// ParseColors splits a comma separated color list.
func ParseColors(s string) []string {
	parts := strings.Split(s, ",")
	colors := make([]string, 0, len(parts))

	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			colors = append(colors, c)
		}
	}

	return colors
}

// UniformVariants gives every color the aggregate quantity.
//
// The webhook only reports a total per product, so per-color stock is not
// recoverable and is exact only for single-color items.
func UniformVariants(colors []string, qty int) []Variant {
	if len(colors) == 0 {
		return nil
	}

	variants := make([]Variant, len(colors))
	for i, c := range colors {
		variants[i] = Variant{Name: c, Qty: qty}
	}

	return variants
}

// IsColor reports whether c names a real color rather than the NoColor placeholder.
func IsColor(c string) bool {
	c = strings.TrimSpace(c)
	return c != "" && c != NoColor
}

// Level buckets stock quantities for the dashboard badges.
type Level string

const (
	LevelAll   Level = ""
	LevelEmpty Level = "zero"
	LevelLow   Level = "low"
	LevelMid   Level = "mid"
	LevelOK    Level = "ok"
)

// LevelOf returns the bucket for qty.
func LevelOf(qty int) Level {
	switch {
	case qty <= 0:
		return LevelEmpty
	case qty < 5:
		return LevelLow
	case qty <= 10:
		return LevelMid
	default:
		return LevelOK
	}
}

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders v as rupiah with Indonesian digit grouping, e.g. "Rp 12.345".
func FormatIDR(v int64) string {
	return "Rp " + idPrinter.Sprintf("%d", v)
}
