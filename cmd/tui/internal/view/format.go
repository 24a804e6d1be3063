package view

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/normalize"
	"github.com/aglafone/stokpos/internal/validation"
	"github.com/aglafone/stokpos/internal/webhook"
)

func FormatMoney(v int64) string {
	return inventory.FormatIDR(v)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(validation.DateLayout)
}

// ErrorText is the one line shown for a failed action.
func ErrorText(err error) string {
	return "Error: " + webhook.Message(err)
}

func colorList(it inventory.StockItem) string {
	if len(it.Variants) == 0 {
		return strings.Join(it.Colors, ", ")
	}

	parts := make([]string, len(it.Variants))
	for i, v := range it.Variants {
		parts[i] = v.Name
	}

	return strings.Join(parts, ", ")
}

// parseWhole reads a quantity or rupiah amount as typed, e.g. "12.000" or "Rp 5.000".
func parseWhole(s string) int64 {
	return normalize.NumberString(s, decimal.Zero).Round(0).IntPart()
}

func requireNumber(s string) error {
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return errors.New("enter a number")
	}

	return nil
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}

	return nil
}
