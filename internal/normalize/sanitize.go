package normalize

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var (
	nonNumeric = regexp.MustCompile(`[^\d.-]`)
	// Indonesian thousands grouping such as "12.345" or "1.234.567".
	groupedThousands = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)
)

// Number coerces v to a decimal. Strings are stripped of everything except
// digits, dots and minus signs first. Values that still do not parse yield fallback.
func Number(v gjson.Result, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := parseNumber(v); ok {
		return d
	}

	return fallback
}

// NumberString is Number for plain strings, e.g. form input.
func NumberString(s string, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := parseNumberString(s); ok {
		return d
	}

	return fallback
}

func parseNumber(v gjson.Result) (decimal.Decimal, bool) {
	switch v.Type {
	case gjson.String:
		return parseNumberString(v.Str)
	case gjson.Number:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return decimal.Zero, false
		}

		return d, true
	case gjson.True:
		return decimal.NewFromInt(1), true
	case gjson.False:
		return decimal.Zero, true
	case gjson.Null:
		if v.Exists() {
			return decimal.Zero, true
		}
	}

	return decimal.Zero, false
}

func parseNumberString(s string) (decimal.Decimal, bool) {
	clean := nonNumeric.ReplaceAllString(s, "")
	if clean == "" {
		return decimal.Zero, false
	}

	if groupedThousands.MatchString(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Text returns v as a trimmed string. Numbers keep their literal form; anything
// else is empty.
func Text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	}

	return ""
}

// present reports whether v holds a non-null value.
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// Quantities and amounts past these bounds are unreadable and fall back to 0.
// maxMoney leaves room for the sale markup.
var (
	maxQty   = decimal.NewFromInt(math.MaxInt32)
	maxMoney = decimal.NewFromInt(math.MaxInt64 / 2)
)

func toQty(d decimal.Decimal) int {
	d = d.Round(0)
	if d.IsNegative() || d.GreaterThan(maxQty) {
		return 0
	}

	return int(d.IntPart())
}

func toMoney(d decimal.Decimal) int64 {
	d = d.Round(0)
	if d.IsNegative() || d.GreaterThan(maxMoney) {
		return 0
	}

	return d.IntPart()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// parseTime accepts the layouts the webhook is known to emit, or epoch
// milliseconds. ok is false when v is missing or unreadable.
func parseTime(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC(), true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
