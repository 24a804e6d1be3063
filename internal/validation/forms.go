package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aglafone/stokpos/internal/inventory"
)

type SaleLine struct {
	Code      string `json:"kode" validate:"required"`
	Name      string `json:"nama" validate:"required"`
	Color     string `json:"warna"`
	Qty       int    `json:"qty" validate:"gt=0"`
	SellPrice int64  `json:"hargaJual" validate:"gte=0"`
}

func (l SaleLine) Subtotal() int64 {
	return int64(l.Qty) * l.SellPrice
}

// SaleForm is a sale as entered. Date uses DateLayout.
type SaleForm struct {
	Customer string     `json:"customer" validate:"required"`
	Date     string     `json:"tanggal" validate:"required,datetime=2006-01-02"`
	Items    []SaleLine `json:"items" validate:"min=1,dive"`
}

// Clean returns a copy with surrounding whitespace removed from every text field.
func (f SaleForm) Clean() SaleForm {
	out := SaleForm{
		Customer: strings.TrimSpace(f.Customer),
		Date:     strings.TrimSpace(f.Date),
		Items:    make([]SaleLine, len(f.Items)),
	}

	for i, it := range f.Items {
		it.Code = strings.TrimSpace(it.Code)
		it.Name = strings.TrimSpace(it.Name)
		it.Color = strings.TrimSpace(it.Color)
		out.Items[i] = it
	}

	return out
}

func (f SaleForm) Total() int64 {
	var sum int64
	for _, it := range f.Items {
		sum += it.Subtotal()
	}

	return sum
}

var saleMessages = map[string]string{
	"Customer.required": "Customer is required.",
	"Date.required":     "Date is invalid.",
	"Date.datetime":     "Date is invalid.",
	"Items.min":         "Add at least one item.",
	"Code.required":     "Code and name are required for every item.",
	"Name.required":     "Code and name are required for every item.",
	"Qty.gt":            "Item quantity must be greater than 0.",
	"SellPrice.gte":     "Sale price must not be negative.",
}

// Sale validates a cleaned sale form against the current stock. Quantities
// are summed per code, and per code and color where the item tracks that
// color, before being compared with what is available.
func Sale(f SaleForm, stock Stock) error {
	e := &Error{}
	e.collect(f, saleMessages)

	type variantKey struct{ code, color string }

	perCode := make(map[string]int)
	perVariant := make(map[variantKey]int)

	for _, it := range f.Items {
		item, stocked := stock.ItemByCode(it.Code)
		if !stocked {
			continue
		}

		label := it.Name
		if label == "" {
			label = it.Code
		}

		switch {
		case !item.HasColors():
		case !inventory.IsColor(it.Color):
			e.add(ErrInvalid, fmt.Sprintf("Choose a color for %s.", label))
		case !stocksColor(item, it.Color):
			e.add(ErrInvalid, fmt.Sprintf("%s is not available in %s.", label, it.Color))
		}

		perCode[it.Code] += it.Qty
		if perCode[it.Code] > item.Qty {
			e.add(ErrInsufficientStock, "Not enough stock for one of the items.")
		}

		if v, ok := item.Variant(it.Color); ok && inventory.IsColor(it.Color) {
			k := variantKey{it.Code, strings.ToLower(it.Color)}
			perVariant[k] += it.Qty

			if perVariant[k] > v.Qty {
				e.add(ErrInsufficientStock, "Not enough stock for one of the items.")
			}
		}
	}

	if f.Total() <= 0 {
		e.add(ErrInvalid, "Total must be greater than 0.")
	}

	return e.err()
}

func stocksColor(item inventory.StockItem, color string) bool {
	if _, ok := item.Variant(color); ok {
		return true
	}

	return slices.ContainsFunc(item.Colors, func(c string) bool { return strings.EqualFold(c, color) })
}

type PurchaseLine struct {
	Code     string `json:"kode" validate:"required"`
	Name     string `json:"nama" validate:"required"`
	Color    string `json:"warna"`
	Qty      int    `json:"qty" validate:"gt=0"`
	BuyPrice int64  `json:"hargaBeli" validate:"gte=0"`
}

func (l PurchaseLine) Subtotal() int64 {
	return int64(l.Qty) * l.BuyPrice
}

// PurchaseForm is a purchase as entered. ImageURL is an optional receipt photo.
type PurchaseForm struct {
	Supplier string         `json:"supplier" validate:"required"`
	Date     string         `json:"tanggal" validate:"required,datetime=2006-01-02"`
	ImageURL string         `json:"imageUrl" validate:"omitempty,url"`
	Items    []PurchaseLine `json:"items" validate:"min=1,dive"`
}

func (f PurchaseForm) Clean() PurchaseForm {
	out := PurchaseForm{
		Supplier: strings.TrimSpace(f.Supplier),
		Date:     strings.TrimSpace(f.Date),
		ImageURL: strings.TrimSpace(f.ImageURL),
		Items:    make([]PurchaseLine, len(f.Items)),
	}

	for i, it := range f.Items {
		it.Code = strings.TrimSpace(it.Code)
		it.Name = strings.TrimSpace(it.Name)
		it.Color = strings.TrimSpace(it.Color)
		out.Items[i] = it
	}

	return out
}

func (f PurchaseForm) Total() int64 {
	var sum int64
	for _, it := range f.Items {
		sum += it.Subtotal()
	}

	return sum
}

var purchaseMessages = map[string]string{
	"Supplier.required": "Supplier is required.",
	"Date.required":     "Date is invalid.",
	"Date.datetime":     "Date is invalid.",
	"ImageURL.url":      "Receipt image must be a URL.",
	"Items.min":         "Add at least one item.",
	"Code.required":     "Code and name are required for every item.",
	"Name.required":     "Code and name are required for every item.",
	"Qty.gt":            "Item quantity must be greater than 0.",
	"BuyPrice.gte":      "Purchase price must not be negative.",
}

// Purchase validates a cleaned purchase form.
func Purchase(f PurchaseForm) error {
	e := &Error{}
	e.collect(f, purchaseMessages)

	if f.Total() <= 0 {
		e.add(ErrInvalid, "Total must be greater than 0.")
	}

	return e.err()
}

// ItemForm is a stock item entered by hand. A nil SellPrice is derived from
// the purchase price. Colors is a comma separated list.
type ItemForm struct {
	Code      string `json:"kode" validate:"required"`
	Name      string `json:"nama" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=0"`
	BuyPrice  int64  `json:"hargaBeli" validate:"gte=0"`
	SellPrice *int64 `json:"hargaJual" validate:"omitnil,gte=0"`
	Colors    string `json:"warna"`
}

func (f ItemForm) Clean() ItemForm {
	f.Code = strings.TrimSpace(f.Code)
	f.Name = strings.TrimSpace(f.Name)
	f.Colors = strings.TrimSpace(f.Colors)

	return f
}

// StockItem converts a cleaned form into an item without an identifier.
func (f ItemForm) StockItem() inventory.StockItem {
	sell := inventory.DefaultSellPrice(f.BuyPrice)
	if f.SellPrice != nil {
		sell = *f.SellPrice
	}

	colors := inventory.ParseColors(f.Colors)

	return inventory.StockItem{
		Code:      f.Code,
		Name:      f.Name,
		Qty:       f.Qty,
		BuyPrice:  f.BuyPrice,
		SellPrice: sell,
		Colors:    colors,
		Variants:  inventory.UniformVariants(colors, f.Qty),
	}
}

var itemMessages = map[string]string{
	"Code.required": "Code is required.",
	"Name.required": "Name is required.",
	"Qty.gte":       "Quantity must not be negative.",
	"BuyPrice.gte":  "Purchase price must not be negative.",
	"SellPrice.gte": "Sale price must not be negative.",
}

// Item validates a cleaned stock item form.
func Item(f ItemForm) error {
	e := &Error{}
	e.collect(f, itemMessages)

	return e.err()
}

// PriceForm carries the two prices of an existing item.
type PriceForm struct {
	BuyPrice  int64 `json:"hargaBeli" validate:"gte=0"`
	SellPrice int64 `json:"hargaJual" validate:"gte=0"`
}

var priceMessages = map[string]string{
	"BuyPrice.gte":  "Purchase price must not be negative.",
	"SellPrice.gte": "Sale price must not be negative.",
}

func Price(f PriceForm) error {
	e := &Error{}
	e.collect(f, priceMessages)

	return e.err()
}
