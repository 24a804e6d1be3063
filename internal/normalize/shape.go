package normalize

import "github.com/tidwall/gjson"

// ShapeKind tells how the record array was found inside a payload.
type ShapeKind int

const (
	// ShapeEmpty means no records could be located.
	ShapeEmpty ShapeKind = iota
	// ShapeArray is a bare JSON array.
	ShapeArray
	// ShapeWrapped is an object holding the array under one of the wrapper keys.
	ShapeWrapped
	// ShapeKeyed is an object whose values are all objects, e.g. rows keyed by code.
	ShapeKeyed
	// ShapeSingle is a lone object treated as a one-row array.
	ShapeSingle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	case ShapeKeyed:
		return "keyed"
	case ShapeSingle:
		return "single"
	}

	return "empty"
}

// Shape is the classified payload. Key is set for ShapeWrapped only.
type Shape struct {
	Kind ShapeKind
	Key  string
	Rows []gjson.Result
}

// Locator describes where records may live in a payload.
type Locator struct {
	// WrapperKeys are tried in order; the first one holding an array wins.
	WrapperKeys []string
	// Loose enables the keyed-object and single-object fallbacks.
	Loose bool
}

// StockLocator is used for stock listings.
var StockLocator = Locator{
	WrapperKeys: []string{"data", "result", "records", "items", "data.items"},
	Loose:       true,
}

// HistoryLocator is used for sale and purchase history listings.
var HistoryLocator = Locator{
	WrapperKeys: []string{"data"},
}

// Locate classifies payload and extracts its rows.
func Locate(payload gjson.Result, loc Locator) Shape {
	if payload.IsArray() {
		return Shape{Kind: ShapeArray, Rows: payload.Array()}
	}

	if !payload.IsObject() {
		return Shape{Kind: ShapeEmpty}
	}

	for _, key := range loc.WrapperKeys {
		if v := payload.Get(key); v.IsArray() {
			return Shape{Kind: ShapeWrapped, Key: key, Rows: v.Array()}
		}
	}

	if !loc.Loose {
		return Shape{Kind: ShapeEmpty}
	}

	var values []gjson.Result

	allObjects := true

	payload.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			allObjects = false
			return false
		}

		values = append(values, value)

		return true
	})

	if allObjects {
		return Shape{Kind: ShapeKeyed, Rows: values}
	}

	return Shape{Kind: ShapeSingle, Rows: []gjson.Result{payload}}
}
