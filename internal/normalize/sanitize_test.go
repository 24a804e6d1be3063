package normalize_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/aglafone/stokpos/internal/normalize"
)

func TestNumberString(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  string
	}

	tests := []testCase{
		{name: "Plain", input: "10", want: "10"},
		{name: "Rupiah", input: "Rp 12.345", want: "12345"},
		{name: "Millions", input: "Rp1.234.567", want: "1234567"},
		{name: "Decimal", input: "12.5", want: "12.5"},
		{name: "LeadingZeroDecimal", input: "0.500", want: "0.5"},
		{name: "Negative", input: "-7 pcs", want: "-7"},
		{name: "Letters", input: "abc", want: "-1"},
		{name: "Empty", input: "", want: "-1"},
		{name: "Garbage", input: "1.2.3", want: "-1"},
	}

	fallback := decimal.NewFromInt(-1)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.NumberString(tt.input, fallback)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNumber_JSONTypes(t *testing.T) {
	fallback := decimal.NewFromInt(-1)
	doc := gjson.Parse(`{"n":1500,"s":"Rp 2.500","t":true,"f":false,"z":null,"o":{},"a":[1]}`)

	assert.Equal(t, int64(1500), normalize.Number(doc.Get("n"), fallback).IntPart())
	assert.Equal(t, int64(2500), normalize.Number(doc.Get("s"), fallback).IntPart())
	assert.Equal(t, int64(1), normalize.Number(doc.Get("t"), fallback).IntPart())
	assert.Equal(t, int64(0), normalize.Number(doc.Get("f"), fallback).IntPart())
	assert.Equal(t, int64(0), normalize.Number(doc.Get("z"), fallback).IntPart())
	assert.Equal(t, int64(-1), normalize.Number(doc.Get("o"), fallback).IntPart())
	assert.Equal(t, int64(-1), normalize.Number(doc.Get("a"), fallback).IntPart())
	assert.Equal(t, int64(-1), normalize.Number(doc.Get("missing"), fallback).IntPart())
}

func TestText(t *testing.T) {
	doc := gjson.Parse(`{"s":"  SKU-1 ","n":123,"b":true,"o":{"x":1}}`)

	assert.Equal(t, "SKU-1", normalize.Text(doc.Get("s")))
	assert.Equal(t, "123", normalize.Text(doc.Get("n")))
	assert.Equal(t, "", normalize.Text(doc.Get("b")))
	assert.Equal(t, "", normalize.Text(doc.Get("o")))
	assert.Equal(t, "", normalize.Text(doc.Get("missing")))
}

func TestLocate(t *testing.T) {
	type testCase struct {
		name    string
		payload string
		loc     normalize.Locator
		want    normalize.ShapeKind
		key     string
		rows    int
	}

	tests := []testCase{
		{name: "Array", payload: `[{},{}]`, loc: normalize.StockLocator, want: normalize.ShapeArray, rows: 2},
		{name: "Data", payload: `{"data":[{}]}`, loc: normalize.StockLocator, want: normalize.ShapeWrapped, key: "data", rows: 1},
		{name: "ResultBeforeItems", payload: `{"items":[{},{}],"result":[{}]}`, loc: normalize.StockLocator, want: normalize.ShapeWrapped, key: "result", rows: 1},
		{name: "NestedItems", payload: `{"data":{"items":[{}]}}`, loc: normalize.StockLocator, want: normalize.ShapeWrapped, key: "data.items", rows: 1},
		{name: "Keyed", payload: `{"a":{},"b":{}}`, loc: normalize.StockLocator, want: normalize.ShapeKeyed, rows: 2},
		{name: "Single", payload: `{"kode":"A"}`, loc: normalize.StockLocator, want: normalize.ShapeSingle, rows: 1},
		{name: "Scalar", payload: `"x"`, loc: normalize.StockLocator, want: normalize.ShapeEmpty},
		{name: "HistoryData", payload: `{"data":[{}]}`, loc: normalize.HistoryLocator, want: normalize.ShapeWrapped, key: "data", rows: 1},
		{name: "HistoryStrict", payload: `{"records":[{}]}`, loc: normalize.HistoryLocator, want: normalize.ShapeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := normalize.Locate(gjson.Parse(tt.payload), tt.loc)

			assert.Equal(t, tt.want, shape.Kind, shape.Kind.String())
			assert.Equal(t, tt.key, shape.Key)
			assert.Len(t, shape.Rows, tt.rows)
		})
	}
}
