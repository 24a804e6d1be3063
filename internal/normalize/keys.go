package normalize

import "github.com/tidwall/gjson"

// Key priority lists for stock rows. The first key holding a usable value wins.
var (
	CodeKeys      = []string{"kode_barang", "kodeBarang", "kode"}
	NameKeys      = []string{"nama_barang", "namaBarang", "nama"}
	QtyKeys       = []string{"stok_akhir", "qty", "stok", "stock", "jumlah"}
	BuyPriceKeys  = []string{"harga_beli", "hargaBeli"}
	SellPriceKeys = []string{"harga_jual", "hargaJual"}
	ColorKeys     = []string{"warna"}
)

// Key priority lists for history rows.
var (
	TransactionIDKeys = []string{"id", "kode_transaksi", "kode"}
	TotalKeys         = []string{"total", "grand_total"}
	CustomerKeys      = []string{"customer", "nama_customer"}
	TimestampKeys     = []string{"timestamp", "tanggal", "created_at"}
)

// Fallback reads a field from a line item first and from its enclosing
// transaction row second. For flattened rows item and row are the same object.
type Fallback struct {
	Item []string
	Row  []string
}

// Line item fields in history rows.
var (
	LineCode      = Fallback{Item: []string{"kode", "kode_barang"}, Row: []string{"kode_barang"}}
	LineName      = Fallback{Item: []string{"nama", "nama_barang"}, Row: []string{"nama_barang"}}
	LineColor     = Fallback{Item: []string{"warna"}, Row: []string{"warna"}}
	LineQty       = Fallback{Item: []string{"qty", "jumlah"}, Row: []string{"qty"}}
	LineSellPrice = Fallback{Item: []string{"hargaJual", "harga_jual"}, Row: []string{"harga_jual"}}
	LineBuyPrice  = Fallback{Item: []string{"hargaBeli", "harga_beli"}, Row: []string{"harga_beli"}}
	LineSupplier  = Fallback{Item: []string{"supplier"}, Row: []string{"supplier"}}
	LineDate      = Fallback{Item: []string{"tanggal"}, Row: []string{"tanggal", "created_at"}}
	LineImage     = Fallback{Item: []string{"foto_url", "imageUrl"}, Row: []string{"foto_url"}}
)

// text returns the first non-empty text, item keys before row keys.
func (f Fallback) text(item, row gjson.Result) string {
	if s := firstText(item, f.Item); s != "" {
		return s
	}

	return firstText(row, f.Row)
}

// value returns the first non-null value, item keys before row keys.
func (f Fallback) value(item, row gjson.Result) gjson.Result {
	if v := firstValue(item, f.Item); present(v) {
		return v
	}

	return firstValue(row, f.Row)
}

func firstText(obj gjson.Result, keys []string) string {
	for _, k := range keys {
		if s := Text(obj.Get(k)); s != "" {
			return s
		}
	}

	return ""
}

func firstValue(obj gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); present(v) {
			return v
		}
	}

	return gjson.Result{}
}
