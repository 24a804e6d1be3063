package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aglafone/stokpos/internal/dashboard"
	api "github.com/aglafone/stokpos/internal/http"
	purchaseshttp "github.com/aglafone/stokpos/internal/http/purchases"
	saleshttp "github.com/aglafone/stokpos/internal/http/sales"
	"github.com/aglafone/stokpos/internal/http/stock"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/webhook"
)

const stockBody = `{"data":[
	{"kode_barang":"SKU-1","nama_barang":"Kaos","stok_akhir":10,"harga_beli":1000,"harga_jual":1500,"warna":"Merah, Biru"},
	{"kode_barang":"SKU-2","nama_barang":"Topi","stok_akhir":2,"harga_beli":500,"harga_jual":700}
]}`

type fixture struct {
	server *httptest.Server
	ledger *ledger.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hooks := http.NewServeMux()
	hooks.HandleFunc("GET /stok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, stockBody)
	})
	hooks.HandleFunc("POST /penjualan", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	hooks.HandleFunc("POST /pembelian", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"db down"}`)
	})

	upstream := httptest.NewServer(hooks)
	t.Cleanup(upstream.Close)

	endpoint := func(name, path string) webhook.Endpoint {
		return webhook.Endpoint{Name: name, URL: upstream.URL + path}
	}

	client := webhook.NewClient()
	l := ledger.New()

	router := api.New(
		[]string{"http://shop.example"},
		stock.NewHandler(dashboard.NewService(client, l, endpoint("stock", "/stok"))),
		saleshttp.NewHandler(sales.NewService(client, l, sales.Endpoints{
			Submit:  endpoint("sales", "/penjualan"),
			History: webhook.Endpoint{Name: "sales history"},
		})),
		purchaseshttp.NewHandler(purchases.NewService(client, l, purchases.Endpoints{
			Submit: endpoint("purchases", "/pembelian"),
		})),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{server: srv, ledger: l}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, f.server.URL+path, r)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func errorOf(t *testing.T, raw []byte) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	return body.Error
}

func TestRouter_StockAndSale(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, http.MethodPost, "/api/v1/stock/refresh", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":2}`, string(raw))

	resp, raw = f.do(t, http.MethodGet, "/api/v1/stock?level=low", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var low []struct {
		Code  string `json:"kode"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(raw, &low))
	require.Len(t, low, 1)
	assert.Equal(t, "SKU-2", low[0].Code)
	assert.Equal(t, "low", low[0].Level)

	sale := `{"customer":"Budi","tanggal":"2026-10-18","items":[{"kode":"SKU-1","nama":"Kaos","warna":"Merah","qty":%s,"hargaJual":1500}]}`

	resp, raw = f.do(t, http.MethodPost, "/api/v1/sales", strings.Replace(sale, "%s", "11", 1))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Not enough stock for one of the items.", errorOf(t, raw))

	resp, _ = f.do(t, http.MethodPost, "/api/v1/sales", strings.Replace(sale, "%s", "3", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	it, ok := f.ledger.ItemByCode("SKU-1")
	require.True(t, ok)
	assert.Equal(t, 7, it.Qty)

	resp, raw = f.do(t, http.MethodGet, "/api/v1/sales", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var recent []map[string]any
	require.NoError(t, json.Unmarshal(raw, &recent))
	assert.Len(t, recent, 1)

	resp, raw = f.do(t, http.MethodGet, "/api/v1/stock/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":2,"quantity":9,"value":8000,"lowStock":2}`, string(raw))
}

func TestRouter_ErrorMapping(t *testing.T) {
	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}

	tests := []testCase{
		{
			name:       "WebhookServerError",
			method:     http.MethodPost,
			path:       "/api/v1/purchases",
			body:       `{"supplier":"PT Maju","tanggal":"2026-10-18","items":[{"kode":"SKU-9","nama":"Baru","qty":1,"hargaBeli":100}]}`,
			wantStatus: http.StatusBadGateway,
			wantError:  "db down",
		},
		{
			name:       "HistoryNotConfigured",
			method:     http.MethodGet,
			path:       "/api/v1/sales/history",
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "sales history endpoint is not configured",
		},
		{
			name:       "DeleteMissing",
			method:     http.MethodDelete,
			path:       "/api/v1/stock/missing",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "DuplicateCode",
			method:     http.MethodPost,
			path:       "/api/v1/stock",
			body:       `{"kode":"SKU-1","nama":"Lagi","qty":1,"hargaBeli":10}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "InvalidItem",
			method:     http.MethodPost,
			path:       "/api/v1/stock",
			body:       `{"kode":"","nama":"","qty":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "Code is required. Name is required.",
		},
		{
			name:       "MalformedBody",
			method:     http.MethodPost,
			path:       "/api/v1/sales",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp, _ := f.do(t, http.MethodPost, "/api/v1/stock/refresh", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, raw := f.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(raw))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorOf(t, raw))
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/v1/stock", nil)
	require.NoError(t, err)

	req.Header.Set("Origin", "http://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, "http://shop.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
