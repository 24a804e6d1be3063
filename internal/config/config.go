package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/aglafone/stokpos/internal/webhook"
)

const EnvDevelopment = "development"

type Config struct {
	App struct {
		Name          string `envconfig:"APP_NAME" default:"Stokpos"`
		Env           string `envconfig:"APP_ENV" default:"production"`
		Port          int    `envconfig:"PORT" default:"8080"`
		AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
	}

	Webhook struct {
		BaseURL            string        `envconfig:"WEBHOOK_BASE_URL"`
		StockURL           string        `envconfig:"WEBHOOK_STOCK_URL"`
		SalesURL           string        `envconfig:"WEBHOOK_SALES_URL"`
		PurchasesURL       string        `envconfig:"WEBHOOK_PURCHASES_URL"`
		SalesHistoryURL    string        `envconfig:"WEBHOOK_SALES_HISTORY_URL"`
		PurchaseHistoryURL string        `envconfig:"WEBHOOK_PURCHASE_HISTORY_URL"`
		Timeout            time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"30s"`
		ListTimeout        time.Duration `envconfig:"WEBHOOK_LIST_TIMEOUT" default:"20s"`
	}
}

// Endpoints are the webhook URLs the controllers talk to. Empty means not configured.
type Endpoints struct {
	Stock           webhook.Endpoint
	Sales           webhook.Endpoint
	Purchases       webhook.Endpoint
	SalesHistory    webhook.Endpoint
	PurchaseHistory webhook.Endpoint
}

// Endpoints resolves the configured URLs. Stock, sales and purchases fall back
// to paths under the base URL; history endpoints must be set explicitly.
func (c *Config) Endpoints() Endpoints {
	w := c.Webhook

	return Endpoints{
		Stock:           webhook.Endpoint{Name: "stock", URL: orBase(w.StockURL, w.BaseURL, "stok")},
		Sales:           webhook.Endpoint{Name: "sales", URL: orBase(w.SalesURL, w.BaseURL, "penjualan")},
		Purchases:       webhook.Endpoint{Name: "purchases", URL: orBase(w.PurchasesURL, w.BaseURL, "pembelian")},
		SalesHistory:    webhook.Endpoint{Name: "sales history", URL: strings.TrimSpace(w.SalesHistoryURL)},
		PurchaseHistory: webhook.Endpoint{Name: "purchase history", URL: strings.TrimSpace(w.PurchaseHistoryURL)},
	}
}

func (c *Config) Development() bool {
	return strings.EqualFold(c.App.Env, EnvDevelopment)
}

// AllowedOrigins splits the comma separated ALLOWED_ORIGIN value.
func (c *Config) AllowedOrigins() []string {
	var out []string

	for o := range strings.SplitSeq(c.App.AllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}

	if len(out) == 0 {
		return []string{"*"}
	}

	return out
}

func orBase(explicit, base, path string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}

	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}

	return base + "/" + path
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
