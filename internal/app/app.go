// Package app wires the controllers shared by the API server and the TUI.
package app

import (
	"io"
	"log/slog"

	"github.com/aglafone/stokpos/internal/config"
	"github.com/aglafone/stokpos/internal/dashboard"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/webhook"
)

type App struct {
	Ledger    *ledger.Ledger
	Stock     *dashboard.Service
	Sales     *sales.Service
	Purchases *purchases.Service
}

// NewLogger logs at Debug in development so webhook failure causes are visible.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Development() {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func New(cfg *config.Config, logger *slog.Logger) *App {
	var (
		endpoints = cfg.Endpoints()
		client    = webhook.NewClient(webhook.WithTimeout(cfg.Webhook.Timeout), webhook.WithLogger(logger))
		l         = ledger.New()
	)

	return &App{
		Ledger: l,
		Stock: dashboard.NewService(client, l, endpoints.Stock,
			dashboard.WithTimeout(cfg.Webhook.ListTimeout),
			dashboard.WithLogger(logger),
		),
		Sales: sales.NewService(client, l,
			sales.Endpoints{Submit: endpoints.Sales, History: endpoints.SalesHistory},
			sales.WithTimeouts(cfg.Webhook.Timeout, cfg.Webhook.ListTimeout),
			sales.WithLogger(logger),
		),
		Purchases: purchases.NewService(client, l,
			purchases.Endpoints{Submit: endpoints.Purchases, History: endpoints.PurchaseHistory},
			purchases.WithTimeouts(cfg.Webhook.Timeout, cfg.Webhook.ListTimeout),
			purchases.WithLogger(logger),
		),
	}
}
