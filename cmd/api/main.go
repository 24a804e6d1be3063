package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/aglafone/stokpos/internal/app"
	"github.com/aglafone/stokpos/internal/config"
	stokposHttp "github.com/aglafone/stokpos/internal/http"
	purchasesHandler "github.com/aglafone/stokpos/internal/http/purchases"
	salesHandler "github.com/aglafone/stokpos/internal/http/sales"
	stockHandler "github.com/aglafone/stokpos/internal/http/stock"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	a := app.New(cfg, logger)

	if n, err := a.Stock.Load(context.Background()); err != nil {
		slog.Warn("initial stock load failed", "error", err)
	} else {
		slog.Info("stock loaded", "items", n)
	}

	var (
		stockH     = stockHandler.NewHandler(a.Stock)
		salesH     = salesHandler.NewHandler(a.Sales)
		purchasesH = purchasesHandler.NewHandler(a.Purchases)
	)

	router := stokposHttp.New(cfg.AllowedOrigins(), stockH, salesH, purchasesH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "name", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
