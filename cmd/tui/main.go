package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/aglafone/stokpos/cmd/tui/internal/view"
	"github.com/aglafone/stokpos/internal/app"
	"github.com/aglafone/stokpos/internal/config"
)

type model struct {
	app  *app.App
	name string

	currentView View

	stockView    view.StockModel
	saleView     view.SaleModel
	purchaseView view.PurchaseModel
	historyView  view.HistoryModel
}

type View int

const (
	ViewMenu     View = 0
	ViewStock    View = 1
	ViewSale     View = 2
	ViewPurchase View = 3
	ViewHistory  View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// the terminal belongs to bubbletea, so logs go to a file
	logFile, err := tea.LogToFile("stokpos-tui.log", "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, logFile)
	slog.SetDefault(logger)

	a := app.New(cfg, logger)

	return model{
		app:         a,
		name:        cfg.App.Name,
		currentView: ViewMenu,
		stockView:   view.NewStockModel(a.Stock),
	}
}

func (m model) Init() tea.Cmd {
	return m.stockView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewStock
				m.stockView = m.stockView.Synced()

				return m, nil
			case "2":
				m.currentView = ViewSale
				m.saleView = view.NewSaleModel(m.app.Sales, m.app.Stock)

				return m, m.saleView.Init()
			case "3":
				m.currentView = ViewPurchase
				m.purchaseView = view.NewPurchaseModel(m.app.Purchases, m.app.Stock)

				return m, m.purchaseView.Init()
			case "4":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(view.SalesHistory(m.app.Sales))

				return m, m.historyView.Init()
			case "5":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(view.PurchaseHistory(m.app.Purchases))

				return m, m.historyView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	// stock keeps loading in the background while other screens are open
	var stockCmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.currentView != ViewStock {
		var newModel tea.Model
		newModel, stockCmd = m.stockView.Update(msg)
		m.stockView = newModel.(view.StockModel)
	}

	switch m.currentView {
	case ViewStock:
		var newModel tea.Model
		newModel, cmd = m.stockView.Update(msg)
		m.stockView = newModel.(view.StockModel)
	case ViewSale:
		var newModel tea.Model
		newModel, cmd = m.saleView.Update(msg)
		m.saleView = newModel.(view.SaleModel)
	case ViewPurchase:
		var newModel tea.Model
		newModel, cmd = m.purchaseView.Update(msg)
		m.purchaseView = newModel.(view.PurchaseModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	}

	return m, tea.Batch(cmd, stockCmd)
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.name + "\n\n" +
				"1. Stock\n" +
				"2. New Sale\n" +
				"3. New Purchase\n" +
				"4. Sales History\n" +
				"5. Purchase History\n\n" +
				"q. Quit",
		)
	case ViewStock:
		current = m.stockView
	case ViewSale:
		current = m.saleView
	case ViewPurchase:
		current = m.purchaseView
	case ViewHistory:
		current = m.historyView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
