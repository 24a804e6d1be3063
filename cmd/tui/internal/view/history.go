package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/sales"
)

// HistoryRow is one transaction line in a history table.
type HistoryRow struct {
	ID    string
	Date  time.Time
	Party string
	Items string
	Total int64
}

// HistorySource loads history rows. Remote rows come from the webhook, local
// rows from transactions saved in this session.
type HistorySource struct {
	Title  string
	Party  string
	Remote func(ctx context.Context) ([]HistoryRow, error)
	Local  func() []HistoryRow
}

func SalesHistory(svc *sales.Service) HistorySource {
	return HistorySource{
		Title: "Sales History",
		Party: "Customer",
		Remote: func(ctx context.Context) ([]HistoryRow, error) {
			txs, err := svc.History(ctx)
			return saleRows(txs), err
		},
		Local: func() []HistoryRow { return saleRows(svc.Recent()) },
	}
}

func PurchaseHistory(svc *purchases.Service) HistorySource {
	return HistorySource{
		Title: "Purchase History",
		Party: "Supplier",
		Remote: func(ctx context.Context) ([]HistoryRow, error) {
			txs, err := svc.History(ctx)
			return purchaseRows(txs), err
		},
		Local: func() []HistoryRow { return purchaseRows(svc.Recent()) },
	}
}

func saleRows(txs []inventory.SaleTransaction) []HistoryRow {
	rows := make([]HistoryRow, len(txs))
	for i, tx := range txs {
		names := make([]string, len(tx.Items))
		for j, it := range tx.Items {
			names[j] = fmt.Sprintf("%s x%d", it.Name, it.Qty)
		}

		rows[i] = HistoryRow{
			ID:    tx.ID,
			Date:  tx.Timestamp,
			Party: tx.Customer,
			Items: strings.Join(names, ", "),
			Total: tx.Total,
		}
	}

	return rows
}

func purchaseRows(txs []inventory.PurchaseTransaction) []HistoryRow {
	rows := make([]HistoryRow, len(txs))
	for i, tx := range txs {
		row := HistoryRow{ID: tx.ID, Total: tx.Total}

		names := make([]string, len(tx.Items))
		for j, it := range tx.Items {
			names[j] = fmt.Sprintf("%s x%d", it.Name, it.Qty)
		}

		if len(tx.Items) > 0 {
			row.Date = tx.Items[0].Date
			row.Party = tx.Items[0].Supplier
		}

		row.Items = strings.Join(names, ", ")
		rows[i] = row
	}

	return rows
}

type HistoryModel struct {
	CommonModel
	source HistorySource

	table     table.Model
	rows      []HistoryRow
	timeframe Timeframe
	local     bool

	loading bool
	err     error
}

func NewHistoryModel(source HistorySource) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "ID", Width: 18},
		{Title: source.Party, Width: 16},
		{Title: "Items", Width: 40},
		{Title: "Total", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return HistoryModel{
		source:  source,
		table:   t,
		loading: true,
	}
}

func (m HistoryModel) Title() string { return m.source.Title }

func (m HistoryModel) ShortHelp() string {
	return "Esc: back | r: reload | t: timeframe | s: server/session"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadHistoryMsg:
		m.loading = false
		m.err = msg.err
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.timeframe = m.timeframe.Next()
			m.refreshTable()

			return m, nil
		case "s":
			m.local = !m.local
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *HistoryModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		if !m.timeframe.Contains(r.Date, now) {
			continue
		}

		rows = append(rows, table.Row{
			FormatDate(r.Date),
			r.ID,
			r.Party,
			r.Items,
			FormatMoney(r.Total),
		})
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading history...")
	}

	source := "Server"
	if m.local {
		source = "This session"
	}

	header := fmt.Sprintf(
		"[s] Source: %s | [t] Timeframe: %s | %s rows",
		activeStyle(source),
		activeStyle(m.timeframe.String()),
		strconv.Itoa(len(m.table.Rows())),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.err != nil {
		content = errorStyle.Render(ErrorText(m.err)) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loadHistoryMsg struct {
	rows []HistoryRow
	err  error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	if m.local {
		rows := m.source.Local()
		return func() tea.Msg { return loadHistoryMsg{rows: rows} }
	}

	return func() tea.Msg {
		rows, err := m.source.Remote(context.Background())
		return loadHistoryMsg{rows: rows, err: err}
	}
}
