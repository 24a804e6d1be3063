package view

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aglafone/stokpos/internal/dashboard"
	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/validation"
)

type stockState int

const (
	stockStateBrowse stockState = iota
	stockStatePrice
	stockStateAdd
	stockStateDelete
)

var levelFilters = []inventory.Level{
	inventory.LevelAll,
	inventory.LevelEmpty,
	inventory.LevelLow,
	inventory.LevelMid,
	inventory.LevelOK,
}

func levelLabel(l inventory.Level) string {
	switch l {
	case inventory.LevelEmpty:
		return "Empty"
	case inventory.LevelLow:
		return "Low"
	case inventory.LevelMid:
		return "Medium"
	case inventory.LevelOK:
		return "OK"
	}

	return "All"
}

// stockFields holds the form bindings. It lives behind a pointer so the
// bindings survive the model being copied between updates.
type stockFields struct {
	code    string
	name    string
	qty     string
	buy     string
	sell    string
	colors  string
	confirm bool
}

type StockModel struct {
	CommonModel
	svc *dashboard.Service

	state  stockState
	table  table.Model
	items  []inventory.StockItem
	form   *huh.Form
	fields *stockFields

	levelIdx int
	colorIdx int
	colors   []string

	loading bool
	status  string
}

func NewStockModel(svc *dashboard.Service) StockModel {
	columns := []table.Column{
		{Title: "Code", Width: 12},
		{Title: "Name", Width: 28},
		{Title: "Qty", Width: 6},
		{Title: "Level", Width: 8},
		{Title: "Buy", Width: 14},
		{Title: "Sell", Width: 14},
		{Title: "Colors", Width: 24},
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

	return StockModel{
		svc:     svc,
		table:   t,
		fields:  &stockFields{},
		loading: true,
	}
}

// Synced re-reads the ledger, e.g. after a sale changed it.
func (m StockModel) Synced() StockModel {
	if !m.loading {
		m.refreshTable()
	}

	return m
}

func (m StockModel) Title() string { return "Stock" }

func (m StockModel) ShortHelp() string {
	if m.state != stockStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | r: refresh | l: level | c: color | a: add | p: price | d: delete"
}

func (m StockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStockMsg:
		m.loading = false
		if msg.err != nil {
			m.status = ErrorText(msg.err)
		} else {
			m.status = fmt.Sprintf("Loaded %d items.", msg.count)
		}

		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	switch m.state {
	case stockStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m StockModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "l":
			m.levelIdx = (m.levelIdx + 1) % len(levelFilters)
			m.refreshTable()

			return m, nil
		case "c":
			m.colorIdx = (m.colorIdx + 1) % (len(m.colors) + 1)
			m.refreshTable()

			return m, nil
		case "a":
			return m.openForm(stockStateAdd, inventory.StockItem{})
		case "p", "d":
			it, ok := m.selected()
			if !ok {
				return m, nil
			}

			if keyMsg.String() == "p" {
				return m.openForm(stockStatePrice, it)
			}

			return m.openForm(stockStateDelete, it)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StockModel) selected() (inventory.StockItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return inventory.StockItem{}, false
	}

	return m.items[idx], true
}

func (m StockModel) openForm(state stockState, it inventory.StockItem) (tea.Model, tea.Cmd) {
	m.fields = &stockFields{
		code: it.Code,
		name: it.Name,
		buy:  strconv.FormatInt(it.BuyPrice, 10),
		sell: strconv.FormatInt(it.SellPrice, 10),
	}

	switch state {
	case stockStateAdd:
		m.fields.buy, m.fields.sell = "", ""
		m.form = m.addForm()
	case stockStatePrice:
		m.form = m.priceForm()
	case stockStateDelete:
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %s (%s)?", it.Name, it.Code)).
					Affirmative("Delete").
					Negative("Keep").
					Value(&m.fields.confirm),
			),
		).WithWidth(45).WithShowHelp(false)
	}

	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m StockModel) priceForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Purchase price").
				Value(&m.fields.buy).
				Validate(requireNumber),
			huh.NewInput().
				Title("Sale price").
				Value(&m.fields.sell).
				Validate(requireNumber),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m StockModel) addForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Code").Value(&m.fields.code).Validate(requireText),
			huh.NewInput().Title("Name").Value(&m.fields.name).Validate(requireText),
			huh.NewInput().Title("Quantity").Value(&m.fields.qty).Validate(requireNumber),
			huh.NewInput().Title("Purchase price").Value(&m.fields.buy).Validate(requireNumber),
			huh.NewInput().
				Title("Sale price").
				Description("Leave empty for purchase price + 20%").
				Value(&m.fields.sell),
			huh.NewInput().
				Title("Colors").
				Placeholder("Merah, Biru").
				Value(&m.fields.colors),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m StockModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(""), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.closeForm(m.apply()), nil
}

// apply runs the completed form against the dashboard and returns the status line.
func (m StockModel) apply() string {
	f := m.fields

	switch m.state {
	case stockStatePrice:
		it, ok := m.selected()
		if !ok {
			return ""
		}

		if _, err := m.svc.UpdatePrice(it.ID, parseWhole(f.buy), parseWhole(f.sell)); err != nil {
			return ErrorText(err)
		}

		return fmt.Sprintf("Prices for %s updated.", it.Code)

	case stockStateAdd:
		form := validation.ItemForm{
			Code:     f.code,
			Name:     f.name,
			Qty:      int(parseWhole(f.qty)),
			BuyPrice: parseWhole(f.buy),
			Colors:   f.colors,
		}

		if requireNumber(f.sell) == nil {
			sell := parseWhole(f.sell)
			form.SellPrice = &sell
		}

		it, err := m.svc.Add(form)
		if err != nil {
			return ErrorText(err)
		}

		return fmt.Sprintf("%s added.", it.Code)

	case stockStateDelete:
		it, ok := m.selected()
		if !ok || !f.confirm {
			return ""
		}

		if err := m.svc.Delete(it.ID); err != nil {
			return ErrorText(err)
		}

		return fmt.Sprintf("%s deleted.", it.Code)
	}

	return ""
}

func (m StockModel) closeForm(status string) StockModel {
	m.state = stockStateBrowse
	m.form = nil
	m.status = status
	m.refreshTable()
	m.table.Focus()

	return m
}

func (m StockModel) filter() ledger.Filter {
	f := ledger.Filter{Level: levelFilters[m.levelIdx]}
	if m.colorIdx > 0 && m.colorIdx <= len(m.colors) {
		f.Color = m.colors[m.colorIdx-1]
	}

	return f
}

func (m *StockModel) refreshTable() {
	m.colors = m.svc.Colors()
	if m.colorIdx > len(m.colors) {
		m.colorIdx = 0
	}

	m.items = m.svc.Query(m.filter())

	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		rows = append(rows, table.Row{
			it.Code,
			it.Name,
			strconv.Itoa(it.Qty),
			levelLabel(inventory.LevelOf(it.Qty)),
			FormatMoney(it.BuyPrice),
			FormatMoney(it.SellPrice),
			colorList(it),
		})
	}

	m.table.SetRows(rows)
}

func (m StockModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading stock...")
	}

	color := "All"
	if f := m.filter(); f.Color != "" {
		color = f.Color
	}

	sum := m.svc.Summary()

	header := fmt.Sprintf(
		"Filter: [l] Level: %s | [c] Color: %s\n%d items, %d pcs, value %s, %d running low",
		activeStyle(levelLabel(levelFilters[m.levelIdx])),
		activeStyle(color),
		sum.Items, sum.Quantity, FormatMoney(sum.Value), sum.LowStock,
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != stockStateBrowse && m.form != nil {
		title := map[stockState]string{
			stockStatePrice:  "Edit Prices",
			stockStateAdd:    "Add Item",
			stockStateDelete: "Delete Item",
		}[m.state]

		panel := panelStyle.Width(48).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loadStockMsg struct {
	count int
	err   error
}

func (m StockModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.svc.Load(context.Background())
		return loadStockMsg{count: n, err: err}
	}
}
