package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aglafone/stokpos/internal/dashboard"
	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/validation"
)

type entryState int

const (
	entryStateHeader entryState = iota
	entryStateLine
	entryStateSubmitting
	entryStateResult
)

type saleFields struct {
	customer string
	date     string

	code  string
	color string
	qty   string
	price string
	more  bool
}

type SaleModel struct {
	CommonModel
	svc   *sales.Service
	stock *dashboard.Service

	state   entryState
	form    *huh.Form
	fields  *saleFields
	cart    []validation.SaleLine
	spinner spinner.Model

	message string
	err     error
}

func NewSaleModel(svc *sales.Service, stock *dashboard.Service) SaleModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := SaleModel{
		svc:     svc,
		stock:   stock,
		spinner: s,
		fields: &saleFields{
			customer: inventory.DefaultCustomer,
			date:     time.Now().Format(validation.DateLayout),
		},
	}
	m.form = m.headerForm()

	return m
}

func (m SaleModel) Title() string { return "New Sale" }

func (m SaleModel) ShortHelp() string {
	switch m.state {
	case entryStateSubmitting:
		return "Saving..."
	case entryStateResult:
		if m.err != nil {
			return "Esc: back | Enter: retry | n: new sale"
		}

		return "Esc: back | n: new sale"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m SaleModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SaleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case entryStateHeader, entryStateLine:
		return m.updateForm(msg)
	case entryStateSubmitting:
		if res, ok := msg.(saleResultMsg); ok {
			m.state = entryStateResult
			m.err = res.err
			m.message = res.receipt.Message

			if res.err == nil {
				m.cart = nil
			}

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case entryStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "n":
				next := NewSaleModel(m.svc, m.stock)
				return next, next.Init()
			case "enter":
				if m.err == nil {
					return m, nil
				}

				m.state = entryStateSubmitting

				return m, tea.Batch(m.spinner.Tick, m.submitCmd())
			}
		}
	}

	return m, nil
}

func (m SaleModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == entryStateHeader {
		m.state = entryStateLine
		m.form = m.lineForm()

		return m, m.form.Init()
	}

	m.cart = append(m.cart, m.line())

	if m.fields.more {
		m.form = m.lineForm()
		return m, m.form.Init()
	}

	m.state = entryStateSubmitting

	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func (m SaleModel) headerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Customer").Value(&m.fields.customer).Validate(requireText),
			huh.NewInput().
				Title("Date").
				Placeholder(validation.DateLayout).
				Value(&m.fields.date).
				Validate(func(s string) error {
					_, err := time.Parse(validation.DateLayout, strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SaleModel) lineForm() *huh.Form {
	f := m.fields
	f.code, f.color, f.qty, f.price, f.more = "", "", "", "", false

	items := m.stock.Query(ledger.Filter{})

	options := make([]huh.Option[string], 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%s  %s  (%d, %s)", it.Code, it.Name, it.Qty, FormatMoney(it.SellPrice))
		options = append(options, huh.NewOption(label, it.Code))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Item").
				Options(options...).
				Value(&f.code),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color").
				OptionsFunc(func() []huh.Option[string] {
					return colorOptions(m.item(f.code))
				}, &f.code).
				Value(&f.color),
			huh.NewInput().Title("Quantity").Value(&f.qty).Validate(requireNumber),
			huh.NewInput().
				Title("Sale price").
				Description("Leave empty for the listed price").
				Value(&f.price),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add another item?").
				Affirmative("Add more").
				Negative("Save sale").
				Value(&f.more),
		),
	).WithWidth(50).WithShowHelp(false)
}

func colorOptions(it inventory.StockItem) []huh.Option[string] {
	if !it.HasColors() {
		return []huh.Option[string]{huh.NewOption("No color", "")}
	}

	var opts []huh.Option[string]

	for _, v := range it.Variants {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d)", v.Name, v.Qty), v.Name))
	}

	if len(opts) == 0 {
		for _, c := range it.Colors {
			opts = append(opts, huh.NewOption(c, c))
		}
	}

	return opts
}

func (m SaleModel) item(code string) inventory.StockItem {
	for _, it := range m.stock.Query(ledger.Filter{}) {
		if it.Code == code {
			return it
		}
	}

	return inventory.StockItem{}
}

func (m SaleModel) line() validation.SaleLine {
	f := m.fields
	it := m.item(f.code)

	price := it.SellPrice
	if requireNumber(f.price) == nil {
		price = parseWhole(f.price)
	}

	return validation.SaleLine{
		Code:      it.Code,
		Name:      it.Name,
		Color:     f.color,
		Qty:       int(parseWhole(f.qty)),
		SellPrice: price,
	}
}

func (m SaleModel) View() string {
	var body string

	switch m.state {
	case entryStateHeader, entryStateLine:
		body = m.form.View()
	case entryStateSubmitting:
		body = fmt.Sprintf("%s Saving sale...", m.spinner.View())
	case entryStateResult:
		if m.err != nil {
			body = errorStyle.Render(ErrorText(m.err))
		} else {
			body = successStyle.Render(m.message)
		}
	}

	content := body
	if len(m.cart) > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Render(saleCart(m.cart)))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func saleCart(lines []validation.SaleLine) string {
	var (
		b     strings.Builder
		total int64
	)

	b.WriteString("Items\n\n")

	for _, l := range lines {
		color := l.Color
		if color == "" {
			color = inventory.NoColor
		}

		fmt.Fprintf(&b, "%s %s [%s] x%d  %s\n", l.Code, l.Name, color, l.Qty, FormatMoney(l.Subtotal()))
		total += l.Subtotal()
	}

	fmt.Fprintf(&b, "\nTotal %s", FormatMoney(total))

	return b.String()
}

type saleResultMsg struct {
	receipt sales.Receipt
	err     error
}

func (m SaleModel) submitCmd() tea.Cmd {
	form := validation.SaleForm{
		Customer: m.fields.customer,
		Date:     m.fields.date,
		Items:    append([]validation.SaleLine(nil), m.cart...),
	}

	return func() tea.Msg {
		receipt, err := m.svc.Submit(context.Background(), form)
		return saleResultMsg{receipt: receipt, err: err}
	}
}
