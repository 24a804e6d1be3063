package view

import (
	"context"
	"errors"
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
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/validation"
)

type purchaseFields struct {
	supplier string
	date     string
	imageURL string

	code  string
	name  string
	color string
	qty   string
	price string
	more  bool
}

type PurchaseModel struct {
	CommonModel
	svc   *purchases.Service
	stock *dashboard.Service

	state   entryState
	form    *huh.Form
	fields  *purchaseFields
	cart    []validation.PurchaseLine
	spinner spinner.Model

	message string
	err     error
}

func NewPurchaseModel(svc *purchases.Service, stock *dashboard.Service) PurchaseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := PurchaseModel{
		svc:     svc,
		stock:   stock,
		spinner: s,
		fields:  &purchaseFields{date: time.Now().Format(validation.DateLayout)},
	}
	m.form = m.headerForm()

	return m
}

func (m PurchaseModel) Title() string { return "New Purchase" }

func (m PurchaseModel) ShortHelp() string {
	switch m.state {
	case entryStateSubmitting:
		return "Saving..."
	case entryStateResult:
		if m.err != nil {
			return "Esc: back | Enter: retry | n: new purchase"
		}

		return "Esc: back | n: new purchase"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m PurchaseModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PurchaseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case entryStateHeader, entryStateLine:
		return m.updateForm(msg)
	case entryStateSubmitting:
		if res, ok := msg.(purchaseResultMsg); ok {
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
				next := NewPurchaseModel(m.svc, m.stock)
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

func (m PurchaseModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m PurchaseModel) headerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Supplier").Value(&m.fields.supplier).Validate(requireText),
			huh.NewInput().
				Title("Date").
				Placeholder(validation.DateLayout).
				Value(&m.fields.date).
				Validate(func(s string) error {
					_, err := time.Parse(validation.DateLayout, strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Receipt image URL").
				Description("Optional").
				Placeholder("https://...").
				Value(&m.fields.imageURL),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m PurchaseModel) lineForm() *huh.Form {
	f := m.fields
	f.code, f.name, f.color, f.qty, f.price, f.more = "", "", "", "", "", false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Code").
				Description("A new code creates a stock item").
				Value(&f.code).
				Validate(requireText),
			huh.NewInput().
				Title("Name").
				Description("Leave empty to keep the stocked name").
				Value(&f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && !m.known(f.code) {
						return errors.New("name is required for a new item")
					}

					return nil
				}),
			huh.NewInput().Title("Color").Placeholder(inventory.NoColor).Value(&f.color),
			huh.NewInput().Title("Quantity").Value(&f.qty).Validate(requireNumber),
			huh.NewInput().Title("Purchase price").Value(&f.price).Validate(requireNumber),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Add another item?").
				Affirmative("Add more").
				Negative("Save purchase").
				Value(&f.more),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m PurchaseModel) stocked(code string) (inventory.StockItem, bool) {
	code = strings.TrimSpace(code)

	for _, it := range m.stock.Query(ledger.Filter{}) {
		if it.Code == code {
			return it, true
		}
	}

	return inventory.StockItem{}, false
}

func (m PurchaseModel) known(code string) bool {
	_, ok := m.stocked(code)
	return ok
}

func (m PurchaseModel) line() validation.PurchaseLine {
	f := m.fields

	name := strings.TrimSpace(f.name)
	if it, ok := m.stocked(f.code); ok && name == "" {
		name = it.Name
	}

	color := strings.TrimSpace(f.color)
	if color == inventory.NoColor {
		color = ""
	}

	return validation.PurchaseLine{
		Code:     strings.TrimSpace(f.code),
		Name:     name,
		Color:    color,
		Qty:      int(parseWhole(f.qty)),
		BuyPrice: parseWhole(f.price),
	}
}

func (m PurchaseModel) View() string {
	var body string

	switch m.state {
	case entryStateHeader, entryStateLine:
		body = m.form.View()
	case entryStateSubmitting:
		body = fmt.Sprintf("%s Saving purchase...", m.spinner.View())
	case entryStateResult:
		if m.err != nil {
			body = errorStyle.Render(ErrorText(m.err))
		} else {
			body = successStyle.Render(m.message)
		}
	}

	content := body
	if len(m.cart) > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Render(purchaseCart(m.cart)))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func purchaseCart(lines []validation.PurchaseLine) string {
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

type purchaseResultMsg struct {
	receipt purchases.Receipt
	err     error
}

func (m PurchaseModel) submitCmd() tea.Cmd {
	form := validation.PurchaseForm{
		Supplier: m.fields.supplier,
		Date:     m.fields.date,
		ImageURL: m.fields.imageURL,
		Items:    append([]validation.PurchaseLine(nil), m.cart...),
	}

	return func() tea.Msg {
		receipt, err := m.svc.Submit(context.Background(), form)
		return purchaseResultMsg{receipt: receipt, err: err}
	}
}
