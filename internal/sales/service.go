// Package sales records sales: it validates the form against current stock,
// posts it to the sales webhook and, once accepted, deducts it from the ledger.
package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/normalize"
	"github.com/aglafone/stokpos/internal/txid"
	"github.com/aglafone/stokpos/internal/validation"
	"github.com/aglafone/stokpos/internal/webhook"
)

var (
	ErrSubmitInProgress = errors.New("a sale is already being saved")
	ErrEmptyHistory     = errors.New("no sales history found")
)

const savedMessage = "Sale saved."

// Endpoints used by the service. History may be left unconfigured.
type Endpoints struct {
	Submit  webhook.Endpoint
	History webhook.Endpoint
}

type Service struct {
	client    webhook.Requester
	ledger    *ledger.Ledger
	endpoints Endpoints
	ids       *txid.Generator
	norm      *normalize.Normalizer
	now       func() time.Time
	logger    *slog.Logger

	timeout     time.Duration
	listTimeout time.Duration

	submitting atomic.Bool
}

type Option func(*Service)

func WithIDs(g *txid.Generator) Option {
	return func(s *Service) { s.ids = g }
}

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) { s.norm = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTimeouts sets the submit and history request timeouts.
func WithTimeouts(submit, list time.Duration) Option {
	return func(s *Service) {
		s.timeout = submit
		s.listTimeout = list
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(client webhook.Requester, l *ledger.Ledger, endpoints Endpoints, opts ...Option) *Service {
	s := &Service{
		client:      client,
		ledger:      l,
		endpoints:   endpoints,
		ids:         txid.New(),
		norm:        normalize.New(),
		now:         time.Now,
		logger:      slog.Default(),
		timeout:     webhook.DefaultTimeout,
		listTimeout: 20 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Receipt is a saved sale and the message to show for it.
type Receipt struct {
	Transaction inventory.SaleTransaction `json:"transaction"`
	Message     string                    `json:"message"`
}

type linePayload struct {
	Code      string `json:"kode_barang"`
	Name      string `json:"nama_barang"`
	Qty       int    `json:"qty"`
	SellPrice int64  `json:"harga_jual"`
	Color     string `json:"warna"`
	Total     int64  `json:"total"`
}

type payload struct {
	ID        string        `json:"id"`
	Customer  string        `json:"customer"`
	Date      string        `json:"tanggal"`
	Items     []linePayload `json:"items"`
	Total     int64         `json:"total"`
	CreatedAt string        `json:"created_at"`
}

// createdAtLayout matches what browsers send for Date.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Submit validates and sends a sale. The ledger changes only after the
// webhook accepts it. Only one submit runs at a time; a concurrent call gets
// ErrSubmitInProgress.
func (s *Service) Submit(ctx context.Context, form validation.SaleForm) (Receipt, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return Receipt{}, ErrSubmitInProgress
	}
	defer s.submitting.Store(false)

	if !s.endpoints.Submit.Configured() {
		return Receipt{}, webhook.NotConfigured(s.endpoints.Submit)
	}

	form = form.Clean()

	if err := validation.Sale(form, s.ledger); err != nil {
		return Receipt{}, err
	}

	body := payload{
		ID:        s.ids.Generate(inventory.SalePrefix),
		Customer:  form.Customer,
		Date:      form.Date,
		Items:     make([]linePayload, len(form.Items)),
		Total:     form.Total(),
		CreatedAt: s.now().UTC().Format(createdAtLayout),
	}

	for i, it := range form.Items {
		color := it.Color
		if color == "" {
			color = inventory.NoColor
		}

		body.Items[i] = linePayload{
			Code:      it.Code,
			Name:      it.Name,
			Qty:       it.Qty,
			SellPrice: it.SellPrice,
			Color:     color,
			Total:     it.Subtotal(),
		}
	}

	resp, err := s.client.Request(ctx, s.endpoints.Submit, http.MethodPost, body, webhook.RequestOptions{Timeout: s.timeout})
	if err != nil {
		return Receipt{}, fmt.Errorf("submitting sale %s: %w", body.ID, err)
	}

	tx := transaction(body)
	s.ledger.ApplySale(tx)

	s.logger.Info("sale saved", "id", tx.ID, "items", len(tx.Items), "total", tx.Total)

	msg := resp.Message()
	if msg == "" {
		msg = savedMessage
	}

	return Receipt{Transaction: tx, Message: msg}, nil
}

func transaction(p payload) inventory.SaleTransaction {
	ts, _ := time.Parse(validation.DateLayout, p.Date)

	items := make([]inventory.SaleItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = inventory.SaleItem{
			Code:      it.Code,
			Name:      it.Name,
			Color:     it.Color,
			Qty:       it.Qty,
			SellPrice: it.SellPrice,
			Subtotal:  it.Total,
		}
	}

	return inventory.SaleTransaction{
		ID:        p.ID,
		Customer:  p.Customer,
		Timestamp: ts,
		Items:     items,
		Total:     p.Total,
	}
}

// History fetches the remote sales history.
func (s *Service) History(ctx context.Context) ([]inventory.SaleTransaction, error) {
	resp, err := s.client.Request(ctx, s.endpoints.History, http.MethodPost, webhook.Read, webhook.RequestOptions{Timeout: s.listTimeout})
	if err != nil {
		return nil, fmt.Errorf("loading sales history: %w", err)
	}

	txs := s.norm.SaleHistory(resp.JSON)
	if len(txs) == 0 {
		return nil, ErrEmptyHistory
	}

	return txs, nil
}

// Recent returns the sales saved in this session, most recent first.
func (s *Service) Recent() []inventory.SaleTransaction {
	return s.ledger.Sales()
}
