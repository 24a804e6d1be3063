// Package purchases records stock purchases: it validates the form, posts it
// to the purchases webhook and, once accepted, adds it to the ledger.
package purchases

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
	ErrSubmitInProgress = errors.New("a purchase is already being saved")
	ErrEmptyHistory     = errors.New("no purchase history found")
)

const savedMessage = "Purchase saved."

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

type Receipt struct {
	Transaction inventory.PurchaseTransaction `json:"transaction"`
	Message     string                        `json:"message"`
}

type linePayload struct {
	Code     string `json:"kode_barang"`
	Name     string `json:"nama_barang"`
	Qty      int    `json:"qty"`
	BuyPrice int64  `json:"harga_beli"`
	Color    string `json:"warna"`
	Total    int64  `json:"total"`
}

type payload struct {
	ID        string        `json:"id"`
	Supplier  string        `json:"supplier"`
	Date      string        `json:"tanggal"`
	Items     []linePayload `json:"items"`
	Total     int64         `json:"total"`
	ImageURL  string        `json:"foto_url"`
	CreatedAt string        `json:"created_at"`
}

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Submit validates and sends a purchase. New codes become stock items and
// known codes are restocked, but only after the webhook accepts it.
func (s *Service) Submit(ctx context.Context, form validation.PurchaseForm) (Receipt, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return Receipt{}, ErrSubmitInProgress
	}
	defer s.submitting.Store(false)

	if !s.endpoints.Submit.Configured() {
		return Receipt{}, webhook.NotConfigured(s.endpoints.Submit)
	}

	form = form.Clean()

	if err := validation.Purchase(form); err != nil {
		return Receipt{}, err
	}

	body := payload{
		ID:        s.ids.Generate(inventory.PurchasePrefix),
		Supplier:  form.Supplier,
		Date:      form.Date,
		Items:     make([]linePayload, len(form.Items)),
		Total:     form.Total(),
		ImageURL:  form.ImageURL,
		CreatedAt: s.now().UTC().Format(createdAtLayout),
	}

	for i, it := range form.Items {
		color := it.Color
		if color == "" {
			color = inventory.NoColor
		}

		body.Items[i] = linePayload{
			Code:     it.Code,
			Name:     it.Name,
			Qty:      it.Qty,
			BuyPrice: it.BuyPrice,
			Color:    color,
			Total:    it.Subtotal(),
		}
	}

	resp, err := s.client.Request(ctx, s.endpoints.Submit, http.MethodPost, body, webhook.RequestOptions{Timeout: s.timeout})
	if err != nil {
		return Receipt{}, fmt.Errorf("submitting purchase %s: %w", body.ID, err)
	}

	tx := transaction(body)
	s.ledger.ApplyPurchase(tx)

	s.logger.Info("purchase saved", "id", tx.ID, "supplier", body.Supplier, "items", len(tx.Items), "total", tx.Total)

	msg := resp.Message()
	if msg == "" {
		msg = savedMessage
	}

	return Receipt{Transaction: tx, Message: msg}, nil
}

func transaction(p payload) inventory.PurchaseTransaction {
	date, _ := time.Parse(validation.DateLayout, p.Date)

	items := make([]inventory.PurchaseItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = inventory.PurchaseItem{
			Code:     it.Code,
			Name:     it.Name,
			Color:    it.Color,
			Qty:      it.Qty,
			BuyPrice: it.BuyPrice,
			Supplier: p.Supplier,
			Date:     date,
			ImageURL: p.ImageURL,
		}
	}

	return inventory.PurchaseTransaction{
		ID:       p.ID,
		Items:    items,
		Total:    p.Total,
		ImageURL: p.ImageURL,
	}
}

// History fetches the remote purchase history.
func (s *Service) History(ctx context.Context) ([]inventory.PurchaseTransaction, error) {
	resp, err := s.client.Request(ctx, s.endpoints.History, http.MethodPost, webhook.Read, webhook.RequestOptions{Timeout: s.listTimeout})
	if err != nil {
		return nil, fmt.Errorf("loading purchase history: %w", err)
	}

	txs := s.norm.PurchaseHistory(resp.JSON)
	if len(txs) == 0 {
		return nil, ErrEmptyHistory
	}

	return txs, nil
}

// Recent returns the purchases saved in this session, most recent first.
func (s *Service) Recent() []inventory.PurchaseTransaction {
	return s.ledger.Purchases()
}
