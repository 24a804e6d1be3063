// Package dashboard drives the stock page: it loads stock from the webhook
// into the ledger and forwards manual edits to it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/normalize"
	"github.com/aglafone/stokpos/internal/validation"
	"github.com/aglafone/stokpos/internal/webhook"
)

type Service struct {
	client   webhook.Requester
	ledger   *ledger.Ledger
	endpoint webhook.Endpoint
	norm     *normalize.Normalizer
	timeout  time.Duration
	logger   *slog.Logger
}

type Option func(*Service)

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) { s.norm = n }
}

// WithTimeout bounds each stock request.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(client webhook.Requester, l *ledger.Ledger, endpoint webhook.Endpoint, opts ...Option) *Service {
	s := &Service{
		client:   client,
		ledger:   l,
		endpoint: endpoint,
		norm:     normalize.New(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load replaces the ledger's items with the webhook's stock. It asks with GET
// first and falls back to POST {"action":"read"} when GET fails or yields no
// items. An empty stock list is not an error.
func (s *Service) Load(ctx context.Context) (int, error) {
	if !s.endpoint.Configured() {
		return 0, fmt.Errorf("loading stock: %w", webhook.NotConfigured(s.endpoint))
	}

	items, getErr := s.fetch(ctx, http.MethodGet, nil)
	if getErr == nil && len(items) > 0 {
		s.ledger.SetItems(items)
		return len(items), nil
	}

	if getErr != nil {
		s.logger.Debug("stock GET failed, retrying with POST", "error", getErr)
	}

	items, postErr := s.fetch(ctx, http.MethodPost, webhook.Read)
	if postErr != nil {
		if getErr != nil {
			return 0, fmt.Errorf("loading stock: %w", postErr)
		}

		s.logger.Debug("stock POST failed after empty GET", "error", postErr)
	}

	s.ledger.SetItems(items)

	return len(items), nil
}

func (s *Service) fetch(ctx context.Context, method string, body any) ([]inventory.StockItem, error) {
	resp, err := s.client.Request(ctx, s.endpoint, method, body, webhook.RequestOptions{Timeout: s.timeout})
	if err != nil {
		return nil, err
	}

	return s.norm.Stock(resp.JSON), nil
}

// Add validates form and prepends the item to the ledger.
func (s *Service) Add(form validation.ItemForm) (inventory.StockItem, error) {
	form = form.Clean()

	if err := validation.Item(form); err != nil {
		return inventory.StockItem{}, err
	}

	it, err := s.ledger.AddItem(form.StockItem())
	if err != nil {
		return inventory.StockItem{}, fmt.Errorf("adding %s: %w", form.Code, err)
	}

	return it, nil
}

// Edit applies a manual edit. Editing colors or quantity resets the variants
// to the aggregate quantity.
func (s *Service) Edit(id string, form validation.ItemForm) (inventory.StockItem, error) {
	form = form.Clean()

	existing, ok := s.ledger.Item(id)
	if !ok {
		return inventory.StockItem{}, ledger.ErrNotFound
	}

	// the code is not editable
	form.Code = existing.Code

	if err := validation.Item(form); err != nil {
		return inventory.StockItem{}, err
	}

	next := form.StockItem()

	return s.ledger.UpdateItem(id, ledger.Patch{
		Name:      &next.Name,
		Qty:       &next.Qty,
		BuyPrice:  &next.BuyPrice,
		SellPrice: &next.SellPrice,
		Colors:    &next.Colors,
	})
}

func (s *Service) UpdatePrice(id string, buy, sell int64) (inventory.StockItem, error) {
	if err := validation.Price(validation.PriceForm{BuyPrice: buy, SellPrice: sell}); err != nil {
		return inventory.StockItem{}, err
	}

	return s.ledger.UpdatePrice(id, buy, sell)
}

// Delete removes every listed item. Missing ids are reported together after
// the others have been removed.
func (s *Service) Delete(ids ...string) error {
	var errs []error

	for _, id := range ids {
		if err := s.ledger.RemoveItem(id); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

func (s *Service) Query(f ledger.Filter) []inventory.StockItem {
	return s.ledger.Query(f)
}

func (s *Service) Colors() []string {
	return s.ledger.Colors()
}

func (s *Service) Summary() ledger.Summary {
	return s.ledger.Summary()
}
