package stock

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aglafone/stokpos/internal/dashboard"
	"github.com/aglafone/stokpos/internal/http/respond"
	"github.com/aglafone/stokpos/internal/inventory"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/validation"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/colors", h.colors)
	r.Post("/refresh", h.refresh)
	r.Delete("/", h.deleteMany)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/price", h.updatePrice)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	items := h.svc.Query(ledger.Filter{
		Search: q.Get("q"),
		Level:  inventory.Level(q.Get("level")),
		Color:  q.Get("color"),
	})

	respond.JSON(w, http.StatusOK, toResponseList(items))
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Summary())
}

func (h *Handler) colors(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Colors())
}

type refreshResponse struct {
	Items int `json:"items"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Load(r.Context())
	if err != nil {
		slog.Error("failed to refresh stock", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, refreshResponse{Items: n})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form validation.ItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	it, err := h.svc.Add(form)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(it))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form validation.ItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	it, err := h.svc.Edit(chi.URLParam(r, "id"), form)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(it))
}

type priceRequest struct {
	BuyPrice  int64 `json:"hargaBeli"`
	SellPrice int64 `json:"hargaJual"`
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	it, err := h.svc.UpdatePrice(chi.URLParam(r, "id"), req.BuyPrice, req.SellPrice)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(it))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteMany removes the comma separated ids in the "ids" query parameter.
func (h *Handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var ids []string

	for id := range strings.SplitSeq(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		respond.BadRequest(w, "no ids given")
		return
	}

	if err := h.svc.Delete(ids...); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
