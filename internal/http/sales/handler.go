package sales

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aglafone/stokpos/internal/http/respond"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/validation"
)

type Handler struct {
	svc *sales.Service
}

func NewHandler(svc *sales.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.recent)
	r.Post("/", h.submit)
	r.Get("/history", h.history)
}

func (h *Handler) recent(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Recent())
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var form validation.SaleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	receipt, err := h.svc.Submit(r.Context(), form)
	if err != nil {
		slog.Warn("sale not saved", "error", err)
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, receipt)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.History(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, txs)
}
