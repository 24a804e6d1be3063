// Package respond writes JSON responses and maps domain errors to statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/validation"
	"github.com/aglafone/stokpos/internal/webhook"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as {"error": "..."} with the status Status picks for it.
func Error(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: webhook.Message(err)}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Messages = verr.Messages()
	}

	JSON(w, Status(err), resp)
}

// BadRequest reports a body that could not be decoded.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func Status(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid), errors.Is(err, validation.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrDuplicateCode),
		errors.Is(err, sales.ErrSubmitInProgress),
		errors.Is(err, purchases.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, sales.ErrEmptyHistory),
		errors.Is(err, purchases.ErrEmptyHistory):
		return http.StatusNotFound
	case errors.Is(err, webhook.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, webhook.ErrTimeout):
		return http.StatusGatewayTimeout
	}

	var werr *webhook.Error
	if errors.As(err, &werr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
