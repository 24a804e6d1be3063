package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aglafone/stokpos/internal/http/respond"
	"github.com/aglafone/stokpos/internal/ledger"
	"github.com/aglafone/stokpos/internal/purchases"
	"github.com/aglafone/stokpos/internal/sales"
	"github.com/aglafone/stokpos/internal/validation"
	"github.com/aglafone/stokpos/internal/webhook"
)

func TestStatus(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "Invalid", err: validation.ErrInvalid, want: http.StatusUnprocessableEntity},
		{name: "InsufficientStock", err: fmt.Errorf("x: %w", validation.ErrInsufficientStock), want: http.StatusUnprocessableEntity},
		{name: "Duplicate", err: ledger.ErrDuplicateCode, want: http.StatusConflict},
		{name: "SaleInProgress", err: sales.ErrSubmitInProgress, want: http.StatusConflict},
		{name: "NotFound", err: fmt.Errorf("deleting a: %w", ledger.ErrNotFound), want: http.StatusNotFound},
		{name: "EmptyHistory", err: purchases.ErrEmptyHistory, want: http.StatusNotFound},
		{name: "NotConfigured", err: webhook.NotConfigured(webhook.Endpoint{Name: "sales"}), want: http.StatusServiceUnavailable},
		{name: "Timeout", err: &webhook.Error{Kind: webhook.KindTimeout}, want: http.StatusGatewayTimeout},
		{name: "Business", err: fmt.Errorf("submitting: %w", &webhook.Error{Kind: webhook.KindBusiness}), want: http.StatusBadGateway},
		{name: "Unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_UsesBoundaryMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Error(rec, fmt.Errorf("submitting sale PJ-1: %w", &webhook.Error{Kind: webhook.KindHTTP, Status: 500, Message: "db down"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"db down"}`, rec.Body.String())
}
