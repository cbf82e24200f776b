package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/heizplus/pricing-api/internal/common"
	"github.com/heizplus/pricing-api/internal/obs"
	"github.com/heizplus/pricing-api/internal/pricing"
	"github.com/heizplus/pricing-api/internal/tariff"
)

// Handler exposes the quote API endpoints.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	q, err := h.Svc.Quote(req)
	if err != nil {
		observeQuote("none", "rejected")
		h.writeError(w, err)
		return
	}
	observeQuote(BundleLabel(q.Bundle.Kind), "ok")
	if obs.QuoteUserPaysEuros != nil {
		obs.QuoteUserPaysEuros.Observe(q.Bundle.Totals.UserPays.Float64())
	}
	common.JSONData(w, http.StatusOK, q)
}

// Tariffs handles GET /api/v1/tariffs with the active price book.
func (h *Handler) Tariffs(w http.ResponseWriter, r *http.Request) {
	common.JSONData(w, http.StatusOK, tariff.CurrentBook())
}

// BundleLabel maps a bundle kind to a low-cardinality metric label.
func BundleLabel(kind string) string {
	if kind == pricing.BundleWithPlan {
		return "with_isfp"
	}
	return "without_isfp"
}

func observeQuote(bundle, result string) {
	if obs.QuotesTotal != nil {
		obs.QuotesTotal.WithLabelValues(bundle, result).Inc()
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}
