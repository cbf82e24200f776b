package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/heizplus/pricing-api/internal/quote"
	"github.com/heizplus/pricing-api/internal/web"
)

func newHandler(t *testing.T) web.Handler {
	t.Helper()
	tm, err := web.NewTemplateManager(zerolog.Nop(), "")
	require.NoError(t, err)
	return web.Handler{
		Logger:    zerolog.Nop(),
		Templates: tm,
		Svc:       quote.NewService(quote.Config{}),
	}
}

func TestIndexRendersForm(t *testing.T) {
	handler := newHandler(t)

	rr := httptest.NewRecorder()
	handler.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	require.Contains(t, body, `name="units"`)
	require.Contains(t, body, `name="area"`)
	require.Contains(t, body, `name="isfp"`)
	require.Contains(t, body, `name="measures"`)
}

func TestQuoteRendersBreakdown(t *testing.T) {
	handler := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/quote?units=1&area=100&isfp=true", nil)
	rr := httptest.NewRecorder()
	handler.Quote(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, "Heizlastberechnung")
	require.Contains(t, body, "Hydraulischer Abgleich")
	require.Contains(t, body, "iSFP")
	require.Contains(t, body, "2.820,00 €")
	require.Contains(t, body, "1.410,00 €")
	require.Contains(t, body, "/api/v1/quotes/export?")
}

func TestQuoteRejectsInvalidInput(t *testing.T) {
	handler := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/quote?units=0&area=100", nil)
	rr := httptest.NewRecorder()
	handler.Quote(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Rechner")
}

func TestTemplateManagerReady(t *testing.T) {
	tm, err := web.NewTemplateManager(zerolog.Nop(), "")
	require.NoError(t, err)
	require.NoError(t, tm.Ready())
}
