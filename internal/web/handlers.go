package web

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/heizplus/pricing-api/internal/quote"
)

// Handler serves the calculator form and the rendered results page.
type Handler struct {
	Logger    zerolog.Logger
	Templates *TemplateManager
	Svc       *quote.Service
}

type indexData struct {
	MaxUnits    int
	MaxAreaM2   int
	MaxMeasures int
}

type quoteData struct {
	Quote       quote.Quote
	Disclosure  template.HTML
	ExportQuery string
	Error       string
	Input       quote.Request
}

// Index handles GET / with the input form.
func (h Handler) Index(w http.ResponseWriter, r *http.Request) {
	maxUnits, maxArea, maxMeasures := h.Svc.Bounds()
	data := indexData{MaxUnits: maxUnits, MaxAreaM2: maxArea, MaxMeasures: maxMeasures}
	if err := h.Templates.Render(w, "index.html", data); err != nil {
		h.Logger.Error().Err(err).Msg("render index page")
		http.Error(w, "page rendering failed", http.StatusInternalServerError)
	}
}

// Quote handles GET /quote with the calculated breakdown. The form submits
// its fields as query parameters, so a result is a bookmarkable URL.
func (h Handler) Quote(w http.ResponseWriter, r *http.Request) {
	req := quote.ParseQuery(r.URL.Query())
	q, err := h.Svc.Quote(req)
	if err != nil {
		data := quoteData{Error: err.Error(), Input: req}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		if rerr := h.Templates.Render(w, "quote.html", data); rerr != nil {
			h.Logger.Error().Err(rerr).Msg("render quote error page")
		}
		return
	}

	data := quoteData{
		Quote:       q,
		Disclosure:  template.HTML(q.Disclosure.HTML),
		ExportQuery: quote.QueryValues(q.Input).Encode(),
		Input:       q.Input,
	}
	if err := h.Templates.Render(w, "quote.html", data); err != nil {
		h.Logger.Error().Err(err).Msg("render quote page")
		http.Error(w, "page rendering failed", http.StatusInternalServerError)
	}
}
