package export

import (
	"errors"
	"net/http"

	"github.com/heizplus/pricing-api/internal/common"
	"github.com/heizplus/pricing-api/internal/obs"
	"github.com/heizplus/pricing-api/internal/quote"
)

// Handler streams quote workbooks over HTTP.
type Handler struct {
	Svc *quote.Service
}

// Download handles GET /api/v1/quotes/export. The calculation input comes
// from the same query parameters the results page uses.
func (h Handler) Download(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	req := quote.ParseQuery(r.URL.Query())
	q, err := h.Svc.Quote(req)
	if err != nil {
		observeExport("rejected")
		writeError(w, err)
		return
	}

	f, err := Workbook(q)
	if err != nil {
		observeExport("error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "workbook rendering failed", nil)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(q)+`"`)
	if err := f.Write(w); err != nil {
		// headers are already out, nothing left to send the client
		observeExport("error")
		return
	}
	observeExport("ok")
}

func observeExport(result string) {
	if obs.QuoteExportsTotal != nil {
		obs.QuoteExportsTotal.WithLabelValues(result).Inc()
	}
}

func writeError(w http.ResponseWriter, err error) {
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
