package export_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heizplus/pricing-api/internal/export"
	"github.com/heizplus/pricing-api/internal/quote"
)

func computeQuote(t *testing.T) quote.Quote {
	t.Helper()
	svc := quote.NewService(quote.Config{})
	q, err := svc.Quote(quote.Request{
		UnitCount:         1,
		AreaM2:            100,
		IncludeEnergyPlan: true,
		ExtraMeasures:     []string{"heating"},
	})
	require.NoError(t, err)
	return q
}

func TestWorkbookLayout(t *testing.T) {
	q := computeQuote(t)

	f, err := export.Workbook(q)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Angebot"}, f.GetSheetList())

	title, err := f.GetCellValue("Angebot", "A1")
	require.NoError(t, err)
	require.Equal(t, "Heizung+ Angebot", title)

	id, err := f.GetCellValue("Angebot", "B2")
	require.NoError(t, err)
	require.Equal(t, q.ID, id)

	header, err := f.GetCellValue("Angebot", "D7")
	require.NoError(t, err)
	require.Equal(t, "Förderung", header)

	product, err := f.GetCellValue("Angebot", "A8")
	require.NoError(t, err)
	require.Equal(t, "Heizlastberechnung", product)

	price, err := f.GetCellValue("Angebot", "B8")
	require.NoError(t, err)
	require.Equal(t, "900,00 €", price)

	measure, err := f.GetCellValue("Angebot", "A11")
	require.NoError(t, err)
	require.Equal(t, "Antragstellung Einzelmaßnahme Heizung", measure)

	// totals start one blank row below the 4 product rows
	fullPrice, err := f.GetCellValue("Angebot", "B13")
	require.NoError(t, err)
	require.Equal(t, q.Summary.FullPrice, fullPrice)
}

func TestSaveWritesFile(t *testing.T) {
	q := computeQuote(t)

	path := t.TempDir() + "/angebot.xlsx"
	require.NoError(t, export.Save(q, path))
	require.FileExists(t, path)
}

func TestFilename(t *testing.T) {
	q := computeQuote(t)
	require.Equal(t, "heizung-plus-angebot-1we-100m2.xlsx", export.Filename(q))
}

func TestDownloadHandler(t *testing.T) {
	h := export.Handler{Svc: quote.NewService(quote.Config{})}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/export?units=1&area=100&isfp=true", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "heizung-plus-angebot-1we-100m2.xlsx")
	require.NotZero(t, rec.Body.Len())
}

func TestDownloadHandlerRejectsBadQuery(t *testing.T) {
	h := export.Handler{Svc: quote.NewService(quote.Config{})}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/export?units=0&area=100", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDownloadHandlerUnconfigured(t *testing.T) {
	h := export.Handler{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/export", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
