// Package quote validates calculation requests, runs the pricing engine and
// assembles presentation-ready quotes.
package quote

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/heizplus/pricing-api/internal/common"
	"github.com/heizplus/pricing-api/internal/pricing"
	"github.com/heizplus/pricing-api/internal/tariff"
)

const (
	defaultMaxUnits    = 500
	defaultMaxAreaM2   = 100000
	defaultMaxMeasures = 10
)

// Request is the calculation input collected from the form or the JSON API.
type Request struct {
	UnitCount         int      `json:"unitCount" validate:"required,min=1"`
	AreaM2            int      `json:"areaM2" validate:"required,min=1"`
	IncludeEnergyPlan bool     `json:"includeEnergyPlan"`
	ExtraMeasures     []string `json:"extraMeasures" validate:"dive,oneof=heating other"`
}

// Row is one line of the customer-facing breakdown table, preformatted in
// the German locale.
type Row struct {
	Product    string `json:"product"`
	Original   string `json:"originalPrice"`
	Discounted string `json:"afterDiscount"`
	Subsidy    string `json:"subsidy"`
	Final      string `json:"finalPrice"`
}

// Summary carries the formatted headline metrics.
type Summary struct {
	FullPrice    string `json:"fullPrice"`
	UserPays     string `json:"userPays"`
	Subsidy      string `json:"subsidy"`
	DiscountNote string `json:"discountNote"`
}

// Disclosure is the customer paragraph in plain-text and HTML form.
type Disclosure struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Quote is the full calculation result returned by the service.
type Quote struct {
	ID         string         `json:"id"`
	Input      Request        `json:"input"`
	Bundle     pricing.Bundle `json:"bundle"`
	Rows       []Row          `json:"rows"`
	Summary    Summary        `json:"summary"`
	Disclosure Disclosure     `json:"disclosure"`
}

// Config bounds the accepted input domain.
type Config struct {
	MaxUnits    int
	MaxAreaM2   int
	MaxMeasures int
}

// Service validates requests and computes quotes.
type Service struct {
	validate    *validator.Validate
	maxUnits    int
	maxAreaM2   int
	maxMeasures int
}

// NewService constructs a Service. Non-positive bounds fall back to the
// defaults.
func NewService(cfg Config) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	s := &Service{
		validate:    v,
		maxUnits:    cfg.MaxUnits,
		maxAreaM2:   cfg.MaxAreaM2,
		maxMeasures: cfg.MaxMeasures,
	}
	if s.maxUnits <= 0 {
		s.maxUnits = defaultMaxUnits
	}
	if s.maxAreaM2 <= 0 {
		s.maxAreaM2 = defaultMaxAreaM2
	}
	if s.maxMeasures <= 0 {
		s.maxMeasures = defaultMaxMeasures
	}
	return s
}

// Bounds returns the configured input limits, for rendering the form.
func (s *Service) Bounds() (maxUnits, maxAreaM2, maxMeasures int) {
	return s.maxUnits, s.maxAreaM2, s.maxMeasures
}

// Quote validates the request, runs the engine and assembles the result.
func (s *Service) Quote(req Request) (Quote, error) {
	req = normalize(req)
	in, err := s.ValidateRequest(req)
	if err != nil {
		return Quote{}, err
	}
	bundle := pricing.Compute(in)
	return Quote{
		ID:         uuid.NewString(),
		Input:      req,
		Bundle:     bundle,
		Rows:       buildRows(bundle),
		Summary:    buildSummary(bundle.Totals),
		Disclosure: buildDisclosure(req, bundle),
	}, nil
}

// ValidateRequest checks the request against the schema and the configured
// bounds and converts it into an engine input.
func (s *Service) ValidateRequest(req Request) (pricing.Input, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]map[string]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
			return pricing.Input{}, &common.AppError{
				Code:       "VALIDATION",
				Message:    "invalid quote request",
				HTTPStatus: http.StatusUnprocessableEntity,
				Details:    details,
			}
		}
		return pricing.Input{}, err
	}
	if req.UnitCount > s.maxUnits {
		return pricing.Input{}, validationError(fmt.Sprintf("unitCount must be between 1 and %d", s.maxUnits))
	}
	if req.AreaM2 > s.maxAreaM2 {
		return pricing.Input{}, validationError(fmt.Sprintf("areaM2 must be between 1 and %d", s.maxAreaM2))
	}
	if len(req.ExtraMeasures) > s.maxMeasures {
		return pricing.Input{}, validationError(fmt.Sprintf("at most %d extra measures are supported", s.maxMeasures))
	}

	in := pricing.Input{
		UnitCount:         req.UnitCount,
		AreaM2:            req.AreaM2,
		IncludeEnergyPlan: req.IncludeEnergyPlan,
	}
	for _, m := range req.ExtraMeasures {
		in.ExtraMeasures = append(in.ExtraMeasures, pricing.MeasureType(m))
	}
	return in, nil
}

// ParseQuery builds a Request from URL query parameters: units, area, isfp
// and measures, either repeated or comma-separated. Validation happens in
// Quote.
func ParseQuery(values url.Values) Request {
	req := Request{
		UnitCount:         common.AtoiDefault(values.Get("units"), 0),
		AreaM2:            common.AtoiDefault(values.Get("area"), 0),
		IncludeEnergyPlan: common.ParseBool(values.Get("isfp")),
	}
	for _, entry := range values["measures"] {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.ExtraMeasures = append(req.ExtraMeasures, part)
			}
		}
	}
	return req
}

// QueryValues is the inverse of ParseQuery; it backs the XLSX download link
// on the results page.
func QueryValues(req Request) url.Values {
	values := url.Values{}
	values.Set("units", fmt.Sprintf("%d", req.UnitCount))
	values.Set("area", fmt.Sprintf("%d", req.AreaM2))
	if req.IncludeEnergyPlan {
		values.Set("isfp", "true")
	}
	if len(req.ExtraMeasures) > 0 {
		values.Set("measures", strings.Join(req.ExtraMeasures, ","))
	}
	return values
}

func validationError(message string) *common.AppError {
	return &common.AppError{
		Code:       "VALIDATION",
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func normalize(req Request) Request {
	if len(req.ExtraMeasures) == 0 {
		return req
	}
	cleaned := make([]string, 0, len(req.ExtraMeasures))
	for _, m := range req.ExtraMeasures {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			cleaned = append(cleaned, m)
		}
	}
	req.ExtraMeasures = cleaned
	return req
}

func buildRows(b pricing.Bundle) []Row {
	rows := []Row{
		newRow(tariff.HeatLoad.Product, b.HeatLoad),
		newRow(tariff.HydraulicBalancing.Product, b.HydraulicBalancing),
	}
	if b.Kind == pricing.BundleWithPlan {
		rows = append(rows, newRow(tariff.EnergyPlan.Product, b.EnergyPlan))
	}
	for _, m := range b.Measures {
		rows = append(rows, newRow(MeasureLabel(m.Type), m.ProductQuote))
	}
	return rows
}

func newRow(product string, q pricing.ProductQuote) Row {
	return Row{
		Product:    product,
		Original:   q.Original.String(),
		Discounted: q.Discounted.String(),
		Subsidy:    q.Subsidy.String(),
		Final:      q.Final.String(),
	}
}

// MeasureLabel returns the display name of a measure application.
func MeasureLabel(t pricing.MeasureType) string {
	if t == pricing.MeasureHeating {
		return "Antragstellung Einzelmaßnahme Heizung"
	}
	return "Antragstellung Einzelmaßnahme"
}

func buildSummary(t pricing.Totals) Summary {
	note := "Kein Rabatt"
	if t.Discount > 0 {
		note = fmt.Sprintf("-%s (20 %% Rabatt)", t.Discount)
	}
	return Summary{
		FullPrice:    t.FullPrice.String(),
		UserPays:     t.UserPays.String(),
		Subsidy:      t.Subsidy.String(),
		DiscountNote: note,
	}
}

const disclosureText = "Für Ihr %d WE-Haus mit %d m² beträgt der Preis für die Energie-Begleitung " +
	"%s (Vollpreis) sowie zusätzlich 3 %% für die Einzelmaßnahme Heizung.\n\n" +
	"Es gibt eine 50 %% Förderung auf unsere Leistungen in Höhe von %s sowie zusätzlich " +
	"eine 1,5 %% Förderung für die Einzelmaßnahme Heizung = %s + 1,5 %% Endpreis.\n\n" +
	"Falls das Angebot für Heizung und Montage in Ihrem Fall mehr als %s beträgt, " +
	"überschreitet dies die durch die KfW festgelegten staatlichen Fördergrenzen für unsere " +
	"Leistungen. In diesem Fall entfällt die Förderung für diesen Teil unserer Arbeit, und " +
	"Sie zahlen den vollen Preis für dieses Produkt."

const disclosureHTML = `<p style="font-family: Arial; font-size:14.5px; color:black; font-weight: bold; background-color:transparent;">` +
	"Für Ihr %d WE-Haus mit %d m² beträgt der Preis für die Energie-Begleitung " +
	"%s (Vollpreis) sowie zusätzlich 3 %% für die Einzelmaßnahme Heizung.<br><br>" +
	"Es gibt eine 50 %% Förderung auf unsere Leistungen in Höhe von %s sowie zusätzlich " +
	`eine 1,5 %% Förderung für die Einzelmaßnahme Heizung = <span style="font-weight:bold; font-size: 18px;">%s + 1,5 %% Endpreis</span>.<br><br>` +
	"Falls das Angebot für Heizung und Montage in Ihrem Fall mehr als %s beträgt, " +
	"überschreitet dies die durch die KfW festgelegten staatlichen Fördergrenzen für unsere " +
	"Leistungen. In diesem Fall entfällt die Förderung für diesen Teil unserer Arbeit, und " +
	"Sie zahlen den vollen Preis für dieses Produkt.</p>"

func buildDisclosure(req Request, b pricing.Bundle) Disclosure {
	t := b.Totals
	return Disclosure{
		Text: fmt.Sprintf(disclosureText,
			req.UnitCount, req.AreaM2,
			t.FullPrice, t.Subsidy, t.UserPays, b.InvestmentCeiling),
		HTML: fmt.Sprintf(disclosureHTML,
			req.UnitCount, req.AreaM2,
			t.FullPrice, t.Subsidy, t.UserPays, b.InvestmentCeiling),
	}
}
