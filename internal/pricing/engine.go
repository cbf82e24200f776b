// Package pricing implements the quote calculations: tiered product prices,
// the bundle discount flip, Förderung subsidies, measure application fees and
// the KfW investment ceiling.
package pricing

import (
	"github.com/heizplus/pricing-api/internal/money"
	"github.com/heizplus/pricing-api/internal/tariff"
)

// MeasureType identifies the kind of a single-measure application
// (Einzelmaßnahme).
type MeasureType string

const (
	// MeasureHeating is a heating replacement measure.
	MeasureHeating MeasureType = "heating"
	// MeasureOther is any non-heating building measure.
	MeasureOther MeasureType = "other"
)

// Valid reports whether the measure type is a known kind.
func (t MeasureType) Valid() bool {
	return t == MeasureHeating || t == MeasureOther
}

// Input carries one calculation request. Callers validate the bounds
// (UnitCount and AreaM2 at least 1, only valid measure types) before calling
// the engine.
type Input struct {
	UnitCount         int
	AreaM2            int
	IncludeEnergyPlan bool
	ExtraMeasures     []MeasureType
}

// ProductQuote is the price breakdown of a single bundle position.
type ProductQuote struct {
	Original   money.Money `json:"original"`
	Discounted money.Money `json:"discounted"`
	Subsidy    money.Money `json:"subsidy"`
	Final      money.Money `json:"final"`
}

// MeasureQuote is a priced single-measure application fee.
type MeasureQuote struct {
	Type MeasureType `json:"type"`
	ProductQuote
}

// Totals aggregates the bundle sums. FullPrice counts discounted prices, so
// Discount is informational and already reflected in the other three.
type Totals struct {
	FullPrice money.Money `json:"fullPrice"`
	UserPays  money.Money `json:"userPays"`
	Subsidy   money.Money `json:"subsidy"`
	Discount  money.Money `json:"discount"`
}

// Bundle kinds as shown on the results header.
const (
	BundleWithPlan    = "Full Bundle (with iSFP)"
	BundleWithoutPlan = "2 Products Bundle (without iSFP)"
)

// Bundle is the complete result of one calculation.
type Bundle struct {
	Kind               string         `json:"kind"`
	HeatLoad           ProductQuote   `json:"heatLoad"`
	HydraulicBalancing ProductQuote   `json:"hydraulicBalancing"`
	EnergyPlan         ProductQuote   `json:"energyPlan"`
	Measures           []MeasureQuote `json:"measures,omitempty"`
	Totals             Totals         `json:"totals"`
	InvestmentCeiling  money.Money    `json:"investmentCeiling"`
}

// HeatLoad prices the Heizlastberechnung for the given heated area.
func HeatLoad(areaM2 int, applyDiscount bool) (original, discounted money.Money) {
	original = tariff.HeatLoad.PriceFor(areaM2)
	return original, discount(original, applyDiscount)
}

// HydraulicBalancing prices the Hydraulischer Abgleich for the given area.
func HydraulicBalancing(areaM2 int, applyDiscount bool) (original, discounted money.Money) {
	original = tariff.HydraulicBalancing.PriceFor(areaM2)
	return original, discount(original, applyDiscount)
}

// EnergyPlan prices the iSFP for the given unit count. The subsidy comes out
// of the tariff bracket; the bundle discount never applies here.
func EnergyPlan(unitCount int) (original, final, subsidy money.Money) {
	b := tariff.EnergyPlan.BracketFor(unitCount)
	return b.Price, b.Price - b.Subsidy, b.Subsidy
}

// MeasureApplication prices the application fee for one measure: a fixed
// percentage of the assumed investment for the building size. Unknown kinds
// price as heating.
func MeasureApplication(unitCount int, kind MeasureType) money.Money {
	var base money.Money
	if kind == MeasureOther {
		base = tariff.OtherMeasureBase.AmountFor(unitCount)
	} else {
		base = tariff.HeatingMeasureBase.AmountFor(unitCount)
	}
	return base * tariff.MeasureFeePercent / 100
}

// InvestmentBaseCap returns the KfW base funding cap for the building size.
func InvestmentBaseCap(unitCount int) money.Money {
	return tariff.InvestmentCap.AmountFor(unitCount)
}

// Compute assembles the bundle for one input. Exactly one of the two area
// products carries the bundle discount: the Heizlastberechnung when the iSFP
// is included, the Hydraulischer Abgleich when it is not. Both earn the
// Förderung on their discounted price. The investment ceiling is the base cap
// minus the undiscounted product prices and the per-unit deduction; it may go
// negative for large areas on small buildings.
func Compute(in Input) Bundle {
	heatOriginal, heatDiscounted := HeatLoad(in.AreaM2, in.IncludeEnergyPlan)
	hydrOriginal, hydrDiscounted := HydraulicBalancing(in.AreaM2, !in.IncludeEnergyPlan)

	bundle := Bundle{
		Kind:               BundleWithoutPlan,
		HeatLoad:           subsidized(heatOriginal, heatDiscounted),
		HydraulicBalancing: subsidized(hydrOriginal, hydrDiscounted),
	}

	if in.IncludeEnergyPlan {
		original, final, subsidy := EnergyPlan(in.UnitCount)
		bundle.Kind = BundleWithPlan
		bundle.EnergyPlan = ProductQuote{
			Original:   original,
			Discounted: original,
			Subsidy:    subsidy,
			Final:      final,
		}
	}

	for _, kind := range in.ExtraMeasures {
		fee := MeasureApplication(in.UnitCount, kind)
		subsidy := fee * tariff.ProductSubsidyPercent / 100
		bundle.Measures = append(bundle.Measures, MeasureQuote{
			Type: kind,
			ProductQuote: ProductQuote{
				Original:   fee,
				Discounted: fee,
				Subsidy:    subsidy,
				Final:      fee - subsidy,
			},
		})
	}

	bundle.Totals = sumTotals(bundle)
	bundle.InvestmentCeiling = InvestmentBaseCap(in.UnitCount) -
		(heatOriginal + hydrOriginal + tariff.CeilingUnitDeduction*money.Money(in.UnitCount))
	return bundle
}

func discount(original money.Money, apply bool) money.Money {
	if !apply {
		return original
	}
	return original * (100 - tariff.ProductDiscountPercent) / 100
}

func subsidized(original, discounted money.Money) ProductQuote {
	subsidy := discounted * tariff.ProductSubsidyPercent / 100
	return ProductQuote{
		Original:   original,
		Discounted: discounted,
		Subsidy:    subsidy,
		Final:      discounted - subsidy,
	}
}

func sumTotals(b Bundle) Totals {
	quotes := []ProductQuote{b.HeatLoad, b.HydraulicBalancing, b.EnergyPlan}
	for _, m := range b.Measures {
		quotes = append(quotes, m.ProductQuote)
	}
	var t Totals
	for _, q := range quotes {
		t.FullPrice += q.Discounted
		t.UserPays += q.Final
		t.Subsidy += q.Subsidy
		t.Discount += q.Original - q.Discounted
	}
	return t
}
