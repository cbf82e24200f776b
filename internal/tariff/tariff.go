// Package tariff holds the price book: the bracket tables and per-unit
// schedules every quote is computed from. The tables are fixed at build time;
// Validate backs the readiness probe so an incoherent edit is caught before
// the server takes traffic.
package tariff

import (
	"errors"
	"fmt"

	"github.com/heizplus/pricing-api/internal/money"
)

// Percentage knobs the pricing engine applies on top of the tables.
const (
	// ProductDiscountPercent is the bundle discount carried by exactly one
	// of the two area-priced products.
	ProductDiscountPercent = 20
	// ProductSubsidyPercent is the Förderung granted on discounted prices.
	ProductSubsidyPercent = 50
	// MeasureFeePercent is the application fee charged on the assumed
	// investment of a single-measure application.
	MeasureFeePercent = 3
)

// AreaBracket is one fixed-price step of an area table.
type AreaBracket struct {
	MaxAreaM2 int         `json:"maxAreaM2"`
	Price     money.Money `json:"price"`
}

// AreaTable prices an area-driven product: fixed brackets up to the last
// threshold, then a linear per-m² rate on top of the last bracket price.
type AreaTable struct {
	Product   string        `json:"product"`
	Brackets  []AreaBracket `json:"brackets"`
	RatePerM2 money.Money   `json:"ratePerM2"`
}

// PriceFor returns the price for the given heated area.
func (t AreaTable) PriceFor(areaM2 int) money.Money {
	for _, b := range t.Brackets {
		if areaM2 <= b.MaxAreaM2 {
			return b.Price
		}
	}
	last := t.Brackets[len(t.Brackets)-1]
	return last.Price + t.RatePerM2*money.Money(areaM2-last.MaxAreaM2)
}

// UnitBracket is one step of a unit table. MaxUnits of zero marks the
// open-ended final bracket.
type UnitBracket struct {
	MaxUnits int         `json:"maxUnits,omitempty"`
	Price    money.Money `json:"price"`
	Subsidy  money.Money `json:"subsidy"`
}

// UnitTable prices a per-building product on the residential unit count,
// with the subsidy baked into each bracket.
type UnitTable struct {
	Product  string        `json:"product"`
	Brackets []UnitBracket `json:"brackets"`
}

// BracketFor returns the bracket covering the given unit count.
func (t UnitTable) BracketFor(units int) UnitBracket {
	for _, b := range t.Brackets {
		if b.MaxUnits == 0 || units <= b.MaxUnits {
			return b
		}
	}
	return t.Brackets[len(t.Brackets)-1]
}

// CapSchedule is a stepped per-unit amount: FirstUnit covers one unit, Step
// is added per unit up to UnitLimit, StepAbove per unit beyond it.
type CapSchedule struct {
	FirstUnit money.Money `json:"firstUnit"`
	Step      money.Money `json:"step"`
	UnitLimit int         `json:"unitLimit"`
	StepAbove money.Money `json:"stepAbove"`
}

// AmountFor returns the scheduled amount for the given unit count.
func (s CapSchedule) AmountFor(units int) money.Money {
	switch {
	case units <= 1:
		return s.FirstUnit
	case units <= s.UnitLimit:
		return s.FirstUnit + s.Step*money.Money(units-1)
	default:
		atLimit := s.FirstUnit + s.Step*money.Money(s.UnitLimit-1)
		return atLimit + s.StepAbove*money.Money(units-s.UnitLimit)
	}
}

// FlatCapSchedule grows linearly per unit until a flat ceiling.
type FlatCapSchedule struct {
	PerUnit money.Money `json:"perUnit"`
	Ceiling money.Money `json:"ceiling"`
}

// AmountFor returns the scheduled amount for the given unit count.
func (s FlatCapSchedule) AmountFor(units int) money.Money {
	amount := s.PerUnit * money.Money(units)
	if amount > s.Ceiling {
		return s.Ceiling
	}
	return amount
}

// HeatLoad prices the Heizlastberechnung by heated area.
var HeatLoad = AreaTable{
	Product: "Heizlastberechnung",
	Brackets: []AreaBracket{
		{MaxAreaM2: 150, Price: money.FromEuros(900)},
		{MaxAreaM2: 250, Price: money.FromEuros(1250)},
	},
	RatePerM2: money.FromEuros(4),
}

// HydraulicBalancing prices the Hydraulischer Abgleich by heated area.
var HydraulicBalancing = AreaTable{
	Product: "Hydraulischer Abgleich",
	Brackets: []AreaBracket{
		{MaxAreaM2: 150, Price: money.FromEuros(800)},
		{MaxAreaM2: 250, Price: money.FromEuros(900)},
	},
	RatePerM2: money.FromEuros(4),
}

// EnergyPlan prices the iSFP by residential unit count.
var EnergyPlan = UnitTable{
	Product: "iSFP",
	Brackets: []UnitBracket{
		{MaxUnits: 2, Price: money.FromEuros(1300), Subsidy: money.FromEuros(650)},
		{MaxUnits: 9, Price: money.FromEuros(1700), Subsidy: money.FromEuros(850)},
		{MaxUnits: 19, Price: money.FromEuros(2290), Subsidy: money.FromEuros(850)},
		{MaxUnits: 29, Price: money.FromEuros(3940), Subsidy: money.FromEuros(850)},
		{MaxUnits: 49, Price: money.FromEuros(4940), Subsidy: money.FromEuros(850)},
		{Price: money.FromEuros(5940), Subsidy: money.FromEuros(850)},
	},
}

// InvestmentCap is the KfW base cost cap per building: 30.000 € for one
// residential unit, 15.000 € per further unit up to six, 8.000 € per unit
// beyond that.
var InvestmentCap = CapSchedule{
	FirstUnit: money.FromEuros(30000),
	Step:      money.FromEuros(15000),
	UnitLimit: 6,
	StepAbove: money.FromEuros(8000),
}

// HeatingMeasureBase is the assumed investment behind a heating measure
// application. It follows the same schedule as the investment cap.
var HeatingMeasureBase = InvestmentCap

// OtherMeasureBase is the assumed investment behind a non-heating measure
// application: 60.000 € per unit, capped at 660.000 €.
var OtherMeasureBase = FlatCapSchedule{
	PerUnit: money.FromEuros(60000),
	Ceiling: money.FromEuros(660000),
}

// CeilingUnitDeduction is the flat per-unit amount reserved out of the
// investment cap together with the undiscounted product prices.
var CeilingUnitDeduction = money.FromEuros(900)

// Book is the serialisable price book snapshot served over the API.
type Book struct {
	HeatLoad               AreaTable       `json:"heatLoad"`
	HydraulicBalancing     AreaTable       `json:"hydraulicBalancing"`
	EnergyPlan             UnitTable       `json:"energyPlan"`
	InvestmentCap          CapSchedule     `json:"investmentCap"`
	HeatingMeasureBase     CapSchedule     `json:"heatingMeasureBase"`
	OtherMeasureBase       FlatCapSchedule `json:"otherMeasureBase"`
	CeilingUnitDeduction   money.Money     `json:"ceilingUnitDeduction"`
	ProductDiscountPercent int             `json:"productDiscountPercent"`
	ProductSubsidyPercent  int             `json:"productSubsidyPercent"`
	MeasureFeePercent      int             `json:"measureFeePercent"`
}

// CurrentBook returns the active price book.
func CurrentBook() Book {
	return Book{
		HeatLoad:               HeatLoad,
		HydraulicBalancing:     HydraulicBalancing,
		EnergyPlan:             EnergyPlan,
		InvestmentCap:          InvestmentCap,
		HeatingMeasureBase:     HeatingMeasureBase,
		OtherMeasureBase:       OtherMeasureBase,
		CeilingUnitDeduction:   CeilingUnitDeduction,
		ProductDiscountPercent: ProductDiscountPercent,
		ProductSubsidyPercent:  ProductSubsidyPercent,
		MeasureFeePercent:      MeasureFeePercent,
	}
}

// Validate checks the price book for coherence.
func Validate() error {
	for _, t := range []AreaTable{HeatLoad, HydraulicBalancing} {
		if err := t.validate(); err != nil {
			return fmt.Errorf("%s: %w", t.Product, err)
		}
	}
	if err := EnergyPlan.validate(); err != nil {
		return fmt.Errorf("%s: %w", EnergyPlan.Product, err)
	}
	for _, s := range []CapSchedule{InvestmentCap, HeatingMeasureBase} {
		if s.FirstUnit <= 0 || s.Step <= 0 || s.StepAbove <= 0 || s.UnitLimit < 2 {
			return errors.New("cap schedule: steps must be positive with a unit limit of at least 2")
		}
	}
	if OtherMeasureBase.PerUnit <= 0 || OtherMeasureBase.Ceiling < OtherMeasureBase.PerUnit {
		return errors.New("measure base: ceiling below the per-unit amount")
	}
	if CeilingUnitDeduction <= 0 {
		return errors.New("ceiling unit deduction must be positive")
	}
	return nil
}

func (t AreaTable) validate() error {
	if len(t.Brackets) == 0 {
		return errors.New("no brackets")
	}
	prevMax := 0
	var prevPrice money.Money
	for i, b := range t.Brackets {
		if b.MaxAreaM2 <= prevMax {
			return fmt.Errorf("bracket %d: area thresholds must ascend", i)
		}
		if b.Price <= prevPrice {
			return fmt.Errorf("bracket %d: prices must ascend", i)
		}
		prevMax = b.MaxAreaM2
		prevPrice = b.Price
	}
	if t.RatePerM2 <= 0 {
		return errors.New("per-m² rate must be positive")
	}
	return nil
}

func (t UnitTable) validate() error {
	if len(t.Brackets) == 0 {
		return errors.New("no brackets")
	}
	prevMax := 0
	for i, b := range t.Brackets {
		last := i == len(t.Brackets)-1
		if b.MaxUnits == 0 && !last {
			return fmt.Errorf("bracket %d: only the final bracket may be open-ended", i)
		}
		if b.MaxUnits != 0 && b.MaxUnits <= prevMax {
			return fmt.Errorf("bracket %d: unit thresholds must ascend", i)
		}
		if b.Subsidy <= 0 || b.Subsidy >= b.Price {
			return fmt.Errorf("bracket %d: subsidy must stay between zero and the price", i)
		}
		prevMax = b.MaxUnits
	}
	if t.Brackets[len(t.Brackets)-1].MaxUnits != 0 {
		return errors.New("final bracket must be open-ended")
	}
	return nil
}
