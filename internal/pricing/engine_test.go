package pricing

import (
	"testing"

	"github.com/heizplus/pricing-api/internal/money"
)

func TestHeatLoadDiscount(t *testing.T) {
	original, discounted := HeatLoad(100, true)
	if original != money.FromEuros(900) || discounted != money.FromEuros(720) {
		t.Fatalf("HeatLoad(100, true) = (%v, %v), want (900 €, 720 €)", original, discounted)
	}
	original, discounted = HeatLoad(300, false)
	if original != money.FromEuros(1450) || discounted != money.FromEuros(1450) {
		t.Fatalf("HeatLoad(300, false) = (%v, %v), want (1.450 €, 1.450 €)", original, discounted)
	}
}

func TestHydraulicBalancingDiscount(t *testing.T) {
	original, discounted := HydraulicBalancing(100, false)
	if original != money.FromEuros(800) || discounted != money.FromEuros(800) {
		t.Fatalf("HydraulicBalancing(100, false) = (%v, %v), want (800 €, 800 €)", original, discounted)
	}
	original, discounted = HydraulicBalancing(300, true)
	if original != money.FromEuros(1100) || discounted != money.FromEuros(880) {
		t.Fatalf("HydraulicBalancing(300, true) = (%v, %v), want (1.100 €, 880 €)", original, discounted)
	}
}

func TestEnergyPlan(t *testing.T) {
	original, final, subsidy := EnergyPlan(1)
	if original != money.FromEuros(1300) || final != money.FromEuros(650) || subsidy != money.FromEuros(650) {
		t.Fatalf("EnergyPlan(1) = (%v, %v, %v)", original, final, subsidy)
	}
	original, final, subsidy = EnergyPlan(10)
	if original != money.FromEuros(2290) || final != money.FromEuros(1440) || subsidy != money.FromEuros(850) {
		t.Fatalf("EnergyPlan(10) = (%v, %v, %v)", original, final, subsidy)
	}
}

func TestMeasureApplicationFees(t *testing.T) {
	cases := []struct {
		units int
		kind  MeasureType
		want  int64
	}{
		{1, MeasureHeating, 900},
		{6, MeasureHeating, 3150},
		{10, MeasureHeating, 4110},
		{3, MeasureOther, 5400},
		{12, MeasureOther, 19800},
	}
	for _, tc := range cases {
		if got := MeasureApplication(tc.units, tc.kind); got != money.FromEuros(tc.want) {
			t.Fatalf("MeasureApplication(%d, %s) = %v, want %d €", tc.units, tc.kind, got, tc.want)
		}
	}
}

func TestComputeWithEnergyPlan(t *testing.T) {
	b := Compute(Input{UnitCount: 1, AreaM2: 100, IncludeEnergyPlan: true})

	if b.Kind != BundleWithPlan {
		t.Fatalf("Kind = %q", b.Kind)
	}
	wantHeat := ProductQuote{
		Original:   money.FromEuros(900),
		Discounted: money.FromEuros(720),
		Subsidy:    money.FromEuros(360),
		Final:      money.FromEuros(360),
	}
	if b.HeatLoad != wantHeat {
		t.Fatalf("HeatLoad = %+v, want %+v", b.HeatLoad, wantHeat)
	}
	wantHydr := ProductQuote{
		Original:   money.FromEuros(800),
		Discounted: money.FromEuros(800),
		Subsidy:    money.FromEuros(400),
		Final:      money.FromEuros(400),
	}
	if b.HydraulicBalancing != wantHydr {
		t.Fatalf("HydraulicBalancing = %+v, want %+v", b.HydraulicBalancing, wantHydr)
	}
	wantPlan := ProductQuote{
		Original:   money.FromEuros(1300),
		Discounted: money.FromEuros(1300),
		Subsidy:    money.FromEuros(650),
		Final:      money.FromEuros(650),
	}
	if b.EnergyPlan != wantPlan {
		t.Fatalf("EnergyPlan = %+v, want %+v", b.EnergyPlan, wantPlan)
	}
	wantTotals := Totals{
		FullPrice: money.FromEuros(2820),
		UserPays:  money.FromEuros(1410),
		Subsidy:   money.FromEuros(1410),
		Discount:  money.FromEuros(180),
	}
	if b.Totals != wantTotals {
		t.Fatalf("Totals = %+v, want %+v", b.Totals, wantTotals)
	}
	if b.InvestmentCeiling != money.FromEuros(27400) {
		t.Fatalf("InvestmentCeiling = %v, want 27.400 €", b.InvestmentCeiling)
	}
}

func TestComputeWithoutEnergyPlan(t *testing.T) {
	b := Compute(Input{UnitCount: 10, AreaM2: 300})

	if b.Kind != BundleWithoutPlan {
		t.Fatalf("Kind = %q", b.Kind)
	}
	if b.HeatLoad.Original != money.FromEuros(1450) || b.HeatLoad.Discounted != money.FromEuros(1450) {
		t.Fatalf("HeatLoad = %+v", b.HeatLoad)
	}
	if b.HydraulicBalancing.Original != money.FromEuros(1100) || b.HydraulicBalancing.Discounted != money.FromEuros(880) {
		t.Fatalf("HydraulicBalancing = %+v", b.HydraulicBalancing)
	}
	if b.EnergyPlan != (ProductQuote{}) {
		t.Fatalf("EnergyPlan = %+v, want zero", b.EnergyPlan)
	}
	if b.Totals.Discount != money.FromEuros(220) {
		t.Fatalf("Discount = %v, want 220 €", b.Totals.Discount)
	}
	ceiling := money.FromEuros(137000 - (1450 + 1100 + 900*10))
	if b.InvestmentCeiling != ceiling {
		t.Fatalf("InvestmentCeiling = %v, want %v", b.InvestmentCeiling, ceiling)
	}
}

func TestComputeDiscountExclusivity(t *testing.T) {
	for _, includePlan := range []bool{true, false} {
		b := Compute(Input{UnitCount: 3, AreaM2: 200, IncludeEnergyPlan: includePlan})
		heatDiscounted := b.HeatLoad.Discounted < b.HeatLoad.Original
		hydrDiscounted := b.HydraulicBalancing.Discounted < b.HydraulicBalancing.Original
		if heatDiscounted == hydrDiscounted {
			t.Fatalf("includePlan=%v: exactly one area product must carry the discount, got heat=%v hydr=%v",
				includePlan, heatDiscounted, hydrDiscounted)
		}
		if includePlan != heatDiscounted {
			t.Fatalf("includePlan=%v: discount sits on the wrong product", includePlan)
		}
	}
}

func TestComputeWithMeasures(t *testing.T) {
	b := Compute(Input{
		UnitCount:         1,
		AreaM2:            100,
		IncludeEnergyPlan: true,
		ExtraMeasures:     []MeasureType{MeasureHeating, MeasureOther},
	})

	if len(b.Measures) != 2 {
		t.Fatalf("Measures = %d entries, want 2", len(b.Measures))
	}
	heating := b.Measures[0]
	if heating.Type != MeasureHeating || heating.Original != money.FromEuros(900) ||
		heating.Subsidy != money.FromEuros(450) || heating.Final != money.FromEuros(450) {
		t.Fatalf("heating measure = %+v", heating)
	}
	other := b.Measures[1]
	if other.Type != MeasureOther || other.Original != money.FromEuros(1800) ||
		other.Final != money.FromEuros(900) {
		t.Fatalf("other measure = %+v", other)
	}

	wantTotals := Totals{
		FullPrice: money.FromEuros(2820 + 900 + 1800),
		UserPays:  money.FromEuros(1410 + 450 + 900),
		Subsidy:   money.FromEuros(1410 + 450 + 900),
		Discount:  money.FromEuros(180),
	}
	if b.Totals != wantTotals {
		t.Fatalf("Totals = %+v, want %+v", b.Totals, wantTotals)
	}
}

func TestComputeNegativeCeiling(t *testing.T) {
	b := Compute(Input{UnitCount: 1, AreaM2: 10000, IncludeEnergyPlan: true})
	// 30.000 - (40.250 + 39.900 + 900)
	if b.InvestmentCeiling != money.FromEuros(-51050) {
		t.Fatalf("InvestmentCeiling = %v, want -51.050 €", b.InvestmentCeiling)
	}
}

func TestInvestmentBaseCap(t *testing.T) {
	cases := []struct {
		units int
		want  int64
	}{
		{1, 30000},
		{6, 105000},
		{10, 137000},
	}
	for _, tc := range cases {
		if got := InvestmentBaseCap(tc.units); got != money.FromEuros(tc.want) {
			t.Fatalf("InvestmentBaseCap(%d) = %v, want %d €", tc.units, got, tc.want)
		}
	}
}

func TestMeasureTypeValid(t *testing.T) {
	if !MeasureHeating.Valid() || !MeasureOther.Valid() {
		t.Fatal("known measure types must be valid")
	}
	if MeasureType("solar").Valid() {
		t.Fatal("unknown measure type must not be valid")
	}
}
