package incidence

import (
	"errors"
	"math"
	"testing"

	"github.com/statgen/prism/riskmodel"
)

func TestSurvivorAccumulatesHazard(t *testing.T) {
	rates := []AnnualRate{
		{Age: 0, Rate: 0},
		{Age: 1, Rate: 0.01},
		{Age: 2, Rate: 0.02},
		{Age: 3, Rate: 0.03},
	}

	ages, surv, err := Survivor(rates)
	if err != nil {
		t.Fatalf("Survivor: %v", err)
	}

	wantAges := []float64{0, 1, 2, 3}
	wantSurv := []float64{1, math.Exp(-0.01), math.Exp(-0.03), math.Exp(-0.06)}

	for i := range wantAges {
		if ages[i] != wantAges[i] {
			t.Errorf("age %d: %g, want %g", i, ages[i], wantAges[i])
		}

		if math.Abs(surv[i]-wantSurv[i]) > 1e-15 {
			t.Errorf("survivor %d: %.17g, want %.17g", i, surv[i], wantSurv[i])
		}
	}

	if surv[0] != 1 {
		t.Errorf("survivor at age 0 is %.17g, want exactly 1", surv[0])
	}
}

func TestSurvivorRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		rates []AnnualRate
	}{
		{"empty", nil},
		{"not starting at zero", []AnnualRate{{Age: 1, Rate: 0}}},
		{"nonzero first hazard", []AnnualRate{{Age: 0, Rate: 0.01}}},
		{"gap in ages", []AnnualRate{{Age: 0, Rate: 0}, {Age: 2, Rate: 0.01}}},
		{"out of order", []AnnualRate{{Age: 0, Rate: 0}, {Age: 2, Rate: 0.01}, {Age: 1, Rate: 0.01}}},
		{"duplicate age", []AnnualRate{{Age: 0, Rate: 0}, {Age: 0, Rate: 0.01}}},
		{"negative rate", []AnnualRate{{Age: 0, Rate: 0}, {Age: 1, Rate: -0.01}}},
		{"NaN rate", []AnnualRate{{Age: 0, Rate: 0}, {Age: 1, Rate: math.NaN()}}},
	}

	for _, test := range tests {
		if _, _, err := Survivor(test.rates); !errors.Is(err, riskmodel.ErrInvalidInput) {
			t.Errorf("%s: got error %v, want ErrInvalidInput", test.name, err)
		}
	}
}

func TestSurvivorZeroRates(t *testing.T) {
	_, surv, err := Survivor([]AnnualRate{{Age: 0, Rate: 0}, {Age: 1, Rate: 0}})
	if err != nil {
		t.Fatalf("Survivor: %v", err)
	}

	if surv[0] != 1 || surv[1] != 1 {
		t.Errorf("zero hazard must give survivor exactly 1, got %v", surv)
	}
}
