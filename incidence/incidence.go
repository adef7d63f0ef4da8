// Package incidence converts tables of annual disease incidence into the
// marginal disease-free survivor function a risk model is built from.
package incidence

import (
	"fmt"
	"math"

	"github.com/statgen/prism/riskmodel"
)

// AnnualRate is the incidence (hazard) of disease during the year of life
// ending at the given age.
type AnnualRate struct {
	Age  float64
	Rate float64
}

// Survivor converts annual incidence rates into the marginal survivor
// function via cumulative-hazard summation: S(a) = exp(-sum of rates for
// ages <= a). Rows must cover ages 0, 1, ..., A in order with no gaps,
// and the rate at age 0 must be exactly 0, so that S(0) = 1.
func Survivor(rates []AnnualRate) (ages, surv []float64, err error) {
	if len(rates) == 0 {
		return nil, nil, fmt.Errorf("at least one annual incidence row is required: %w", riskmodel.ErrInvalidInput)
	}

	ages = make([]float64, len(rates))
	surv = make([]float64, len(rates))

	cumHazard := 0.0

	for i, r := range rates {
		if r.Age != float64(i) {
			return nil, nil, fmt.Errorf("row %d: ages must run 0, 1, ... with no gaps or reordering, got age %g: %w",
				i, r.Age, riskmodel.ErrInvalidInput)
		}

		if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) || r.Rate < 0 {
			return nil, nil, fmt.Errorf("age %g: annual incidence %g must be finite and nonnegative: %w",
				r.Age, r.Rate, riskmodel.ErrInvalidInput)
		}

		if i == 0 && r.Rate != 0 {
			return nil, nil, fmt.Errorf("annual incidence at age 0 must be 0, got %g: %w", r.Rate, riskmodel.ErrInvalidInput)
		}

		cumHazard += r.Rate
		ages[i] = r.Age
		surv[i] = math.Exp(-cumHazard)
	}

	return ages, surv, nil
}
