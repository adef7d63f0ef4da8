package riskmodel

import (
	"fmt"
	"math"

	"github.com/statgen/prism/ridders"
)

// solveBaseSurv recovers the baseline survivor function from the marginal
// one: for each time point it finds baseSurv in [0,1] such that the
// genotype-distribution expectation of baseSurv^exp(eta) equals the
// marginal survivor probability.
//
// Marginal values equal within eps reuse the previous solution rather
// than re-solving, which keeps the baseline exactly non-increasing where
// the marginal curve is flat.
func solveBaseSurv(margSurv []float64, dist genotypeDist, cfg Config) ([]float64, error) {
	baseSurv := make([]float64, len(margSurv))

	for i, m := range margSurv {
		if i > 0 && equalWithinEpsilon(m, margSurv[i-1], cfg.ProbCmpEpsilon) {
			baseSurv[i] = baseSurv[i-1]

			continue
		}

		switch {
		case equalWithinULP(m, 1):
			baseSurv[i] = 1
		case equalWithinULP(m, 0):
			baseSurv[i] = 0
		default:
			obj := func(b float64) (float64, error) {
				v := dist.expectedSurvival(b)
				if math.IsNaN(v) {
					return 0, fmt.Errorf("expected survival undefined at baseline %g", b)
				}

				return v - m, nil
			}

			root, err := ridders.Solve(obj, 0, 1, cfg.ProbCmpEpsilon, cfg.SolverMaxEval)
			if err != nil {
				return nil, fmt.Errorf("baseline survivor at index %d (marginal %g): %v: %w", i, m, err, ErrSolverFailed)
			}

			baseSurv[i] = root
		}

		if i > 0 && baseSurv[i] > baseSurv[i-1] {
			if !equalWithinEpsilon(baseSurv[i], baseSurv[i-1], cfg.ProbCmpEpsilon) {
				return nil, fmt.Errorf("baseline survivor rises from %.17g to %.17g at index %d: %w",
					baseSurv[i-1], baseSurv[i], i, ErrNumericInvariant)
			}

			baseSurv[i] = baseSurv[i-1]
		}
	}

	return baseSurv, nil
}
