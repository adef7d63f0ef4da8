// Package ridders finds roots of one-dimensional functions with Ridders'
// method of false position. The objective may fail (for example when an
// intermediate quantity leaves its numerical domain), so it returns an
// error alongside its value and Solve propagates the failure.
package ridders

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotBracketed indicates the objective has the same sign at both
	// endpoints of the search interval.
	ErrNotBracketed = errors.New("root not bracketed")

	// ErrMaxEvaluations indicates the allowed number of objective
	// evaluations was used up before the root estimate stabilized.
	ErrMaxEvaluations = errors.New("maximum function evaluations exceeded")
)

// Func is an objective whose root is sought. An error return aborts the
// solve.
type Func func(x float64) (float64, error)

// Solve locates a root of f within [x1, x2] to absolute accuracy xacc,
// spending at most maxEval objective evaluations. The objective must
// change sign over the interval.
func Solve(f Func, x1, x2, xacc float64, maxEval int) (float64, error) {
	evals := 0

	eval := func(x float64) (float64, error) {
		if evals >= maxEval {
			return 0, fmt.Errorf("after %d evaluations: %w", evals, ErrMaxEvaluations)
		}
		evals++

		y, err := f(x)
		if err != nil {
			return 0, fmt.Errorf("objective failed at x=%g: %w", x, err)
		}

		return y, nil
	}

	fl, err := eval(x1)
	if err != nil {
		return 0, err
	}

	fh, err := eval(x2)
	if err != nil {
		return 0, err
	}

	if fl == 0 {
		return x1, nil
	}

	if fh == 0 {
		return x2, nil
	}

	if (fl > 0) == (fh > 0) {
		return 0, fmt.Errorf("f(%g)=%g and f(%g)=%g: %w", x1, fl, x2, fh, ErrNotBracketed)
	}

	// Sentinel for "no previous estimate"; any answer within the bracket
	// replaces it on the first pass.
	ans := math.Inf(-1)

	for {
		xm := 0.5 * (x1 + x2)

		fm, err := eval(xm)
		if err != nil {
			return 0, err
		}

		s := math.Sqrt(fm*fm - fl*fh)
		if s == 0 {
			if math.IsInf(ans, -1) {
				return 0, fmt.Errorf("degenerate interval [%g, %g]: %w", x1, x2, ErrNotBracketed)
			}

			return ans, nil
		}

		// False-position update with the superlinear Ridders correction.
		xnew := xm + (xm-x1)*math.Copysign(1, fl-fh)*fm/s
		if !math.IsInf(ans, -1) && math.Abs(xnew-ans) <= xacc {
			return ans, nil
		}

		ans = xnew

		fnew, err := eval(ans)
		if err != nil {
			return 0, err
		}

		if fnew == 0 {
			return ans, nil
		}

		switch {
		case math.Copysign(fm, fnew) != fm:
			x1 = xm
			fl = fm
			x2 = ans
			fh = fnew
		case math.Copysign(fl, fnew) != fl:
			x2 = ans
			fh = fnew
		case math.Copysign(fh, fnew) != fh:
			x1 = ans
			fl = fnew
		default:
			return 0, fmt.Errorf("sign bookkeeping failed near x=%g: %w", ans, ErrNotBracketed)
		}

		if math.Abs(x2-x1) <= xacc {
			return ans, nil
		}
	}
}
