package ridders

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestSolveFindsRoots(t *testing.T) {
	tests := []struct {
		name   string
		f      Func
		x1, x2 float64
		want   float64
	}{
		{
			"square root of two",
			func(x float64) (float64, error) { return x*x - 2, nil },
			0, 2,
			math.Sqrt2,
		},
		{
			"cosine fixed point",
			func(x float64) (float64, error) { return math.Cos(x) - x, nil },
			0, 1,
			0.7390851332151607,
		},
		{
			"cubic",
			func(x float64) (float64, error) { return x*x*x - x - 2, nil },
			1, 2,
			1.5213797068045676,
		},
		{
			"exponential decay crossing",
			func(x float64) (float64, error) { return math.Exp(-x) - 0.5, nil },
			0, 10,
			math.Ln2,
		},
	}

	for _, test := range tests {
		got, err := Solve(test.f, test.x1, test.x2, 1e-10, 100)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)

			continue
		}

		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("%s: root %.15g, want %.15g", test.name, got, test.want)
		}
	}
}

func TestSolveExactEndpointRoot(t *testing.T) {
	f := func(x float64) (float64, error) { return x, nil }

	got, err := Solve(f, 0, 1, 1e-10, 100)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if got != 0 {
		t.Errorf("root %.17g, want 0 exactly", got)
	}
}

func TestSolveNotBracketed(t *testing.T) {
	f := func(x float64) (float64, error) { return x*x + 1, nil }

	if _, err := Solve(f, -1, 1, 1e-10, 100); !errors.Is(err, ErrNotBracketed) {
		t.Errorf("got error %v, want ErrNotBracketed", err)
	}
}

func TestSolvePropagatesObjectiveError(t *testing.T) {
	boom := fmt.Errorf("domain failure")

	f := func(x float64) (float64, error) {
		if x > 0.4 && x < 0.6 {
			return 0, boom
		}

		return x - 0.5, nil
	}

	_, err := Solve(f, 0, 1, 1e-10, 100)
	if err == nil {
		t.Fatal("expected an error from the failing objective")
	}
}

func TestSolveMaxEvaluations(t *testing.T) {
	f := func(x float64) (float64, error) { return math.Atan(x) - 0.5, nil }

	if _, err := Solve(f, 0, 10, 0, 3); !errors.Is(err, ErrMaxEvaluations) {
		t.Errorf("got error %v, want ErrMaxEvaluations", err)
	}
}
