package riskmodel

import (
	"math"
	"testing"
)

// marginalFromBaseline reconstructs the marginal survivor curve from a
// chosen baseline through the mixture identity, so the solver can be
// checked against a known answer.
func marginalFromBaseline(dist genotypeDist, baseSurv []float64) []float64 {
	marg := make([]float64, len(baseSurv))
	for i, b := range baseSurv {
		marg[i] = dist.expectedSurvival(b)
	}

	return marg
}

func fiveTestSNPs(t *testing.T) []SNP {
	t.Helper()

	return []SNP{
		mustSNP(t, "rs101", "A", "G", Forward, 0.12, 0.41),
		mustSNP(t, "rs102", "C", "T", Reverse, 0.37, -0.22),
		mustSNP(t, "rs103", "A", "C", Forward, 0.58, 0.09),
		mustSNP(t, "rs104", "G", "T", Forward, 0.81, -0.47),
		mustSNP(t, "rs105", "A", "T", Reverse, 0.26, 0.33),
	}
}

func TestSolveBaseSurvRecoversKnownBaseline(t *testing.T) {
	cfg := DefaultConfig()
	snps := fiveTestSNPs(t)

	dist, err := exactGenoDist(snps, cfg.ProbCmpEpsilon)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	baseline := []float64{1, 0.97, 0.84, 0.61, 0.25, 0}

	marg := marginalFromBaseline(dist, baseline)

	recovered, err := solveBaseSurv(marg, dist, cfg)
	if err != nil {
		t.Fatalf("solveBaseSurv: %v", err)
	}

	for i, want := range baseline {
		if math.Abs(recovered[i]-want) > 1e-8 {
			t.Errorf("index %d: recovered baseline %.12g, want %.12g", i, recovered[i], want)
		}
	}
}

func TestSolveBaseSurvBoundaries(t *testing.T) {
	cfg := DefaultConfig()

	dist, err := exactGenoDist([]SNP{mustSNP(t, "rs1", "A", "G", Forward, 0.2, 0.5)}, cfg.ProbCmpEpsilon)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	recovered, err := solveBaseSurv([]float64{1, 0.5, 0}, dist, cfg)
	if err != nil {
		t.Fatalf("solveBaseSurv: %v", err)
	}

	if recovered[0] != 1 {
		t.Errorf("marginal 1 must give baseline exactly 1, got %.17g", recovered[0])
	}

	if recovered[2] != 0 {
		t.Errorf("marginal 0 must give baseline exactly 0, got %.17g", recovered[2])
	}

	if !(recovered[1] > 0 && recovered[1] < 1) {
		t.Errorf("interior baseline %.17g out of (0,1)", recovered[1])
	}
}

func TestSolveBaseSurvFlatMarginalReusesSolution(t *testing.T) {
	cfg := DefaultConfig()

	dist, err := exactGenoDist([]SNP{mustSNP(t, "rs1", "A", "G", Forward, 0.2, 0.5)}, cfg.ProbCmpEpsilon)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	recovered, err := solveBaseSurv([]float64{0.8, 0.8, 0.8}, dist, cfg)
	if err != nil {
		t.Fatalf("solveBaseSurv: %v", err)
	}

	if recovered[0] != recovered[1] || recovered[1] != recovered[2] {
		t.Errorf("flat marginal must reuse the solved baseline, got %v", recovered)
	}
}

func TestSolveBaseSurvMonteCarloRecovery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MonteCarloSampSize = 20000

	snps := fiveTestSNPs(t)

	exact, err := exactGenoDist(snps, cfg.ProbCmpEpsilon)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	sampled := monteCarloGenoDist(snps, cfg.MonteCarloSampSize, NewMersenneTwisterSource(cfg.RngSeed))

	baseline := []float64{0.95, 0.8, 0.5}

	marg := marginalFromBaseline(exact, baseline)

	recovered, err := solveBaseSurv(marg, sampled, cfg)
	if err != nil {
		t.Fatalf("solveBaseSurv: %v", err)
	}

	// A 20k sample bounds the marginal estimate well inside 0.05 with
	// overwhelming probability, and the fixed seed makes this exact run
	// reproducible.
	for i, want := range baseline {
		if math.Abs(recovered[i]-want) > 0.05 {
			t.Errorf("index %d: Monte Carlo recovered baseline %.6g, want %.6g within 0.05", i, recovered[i], want)
		}
	}
}
