package riskmodel

import (
	"fmt"
	"math"
	"testing"
)

func TestExactGenoDistSingleSNP(t *testing.T) {
	p := 0.2
	s := mustSNP(t, "rs1", "A", "G", Forward, p, 0.5)

	d, err := exactGenoDist([]SNP{s}, 1e-10)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	if d.size() != 3 {
		t.Fatalf("size %d, want 3", d.size())
	}

	wantProbs := []float64{(1 - p) * (1 - p), 2 * p * (1 - p), p * p}
	wantEtas := []float64{0, 0.5, 1.0}

	for i := 0; i < 3; i++ {
		if math.Abs(d.weight(i)-wantProbs[i]) > 1e-12 {
			t.Errorf("entry %d: weight %.17g, want %.17g", i, d.weight(i), wantProbs[i])
		}

		if math.Abs(d.eta(i)-wantEtas[i]) > 1e-12 {
			t.Errorf("entry %d: eta %.17g, want %.17g", i, d.eta(i), wantEtas[i])
		}
	}
}

func TestExactGenoDistTwoSNPs(t *testing.T) {
	snps := []SNP{
		mustSNP(t, "rs1", "A", "G", Forward, 0.3, math.Log(2)),
		mustSNP(t, "rs2", "C", "T", Forward, 0.4, math.Log(1.5)),
	}

	d, err := exactGenoDist(snps, 1e-10)
	if err != nil {
		t.Fatalf("exactGenoDist: %v", err)
	}

	if d.size() != 9 {
		t.Fatalf("size %d, want 9", d.size())
	}

	total := 0.0
	for i := 0; i < d.size(); i++ {
		total += d.weight(i)
	}

	if math.Abs(total-1) > 1e-12 {
		t.Errorf("weights sum to %.17g, want 1", total)
	}

	// Ternary enumeration order: index i encodes (g1, g2) with the first
	// SNP as the most significant digit.
	for i := 0; i < 9; i++ {
		g1, g2 := i/3, i%3

		wantEta := float64(g1)*math.Log(2) + float64(g2)*math.Log(1.5)
		if math.Abs(d.eta(i)-wantEta) > 1e-12 {
			t.Errorf("entry %d (g1=%d, g2=%d): eta %.17g, want %.17g", i, g1, g2, d.eta(i), wantEta)
		}

		wantLnProb := snps[0].LnProbGeno(g1) + snps[1].LnProbGeno(g2)
		if math.Abs(d.lnProbs[i]-wantLnProb) > 1e-12 {
			t.Errorf("entry %d: lnProb %.17g, want %.17g", i, d.lnProbs[i], wantLnProb)
		}
	}
}

func TestMonteCarloGenoDistDeterminism(t *testing.T) {
	snps := []SNP{
		mustSNP(t, "rs1", "A", "G", Forward, 0.3, 0.2),
		mustSNP(t, "rs2", "C", "T", Forward, 0.4, -0.1),
	}

	a := monteCarloGenoDist(snps, 5000, NewMersenneTwisterSource(314159265))
	b := monteCarloGenoDist(snps, 5000, NewMersenneTwisterSource(314159265))

	if a.size() != 5000 || b.size() != 5000 {
		t.Fatalf("sizes %d and %d, want 5000", a.size(), b.size())
	}

	for i := 0; i < a.size(); i++ {
		if a.eta(i) != b.eta(i) {
			t.Fatalf("sample %d: eta %.17g != %.17g from identically seeded sources", i, a.eta(i), b.eta(i))
		}
	}

	wantWeight := 1.0 / 5000
	if a.weight(0) != wantWeight || a.weight(4999) != wantWeight {
		t.Errorf("Monte Carlo weights %g and %g, want %g", a.weight(0), a.weight(4999), wantWeight)
	}
}

func TestNewGenotypeDistPicksMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MonteCarloSampSize = 1000

	small := []SNP{mustSNP(t, "rs1", "A", "G", Forward, 0.2, 0.5)}

	d, sampled, err := newGenotypeDist(small, cfg)
	if err != nil {
		t.Fatalf("newGenotypeDist exact: %v", err)
	}

	if sampled || d.mode != distExact {
		t.Errorf("1 SNP: expected exact enumeration, got sampled=%v mode=%d", sampled, d.mode)
	}

	var many []SNP
	for i := 0; i < cfg.MaxSNPsExact+1; i++ {
		many = append(many, mustSNP(t, rsIDForIndex(i), "A", "G", Forward, 0.2, 0.01))
	}

	d, sampled, err = newGenotypeDist(many, cfg)
	if err != nil {
		t.Fatalf("newGenotypeDist sampled: %v", err)
	}

	if !sampled || d.mode != distMonteCarlo {
		t.Errorf("%d SNPs: expected Monte Carlo sampling, got sampled=%v mode=%d", len(many), sampled, d.mode)
	}

	if d.size() != cfg.MonteCarloSampSize {
		t.Errorf("sample size %d, want %d", d.size(), cfg.MonteCarloSampSize)
	}
}

func rsIDForIndex(i int) string {
	return fmt.Sprintf("rs%d", 100+i)
}
