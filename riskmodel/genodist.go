package riskmodel

import (
	"fmt"
	"math"
)

type distMode int

const (
	distExact distMode = iota
	distMonteCarlo
)

// genotypeDist is the joint distribution of the linear predictor eta over
// multivariant genotypes, assuming Hardy-Weinberg equilibrium at each SNP
// and linkage equilibrium between SNPs. In exact mode it enumerates all
// 3^k genotypes with their log probabilities; in Monte Carlo mode it holds
// an equally weighted sample.
type genotypeDist struct {
	mode    distMode
	etas    []float64
	lnProbs []float64 // exact mode only, parallel to etas
}

func (d genotypeDist) size() int {
	return len(d.etas)
}

func (d genotypeDist) eta(i int) float64 {
	return d.etas[i]
}

// weight returns the probability mass attached to entry i.
func (d genotypeDist) weight(i int) float64 {
	if d.mode == distExact {
		return math.Exp(d.lnProbs[i])
	}

	return 1 / float64(len(d.etas))
}

// expectedSurvival computes E[baseSurv^exp(eta)] over the distribution.
func (d genotypeDist) expectedSurvival(baseSurv float64) float64 {
	lnBase := math.Log(baseSurv)

	sum := 0.0
	if d.mode == distExact {
		for i, eta := range d.etas {
			sum += math.Exp(d.lnProbs[i] + lnBase*math.Exp(eta))
		}

		return sum
	}

	for _, eta := range d.etas {
		sum += math.Exp(lnBase * math.Exp(eta))
	}

	return sum / float64(len(d.etas))
}

// exactGenoDist enumerates all 3^k multivariant genotypes in ternary
// order, with the first SNP as the most significant digit. The summed
// probability mass must be 1 within eps.
func exactGenoDist(snps []SNP, eps float64) (genotypeDist, error) {
	k := len(snps)

	n := 1
	for i := 0; i < k; i++ {
		n *= 3
	}

	d := genotypeDist{
		mode:    distExact,
		etas:    make([]float64, n),
		lnProbs: make([]float64, n),
	}

	totalProb := 0.0

	for i := 0; i < n; i++ {
		eta := 0.0
		lnProb := 0.0

		rem := i
		for j := k - 1; j >= 0; j-- {
			g := rem % 3
			rem /= 3

			eta += float64(g) * snps[j].Allele2LnHR
			lnProb += snps[j].LnProbGeno(g)
		}

		d.etas[i] = eta
		d.lnProbs[i] = lnProb
		totalProb += math.Exp(lnProb)
	}

	if !equalWithinEpsilon(totalProb, 1, eps) {
		return genotypeDist{}, fmt.Errorf("genotype probabilities sum to %.17g, not 1: %w", totalProb, ErrNumericInvariant)
	}

	return d, nil
}

// monteCarloGenoDist draws sampSize multivariant genotypes. Draws are
// consumed sample by sample, and within each sample SNP by SNP in model
// order, two uniforms per SNP, so a seeded source reproduces exactly.
func monteCarloGenoDist(snps []SNP, sampSize int, rng UniformSource) genotypeDist {
	d := genotypeDist{
		mode: distMonteCarlo,
		etas: make([]float64, sampSize),
	}

	for i := 0; i < sampSize; i++ {
		eta := 0.0
		for _, s := range snps {
			eta += float64(s.RandGeno(rng)) * s.Allele2LnHR
		}

		d.etas[i] = eta
	}

	return d
}

// newGenotypeDist picks exact enumeration when the SNP count permits it
// and falls back to Monte Carlo sampling otherwise. The returned bool
// reports whether sampling was used.
func newGenotypeDist(snps []SNP, cfg Config) (genotypeDist, bool, error) {
	if len(snps) <= cfg.MaxSNPsExact {
		d, err := exactGenoDist(snps, cfg.ProbCmpEpsilon)

		return d, false, err
	}

	rng := NewMersenneTwisterSource(cfg.RngSeed)

	return monteCarloGenoDist(snps, cfg.MonteCarloSampSize, rng), true, nil
}
