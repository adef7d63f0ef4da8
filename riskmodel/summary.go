package riskmodel

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// summaryQuantiles are the linear-predictor quantiles reported by
// Describe.
var summaryQuantiles = []float64{0.01, 0.05, 0.25, 0.5, 0.75, 0.95, 0.99}

// etaDistribution returns the distribution's linear predictors sorted
// ascending, with matching probability weights (nil when equally
// weighted).
func (m *RiskModel) etaDistribution() (etas, weights []float64) {
	n := m.dist.size()

	etas = make([]float64, n)
	for i := 0; i < n; i++ {
		etas[i] = m.dist.eta(i)
	}

	if m.dist.mode == distExact {
		weights = make([]float64, n)
		for i := 0; i < n; i++ {
			weights[i] = m.dist.weight(i)
		}

		sort.Sort(etaWeightPairs{etas: etas, weights: weights})

		return etas, weights
	}

	sort.Float64s(etas)

	return etas, nil
}

type etaWeightPairs struct {
	etas    []float64
	weights []float64
}

func (p etaWeightPairs) Len() int           { return len(p.etas) }
func (p etaWeightPairs) Less(i, j int) bool { return p.etas[i] < p.etas[j] }
func (p etaWeightPairs) Swap(i, j int) {
	p.etas[i], p.etas[j] = p.etas[j], p.etas[i]
	p.weights[i], p.weights[j] = p.weights[j], p.weights[i]
}

// Describe writes a human-readable report of the model: its SNPs, the
// population distribution of the linear predictor, and the survivor life
// table.
func (m *RiskModel) Describe(w io.Writer) error {
	mode := fmt.Sprintf("exact enumeration of %d genotypes", m.dist.size())
	if m.sampled {
		mode = fmt.Sprintf("Monte Carlo sample of %d genotypes", m.dist.size())
	}

	if _, err := fmt.Fprintf(w, "Risk model %s: %d SNPs, %s\n\n", m.modelID, len(m.snps), mode); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "rsID\tsource\tallele1\tallele2\torientation\tallele2Freq\tallele2LnHR\tallele2HR"); err != nil {
		return err
	}

	for _, s := range m.snps {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.6g\t%.6g\t%.6g\n",
			s.RsID, s.SourcePub, s.Allele1, s.Allele2, s.OrientRs, s.Allele2Freq, s.Allele2LnHR, math.Exp(s.Allele2LnHR))
		if err != nil {
			return err
		}
	}

	etas, weights := m.etaDistribution()

	if _, err := fmt.Fprintf(w, "\nLinear predictor: mean %.6g, sd %.6g\n",
		stat.Mean(etas, weights), stat.StdDev(etas, weights)); err != nil {
		return err
	}

	for _, q := range summaryQuantiles {
		_, err := fmt.Fprintf(w, "  %2.0f%%\t%.6g\n", q*100, stat.Quantile(q, stat.Empirical, etas, weights))
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nage\tmarginalSurvival\tbaselineSurvival"); err != nil {
		return err
	}

	for i, t := range m.times {
		if _, err := fmt.Fprintf(w, "%g\t%.8g\t%.8g\n", t, m.margSurv[i], m.baseSurv[i]); err != nil {
			return err
		}
	}

	return nil
}
