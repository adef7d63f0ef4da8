// Package riskmodel builds absolute-risk prediction models from published
// per-SNP hazard ratios and marginal disease-free survival, and applies
// them to individual genotypes. Models assume Hardy-Weinberg equilibrium
// at each SNP, linkage equilibrium between SNPs, and proportional hazards
// for the combined linear predictor.
package riskmodel

import (
	"fmt"
	"log"
	"math"
)

// RiskModel is an immutable fitted model: its SNPs, the time grid with
// marginal survivor probabilities, the recovered baseline survivor
// function, and the genotype distribution used to recover it.
type RiskModel struct {
	modelID  string
	snps     []SNP
	times    []float64
	margSurv []float64
	baseSurv []float64
	dist     genotypeDist
	sampled  bool
	cfg      Config
}

// New builds a model with the default constants.
func New(modelID string, snps []SNP, times, margSurv []float64) (*RiskModel, error) {
	return newModel(modelID, snps, times, margSurv, DefaultConfig(), false)
}

// NewExact builds a model with the default constants and demands exact
// genotype enumeration. It fails rather than sampling when the SNP count
// exceeds the exact enumeration limit.
func NewExact(modelID string, snps []SNP, times, margSurv []float64) (*RiskModel, error) {
	return newModel(modelID, snps, times, margSurv, DefaultConfig(), true)
}

// NewWithConfig validates the model inputs, constructs the multivariant
// genotype distribution (exact when the SNP count allows, Monte Carlo
// otherwise), and solves for the baseline survivor function.
func NewWithConfig(modelID string, snps []SNP, times, margSurv []float64, cfg Config) (*RiskModel, error) {
	return newModel(modelID, snps, times, margSurv, cfg, false)
}

func newModel(modelID string, snps []SNP, times, margSurv []float64, cfg Config, forceExact bool) (*RiskModel, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model ID must be nonempty: %w", ErrInvalidArgument)
	}

	if len(snps) == 0 {
		return nil, fmt.Errorf("model %s: at least one SNP is required: %w", modelID, ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(snps))
	for _, s := range snps {
		if _, dup := seen[s.RsID]; dup {
			return nil, fmt.Errorf("model %s: duplicate SNP %s: %w", modelID, s.RsID, ErrInvalidArgument)
		}
		seen[s.RsID] = struct{}{}
	}

	if forceExact && len(snps) > cfg.MaxSNPsExact {
		return nil, fmt.Errorf("model %s: exact enumeration requested for %d SNPs, limit is %d: %w",
			modelID, len(snps), cfg.MaxSNPsExact, ErrInvalidArgument)
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("model %s: at least one time point is required: %w", modelID, ErrInvalidArgument)
	}

	if len(times) != len(margSurv) {
		return nil, fmt.Errorf("model %s: %d times but %d marginal survivor values: %w",
			modelID, len(times), len(margSurv), ErrInvalidArgument)
	}

	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, fmt.Errorf("model %s: time %g at index %d must be finite and nonnegative: %w",
				modelID, t, i, ErrInvalidArgument)
		}

		if i > 0 && t <= times[i-1] {
			return nil, fmt.Errorf("model %s: times must be strictly increasing, got %g after %g: %w",
				modelID, t, times[i-1], ErrInvalidArgument)
		}
	}

	for i, m := range margSurv {
		if !(m >= 0 && m <= 1) {
			return nil, fmt.Errorf("model %s: marginal survivor %g at index %d must be in [0,1]: %w",
				modelID, m, i, ErrInvalidArgument)
		}

		if i > 0 && m > margSurv[i-1] && !equalWithinEpsilon(m, margSurv[i-1], cfg.ProbCmpEpsilon) {
			return nil, fmt.Errorf("model %s: marginal survivor must be non-increasing, rises from %g to %g at index %d: %w",
				modelID, margSurv[i-1], m, i, ErrInvalidArgument)
		}
	}

	m := &RiskModel{
		modelID:  modelID,
		snps:     append([]SNP(nil), snps...),
		times:    append([]float64(nil), times...),
		margSurv: append([]float64(nil), margSurv...),
		cfg:      cfg,
	}

	dist, sampled, err := newGenotypeDist(m.snps, cfg)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelID, err)
	}

	if sampled {
		log.Printf("model %s: %d SNPs exceeds the exact enumeration limit of %d, using a Monte Carlo sample of %d genotypes",
			modelID, len(m.snps), cfg.MaxSNPsExact, cfg.MonteCarloSampSize)
	}

	m.dist = dist
	m.sampled = sampled

	m.baseSurv, err = solveBaseSurv(m.margSurv, m.dist, cfg)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelID, err)
	}

	return m, nil
}

// ModelID returns the model's identifier.
func (m *RiskModel) ModelID() string {
	return m.modelID
}

// SNPs returns a copy of the model's SNPs in model order.
func (m *RiskModel) SNPs() []SNP {
	return append([]SNP(nil), m.snps...)
}

// Times returns a copy of the model's time grid.
func (m *RiskModel) Times() []float64 {
	return append([]float64(nil), m.times...)
}

// MargSurv returns a copy of the marginal survivor function.
func (m *RiskModel) MargSurv() []float64 {
	return append([]float64(nil), m.margSurv...)
}

// BaseSurv returns a copy of the recovered baseline survivor function.
func (m *RiskModel) BaseSurv() []float64 {
	return append([]float64(nil), m.baseSurv...)
}

// Sampled reports whether the genotype distribution was Monte Carlo
// sampled rather than exactly enumerated.
func (m *RiskModel) Sampled() bool {
	return m.sampled
}

// Config returns the constants the model was built with.
func (m *RiskModel) Config() Config {
	return m.cfg
}

// LinearPredictor sums the per-SNP genotype scores of an individual over
// the model's SNPs. A SNP the individual has no record for contributes
// its population-expected score, exactly as a recorded fully missing
// genotype does.
func (m *RiskModel) LinearPredictor(ind *Individual) (float64, []UsedGenotype, error) {
	eta := 0.0
	used := make([]UsedGenotype, 0, len(m.snps))

	for _, s := range m.snps {
		g, ok := ind.Genotype(s.RsID)
		if !ok {
			g = Genotype{Allele1: "0", Allele2: "0", OrientRs: s.OrientRs}
		}

		score, err := s.GenoScore(g.Allele1, g.Allele2, g.OrientRs)
		if err != nil {
			return 0, nil, fmt.Errorf("individual %s: %w", ind.ID, err)
		}

		eta += score
		used = append(used, UsedGenotype{
			RsID:     s.RsID,
			Allele1:  g.Allele1,
			Allele2:  g.Allele2,
			OrientRs: g.OrientRs,
			Missing:  g.Missing(),
			Score:    score,
		})
	}

	return eta, used, nil
}

// Percentile returns the population fraction whose linear predictor is
// less than or equal to eta, under the model's genotype distribution.
func (m *RiskModel) Percentile(eta float64) float64 {
	mass := 0.0
	for i := 0; i < m.dist.size(); i++ {
		if m.dist.eta(i) <= eta || equalWithinULP(m.dist.eta(i), eta) {
			mass += m.dist.weight(i)
		}
	}

	if mass > 1 {
		mass = 1
	}

	return mass
}

// GetRiskPrediction computes an individual's linear predictor, its
// population percentile, and the cumulative disease risk at each of the
// model's time points.
func (m *RiskModel) GetRiskPrediction(ind *Individual) (RiskPrediction, error) {
	eta, used, err := m.LinearPredictor(ind)
	if err != nil {
		return RiskPrediction{}, err
	}

	hr := math.Exp(eta)

	cumRisk := make([]float64, len(m.times))
	for i, b := range m.baseSurv {
		cumRisk[i] = 1 - math.Exp(math.Log(b)*hr)
	}

	return RiskPrediction{
		IndividualID:  ind.ID,
		ModelID:       m.modelID,
		Eta:           eta,
		Percentile:    m.Percentile(eta),
		Times:         append([]float64(nil), m.times...),
		CumRisk:       cumRisk,
		UsedGenotypes: used,
	}, nil
}
