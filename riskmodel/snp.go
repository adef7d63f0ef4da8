package riskmodel

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	rsIDPattern   = regexp.MustCompile(`^rs[0-9]+$`)
	allelePattern = regexp.MustCompile(`^-$|^[ACGT]+$`)
)

// SNP describes one biallelic variant in a risk model: its population
// alleles on a fixed reporting strand, the population frequency of the
// risk allele (allele 2), and the per-copy log hazard ratio.
type SNP struct {
	RsID        string      `json:"rsID"`
	SourcePub   string      `json:"sourcePub"`
	Allele1     string      `json:"allele1"`
	Allele2     string      `json:"allele2"`
	OrientRs    Orientation `json:"orientRs"`
	Allele2Freq float64     `json:"allele2Freq"`
	Allele2LnHR float64     `json:"allele2LnHR"`
}

// NewSNP validates and normalizes the fields of a model SNP. Alleles are
// uppercased; "-" denotes a deletion. Allele2Freq must lie strictly within
// (0,1) and Allele2LnHR must be finite.
func NewSNP(rsID, sourcePub, allele1, allele2 string, orientRs Orientation, allele2Freq, allele2LnHR float64) (SNP, error) {
	allele1 = strings.ToUpper(allele1)
	allele2 = strings.ToUpper(allele2)

	if !rsIDPattern.MatchString(rsID) {
		return SNP{}, fmt.Errorf("rsID %q must match 'rs[0-9]+': %w", rsID, ErrInvalidInput)
	}

	if !allelePattern.MatchString(allele1) {
		return SNP{}, fmt.Errorf("%s: allele 1 %q must be '-' or one or more of ACGT: %w", rsID, allele1, ErrInvalidInput)
	}

	if !allelePattern.MatchString(allele2) {
		return SNP{}, fmt.Errorf("%s: allele 2 %q must be '-' or one or more of ACGT: %w", rsID, allele2, ErrInvalidInput)
	}

	if allele1 == allele2 {
		return SNP{}, fmt.Errorf("%s: alleles must differ, got %q for both: %w", rsID, allele1, ErrInvalidInput)
	}

	if !(allele2Freq > 0 && allele2Freq < 1) {
		return SNP{}, fmt.Errorf("%s: allele 2 frequency %g must be in (0,1): %w", rsID, allele2Freq, ErrInvalidInput)
	}

	if math.IsNaN(allele2LnHR) || math.IsInf(allele2LnHR, 0) {
		return SNP{}, fmt.Errorf("%s: allele 2 ln hazard ratio %g must be finite: %w", rsID, allele2LnHR, ErrInvalidInput)
	}

	return SNP{
		RsID:        rsID,
		SourcePub:   sourcePub,
		Allele1:     allele1,
		Allele2:     allele2,
		OrientRs:    orientRs,
		Allele2Freq: allele2Freq,
		Allele2LnHR: allele2LnHR,
	}, nil
}

// LnProbGeno returns the natural log of the Hardy-Weinberg probability of
// carrying g copies of allele 2, for g in {0,1,2}.
func (s SNP) LnProbGeno(g int) float64 {
	p := s.Allele2Freq

	lnProb := float64(g)*math.Log(p) + float64(2-g)*math.Log(1-p)
	if g == 1 {
		lnProb += math.Ln2
	}

	return lnProb
}

// RandGeno draws a genotype (0, 1, or 2 copies of allele 2) under
// Hardy-Weinberg equilibrium, consuming exactly two uniform draws in a
// fixed order so that seeded streams reproduce.
func (s SNP) RandGeno(rng UniformSource) int {
	g := 0

	if rng.Float64() < s.Allele2Freq {
		g++
	}

	if rng.Float64() < s.Allele2Freq {
		g++
	}

	return g
}

// complementStrand maps each base of an allele string to its Watson-Crick
// complement. The deletion allele "-" is its own complement.
func complementStrand(allele string) (string, error) {
	if allele == "-" {
		return "-", nil
	}

	var sb strings.Builder
	for _, base := range allele {
		switch base {
		case 'A':
			sb.WriteByte('T')
		case 'T':
			sb.WriteByte('A')
		case 'C':
			sb.WriteByte('G')
		case 'G':
			sb.WriteByte('C')
		default:
			return "", fmt.Errorf("cannot complement base %q in allele %q: %w", string(base), allele, ErrInvalidGenotype)
		}
	}

	return sb.String(), nil
}

// GenoScore computes the log hazard ratio contribution of an observed
// genotype at this SNP. The input alleles are reported on the strand given
// by inOrient and are reconciled to the SNP's own strand before matching.
// A genotype of "0" for both alleles means missing, and contributes the
// Hardy-Weinberg expected score; "-" is the deletion allele, not a
// missing marker. Exactly one missing allele is an error.
func (s SNP) GenoScore(inAllele1, inAllele2 string, inOrient Orientation) (float64, error) {
	a1 := strings.ToUpper(inAllele1)
	a2 := strings.ToUpper(inAllele2)

	missing1 := a1 == "0"
	missing2 := a2 == "0"

	if missing1 != missing2 {
		return 0, fmt.Errorf("%s: alleles %q/%q: neither or both alleles must be missing: %w", s.RsID, inAllele1, inAllele2, ErrInvalidGenotype)
	}

	if missing1 && missing2 {
		p := s.Allele2Freq

		return s.Allele2LnHR*2*p*(1-p) + 2*s.Allele2LnHR*p*p, nil
	}

	if !allelePattern.MatchString(a1) {
		return 0, fmt.Errorf("%s: input allele 1 %q must be '-', '0', or one or more of ACGT: %w", s.RsID, inAllele1, ErrInvalidGenotype)
	}

	if !allelePattern.MatchString(a2) {
		return 0, fmt.Errorf("%s: input allele 2 %q must be '-', '0', or one or more of ACGT: %w", s.RsID, inAllele2, ErrInvalidGenotype)
	}

	if inOrient != s.OrientRs {
		var err error

		a1, err = complementStrand(a1)
		if err != nil {
			return 0, err
		}

		a2, err = complementStrand(a2)
		if err != nil {
			return 0, err
		}
	}

	g := 0

	for _, a := range []string{a1, a2} {
		switch a {
		case s.Allele2:
			g++
		case s.Allele1:
			// zero copies of allele 2
		default:
			return 0, fmt.Errorf("%s: input allele %q matches neither population allele %q nor %q after strand reconciliation: %w",
				s.RsID, a, s.Allele1, s.Allele2, ErrInvalidGenotype)
		}
	}

	return float64(g) * s.Allele2LnHR, nil
}
