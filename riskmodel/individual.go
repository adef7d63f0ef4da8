package riskmodel

import (
	"fmt"
	"regexp"
	"strings"
)

var inputAllelePattern = regexp.MustCompile(`^[-0]$|^[ACGT]+$`)

// Genotype is one individual's pair of observed alleles at a SNP, on the
// strand given by OrientRs. "0" marks a missing allele; "-" is the
// deletion allele.
type Genotype struct {
	Allele1  string
	Allele2  string
	OrientRs Orientation
}

// Missing reports whether both alleles are unobserved.
func (g Genotype) Missing() bool {
	return g.Allele1 == "0" && g.Allele2 == "0"
}

// Individual carries one person's genotypes, keyed by rsID.
type Individual struct {
	ID        string
	genotypes map[string]Genotype
}

// NewIndividual returns an Individual with no genotypes. The ID must be
// nonempty.
func NewIndividual(id string) (*Individual, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("individual ID must be nonempty: %w", ErrInvalidInput)
	}

	return &Individual{
		ID:        id,
		genotypes: make(map[string]Genotype),
	}, nil
}

// AddGenotype records the observed alleles at rsID. Re-adding an rsID is
// an error, as is any allele that is not missing ('0'), the deletion
// allele ('-'), or a run of ACGT bases, and a genotype with exactly one
// missing allele.
func (ind *Individual) AddGenotype(rsID, allele1, allele2 string, orientRs Orientation) error {
	if !rsIDPattern.MatchString(rsID) {
		return fmt.Errorf("individual %s: rsID %q must match 'rs[0-9]+': %w", ind.ID, rsID, ErrInvalidInput)
	}

	if _, ok := ind.genotypes[rsID]; ok {
		return fmt.Errorf("individual %s: duplicate genotype for %s: %w", ind.ID, rsID, ErrInvalidInput)
	}

	a1 := strings.ToUpper(allele1)
	a2 := strings.ToUpper(allele2)

	if !inputAllelePattern.MatchString(a1) {
		return fmt.Errorf("individual %s: %s allele 1 %q must be '0', '-', or one or more of ACGT: %w", ind.ID, rsID, allele1, ErrInvalidInput)
	}

	if !inputAllelePattern.MatchString(a2) {
		return fmt.Errorf("individual %s: %s allele 2 %q must be '0', '-', or one or more of ACGT: %w", ind.ID, rsID, allele2, ErrInvalidInput)
	}

	if (a1 == "0") != (a2 == "0") {
		return fmt.Errorf("individual %s: %s alleles %q/%q: neither or both alleles must be missing: %w", ind.ID, rsID, allele1, allele2, ErrInvalidInput)
	}

	ind.genotypes[rsID] = Genotype{Allele1: a1, Allele2: a2, OrientRs: orientRs}

	return nil
}

// Genotype returns the recorded alleles at rsID, if any.
func (ind *Individual) Genotype(rsID string) (Genotype, bool) {
	g, ok := ind.genotypes[rsID]

	return g, ok
}

// NumGenotypes returns the number of recorded SNPs.
func (ind *Individual) NumGenotypes() int {
	return len(ind.genotypes)
}
