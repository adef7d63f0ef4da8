package riskmodel

import "errors"

// Error kinds used throughout the model-building and prediction pipeline.
// They are wrapped with %w so callers can branch with errors.Is across
// package boundaries.
var (
	// ErrInvalidInput indicates a malformed rsID, allele, or input row.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidArgument indicates a structurally invalid model argument,
	// such as non-monotone times or a survivor function outside [0,1].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidGenotype indicates input alleles that are inconsistent with
	// a SNP's population alleles after strand reconciliation.
	ErrInvalidGenotype = errors.New("invalid genotype")

	// ErrNumericInvariant indicates that a computed quantity violated a
	// numerical invariant, such as genotype probabilities not summing to 1.
	ErrNumericInvariant = errors.New("numeric invariant violated")

	// ErrSolverFailed indicates that the baseline survivor root-finder did
	// not converge or that its objective function failed.
	ErrSolverFailed = errors.New("solver failed")
)
