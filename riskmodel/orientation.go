package riskmodel

import (
	"fmt"
	"strings"
)

// Orientation describes the strand on which a pair of alleles is reported,
// relative to the dbSNP refSNP alleles.
type Orientation int

const (
	Forward Orientation = iota
	Reverse
)

func (o Orientation) String() string {
	if o == Reverse {
		return "Reverse"
	}

	return "Forward"
}

// Flip returns the opposite strand.
func (o Orientation) Flip() Orientation {
	if o == Forward {
		return Reverse
	}

	return Forward
}

// ParseOrientation accepts "Forward" or "Reverse" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToUpper(s) {
	case "FORWARD":
		return Forward, nil
	case "REVERSE":
		return Reverse, nil
	}

	return Forward, fmt.Errorf("allele orientation must be 'Forward' or 'Reverse', not %q: %w", s, ErrInvalidInput)
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed

	return nil
}
