package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/statgen/prism/riskmodel"
)

// ReadPedFile parses a genotype ped file against its map. Each
// whitespace-delimited line holds an individual ID followed by two
// allele columns per map entry, in map order. Duplicate individual IDs
// are an error.
func ReadPedFile(r io.Reader, mapEntries []MapEntry) ([]*riskmodel.Individual, error) {
	wantFields := 1 + 2*len(mapEntries)

	var individuals []*riskmodel.Individual

	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	lineNum := 0
	for sc.Scan() {
		lineNum++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != wantFields {
			return nil, fmt.Errorf("ped file line %d: expected %d fields for %d map entries, got %d: %w",
				lineNum, wantFields, len(mapEntries), len(fields), riskmodel.ErrInvalidInput)
		}

		if _, dup := seen[fields[0]]; dup {
			return nil, fmt.Errorf("ped file line %d: duplicate individual %s: %w", lineNum, fields[0], riskmodel.ErrInvalidInput)
		}
		seen[fields[0]] = struct{}{}

		ind, err := riskmodel.NewIndividual(fields[0])
		if err != nil {
			return nil, fmt.Errorf("ped file line %d: %w", lineNum, err)
		}

		for i, entry := range mapEntries {
			a1 := fields[1+2*i]
			a2 := fields[2+2*i]

			if err := ind.AddGenotype(entry.RsID, a1, a2, entry.OrientRs); err != nil {
				return nil, fmt.Errorf("ped file line %d: %w", lineNum, err)
			}
		}

		individuals = append(individuals, ind)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ped file: %w", err)
	}

	if len(individuals) == 0 {
		return nil, fmt.Errorf("ped file has no individuals: %w", riskmodel.ErrInvalidInput)
	}

	return individuals, nil
}
