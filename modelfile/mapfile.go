package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/statgen/prism/riskmodel"
)

// MapEntry is one line of a genotype map file: the rsID of the column
// pair in the companion ped file, and the strand its alleles are
// reported on.
type MapEntry struct {
	RsID     string
	OrientRs riskmodel.Orientation
}

// ReadMapFile parses a genotype map file of whitespace-delimited lines,
// each holding an rsID and an orientation. Line order defines the ped
// file's column order. Blank lines and lines starting with '#' are
// skipped.
func ReadMapFile(r io.Reader) ([]MapEntry, error) {
	var entries []MapEntry

	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)

	lineNum := 0
	for sc.Scan() {
		lineNum++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("map file line %d: expected 'rsID orientation', got %d fields: %w",
				lineNum, len(fields), riskmodel.ErrInvalidInput)
		}

		orient, err := riskmodel.ParseOrientation(fields[1])
		if err != nil {
			return nil, fmt.Errorf("map file line %d: %w", lineNum, err)
		}

		if _, dup := seen[fields[0]]; dup {
			return nil, fmt.Errorf("map file line %d: duplicate rsID %s: %w", lineNum, fields[0], riskmodel.ErrInvalidInput)
		}
		seen[fields[0]] = struct{}{}

		entries = append(entries, MapEntry{RsID: fields[0], OrientRs: orient})
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("map file has no entries: %w", riskmodel.ErrInvalidInput)
	}

	return entries, nil
}
