package modelfile

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/statgen/prism/incidence"
	"github.com/statgen/prism/riskmodel"
)

// IncidenceTableSuffix is the conventional file name suffix for annual
// incidence tables, prefixed by the model ID.
const IncidenceTableSuffix = "_annInc.dat"

type incidenceRow struct {
	ModelID string  `csv:"modelID"`
	AgeYrs  float64 `csv:"ageYrs"`
	AnnInc  float64 `csv:"annInc"`
}

// ReadIncidenceTable parses a delimited annual incidence table with the
// header columns modelID, ageYrs, and annInc, grouping rows by model ID.
func ReadIncidenceTable(r io.Reader, delim rune) (map[string][]incidence.AnnualRate, error) {
	setDelimitedReader(delim)

	var rows []incidenceRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing incidence table: %v: %w", err, riskmodel.ErrInvalidInput)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("incidence table has no data rows: %w", riskmodel.ErrInvalidInput)
	}

	out := make(map[string][]incidence.AnnualRate)

	for i, row := range rows {
		if row.ModelID == "" {
			return nil, fmt.Errorf("incidence table row %d: model ID must be nonempty: %w", i+1, riskmodel.ErrInvalidInput)
		}

		out[row.ModelID] = append(out[row.ModelID], incidence.AnnualRate{Age: row.AgeYrs, Rate: row.AnnInc})
	}

	return out, nil
}
