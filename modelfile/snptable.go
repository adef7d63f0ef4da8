// Package modelfile reads the delimited tables risk models are built
// from, reads genotype map/ped file pairs, and persists fitted models as
// versioned gzipped JSON.
package modelfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/statgen/prism/riskmodel"
)

// SNPTableSuffix is the conventional file name suffix for model SNP
// tables, prefixed by the model ID.
const SNPTableSuffix = "_SNPs.dat"

type snpRow struct {
	ModelID     string  `csv:"modelID"`
	RsID        string  `csv:"rsID"`
	SourcePub   string  `csv:"sourcePub"`
	Allele1     string  `csv:"allele1"`
	Allele2     string  `csv:"allele2"`
	OrientRs    string  `csv:"orientRs"`
	Allele2Freq float64 `csv:"allele2Freq"`
	Allele2LnHR float64 `csv:"allele2lnHR"`
}

func setDelimitedReader(delim rune) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		r.LazyQuotes = true
		r.TrimLeadingSpace = true

		return r
	})
}

// ReadSNPTable parses a delimited SNP table with the header columns
// modelID, rsID, sourcePub, allele1, allele2, orientRs, allele2Freq, and
// allele2lnHR. Rows are grouped by model ID, preserving file order
// within each model.
func ReadSNPTable(r io.Reader, delim rune) (map[string][]riskmodel.SNP, error) {
	setDelimitedReader(delim)

	var rows []snpRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing SNP table: %v: %w", err, riskmodel.ErrInvalidInput)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("SNP table has no data rows: %w", riskmodel.ErrInvalidInput)
	}

	out := make(map[string][]riskmodel.SNP)

	for i, row := range rows {
		if row.ModelID == "" {
			return nil, fmt.Errorf("SNP table row %d: model ID must be nonempty: %w", i+1, riskmodel.ErrInvalidInput)
		}

		orient, err := riskmodel.ParseOrientation(row.OrientRs)
		if err != nil {
			return nil, fmt.Errorf("SNP table row %d: %w", i+1, err)
		}

		snp, err := riskmodel.NewSNP(row.RsID, row.SourcePub, row.Allele1, row.Allele2, orient, row.Allele2Freq, row.Allele2LnHR)
		if err != nil {
			return nil, fmt.Errorf("SNP table row %d: %w", i+1, err)
		}

		out[row.ModelID] = append(out[row.ModelID], snp)
	}

	return out, nil
}
