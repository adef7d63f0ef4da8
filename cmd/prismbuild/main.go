// prismbuild fits absolute-risk models from a SNP table and an annual
// incidence table, then writes one model file per model ID.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/statgen/prism"
	"github.com/statgen/prism/buildinfo"
	"github.com/statgen/prism/incidence"
	"github.com/statgen/prism/modelfile"
	"github.com/statgen/prism/riskmodel"
)

var client *storage.Client

func main() {
	buildinfo.PrintToStdErr()

	var snpPath, incidencePath, srcDir, outDir, onlyModel string

	flag.StringVar(&snpPath, "snps", "", "Path to the SNP table (modelID, rsID, sourcePub, allele1, allele2, orientRs, allele2Freq, allele2lnHR). May be a gs:// path and may be compressed.")
	flag.StringVar(&incidencePath, "incidence", "", "Path to the annual incidence table (modelID, ageYrs, annInc). May be a gs:// path and may be compressed.")
	flag.StringVar(&srcDir, "dir", "", "Directory holding <modelID>_SNPs.dat and <modelID>_annInc.dat pairs. Mutually exclusive with -snps/-incidence.")
	flag.StringVar(&outDir, "out", ".", "Directory where model files are written.")
	flag.StringVar(&onlyModel, "model", "", "Optional: build only this model ID.")
	flag.Parse()

	if (srcDir == "") == (snpPath == "" || incidencePath == "") {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if strings.HasPrefix(snpPath, "gs://") || strings.HasPrefix(incidencePath, "gs://") {
		var err error

		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	var (
		built int
		err   error
	)

	if srcDir != "" {
		built, err = runDir(srcDir, outDir, onlyModel)
	} else {
		built, err = run(snpPath, incidencePath, outDir, onlyModel)
	}

	if err != nil {
		log.Fatalln(err)
	}

	log.Printf("Built %d model(s)\n", built)
}

// runDir builds every <modelID>_SNPs.dat / <modelID>_annInc.dat pair found
// in dir.
func runDir(dir, outDir, onlyModel string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	built := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelfile.SNPTableSuffix) {
			continue
		}

		modelID := strings.TrimSuffix(entry.Name(), modelfile.SNPTableSuffix)
		if onlyModel != "" && modelID != onlyModel {
			continue
		}

		incPath := filepath.Join(dir, modelID+modelfile.IncidenceTableSuffix)
		if _, err := os.Stat(incPath); err != nil {
			return built, fmt.Errorf("model %s: SNP table present but no incidence table: %v", modelID, err)
		}

		n, err := run(filepath.Join(dir, entry.Name()), incPath, outDir, modelID)
		if err != nil {
			return built, err
		}

		built += n
	}

	if built == 0 {
		return 0, fmt.Errorf("no %s tables found in %s", modelfile.SNPTableSuffix, dir)
	}

	return built, nil
}

func run(snpPath, incidencePath, outDir, onlyModel string) (int, error) {
	snps, snpDelim, err := readTable(snpPath)
	if err != nil {
		return 0, err
	}

	rates, rateDelim, err := readTable(incidencePath)
	if err != nil {
		return 0, err
	}

	snpsByModel, err := modelfile.ReadSNPTable(bytes.NewReader(snps), snpDelim)
	if err != nil {
		return 0, err
	}

	ratesByModel, err := modelfile.ReadIncidenceTable(bytes.NewReader(rates), rateDelim)
	if err != nil {
		return 0, err
	}

	modelIDs := make([]string, 0, len(snpsByModel))
	for id := range snpsByModel {
		modelIDs = append(modelIDs, id)
	}
	sort.Strings(modelIDs)

	if onlyModel != "" {
		if _, ok := snpsByModel[onlyModel]; !ok {
			return 0, fmt.Errorf("model %s has no rows in %s", onlyModel, snpPath)
		}

		modelIDs = []string{onlyModel}
	}

	built := 0

	for _, id := range modelIDs {
		annual, ok := ratesByModel[id]
		if !ok {
			return built, fmt.Errorf("model %s has SNP rows but no incidence rows", id)
		}

		if err := buildModel(id, snpsByModel[id], annual, outDir); err != nil {
			return built, err
		}

		built++
	}

	return built, nil
}

func buildModel(modelID string, snps []riskmodel.SNP, annual []incidence.AnnualRate, outDir string) error {
	ages, surv, err := incidence.Survivor(annual)
	if err != nil {
		return fmt.Errorf("model %s: %w", modelID, err)
	}

	model, err := riskmodel.New(modelID, snps, ages, surv)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outDir, modelfile.ModelFileName(modelID))

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	if err := modelfile.Save(model, w); err != nil {
		f.Close()

		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("Model %s: %d SNPs, %d ages, wrote %s\n", modelID, len(snps), len(ages), outPath)

	return nil
}

// readTable slurps a (possibly remote, possibly compressed) delimited
// table and sniffs its delimiter.
func readTable(path string) ([]byte, rune, error) {
	rc, err := prism.Open(path, client)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, 0, err
	}

	return data, prism.DetermineDelimiter(bytes.NewReader(data)), nil
}
