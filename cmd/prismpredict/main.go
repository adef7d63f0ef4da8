// prismpredict applies one or more fitted risk models to the individuals
// in a map/ped genotype file pair and emits one row per individual per
// model, with the genotypes used, the linear predictor, its population
// percentile, and the cumulative risk at each model age.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/montanaflynn/stats"

	"github.com/statgen/prism"
	"github.com/statgen/prism/buildinfo"
	"github.com/statgen/prism/modelfile"
	"github.com/statgen/prism/riskmodel"
)

var (
	client         *storage.Client
	BufferedSTDOUT = bufio.NewWriterSize(os.Stdout, 4096*8)
)

func main() {
	buildinfo.PrintToStdErr()

	var modelPath, mapPath, pedPath string

	var summarize bool

	flag.StringVar(&modelPath, "model", "", "Path to a fitted model file, or a local directory holding *"+modelfile.ModelFileSuffix+" files. May be a gs:// path.")
	flag.StringVar(&mapPath, "map", "", "Path to the genotype map file (rsID and orientation per line). May be a gs:// path and may be compressed.")
	flag.StringVar(&pedPath, "ped", "", "Path to the genotype ped file (individual ID plus two alleles per map entry). May be a gs:// path and may be compressed.")
	flag.BoolVar(&summarize, "summary", false, "Also print a cohort summary of the linear predictor and the final-age risk to stderr, per model.")
	flag.Parse()

	if modelPath == "" || mapPath == "" || pedPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	for _, path := range []string{modelPath, mapPath, pedPath} {
		if strings.HasPrefix(path, "gs://") {
			var err error

			client, err = storage.NewClient(context.Background())
			if err != nil {
				log.Fatalln(err)
			}

			break
		}
	}

	failed, err := run(modelPath, mapPath, pedPath, summarize)

	BufferedSTDOUT.Flush()

	if err != nil {
		log.Fatalln(err)
	}

	if failed > 0 {
		log.Printf("%d prediction(s) could not be made\n", failed)
		os.Exit(1)
	}
}

func run(modelPath, mapPath, pedPath string, summarize bool) (failed int, err error) {
	models, err := loadModels(modelPath)
	if err != nil {
		return 0, err
	}

	mapEntries, err := readMap(mapPath)
	if err != nil {
		return 0, err
	}

	individuals, err := readPed(pedPath, mapEntries)
	if err != nil {
		return 0, err
	}

	for _, model := range models {
		failed += predict(model, individuals, summarize)
	}

	return failed, nil
}

// predict writes one output block per model. Each block carries its own
// header because the SNP and age columns differ between models.
func predict(model *riskmodel.RiskModel, individuals []*riskmodel.Individual, summarize bool) (failed int) {
	header := []string{"individual", "model"}
	for _, s := range model.SNPs() {
		header = append(header, s.RsID)
	}
	header = append(header, "linearPredictor", "percentile")
	for _, age := range model.Times() {
		header = append(header, fmt.Sprintf("cumulativeRisk_%g", age))
	}
	fmt.Fprintln(BufferedSTDOUT, strings.Join(header, "\t"))

	etas := make([]float64, 0, len(individuals))
	finalRisks := make([]float64, 0, len(individuals))

	for _, ind := range individuals {
		pred, err := model.GetRiskPrediction(ind)
		if err != nil {
			log.Println(err)
			failed++

			continue
		}

		etas = append(etas, pred.Eta)
		finalRisks = append(finalRisks, pred.CumRisk[len(pred.CumRisk)-1])

		row := []string{pred.IndividualID, pred.ModelID}
		for _, g := range pred.UsedGenotypes {
			row = append(row, g.Allele1+"/"+g.Allele2)
		}
		row = append(row, fmt.Sprintf("%.8g", pred.Eta), fmt.Sprintf("%.8g", pred.Percentile))
		for _, risk := range pred.CumRisk {
			row = append(row, fmt.Sprintf("%.8g", risk))
		}
		fmt.Fprintln(BufferedSTDOUT, strings.Join(row, "\t"))
	}

	if summarize && len(etas) > 0 {
		times := model.Times()
		finalAge := times[len(times)-1]

		printSummary(model.ModelID(), "linear predictor", etas)
		printSummary(model.ModelID(), fmt.Sprintf("cumulative risk by age %g", finalAge), finalRisks)
	}

	return failed
}

func printSummary(modelID, what string, values []float64) {
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviationSample(values)
	quartiles, _ := stats.Quartile(values)

	log.Printf("Model %s: %s over %d scored individual(s): min %.6g, q1 %.6g, median %.6g, q3 %.6g, max %.6g, mean %.6g, sd %.6g\n",
		modelID, what, len(values), min, quartiles.Q1, quartiles.Q2, quartiles.Q3, max, mean, sd)
}

// loadModels loads a single model file, or every model file in a local
// directory when the path names one.
func loadModels(path string) ([]*riskmodel.RiskModel, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return loadModelDir(path)
	}

	model, err := loadModel(path)
	if err != nil {
		return nil, err
	}

	return []*riskmodel.RiskModel{model}, nil
}

func loadModelDir(dir string) ([]*riskmodel.RiskModel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var models []*riskmodel.RiskModel

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelfile.ModelFileSuffix) {
			continue
		}

		model, err := loadModel(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", modelfile.ModelFileSuffix, dir)
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ModelID() < models[j].ModelID() })

	return models, nil
}

func loadModel(path string) (*riskmodel.RiskModel, error) {
	f, err := prism.MaybeOpenFromGoogleStorage(path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return modelfile.Load(f)
}

func readMap(path string) ([]modelfile.MapEntry, error) {
	rc, err := prism.Open(path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return modelfile.ReadMapFile(rc)
}

func readPed(path string, mapEntries []modelfile.MapEntry) ([]*riskmodel.Individual, error) {
	rc, err := prism.Open(path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return modelfile.ReadPedFile(rc, mapEntries)
}
