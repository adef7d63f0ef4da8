// prisminfo prints a human-readable report of a fitted model: its SNPs,
// the population distribution of the linear predictor, and the survivor
// life table.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/statgen/prism"
	"github.com/statgen/prism/buildinfo"
	"github.com/statgen/prism/modelfile"
)

var (
	client         *storage.Client
	BufferedSTDOUT = bufio.NewWriterSize(os.Stdout, 4096*8)
)

func main() {
	defer BufferedSTDOUT.Flush()

	buildinfo.PrintToStdErr()

	var modelPath string

	flag.StringVar(&modelPath, "model", "", "Path to a fitted model file. May be a gs:// path.")
	flag.Parse()

	if modelPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if strings.HasPrefix(modelPath, "gs://") {
		var err error

		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	f, err := prism.MaybeOpenFromGoogleStorage(modelPath, client)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	model, err := modelfile.Load(f)
	if err != nil {
		log.Fatalln(err)
	}

	if err := model.Describe(BufferedSTDOUT); err != nil {
		log.Fatalln(err)
	}
}
