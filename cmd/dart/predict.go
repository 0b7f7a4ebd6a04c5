package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wlattner/dart/forest"
	"github.com/wlattner/dart/internal/data"
)

var predictFlags struct {
	dataFile  string
	modelFile string
	outFile   string
	proba     bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "score a binary-feature CSV against a saved forest",
	RunE:  runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictFlags.dataFile, "data", "", "CSV file, label in column 1 (required)")
	f.StringVar(&predictFlags.modelFile, "model", "dart.model", "saved forest to score against")
	f.StringVar(&predictFlags.outFile, "out", "", "file to write predictions to (default stdout)")
	f.BoolVar(&predictFlags.proba, "proba", false, "write the positive-class vote fraction instead of 0/1")
	_ = predictCmd.MarkFlagRequired("data")
}

func runPredict(cmd *cobra.Command, args []string) error {
	modelFile, err := os.Open(predictFlags.modelFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", predictFlags.modelFile, err)
	}
	defer modelFile.Close()

	fst := &forest.Forest{}
	if err := fst.Load(modelFile); err != nil {
		return fmt.Errorf("loading %s: %w", predictFlags.modelFile, err)
	}
	logVerbose("loaded forest with %d trees from %s", len(fst.Trees), predictFlags.modelFile)

	dataFile, err := os.Open(predictFlags.dataFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", predictFlags.dataFile, err)
	}
	defer dataFile.Close()

	ds, err := data.Load(dataFile)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", predictFlags.dataFile, err)
	}

	out := os.Stdout
	if predictFlags.outFile != "" {
		f, err := os.Create(predictFlags.outFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", predictFlags.outFile, err)
		}
		defer f.Close()
		out = f
	}
	w := csv.NewWriter(out)
	defer w.Flush()

	if predictFlags.proba {
		proba, err := fst.PredictProba(ds.X)
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}
		for _, p := range proba {
			if err := w.Write([]string{strconv.FormatFloat(p, 'f', 6, 64)}); err != nil {
				return fmt.Errorf("writing prediction: %w", err)
			}
		}
		logOK("scored %d rows (proba) from %s", len(proba), predictFlags.dataFile)
		return nil
	}

	pred, err := fst.Predict(ds.X)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	for _, p := range pred {
		if err := w.Write([]string{strconv.Itoa(p)}); err != nil {
			return fmt.Errorf("writing prediction: %w", err)
		}
	}
	logOK("scored %d rows from %s", len(pred), predictFlags.dataFile)
	return nil
}
