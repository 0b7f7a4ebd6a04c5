package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wlattner/dart/forest"
	"github.com/wlattner/dart/internal/config"
)

var deleteFlags struct {
	modelFile  string
	outFile    string
	configFile string
	indices    []int
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "certifiably remove one or more original training rows from a saved forest",
	RunE:  runDelete,
}

func init() {
	f := deleteCmd.Flags()
	f.StringVar(&deleteFlags.modelFile, "model", "dart.model", "saved forest to modify")
	f.StringVar(&deleteFlags.outFile, "out", "", "file to write the updated forest to (default overwrites --model)")
	f.StringVar(&deleteFlags.configFile, "config", "", "experiment file naming the delete plan; its rows are added to any --index rows")
	f.IntSliceVar(&deleteFlags.indices, "index", nil, "original dataset row index to delete (repeatable)")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if deleteFlags.configFile == "" && len(deleteFlags.indices) == 0 {
		return fmt.Errorf("delete: need --index or --config")
	}

	indices := deleteFlags.indices
	if deleteFlags.configFile != "" {
		exp, err := config.Load(deleteFlags.configFile)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		for _, plan := range exp.Deletes {
			logVerbose("delete plan %q: %d rows", plan.Reason, len(plan.Indices))
			indices = append(indices, plan.Indices...)
		}
	}

	modelFile, err := os.Open(deleteFlags.modelFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", deleteFlags.modelFile, err)
	}
	fst := &forest.Forest{}
	loadErr := fst.Load(modelFile)
	modelFile.Close()
	if loadErr != nil {
		return fmt.Errorf("loading %s: %w", deleteFlags.modelFile, loadErr)
	}

	for _, idx := range indices {
		traces, err := fst.Delete(idx)
		if err != nil {
			return fmt.Errorf("delete row %d: %w", idx, err)
		}
		logVerbose("row %d: touched %d trees", idx, len(traces))
		for treeIdx, trace := range traces {
			logVerbose("  tree %d trace: %v", treeIdx, trace)
		}
		logOK("deleted row %d", idx)
	}

	outFile := deleteFlags.outFile
	if outFile == "" {
		outFile = deleteFlags.modelFile
	}
	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outFile, err)
	}
	defer out.Close()
	if err := fst.Save(out); err != nil {
		return fmt.Errorf("saving %s: %w", outFile, err)
	}
	logOK("saved updated model to %s", outFile)
	return nil
}
