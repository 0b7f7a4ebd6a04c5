package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecheney/profile"
	"github.com/spf13/cobra"

	"github.com/wlattner/dart/forest"
	"github.com/wlattner/dart/internal/config"
	"github.com/wlattner/dart/internal/data"
)

var fitFlags struct {
	dataFile    string
	modelFile   string
	configFile  string
	numTrees    int
	numWorkers  int
	epsilon     float64
	gamma       float64
	maxDepth    int
	minSplit    int
	computeOOB  bool
	randomState int64
	useSeed     bool
	runProfile  bool
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "bag a forest of trees from a binary-feature CSV and save it",
	RunE:  runFit,
}

func init() {
	f := fitCmd.Flags()
	f.StringVar(&fitFlags.dataFile, "data", "", "CSV file, label in column 1 (required unless --config is given)")
	f.StringVar(&fitFlags.modelFile, "model", "dart.model", "file to write the fitted forest to")
	f.StringVar(&fitFlags.configFile, "config", "", "experiment file driving dataset/hyperparameters/delete plan, instead of the flags below")
	f.IntVar(&fitFlags.numTrees, "num-trees", 10, "number of bagged trees")
	f.IntVar(&fitFlags.numWorkers, "num-workers", 1, "goroutines fitting trees concurrently")
	f.Float64Var(&fitFlags.epsilon, "epsilon", 0.1, "exponential-mechanism epsilon")
	f.Float64Var(&fitFlags.gamma, "gamma", 0.1, "exponential-mechanism gamma")
	f.IntVar(&fitFlags.maxDepth, "max-depth", 4, "max tree depth")
	f.IntVar(&fitFlags.minSplit, "min-samples-split", 2, "min rows required to split a node")
	f.BoolVar(&fitFlags.computeOOB, "oob", false, "compute an out-of-bag confusion matrix")
	f.Int64Var(&fitFlags.randomState, "random-state", 0, "seed (only used with --seeded)")
	f.BoolVar(&fitFlags.useSeed, "seeded", false, "use --random-state instead of a clock seed")
	f.BoolVar(&fitFlags.runProfile, "profile", false, "write a CPU profile of the fit")
}

// newForestFromFlags builds a *forest.Forest from fitFlags. forest.NewForest
// takes its options as functional-option values of an unexported type, so
// they can only be passed directly at the call site, not collected into a
// slice from this package; the conditional options are handled by calling
// NewForest once per combination instead.
func newForestFromFlags() *forest.Forest {
	switch {
	case fitFlags.computeOOB && fitFlags.useSeed:
		return forest.NewForest(
			forest.Epsilon(fitFlags.epsilon),
			forest.Gamma(fitFlags.gamma),
			forest.MaxDepth(fitFlags.maxDepth),
			forest.MinSamplesSplit(fitFlags.minSplit),
			forest.NumTrees(fitFlags.numTrees),
			forest.NumWorkers(fitFlags.numWorkers),
			forest.ComputeOOB(),
			forest.RandomState(fitFlags.randomState),
		)
	case fitFlags.computeOOB:
		return forest.NewForest(
			forest.Epsilon(fitFlags.epsilon),
			forest.Gamma(fitFlags.gamma),
			forest.MaxDepth(fitFlags.maxDepth),
			forest.MinSamplesSplit(fitFlags.minSplit),
			forest.NumTrees(fitFlags.numTrees),
			forest.NumWorkers(fitFlags.numWorkers),
			forest.ComputeOOB(),
		)
	case fitFlags.useSeed:
		return forest.NewForest(
			forest.Epsilon(fitFlags.epsilon),
			forest.Gamma(fitFlags.gamma),
			forest.MaxDepth(fitFlags.maxDepth),
			forest.MinSamplesSplit(fitFlags.minSplit),
			forest.NumTrees(fitFlags.numTrees),
			forest.NumWorkers(fitFlags.numWorkers),
			forest.RandomState(fitFlags.randomState),
		)
	default:
		return forest.NewForest(
			forest.Epsilon(fitFlags.epsilon),
			forest.Gamma(fitFlags.gamma),
			forest.MaxDepth(fitFlags.maxDepth),
			forest.MinSamplesSplit(fitFlags.minSplit),
			forest.NumTrees(fitFlags.numTrees),
			forest.NumWorkers(fitFlags.numWorkers),
		)
	}
}

// forestFromExperiment mirrors newForestFromFlags for an Experiment
// loaded via --config: same unexported-option-type constraint, so the
// conditional options are again handled by branching at the call site.
func forestFromExperiment(exp *config.Experiment) *forest.Forest {
	switch {
	case exp.Forest.ComputeOOB && exp.RandomState != nil:
		return forest.NewForest(
			forest.Epsilon(exp.Tree.Epsilon),
			forest.Gamma(exp.Tree.Gamma),
			forest.MaxDepth(exp.Tree.MaxDepth),
			forest.MinSamplesSplit(exp.Tree.MinSamplesSplit),
			forest.NumTrees(exp.Forest.NumTrees),
			forest.NumWorkers(exp.Forest.NumWorkers),
			forest.ComputeOOB(),
			forest.RandomState(*exp.RandomState),
		)
	case exp.Forest.ComputeOOB:
		return forest.NewForest(
			forest.Epsilon(exp.Tree.Epsilon),
			forest.Gamma(exp.Tree.Gamma),
			forest.MaxDepth(exp.Tree.MaxDepth),
			forest.MinSamplesSplit(exp.Tree.MinSamplesSplit),
			forest.NumTrees(exp.Forest.NumTrees),
			forest.NumWorkers(exp.Forest.NumWorkers),
			forest.ComputeOOB(),
		)
	case exp.RandomState != nil:
		return forest.NewForest(
			forest.Epsilon(exp.Tree.Epsilon),
			forest.Gamma(exp.Tree.Gamma),
			forest.MaxDepth(exp.Tree.MaxDepth),
			forest.MinSamplesSplit(exp.Tree.MinSamplesSplit),
			forest.NumTrees(exp.Forest.NumTrees),
			forest.NumWorkers(exp.Forest.NumWorkers),
			forest.RandomState(*exp.RandomState),
		)
	default:
		return forest.NewForest(
			forest.Epsilon(exp.Tree.Epsilon),
			forest.Gamma(exp.Tree.Gamma),
			forest.MaxDepth(exp.Tree.MaxDepth),
			forest.MinSamplesSplit(exp.Tree.MinSamplesSplit),
			forest.NumTrees(exp.Forest.NumTrees),
			forest.NumWorkers(exp.Forest.NumWorkers),
		)
	}
}

func runFit(cmd *cobra.Command, args []string) error {
	if fitFlags.configFile != "" && fitFlags.dataFile != "" {
		return fmt.Errorf("fit: --config and --data are mutually exclusive")
	}
	if fitFlags.configFile == "" && fitFlags.dataFile == "" {
		return fmt.Errorf("fit: need --data or --config")
	}

	if fitFlags.runProfile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	var (
		fst      *forest.Forest
		dataFile string
		exp      *config.Experiment
	)
	if fitFlags.configFile != "" {
		var err error
		exp, err = config.Load(fitFlags.configFile)
		if err != nil {
			return fmt.Errorf("fit: %w", err)
		}
		dataFile = exp.Dataset
		fst = forestFromExperiment(exp)
	} else {
		dataFile = fitFlags.dataFile
		fst = newForestFromFlags()
	}

	f, err := os.Open(dataFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dataFile, err)
	}
	defer f.Close()

	ds, err := data.Load(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", dataFile, err)
	}
	logVerbose("loaded %d rows, %d features from %s", len(ds.X), len(ds.VarNames), dataFile)

	start := time.Now()
	if err := fst.Fit(ds.X, ds.Y); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	logOK("fit %d trees in %s", fst.NTrees, time.Since(start))

	if fst.Accuracy != 0 || len(fst.ConfusionMatrix) > 0 {
		logVerbose("oob accuracy: %.4f, confusion matrix: %v", fst.Accuracy, fst.ConfusionMatrix)
	}

	if exp != nil {
		for _, plan := range exp.Deletes {
			logVerbose("delete plan %q: %d rows", plan.Reason, len(plan.Indices))
			for _, idx := range plan.Indices {
				traces, err := fst.Delete(idx)
				if err != nil {
					return fmt.Errorf("delete row %d: %w", idx, err)
				}
				logVerbose("  row %d: touched %d trees", idx, len(traces))
			}
		}
	}

	out, err := os.Create(fitFlags.modelFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fitFlags.modelFile, err)
	}
	defer out.Close()

	if err := fst.Save(out); err != nil {
		return fmt.Errorf("saving %s: %w", fitFlags.modelFile, err)
	}
	logOK("saved model to %s", fitFlags.modelFile)
	return nil
}
