// Package config loads an experiment file describing how to fit a
// forest and which training rows to delete afterward.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TreeParams are the hyperparameters forwarded to every tree.NewTree
// call, mirroring tree.Tree's functional-options surface.
type TreeParams struct {
	Epsilon         float64 `yaml:"epsilon"`
	Gamma           float64 `yaml:"gamma"`
	MaxDepth        int     `yaml:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split"`
}

// ForestParams are the bagging-level hyperparameters.
type ForestParams struct {
	NumTrees   int  `yaml:"num_trees"`
	NumWorkers int  `yaml:"num_workers"`
	ComputeOOB bool `yaml:"compute_oob"`
}

// DeletePlan names a batch of original-dataset row indices to remove
// after the forest has been fit, tagged with a human-readable reason
// for the experiment log.
type DeletePlan struct {
	Reason  string `yaml:"reason"`
	Indices []int  `yaml:"indices"`
}

// Experiment is the top-level shape of a dart experiment file.
type Experiment struct {
	Dataset     string       `yaml:"dataset"`
	RandomState *int64       `yaml:"random_state,omitempty"`
	Tree        TreeParams   `yaml:"tree"`
	Forest      ForestParams `yaml:"forest"`
	Deletes     []DeletePlan `yaml:"deletes,omitempty"`
}

// defaults mirror tree.NewTree's and forest.NewForest's zero-option
// defaults, so an experiment file only needs to name what it overrides.
func defaults() Experiment {
	return Experiment{
		Tree: TreeParams{
			Epsilon:         0.1,
			Gamma:           0.1,
			MaxDepth:        4,
			MinSamplesSplit: 2,
		},
		Forest: ForestParams{
			NumTrees:   10,
			NumWorkers: 1,
		},
	}
}

// Load reads and validates an experiment file from path.
func Load(path string) (*Experiment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates an experiment file from r.
func Parse(r io.Reader) (*Experiment, error) {
	exp := defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&exp); err != nil {
		return nil, fmt.Errorf("config: parsing experiment: %w", err)
	}
	if err := exp.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &exp, nil
}

func (e Experiment) validate() error {
	if e.Dataset == "" {
		return fmt.Errorf("dataset path is required")
	}
	if e.Tree.Epsilon <= 0 {
		return fmt.Errorf("tree.epsilon must be positive, got %v", e.Tree.Epsilon)
	}
	if e.Tree.Gamma <= 0 {
		return fmt.Errorf("tree.gamma must be positive, got %v", e.Tree.Gamma)
	}
	if e.Forest.NumTrees <= 0 {
		return fmt.Errorf("forest.num_trees must be positive, got %d", e.Forest.NumTrees)
	}
	for i, d := range e.Deletes {
		if len(d.Indices) == 0 {
			return fmt.Errorf("deletes[%d] has no indices", i)
		}
	}
	return nil
}
