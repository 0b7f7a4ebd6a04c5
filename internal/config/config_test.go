package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFillsDefaults(t *testing.T) {
	exp, err := Parse(strings.NewReader(`
dataset: testdata/train.csv
forest:
  num_trees: 50
`))
	require.NoError(t, err)
	require.Equal(t, "testdata/train.csv", exp.Dataset)
	require.Equal(t, 0.1, exp.Tree.Epsilon)
	require.Equal(t, 0.1, exp.Tree.Gamma)
	require.Equal(t, 4, exp.Tree.MaxDepth)
	require.Equal(t, 50, exp.Forest.NumTrees)
}

func TestParseOverridesDefaults(t *testing.T) {
	exp, err := Parse(strings.NewReader(`
dataset: testdata/train.csv
tree:
  epsilon: 0.5
  gamma: 0.2
  max_depth: 6
  min_samples_split: 4
forest:
  num_trees: 25
  num_workers: 8
  compute_oob: true
random_state: 7
deletes:
  - reason: privacy request
    indices: [3, 9, 14]
`))
	require.NoError(t, err)
	require.Equal(t, 0.5, exp.Tree.Epsilon)
	require.Equal(t, 6, exp.Tree.MaxDepth)
	require.Equal(t, 25, exp.Forest.NumTrees)
	require.True(t, exp.Forest.ComputeOOB)
	require.NotNil(t, exp.RandomState)
	require.EqualValues(t, 7, *exp.RandomState)
	require.Len(t, exp.Deletes, 1)
	require.Equal(t, []int{3, 9, 14}, exp.Deletes[0].Indices)
}

func TestParseRejectsMissingDataset(t *testing.T) {
	_, err := Parse(strings.NewReader(`tree:
  epsilon: 0.1
`))
	require.Error(t, err)
}

func TestParseRejectsNonPositiveEpsilon(t *testing.T) {
	_, err := Parse(strings.NewReader(`
dataset: testdata/train.csv
tree:
  epsilon: 0
`))
	require.Error(t, err)
}

func TestParseRejectsEmptyDeleteBatch(t *testing.T) {
	_, err := Parse(strings.NewReader(`
dataset: testdata/train.csv
deletes:
  - reason: oops
    indices: []
`))
	require.Error(t, err)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader(`
dataset: testdata/train.csv
nonsense_field: true
`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
}
