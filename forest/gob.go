package forest

import (
	"bytes"
	"encoding/gob"

	"github.com/wlattner/dart/tree"
)

// gobForest mirrors Forest's unexported fields alongside the exported
// ones, so Save/Load round-trips origIndex -- without it, a loaded
// forest's Delete would silently find no tree to touch for any
// original row, since the bootstrap-to-original-index mapping is what
// Delete uses to find them. nWorkers/computeOOB/nFeatures are likewise
// restored; randomState is not, for the same reason Tree doesn't
// persist its RNG (see tree/gob.go).
type gobForest struct {
	NTrees          int
	Epsilon         float64
	Gamma           float64
	MaxDepth        int
	MinSamplesSplit int

	Trees           []*tree.Tree
	ConfusionMatrix [][2]int
	Accuracy        float64

	NWorkers   int
	ComputeOOB bool
	NFeatures  int
	OrigIndex  [][]int
}

// GobEncode lets a *Forest serialize origIndex and the other
// unexported bookkeeping fields a loaded forest needs for Delete.
func (f *Forest) GobEncode() ([]byte, error) {
	g := gobForest{
		NTrees:          f.NTrees,
		Epsilon:         f.Epsilon,
		Gamma:           f.Gamma,
		MaxDepth:        f.MaxDepth,
		MinSamplesSplit: f.MinSamplesSplit,
		Trees:           f.Trees,
		ConfusionMatrix: f.ConfusionMatrix,
		Accuracy:        f.Accuracy,
		NWorkers:        f.nWorkers,
		ComputeOOB:      f.computeOOB,
		NFeatures:       f.nFeatures,
		OrigIndex:       f.origIndex,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode is the inverse of GobEncode.
func (f *Forest) GobDecode(data []byte) error {
	var g gobForest
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	f.NTrees = g.NTrees
	f.Epsilon = g.Epsilon
	f.Gamma = g.Gamma
	f.MaxDepth = g.MaxDepth
	f.MinSamplesSplit = g.MinSamplesSplit
	f.Trees = g.Trees
	f.ConfusionMatrix = g.ConfusionMatrix
	f.Accuracy = g.Accuracy
	f.nWorkers = g.NWorkers
	f.computeOOB = g.ComputeOOB
	f.nFeatures = g.NFeatures
	f.origIndex = g.OrigIndex
	return nil
}
