// Package forest bags dart trees into a random forest: each tree fits
// an independent bootstrap sample, one tree per goroutine, and
// predictions are combined by vote/average. It also implements
// forest-level deletion: removing a training instance only touches the
// trees whose bootstrap sample actually contained it.
package forest

import (
	"encoding/gob"
	"io"
	"math/rand"
	"time"

	"github.com/wlattner/dart/tree"
)

// Forest is a bagging ensemble of binary dart trees.
type Forest struct {
	NTrees          int
	Epsilon         float64
	Gamma           float64
	MaxDepth        int
	MinSamplesSplit int

	Trees           []*tree.Tree
	ConfusionMatrix [][2]int // [actual][predicted], computed from OOB votes
	Accuracy        float64

	nWorkers    int
	computeOOB  bool
	nFeatures   int
	randomState *int64

	// origIndex[i][k] is the original dataset row index backing local
	// row key k of Trees[i] -- bootstrap sampling draws with
	// replacement, so several local keys in the same tree can trace
	// back to the same original row. Delete sets the entry of every
	// key it removes to -1.
	origIndex [][]int
}

// methods for the forestConfiger interface
func (f *Forest) setEpsilon(v float64)      { f.Epsilon = v }
func (f *Forest) setGamma(v float64)        { f.Gamma = v }
func (f *Forest) setMaxDepth(n int)         { f.MaxDepth = n }
func (f *Forest) setMinSamplesSplit(n int)  { f.MinSamplesSplit = n }
func (f *Forest) setNumTrees(n int)         { f.NTrees = n }
func (f *Forest) setNumWorkers(n int)       { f.nWorkers = n }
func (f *Forest) setComputeOOB()            { f.computeOOB = true }
func (f *Forest) setRandomState(seed int64) { f.randomState = &seed }

type forestConfiger interface {
	setEpsilon(v float64)
	setGamma(v float64)
	setMaxDepth(n int)
	setMinSamplesSplit(n int)
	setNumTrees(n int)
	setNumWorkers(n int)
	setComputeOOB()
	setRandomState(seed int64)
}

// Epsilon is forwarded to every bagged tree. Default 0.1.
func Epsilon(v float64) func(forestConfiger) {
	return func(c forestConfiger) { c.setEpsilon(v) }
}

// Gamma is forwarded to every bagged tree. Default 0.1.
func Gamma(v float64) func(forestConfiger) {
	return func(c forestConfiger) { c.setGamma(v) }
}

// MaxDepth is forwarded to every bagged tree. Default 4.
func MaxDepth(n int) func(forestConfiger) {
	return func(c forestConfiger) { c.setMaxDepth(n) }
}

// MinSamplesSplit is forwarded to every bagged tree. Default 2.
func MinSamplesSplit(n int) func(forestConfiger) {
	return func(c forestConfiger) { c.setMinSamplesSplit(n) }
}

// NumTrees sets the number of bootstrap samples to fit. Default 10.
func NumTrees(n int) func(forestConfiger) {
	return func(c forestConfiger) { c.setNumTrees(n) }
}

// NumWorkers sets the number of goroutines fitting trees concurrently.
func NumWorkers(n int) func(forestConfiger) {
	return func(c forestConfiger) { c.setNumWorkers(n) }
}

// ComputeOOB computes a confusion matrix and accuracy from each tree's
// out-of-bag predictions during Fit.
func ComputeOOB() func(forestConfiger) {
	return func(c forestConfiger) { c.setComputeOOB() }
}

// RandomState seeds the forest's bootstrap sampling and per-tree RNGs
// deterministically. Without it, Fit seeds each worker from the clock.
func RandomState(seed int64) func(forestConfiger) {
	return func(c forestConfiger) { c.setRandomState(seed) }
}

// NewForest returns a configured forest. With no options it is
// equivalent to:
//
//	NewForest(NumTrees(10), Epsilon(0.1), Gamma(0.1), MaxDepth(4), MinSamplesSplit(2), NumWorkers(1))
func NewForest(options ...func(forestConfiger)) *Forest {
	f := &Forest{
		NTrees:          10,
		Epsilon:         0.1,
		Gamma:           0.1,
		MaxDepth:        4,
		MinSamplesSplit: 2,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

type fitResult struct {
	idx  int
	t    *tree.Tree
	orig []int
	oob  []int // original indices not drawn into this tree's bootstrap
	err  error
}

// Fit bootstraps NTrees samples from X/y and fits one tree per sample,
// nWorkers goroutines at a time.
func (f *Forest) Fit(X [][]float64, y []float64) error {
	f.nFeatures = len(X[0])
	f.Trees = make([]*tree.Tree, f.NTrees)
	f.origIndex = make([][]int, f.NTrees)

	var oob *oobCtr
	if f.computeOOB {
		oob = newOOBCtr(len(y))
	}

	jobs := make(chan int)
	results := make(chan fitResult)

	nWorkers := f.nWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}

	for w := 0; w < nWorkers; w++ {
		go func(workerID int) {
			seed := time.Now().UnixNano() + int64(workerID)
			if f.randomState != nil {
				seed = *f.randomState + int64(workerID)
			}
			rng := rand.New(rand.NewSource(seed))
			for idx := range jobs {
				Xb, yb, orig, inBag := bootstrapSample(rng, X, y)

				t := tree.NewTree(
					tree.Epsilon(f.Epsilon),
					tree.Gamma(f.Gamma),
					tree.MaxDepth(f.MaxDepth),
					tree.MinSamplesSplit(f.MinSamplesSplit),
					tree.RandomState(rng.Int63()),
				)
				if err := t.Fit(Xb, yb); err != nil {
					results <- fitResult{idx: idx, err: err}
					continue
				}

				res := fitResult{idx: idx, t: t, orig: orig}
				if oob != nil {
					for i := range X {
						if !inBag[i] {
							res.oob = append(res.oob, i)
						}
					}
				}
				results <- res
			}
		}(w)
	}

	go func() {
		for i := 0; i < f.NTrees; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	var firstErr error
	for i := 0; i < f.NTrees; i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		f.Trees[res.idx] = res.t
		f.origIndex[res.idx] = res.orig
		if oob != nil {
			oob.update(X, res.oob, res.t)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	if oob != nil {
		f.ConfusionMatrix, f.Accuracy = oob.compute(y)
	}
	return nil
}

// Predict returns the majority-vote class, {0, 1}, for each row of X.
func (f *Forest) Predict(X [][]float64) ([]int, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// PredictProba returns the fraction of trees voting positive for each
// row of X.
func (f *Forest) PredictProba(X [][]float64) ([]float64, error) {
	sum := make([]float64, len(X))
	for _, t := range f.Trees {
		p, err := t.PredictProba(X)
		if err != nil {
			return nil, err
		}
		for i, row := range p {
			if row[1] > row[0] {
				sum[i]++
			}
		}
	}
	for i := range sum {
		sum[i] /= float64(len(f.Trees))
	}
	return sum, nil
}

// Delete removes the original dataset row origIdx from every bagged
// tree whose bootstrap sample drew it (possibly more than once; trees
// that never sampled origIdx are left untouched, since certified
// removal only obligates a tree to forget instances it was actually
// fit on). It returns the per-tree trace for every tree that was
// touched, keyed by tree index.
func (f *Forest) Delete(origIdx int) (map[int][]string, error) {
	traces := make(map[int][]string)
	for i, t := range f.Trees {
		var localKeys []int
		for k, orig := range f.origIndex[i] {
			if orig == origIdx {
				localKeys = append(localKeys, k)
			}
		}
		if len(localKeys) == 0 {
			continue
		}
		trace, err := t.Delete(localKeys)
		if err != nil {
			return traces, err
		}
		for _, k := range localKeys {
			f.origIndex[i][k] = -1
		}
		traces[i] = trace
	}
	return traces, nil
}

func (f *Forest) Save(w io.Writer) error {
	return gob.NewEncoder(w).Encode(f)
}

func (f *Forest) Load(r io.Reader) error {
	return gob.NewDecoder(r).Decode(f)
}

// bootstrapSample draws len(X) rows from X/y with replacement, and
// reports which original rows were never drawn (out-of-bag).
func bootstrapSample(rng *rand.Rand, X [][]float64, y []float64) (Xb [][]float64, yb []float64, orig []int, inBag []bool) {
	n := len(X)
	Xb = make([][]float64, n)
	yb = make([]float64, n)
	orig = make([]int, n)
	inBag = make([]bool, n)

	for i := 0; i < n; i++ {
		id := rng.Intn(n)
		Xb[i] = X[id]
		yb[i] = y[id]
		orig[i] = id
		inBag[id] = true
	}
	return Xb, yb, orig, inBag
}

type oobCtr struct {
	votes []int // number of OOB trees that voted positive
	voted []int // number of OOB trees that voted at all
}

func newOOBCtr(n int) *oobCtr {
	return &oobCtr{votes: make([]int, n), voted: make([]int, n)}
}

func (o *oobCtr) update(X [][]float64, oobRows []int, t *tree.Tree) {
	if len(oobRows) == 0 {
		return
	}
	Xoob := make([][]float64, len(oobRows))
	for i, r := range oobRows {
		Xoob[i] = X[r]
	}
	pred, err := t.Predict(Xoob)
	if err != nil {
		return
	}
	for i, r := range oobRows {
		o.voted[r]++
		o.votes[r] += pred[i]
	}
}

// compute returns a 2x2 confusion matrix ([actual][predicted]) and
// overall accuracy from the accumulated OOB votes.
func (o *oobCtr) compute(y []float64) ([][2]int, float64) {
	confMat := [][2]int{{0, 0}, {0, 0}}
	correct, total := 0, 0

	for i, actual := range y {
		if o.voted[i] == 0 {
			continue
		}
		predicted := 0
		if o.votes[i]*2 > o.voted[i] {
			predicted = 1
		}
		confMat[int(actual)][predicted]++
		total++
		if predicted == int(actual) {
			correct++
		}
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	return confMat, accuracy
}
