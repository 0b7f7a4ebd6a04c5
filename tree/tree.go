// Package tree implements a randomized, Gini-based binary decision
// tree classifier over binary-valued features and binary labels that
// supports certified-removal deletion of training instances: deleting
// a batch of rows updates the tree in place where the existing split
// is still a statistically acceptable sample of the randomized
// learner, and only rebuilds the affected subtree otherwise.
//
// The exponential-mechanism split selection and the deletion
// divergence test are parameterized by Epsilon and Gamma, following
// the same efficiency/utility tradeoff as the forest package this
// tree is meant to be bagged into (out of scope here, see forest).
package tree

import "math/rand"

// Tree is a single decision tree classifier. Construct with NewTree.
// Fit, Predict, PredictProba, and Delete are not safe for concurrent
// use on the same *Tree; a caller bagging multiple trees is free to
// run them on separate goroutines, one tree each.
type Tree struct {
	Root *node

	Epsilon         float64
	Gamma           float64
	MaxDepth        int
	MinSamplesSplit int
	Verbose         int

	randomState *int64
	rng         *rand.Rand
	rows        *rowStore
	nFeatures   int
}

// methods for the treeConfiger interface
func (t *Tree) setEpsilon(v float64)      { t.Epsilon = v }
func (t *Tree) setGamma(v float64)        { t.Gamma = v }
func (t *Tree) setMaxDepth(n int)         { t.MaxDepth = n }
func (t *Tree) setMinSamplesSplit(n int)  { t.MinSamplesSplit = n }
func (t *Tree) setVerbose(n int)          { t.Verbose = n }
func (t *Tree) setRandomState(seed int64) { t.randomState = &seed }

// treeConfiger lets NewTree share its functional-options pattern with
// forest.NewForest, which configures the trees it bags the same way.
type treeConfiger interface {
	setEpsilon(v float64)
	setGamma(v float64)
	setMaxDepth(n int)
	setMinSamplesSplit(n int)
	setVerbose(n int)
	setRandomState(seed int64)
}

// Epsilon sharpens the softmax used to select splits and to test
// deletion divergence; smaller values push the draw closer to
// uniform, trading utility for deletion stability. Default 0.1.
func Epsilon(v float64) func(treeConfiger) {
	return func(c treeConfiger) { c.setEpsilon(v) }
}

// Gamma scales the softmax temperature, appearing as the 5*gamma
// denominator of the exponential mechanism. Default 0.1.
func Gamma(v float64) func(treeConfiger) {
	return func(c treeConfiger) { c.setGamma(v) }
}

// MaxDepth caps the depth of the fitted tree; the root is depth 0.
// Default 4.
func MaxDepth(n int) func(treeConfiger) {
	return func(c treeConfiger) { c.setMaxDepth(n) }
}

// MinSamplesSplit marks nodes with fewer rows as leaves. Default 2.
func MinSamplesSplit(n int) func(treeConfiger) {
	return func(c treeConfiger) { c.setMinSamplesSplit(n) }
}

// RandomState seeds the tree's pseudo-random source so that split
// sampling is reproducible. The source is seeded once, at the top of
// Fit, and reused for every recursive build draw and every
// delete-triggered rebuild -- not reseeded per node. Default: seeded
// from the current time.
func RandomState(seed int64) func(treeConfiger) {
	return func(c treeConfiger) { c.setRandomState(seed) }
}

// Verbose sets the diagnostic output level. The tree package itself
// never prints; Verbose only governs what callers choose to report,
// and never changes Fit/Predict/Delete results.
func Verbose(n int) func(treeConfiger) {
	return func(c treeConfiger) { c.setVerbose(n) }
}

// NewTree returns a configured tree. With no options, it is
// equivalent to:
//
//	NewTree(Epsilon(0.1), Gamma(0.1), MaxDepth(4), MinSamplesSplit(2))
func NewTree(options ...func(treeConfiger)) *Tree {
	t := &Tree{
		Epsilon:         0.1,
		Gamma:           0.1,
		MaxDepth:        4,
		MinSamplesSplit: 2,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NFeatures returns the number of features the tree was fit with.
func (t *Tree) NFeatures() int {
	return t.nFeatures
}

// NSamples returns the number of rows currently in the row store.
func (t *Tree) NSamples() int {
	if t.rows == nil {
		return 0
	}
	return t.rows.len()
}
