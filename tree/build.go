package tree

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Fit builds a decision tree from X (N x F binary matrix) and y (N
// binary vector). X and y must share N; F must be at least 1. Fit
// fails with ErrDegenerateRoot if y is constant.
func (t *Tree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: empty training set", ErrShapeMismatch)
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: X has %d rows, y has %d", ErrShapeMismatch, len(X), len(y))
	}

	nFeatures := len(X[0])
	if nFeatures == 0 {
		return fmt.Errorf("%w: no features", ErrShapeMismatch)
	}

	Xb := make([][]bool, len(X))
	yb := make([]bool, len(y))
	for i := range X {
		if len(X[i]) != nFeatures {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(X[i]), nFeatures)
		}
		xRow := make([]bool, nFeatures)
		for j, v := range X[i] {
			b, err := toBinary(v)
			if err != nil {
				return err
			}
			xRow[j] = b
		}
		Xb[i] = xRow

		b, err := toBinary(y[i])
		if err != nil {
			return err
		}
		yb[i] = b
	}

	rows := newRowStore()
	keys := rows.load(Xb, yb)

	seed := time.Now().UnixNano()
	if t.randomState != nil {
		seed = *t.randomState
	}
	t.rng = rand.New(rand.NewSource(seed))

	root, err := t.build(rows, t.rng, nFeatures, keys, 0)
	if err != nil {
		return err
	}

	t.rows = rows
	t.nFeatures = nFeatures
	t.Root = root
	return nil
}

func toBinary(v float64) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: value %v is not binary", ErrShapeMismatch, v)
	}
}

// build recurses on (rows, keys, depth), implementing Algorithm-style
// top-down growth: compute node stats, check terminal conditions,
// otherwise cache every viable feature's split record and draw one
// with the exponential mechanism.
func (t *Tree) build(rows *rowStore, rng *rand.Rand, nFeatures int, keys []int, depth int) (*node, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyNode
	}

	X, y, err := rows.gather(keys)
	if err != nil {
		return nil, err
	}

	count := len(keys)
	pos := 0
	for _, v := range y {
		if v {
			pos++
		}
	}
	mono := pos == 0 || pos == count

	if mono && depth == 0 {
		return nil, ErrDegenerateRoot
	}

	stats := nodeStats{count: count, posCount: pos, giniData: roundTo8(giniImpurity(count, pos))}

	if count < t.MinSamplesSplit || depth == t.MaxDepth || nFeatures-depth == 0 || mono {
		return makeLeaf(stats, keys), nil
	}

	perFeature := make(map[int]*splitRecord)
	var giniVals []float64
	var features []int

	for i := 0; i < nFeatures; i++ {
		leftCount, leftPos := 0, 0
		for r, xr := range X {
			if xr[i] {
				leftCount++
				if y[r] {
					leftPos++
				}
			}
		}
		rightCount := count - leftCount
		if leftCount == 0 || rightCount == 0 {
			continue // feature is constant at this node, not viable
		}
		rightPos := pos - leftPos

		sr := newSplitRecord(leftCount, leftPos, rightCount, rightPos, count)
		perFeature[i] = sr
		giniVals = append(giniVals, sr.giniIndex)
		features = append(features, i)
	}

	if len(features) == 0 {
		// every feature is constant among these rows; nothing to split on
		return makeLeaf(stats, keys), nil
	}

	stats.perFeature = perFeature
	chosen := sampleFeature(rng, t.Epsilon, t.Gamma, features, giniVals)

	var leftKeys, rightKeys []int
	for r, xr := range X {
		if xr[chosen] {
			leftKeys = append(leftKeys, keys[r])
		} else {
			rightKeys = append(rightKeys, keys[r])
		}
	}

	left, err := t.build(rows, rng, nFeatures, leftKeys, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := t.build(rows, rng, nFeatures, rightKeys, depth+1)
	if err != nil {
		return nil, err
	}

	return &node{featureI: chosen, stats: stats, left: left, right: right}, nil
}

func makeLeaf(stats nodeStats, keys []int) *node {
	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)
	leafValue := 0.0
	if stats.posCount != 0 {
		leafValue = float64(stats.posCount) / float64(stats.count)
	}
	return &node{leaf: true, leafValue: leafValue, indices: sorted, stats: stats}
}

// sampleFeature draws one feature from the exponential-mechanism
// distribution over the given Gini values, using rng. The caller
// seeds rng once per tree (see Tree.Fit), not per node, so the draw
// at every node shares one pseudo-random stream.
func sampleFeature(rng *rand.Rand, epsilon, gamma float64, features []int, giniVals []float64) int {
	weights := expWeights(epsilon, gamma, giniVals)
	var sum float64
	for _, w := range weights {
		sum += w
	}
	u := rng.Float64() * sum
	var cum float64
	for i, w := range weights {
		cum += w
		if u < cum {
			return features[i]
		}
	}
	return features[len(features)-1]
}
