package tree

import "fmt"

// PredictProba returns a two-column matrix [1-p, p] for each row of X,
// where p is the positive-class probability (leaf value) reached by
// that row.
func (t *Tree) PredictProba(X [][]float64) ([][]float64, error) {
	if t.Root == nil {
		return nil, fmt.Errorf("tree: predict called before fit")
	}

	out := make([][]float64, len(X))
	for i, xr := range X {
		if len(xr) != t.nFeatures {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(xr), t.nFeatures)
		}
		xb := make([]bool, t.nFeatures)
		for j, v := range xr {
			b, err := toBinary(v)
			if err != nil {
				return nil, err
			}
			xb[j] = b
		}
		p := leafValue(t.Root, xb)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

// Predict returns the argmax class, {0, 1}, for each row of X.
func (t *Tree) Predict(X [][]float64) ([]int, error) {
	proba, err := t.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, row := range proba {
		if row[1] > row[0] {
			out[i] = 1
		}
	}
	return out, nil
}

// leafValue walks the tree, taking the left branch when x[featureI]
// is set and the right branch otherwise, until it reaches a leaf.
func leafValue(root *node, x []bool) float64 {
	n := root
	for !n.leaf {
		if x[n.featureI] {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.leafValue
}
