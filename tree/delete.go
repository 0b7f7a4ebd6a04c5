package tree

import (
	"fmt"
	"math"
	"sort"
)

// deleteBatch is the (X, y, keys) slice of a delete request that is
// currently routed to some subtree.
type deleteBatch struct {
	X    [][]bool
	y    []bool
	keys []int
}

func (b deleteBatch) len() int { return len(b.keys) }

func (b deleteBatch) posCount() int {
	c := 0
	for _, v := range b.y {
		if v {
			c++
		}
	}
	return c
}

// split partitions the batch by feature i, left getting the rows with
// x[i] = 1.
func (b deleteBatch) split(i int) (left, right deleteBatch) {
	for r, k := range b.keys {
		if b.X[r][i] {
			left.X = append(left.X, b.X[r])
			left.y = append(left.y, b.y[r])
			left.keys = append(left.keys, k)
		} else {
			right.X = append(right.X, b.X[r])
			right.y = append(right.y, b.y[r])
			right.keys = append(right.keys, k)
		}
	}
	return left, right
}

// Delete removes a nonempty batch of row keys from the tree and its
// row store, updating split caches in place where the existing tree
// is still an acceptable sample of the randomized learner, and
// rebuilding subtrees otherwise. It returns the ordered trace of
// per-subtree action tags ("1a", "1b", "2a_<depth>", "2b_<depth>",
// "2c_<depth>").
//
// Delete is atomic: on error, the tree and row store are left exactly
// as they were before the call.
func (t *Tree) Delete(removeKeys []int) ([]string, error) {
	if len(removeKeys) == 0 {
		return []string{}, nil
	}
	if t.Root == nil {
		return nil, fmt.Errorf("tree: delete called before fit")
	}

	Xb := make([][]bool, len(removeKeys))
	yb := make([]bool, len(removeKeys))
	for i, k := range removeKeys {
		x, y, err := t.rows.get(k)
		if err != nil {
			return nil, err
		}
		Xb[i] = x
		yb[i] = y
	}

	// The root always observes the entire batch, so the degenerate
	// root condition can be checked -- and the call rejected -- before
	// any node is mutated, which is what keeps Delete atomic without
	// needing a shadow copy of the whole tree.
	removedPos := 0
	for _, y := range yb {
		if y {
			removedPos++
		}
	}
	newRootCount := t.Root.stats.count - len(removeKeys)
	newRootPos := t.Root.stats.posCount - removedPos
	if newRootCount >= 0 && (newRootPos == 0 || newRootPos == newRootCount) {
		return nil, ErrDegenerateRoot
	}

	batch := deleteBatch{X: Xb, y: yb, keys: append([]int(nil), removeKeys...)}
	trace := make([]string, 0, 4)

	newRoot, err := t.deleteSubtree(t.Root, batch, 0, &trace)
	if err != nil {
		return nil, err
	}
	t.Root = newRoot

	for _, k := range removeKeys {
		if err := t.rows.remove(k); err != nil {
			return nil, err
		}
	}

	return trace, nil
}

func (t *Tree) deleteSubtree(v *node, b deleteBatch, depth int, trace *[]string) (*node, error) {
	if v.leaf {
		v.stats.count -= b.len()
		v.stats.posCount -= b.posCount()
		if v.stats.posCount == 0 {
			v.leafValue = 0
		} else {
			v.leafValue = float64(v.stats.posCount) / float64(v.stats.count)
		}
		v.indices = removeSorted(v.indices, b.keys)
		*trace = append(*trace, "1a")
		return v, nil
	}

	v.stats.count -= b.len()
	v.stats.posCount -= b.posCount()
	v.stats.giniData = roundTo8(giniImpurity(v.stats.count, v.stats.posCount))

	mono := v.stats.posCount == 0 || v.stats.posCount == v.stats.count
	if depth == 0 && mono {
		// unreachable in practice: Delete's precheck already rejects
		// this batch before mutating anything. Kept as a defensive
		// mirror of the root check that happens again at every
		// internal node.
		return nil, ErrDegenerateRoot
	}

	if mono {
		remaining := removeSorted(gatherIndices(v), b.keys)
		leafValue := 0.0
		if v.stats.posCount != 0 {
			leafValue = float64(v.stats.posCount) / float64(v.stats.count)
		}
		*trace = append(*trace, "1b")
		return &node{
			leaf:      true,
			leafValue: leafValue,
			indices:   remaining,
			stats:     nodeStats{count: v.stats.count, posCount: v.stats.posCount, giniData: v.stats.giniData},
		}, nil
	}

	left, right := b.split(v.featureI)

	current := v.stats.perFeature[v.featureI]
	if current.left.count-left.len() <= 0 || current.right.count-right.len() <= 0 {
		return t.rebuild(v, b, depth, trace, fmt.Sprintf("2a_%d", depth))
	}

	features := make([]int, 0, len(v.stats.perFeature))
	for i := range v.stats.perFeature {
		features = append(features, i)
	}
	sort.Ints(features)

	oldGini := make([]float64, len(features))
	newGini := make([]float64, len(features))
	invalidPos := make([]int, 0)
	anyInvalid := false

	for idx, i := range features {
		sr := v.stats.perFeature[i]
		oldGini[idx] = sr.giniIndex

		l, r := b.split(i)
		invalid := false
		if l.len() > 0 && !updateBranch(&sr.left, l.len(), l.posCount(), v.stats.count) {
			invalid = true
		}
		if r.len() > 0 && !updateBranch(&sr.right, r.len(), r.posCount(), v.stats.count) {
			invalid = true
		}

		if invalid {
			anyInvalid = true
			invalidPos = append(invalidPos, idx)
			newGini[idx] = 0
			delete(v.stats.perFeature, i)
		} else {
			sr.giniIndex = roundTo8(sr.left.weightedIndex + sr.right.weightedIndex)
			newGini[idx] = sr.giniIndex
		}
	}

	pOld := softmax(t.Epsilon, t.Gamma, oldGini)
	pNewWeights := expWeights(t.Epsilon, t.Gamma, newGini)
	for _, idx := range invalidPos {
		pNewWeights[idx] = 0
	}
	pNew := normalize(pNewWeights)

	diverged := false
	for i := range pOld {
		ratio := pNew[i] / pOld[i]
		if ratio > math.Exp(t.Epsilon) || ratio < math.Exp(-t.Epsilon) {
			diverged = true
			break
		}
	}

	if diverged {
		tag := "2c"
		if anyInvalid {
			tag = "2b"
		}
		return t.rebuild(v, b, depth, trace, fmt.Sprintf("%s_%d", tag, depth))
	}

	if left.len() > 0 {
		newLeft, err := t.deleteSubtree(v.left, left, depth+1, trace)
		if err != nil {
			return nil, err
		}
		v.left = newLeft
	}
	if right.len() > 0 {
		newRight, err := t.deleteSubtree(v.right, right, depth+1, trace)
		if err != nil {
			return nil, err
		}
		v.right = newRight
	}

	return v, nil
}

// rebuild gathers every remaining key under v (the subtree's current
// leaf indices, minus the batch being removed), refetches their rows
// from the row store, and reruns build from the given depth -- the
// hanging-branch and divergence-test rebuild paths share this.
func (t *Tree) rebuild(v *node, b deleteBatch, depth int, trace *[]string, tag string) (*node, error) {
	remaining := removeSorted(gatherIndices(v), b.keys)
	sub, err := t.build(t.rows, t.rng, t.nFeatures, remaining, depth)
	if err != nil {
		return nil, err
	}
	*trace = append(*trace, tag)
	return sub, nil
}

// removeSorted returns the sorted set difference all - remove.
func removeSorted(all, remove []int) []int {
	sorted := append([]int(nil), all...)
	sort.Ints(sorted)

	removeSet := make(map[int]struct{}, len(remove))
	for _, k := range remove {
		removeSet[k] = struct{}{}
	}

	out := sorted[:0]
	for _, k := range sorted {
		if _, ok := removeSet[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
