package tree

import (
	"fmt"
	"io"
)

// Copy returns a deep copy of the tree and its row store. The copy
// shares no mutable state with the original.
func (t *Tree) Copy() *Tree {
	cp := &Tree{
		Epsilon:         t.Epsilon,
		Gamma:           t.Gamma,
		MaxDepth:        t.MaxDepth,
		MinSamplesSplit: t.MinSamplesSplit,
		Verbose:         t.Verbose,
		nFeatures:       t.nFeatures,
	}
	if t.randomState != nil {
		seed := *t.randomState
		cp.randomState = &seed
	}
	if t.rows != nil {
		cp.rows = t.rows.copy()
	}
	cp.Root = t.Root.copy()
	return cp
}

// Equals reports whether two trees have the same structure: the same
// feature choice (internal nodes) or leaf value (leaves), recursively.
// It does not compare row stores, hyperparameters, or trace history.
func (t *Tree) Equals(other *Tree) bool {
	if other == nil {
		return false
	}
	return equalNodes(t.Root, other.Root)
}

// WriteDOT renders the fitted tree as a Graphviz DOT graph for visual
// debugging. It has no bearing on the certified-removal contract.
func (t *Tree) WriteDOT(w io.Writer) error {
	if t.Root == nil {
		return fmt.Errorf("tree: write called before fit")
	}
	if _, err := fmt.Fprintln(w, "digraph dart {"); err != nil {
		return err
	}
	id := 0
	if err := writeDOTNode(w, t.Root, &id); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func writeDOTNode(w io.Writer, n *node, id *int) error {
	myID := *id
	*id++

	if n.leaf {
		_, err := fmt.Fprintf(w, "  n%d [label=\"leaf %.4f (%d rows)\", shape=box];\n", myID, n.leafValue, n.stats.count)
		return err
	}

	if _, err := fmt.Fprintf(w, "  n%d [label=\"x[%d]\"];\n", myID, n.featureI); err != nil {
		return err
	}

	leftID := *id
	if err := writeDOTNode(w, n.left, id); err != nil {
		return err
	}
	rightID := *id
	if err := writeDOTNode(w, n.right, id); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=\"1\"];\n", myID, leftID); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  n%d -> n%d [label=\"0\"];\n", myID, rightID)
	return err
}
