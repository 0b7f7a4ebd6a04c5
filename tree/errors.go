package tree

import "errors"

// Sentinel errors for the tree package's failure cases.
// Compare with errors.Is; all are fatal to the call that surfaces
// them and leave the tree's prior state intact.
var (
	// ErrDegenerateRoot is returned when the root node would contain
	// instances from a single class only, either at Fit time or as
	// the result of a Delete call.
	ErrDegenerateRoot = errors.New("tree: root node contains instances from a single class only")

	// ErrEmptyNode is returned when a rebuild recurses into a node
	// with zero rows. This indicates an internal bug; it should never
	// be observed by a caller that keeps the row store and the
	// leaf/indices invariant intact between calls.
	ErrEmptyNode = errors.New("tree: recursion reached a node with zero rows")

	// ErrUnknownKey is returned by Delete, or by any row store lookup,
	// that references a row key not present in the row store.
	ErrUnknownKey = errors.New("tree: unknown row key")

	// ErrShapeMismatch is returned when Fit or Predict inputs have the
	// wrong rank, inconsistent row widths, or non-binary values.
	ErrShapeMismatch = errors.New("tree: inconsistent input shape")
)
