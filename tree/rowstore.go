package tree

import "fmt"

// row is one training instance: a binary feature vector and a binary
// label.
type row struct {
	x []bool
	y bool
}

// rowStore is the mapping from stable integer key to training row
// described in the data model. Keys are assigned once, at load time,
// and are never reused or renumbered even as rows are removed.
type rowStore struct {
	rows    map[int]row
	nextKey int
}

func newRowStore() *rowStore {
	return &rowStore{rows: make(map[int]row)}
}

// load assigns keys nextKey..nextKey+len(X)-1 to the given rows and
// returns the assigned keys in order.
func (s *rowStore) load(X [][]bool, y []bool) []int {
	keys := make([]int, len(X))
	for i := range X {
		k := s.nextKey
		s.nextKey++
		s.rows[k] = row{x: X[i], y: y[i]}
		keys[i] = k
	}
	return keys
}

// get returns the row stored under k, or ErrUnknownKey.
func (s *rowStore) get(k int) ([]bool, bool, error) {
	r, ok := s.rows[k]
	if !ok {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownKey, k)
	}
	return r.x, r.y, nil
}

// gather densely materializes the rows named by keys, preserving
// order, for use by a rebuild.
func (s *rowStore) gather(keys []int) ([][]bool, []bool, error) {
	X := make([][]bool, len(keys))
	y := make([]bool, len(keys))
	for i, k := range keys {
		r, ok := s.rows[k]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrUnknownKey, k)
		}
		X[i] = r.x
		y[i] = r.y
	}
	return X, y, nil
}

// remove deletes the row stored under k, or fails with ErrUnknownKey.
func (s *rowStore) remove(k int) error {
	if _, ok := s.rows[k]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKey, k)
	}
	delete(s.rows, k)
	return nil
}

func (s *rowStore) len() int {
	return len(s.rows)
}

func (s *rowStore) copy() *rowStore {
	cp := &rowStore{rows: make(map[int]row, len(s.rows)), nextKey: s.nextKey}
	for k, r := range s.rows {
		cp.rows[k] = row{x: append([]bool(nil), r.x...), y: r.y}
	}
	return cp
}
