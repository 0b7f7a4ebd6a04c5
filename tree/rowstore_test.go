package tree

import (
	"errors"
	"testing"
)

func TestRowStoreLoadGetRemove(t *testing.T) {
	s := newRowStore()
	keys := s.load([][]bool{{true, false}, {false, true}}, []bool{true, false})
	if len(keys) != 2 || keys[0] != 0 || keys[1] != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}

	x, y, err := s.get(0)
	if err != nil {
		t.Fatalf("get(0): %v", err)
	}
	if !x[0] || x[1] || !y {
		t.Errorf("get(0) = %v, %v, want [true false] true", x, y)
	}

	if err := s.remove(0); err != nil {
		t.Fatalf("remove(0): %v", err)
	}
	if _, _, err := s.get(0); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("get after remove: err = %v, want ErrUnknownKey", err)
	}

	// keys are never reused: loading more rows continues from nextKey
	more := s.load([][]bool{{true, true}}, []bool{true})
	if more[0] != 2 {
		t.Errorf("new key = %d, want 2 (never reuse removed key 0)", more[0])
	}
}

func TestRowStoreGatherUnknownKey(t *testing.T) {
	s := newRowStore()
	s.load([][]bool{{true}}, []bool{true})
	if _, _, err := s.gather([]int{0, 99}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("gather with unknown key: err = %v, want ErrUnknownKey", err)
	}
}

func TestRowStoreRemoveUnknownKey(t *testing.T) {
	s := newRowStore()
	if err := s.remove(5); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("remove unknown key: err = %v, want ErrUnknownKey", err)
	}
}

func TestRowStoreCopyIsIndependent(t *testing.T) {
	s := newRowStore()
	s.load([][]bool{{true, false}}, []bool{true})
	cp := s.copy()
	cp.rows[0] = row{x: []bool{false, false}, y: false}

	x, y, err := s.get(0)
	if err != nil {
		t.Fatalf("get(0): %v", err)
	}
	if !x[0] || x[1] || !y {
		t.Errorf("original row mutated via copy: %v %v", x, y)
	}
}
