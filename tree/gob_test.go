package tree

import (
	"bytes"
	"encoding/gob"
	"testing"
)

func TestTreeGobRoundTrip(t *testing.T) {
	orig := NewTree(RandomState(1))
	if err := orig.Fit([][]float64{{1, 0}, {1, 1}, {0, 1}, {0, 0}}, []float64{1, 1, 0, 0}); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(orig); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	loaded := &Tree{}
	if err := gob.NewDecoder(&buf).Decode(loaded); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !orig.Equals(loaded) {
		t.Fatalf("loaded tree structurally differs from the original")
	}
	if loaded.NSamples() != orig.NSamples() {
		t.Errorf("loaded NSamples = %d, want %d", loaded.NSamples(), orig.NSamples())
	}
	if loaded.NFeatures() != orig.NFeatures() {
		t.Errorf("loaded NFeatures = %d, want %d", loaded.NFeatures(), orig.NFeatures())
	}

	X := [][]float64{{1, 0}, {1, 1}, {0, 1}, {0, 0}}
	want, err := orig.Predict(X)
	if err != nil {
		t.Fatalf("Predict(orig): %v", err)
	}
	got, err := loaded.Predict(X)
	if err != nil {
		t.Fatalf("Predict(loaded): %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: loaded pred = %d, want %d", i, got[i], want[i])
		}
	}

	// the row store must survive the round trip: Delete needs it.
	if _, err := loaded.Delete([]int{0}); err != nil {
		t.Fatalf("Delete after round trip: %v", err)
	}
	if loaded.NSamples() != orig.NSamples()-1 {
		t.Errorf("NSamples after delete = %d, want %d", loaded.NSamples(), orig.NSamples()-1)
	}
}

func TestTreeGobRoundTripUnfitTree(t *testing.T) {
	orig := NewTree()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(orig); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	loaded := &Tree{}
	if err := gob.NewDecoder(&buf).Decode(loaded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if loaded.Root != nil {
		t.Errorf("loaded.Root = %+v, want nil", loaded.Root)
	}
	if loaded.NSamples() != 0 {
		t.Errorf("loaded.NSamples() = %d, want 0", loaded.NSamples())
	}
}
