package forest

import (
	"bytes"
	"testing"
)

// a single-feature, perfectly separable dataset: with only one candidate
// feature there is no split to choose among, so every tree (whatever
// rows its bootstrap sample draws) builds the same two-leaf shape and
// classifies every row correctly.
func toyXY() ([][]float64, []float64) {
	X := make([][]float64, 16)
	y := make([]float64, 16)
	for i := 0; i < 16; i++ {
		if i < 8 {
			X[i] = []float64{1}
			y[i] = 1
		} else {
			X[i] = []float64{0}
			y[i] = 0
		}
	}
	return X, y
}

func TestFitPredict(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(5), NumWorkers(2), MaxDepth(3), RandomState(0))
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(f.Trees) != 5 {
		t.Fatalf("len(Trees) = %d, want 5", len(f.Trees))
	}
	for i, tr := range f.Trees {
		if tr == nil {
			t.Fatalf("Trees[%d] is nil", i)
		}
	}

	pred, err := f.Predict(X)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for i, p := range pred {
		want := int(y[i])
		if p != want {
			t.Errorf("row %d: pred = %d, want %d", i, p, want)
		}
	}
}

func TestFitComputeOOB(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(20), NumWorkers(4), MaxDepth(3), ComputeOOB())
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(f.ConfusionMatrix) != 2 || len(f.ConfusionMatrix[0]) != 2 {
		t.Fatalf("ConfusionMatrix = %v, want 2x2", f.ConfusionMatrix)
	}
	total := 0
	for _, row := range f.ConfusionMatrix {
		total += row[0] + row[1]
	}
	if total == 0 {
		t.Errorf("no OOB votes were recorded across 20 trees")
	}
	if f.Accuracy < 0 || f.Accuracy > 1 {
		t.Errorf("Accuracy = %v, want in [0, 1]", f.Accuracy)
	}
}

func TestForestDeleteOnlyTouchesSamplingTrees(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(8), NumWorkers(2), MaxDepth(3), RandomState(1))
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	traces, err := f.Delete(0)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for i, trace := range traces {
		if len(trace) == 0 {
			t.Errorf("tree %d has an empty trace despite being recorded as touched", i)
		}
		found := false
		for _, orig := range f.origIndex[i] {
			if orig == 0 {
				found = true
				break
			}
		}
		if found {
			t.Errorf("tree %d should no longer carry original row 0 after delete", i)
		}
	}

	// predicting afterwards should still work: trees untouched by the
	// delete still cover the full feature space.
	if _, err := f.Predict(X); err != nil {
		t.Fatalf("Predict after Delete: %v", err)
	}
}

func TestForestDeleteUnknownIndexIsNoOp(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(4), RandomState(2))
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	traces, err := f.Delete(len(X) + 100)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(traces) != 0 {
		t.Errorf("traces = %v, want empty: no tree ever sampled an out-of-range row", traces)
	}
}

func TestForestSaveLoad(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(3), RandomState(3))
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := &Forest{}
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Trees) != len(f.Trees) {
		t.Fatalf("loaded %d trees, want %d", len(loaded.Trees), len(f.Trees))
	}

	want, err := f.Predict(X)
	if err != nil {
		t.Fatalf("Predict(original): %v", err)
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
}

func TestForestSaveLoadPreservesDeleteCapability(t *testing.T) {
	X, y := toyXY()
	f := NewForest(NumTrees(6), RandomState(4))
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded := &Forest{}
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// origIndex must have survived the round trip, or Delete silently
	// finds nothing to touch for any original row.
	traces, err := loaded.Delete(0)
	if err != nil {
		t.Fatalf("Delete after Load: %v", err)
	}
	if len(traces) == 0 {
		t.Errorf("Delete after Load touched no trees: origIndex did not survive Save/Load")
	}
}
