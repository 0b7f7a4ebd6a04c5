package data

import (
	"strings"
	"testing"
)

func TestLoadWithHeader(t *testing.T) {
	r := strings.NewReader(binaryCSVWithHeader)
	d, err := Load(r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(d.VarNames) != 3 || d.VarNames[0] != "a" || d.VarNames[2] != "c" {
		t.Errorf("VarNames = %v, want [a b c]", d.VarNames)
	}
	if len(d.X) != 4 {
		t.Fatalf("len(X) = %d, want 4", len(d.X))
	}
	if len(d.X[0]) != 3 {
		t.Errorf("len(X[0]) = %d, want 3", len(d.X[0]))
	}
	if d.Y[1] != 0 {
		t.Errorf("Y[1] = %v, want 0", d.Y[1])
	}
	if d.X[2][0] != 0 || d.X[2][1] != 1 {
		t.Errorf("X[2] = %v, want [0 1 ...]", d.X[2])
	}
}

func TestLoadWithoutHeader(t *testing.T) {
	r := strings.NewReader(binaryCSVNoHeader)
	d, err := Load(r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"X1", "X2"}
	for i, w := range want {
		if d.VarNames[i] != w {
			t.Errorf("VarNames[%d] = %q, want %q", i, d.VarNames[i], w)
		}
	}
	if len(d.X) != 3 {
		t.Fatalf("len(X) = %d, want 3", len(d.X))
	}
}

func TestLoadAcceptsBooleanSpellings(t *testing.T) {
	r := strings.NewReader("label,f1,f2\ntrue,T,false\nfalse,f,TRUE\n")
	d, err := Load(r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Y[0] != 1 || d.Y[1] != 0 {
		t.Errorf("Y = %v, want [1 0]", d.Y)
	}
	if d.X[0][0] != 1 || d.X[0][1] != 0 {
		t.Errorf("X[0] = %v, want [1 0]", d.X[0])
	}
}

func TestLoadRejectsNonBinaryValue(t *testing.T) {
	r := strings.NewReader("label,f1\n1,2\n")
	if _, err := Load(r); err == nil {
		t.Error("expected an error for a non-binary feature value")
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	r := strings.NewReader("")
	if _, err := Load(r); err == nil {
		t.Error("expected an error for an empty file")
	}
}

var binaryCSVWithHeader = `label,a,b,c
1,1,0,1
0,0,0,1
1,0,1,0
0,1,1,1
`

var binaryCSVNoHeader = `1,1,0
0,0,1
1,1,1
`
