// Package data loads CSV files into the binary feature matrices and
// label vectors tree.Tree and forest.Forest expect: every value, label
// included, must parse as 0/1 (or a recognizable boolean spelling).
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dataset is a parsed CSV file: X is binary-valued (0/1 per column), y
// is the binary label column, VarNames holds the header (or generated
// X1..Xn names if the file had none).
type Dataset struct {
	X        [][]float64
	Y        []float64
	VarNames []string
}

// Load reads a CSV file where the first column is the label and the
// rest are binary features. The first row is treated as a header if
// it fails to parse as all-numeric.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	row, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("data: reading header row: %w", err)
	}

	d := &Dataset{}
	if names, ok := parseHeader(row); ok {
		d.VarNames = names
	} else {
		for i := range row[1:] {
			d.VarNames = append(d.VarNames, fmt.Sprintf("X%d", i+1))
		}
		if err := d.appendRow(row); err != nil {
			return nil, fmt.Errorf("data: row 1: %w", err)
		}
	}

	for lineNum := 2; ; lineNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("data: reading row %d: %w", lineNum, err)
		}
		if err := d.appendRow(row); err != nil {
			return nil, fmt.Errorf("data: row %d: %w", lineNum, err)
		}
	}

	if len(d.X) == 0 {
		return nil, fmt.Errorf("data: no rows parsed")
	}
	return d, nil
}

func (d *Dataset) appendRow(row []string) error {
	if len(row) < 2 {
		return fmt.Errorf("row has fewer than 2 columns")
	}
	y, err := parseBinary(row[0])
	if err != nil {
		return fmt.Errorf("label column: %w", err)
	}
	xi := make([]float64, len(row)-1)
	for i, val := range row[1:] {
		fv, err := parseBinary(val)
		if err != nil {
			return fmt.Errorf("feature column %d: %w", i+1, err)
		}
		xi[i] = fv
	}
	d.X = append(d.X, xi)
	d.Y = append(d.Y, y)
	return nil
}

// parseBinary accepts "0"/"1", "true"/"false", "t"/"f" (case
// insensitive) and returns 0.0 or 1.0.
func parseBinary(val string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "t":
		return 1, nil
	case "0", "false", "f":
		return 0, nil
	}
	return 0, fmt.Errorf("%q is not a recognized binary value", val)
}

// parseHeader reports whether row looks like a header: a row is data,
// not a header, if every feature column parses as a number.
func parseHeader(row []string) ([]string, bool) {
	if len(row) < 2 {
		return nil, false
	}
	for _, val := range row[1:] {
		if _, err := strconv.ParseFloat(val, 64); err != nil {
			return row[1:], true
		}
	}
	return nil, false
}
