package ml

import (
	"fmt"
	"math"
)

// FeatureCount is the width of the schema every artifact is fitted against.
const FeatureCount = 16

// Input widget constraints shared by every collector.
const (
	FeatureMin     = 0.0
	FeatureDefault = 0.0
	FeatureStep    = 0.01
)

// Feature names one column of the schema. Key is the column name the artifacts were
// fitted with, Label is what users see.
type Feature struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var schema = [FeatureCount]Feature{
	{Key: "Area", Label: "Area"},
	{Key: "Perimeter", Label: "Perimeter"},
	{Key: "MajorAxisLength", Label: "Major Axis Length"},
	{Key: "MinorAxisLength", Label: "Minor Axis Length"},
	{Key: "AspectRation", Label: "Aspect Ratio"},
	{Key: "Eccentricity", Label: "Eccentricity"},
	{Key: "ConvexArea", Label: "Convex Area"},
	{Key: "EquivDiameter", Label: "Equivalent Diameter"},
	{Key: "Extent", Label: "Extent"},
	{Key: "Solidity", Label: "Solidity"},
	{Key: "roundness", Label: "Roundness"},
	{Key: "Compactness", Label: "Compactness"},
	{Key: "ShapeFactor1", Label: "ShapeFactor1"},
	{Key: "ShapeFactor2", Label: "ShapeFactor2"},
	{Key: "ShapeFactor3", Label: "ShapeFactor3"},
	{Key: "ShapeFactor4", Label: "ShapeFactor4"},
}

// Features returns the schema in order.
func Features() []Feature {
	out := make([]Feature, FeatureCount)
	copy(out, schema[:])
	return out
}

// FeatureNames returns the schema column keys in order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	for i, f := range schema {
		names[i] = f.Key
	}
	return names
}

// FeatureIndex returns the schema position of a column key or display label.
func FeatureIndex(name string) (int, bool) {
	for i, f := range schema {
		if f.Key == name || f.Label == name {
			return i, true
		}
	}
	return -1, false
}

// FeatureVector holds one bean's measurements in schema order.
// The zero value is the default form state.
type FeatureVector [FeatureCount]float64

// NewFeatureVector builds a vector from a slice that must have exactly FeatureCount values.
func NewFeatureVector(values []float64) (FeatureVector, error) {
	var v FeatureVector
	if len(values) != FeatureCount {
		return v, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidInput, FeatureCount, len(values))
	}
	copy(v[:], values)
	return v, v.Validate()
}

// FeatureVectorFromMap builds a vector from named values. Missing names keep the default.
func FeatureVectorFromMap(values map[string]float64) (FeatureVector, error) {
	var v FeatureVector
	for name, value := range values {
		idx, ok := FeatureIndex(name)
		if !ok {
			return v, fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, name)
		}
		v[idx] = value
	}
	return v, v.Validate()
}

// Validate checks every value is a finite number no lower than FeatureMin.
func (v FeatureVector) Validate() error {
	for i, value := range v {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, schema[i].Label)
		}
		if value < FeatureMin {
			return fmt.Errorf("%w: %s must be >= %g, got %g", ErrInvalidInput, schema[i].Label, FeatureMin, value)
		}
	}
	return nil
}

// Matrix frames the vector as the single-row matrix the artifacts expect.
func (v FeatureVector) Matrix() [][]float64 {
	row := make([]float64, FeatureCount)
	copy(row, v[:])
	return [][]float64{row}
}

// Map returns the values keyed by schema column.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, FeatureCount)
	for i, f := range schema {
		out[f.Key] = v[i]
	}
	return out
}

// Swap returns a copy with positions i and j exchanged.
func (v FeatureVector) Swap(i, j int) FeatureVector {
	v[i], v[j] = v[j], v[i]
	return v
}

func checkMatrix(x [][]float64, width int) error {
	if len(x) == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInvalidInput)
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidInput, i, len(row), width)
		}
	}
	return nil
}
