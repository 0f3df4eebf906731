package ml

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Scaler artifact types.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
	ScalerIdentity = "identity"
)

type scalerArtifact struct {
	Type         string    `json:"type"`
	NFeatures    int       `json:"n_features"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	Min          []float64 `json:"min"`
}

// LoadScaler decodes a scaler artifact.
func LoadScaler(data []byte) (Scaler, error) {
	var a scalerArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: scaler: %v", ErrMalformedArtifact, err)
	}
	if len(a.FeatureNames) > 0 && !slices.Equal(a.FeatureNames, FeatureNames()) {
		return nil, fmt.Errorf("%w: scaler fitted on %v", ErrSchemaMismatch, a.FeatureNames)
	}

	switch a.Type {
	case ScalerStandard:
		return NewStandardScaler(a.Mean, a.Scale)
	case ScalerMinMax:
		return NewMinMaxScaler(a.Min, a.Scale)
	case ScalerIdentity:
		if a.NFeatures <= 0 {
			return nil, fmt.Errorf("%w: identity scaler needs n_features", ErrMalformedArtifact)
		}
		return IdentityScaler{Width: a.NFeatures}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported scaler type %q", ErrMalformedArtifact, a.Type)
	}
}

// StandardScaler computes (x - mean) / scale per column.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler validates fitted parameters. A zero scale is treated as 1, matching
// how constant columns are fitted.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: standard scaler has %d means and %d scales", ErrMalformedArtifact, len(mean), len(scale))
	}
	s := &StandardScaler{
		mean:  slices.Clone(mean),
		scale: slices.Clone(scale),
	}
	for i, v := range s.scale {
		if v == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

func (s *StandardScaler) NumFeatures() int { return len(s.mean) }

func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if err := checkMatrix(x, len(s.mean)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.mean[j]) / s.scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// MinMaxScaler computes x*scale + min per column.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

func NewMinMaxScaler(min, scale []float64) (*MinMaxScaler, error) {
	if len(min) == 0 || len(min) != len(scale) {
		return nil, fmt.Errorf("%w: minmax scaler has %d mins and %d scales", ErrMalformedArtifact, len(min), len(scale))
	}
	return &MinMaxScaler{min: slices.Clone(min), scale: slices.Clone(scale)}, nil
}

func (s *MinMaxScaler) NumFeatures() int { return len(s.min) }

func (s *MinMaxScaler) Transform(x [][]float64) ([][]float64, error) {
	if err := checkMatrix(x, len(s.min)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v*s.scale[j] + s.min[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// IdentityScaler passes rows through unchanged.
type IdentityScaler struct {
	Width int
}

func (s IdentityScaler) NumFeatures() int { return s.Width }

func (s IdentityScaler) Transform(x [][]float64) ([][]float64, error) {
	if err := checkMatrix(x, s.Width); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = slices.Clone(row)
	}
	return out, nil
}
