package ml

import (
	"encoding/json"
	"fmt"
	"slices"
)

// LabelEncoder is the fitted index → label bijection.
type LabelEncoder struct {
	classes []string
}

func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: label encoder has no classes", ErrMalformedArtifact)
	}
	seen := make(map[string]struct{}, len(classes))
	for i, c := range classes {
		if c == "" {
			return nil, fmt.Errorf("%w: class %d is empty", ErrMalformedArtifact, i)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrMalformedArtifact, c)
		}
		seen[c] = struct{}{}
	}
	return &LabelEncoder{classes: slices.Clone(classes)}, nil
}

// LoadLabels decodes a label artifact of the form {"classes": [...]}.
func LoadLabels(data []byte) (*LabelEncoder, error) {
	var payload struct {
		Classes []string `json:"classes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: labels: %v", ErrMalformedArtifact, err)
	}
	return NewLabelEncoder(payload.Classes)
}

func (e *LabelEncoder) Classes() []string { return slices.Clone(e.classes) }

func (e *LabelEncoder) Decode(indices []int) ([]string, error) {
	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(e.classes) {
			return nil, fmt.Errorf("%w: %d (have %d classes)", ErrUnknownClass, idx, len(e.classes))
		}
		out[i] = e.classes[idx]
	}
	return out, nil
}
