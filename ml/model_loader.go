package ml

import (
	"encoding/json"
	"fmt"
)

// Classifier artifact formats.
const (
	FormatJSON = "json"
	FormatONNX = "onnx"
)

// Classifier types inside the JSON envelope.
const (
	ModelDecisionTree = "decision_tree"
	ModelRandomForest = "random_forest"
	ModelLinear       = "linear"
)

type classifierArtifact struct {
	Type      string       `json:"type"`
	NFeatures int          `json:"n_features"`
	NClasses  int          `json:"n_classes"`
	Nodes     []TreeNode   `json:"nodes"`
	Trees     [][]TreeNode `json:"trees"`
	Coef      [][]float64  `json:"coef"`
	Intercept []float64    `json:"intercept"`
}

// LoadClassifier decodes a classifier artifact in the given format.
func LoadClassifier(format string, data []byte, onnx ONNXOptions) (Classifier, error) {
	switch format {
	case "", FormatJSON:
		return loadJSONClassifier(data)
	case FormatONNX:
		return NewONNXClassifier(data, onnx)
	default:
		return nil, fmt.Errorf("%w: unsupported classifier format %q", ErrMalformedArtifact, format)
	}
}

func loadJSONClassifier(data []byte) (Classifier, error) {
	var a classifierArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", ErrMalformedArtifact, err)
	}

	var (
		model Classifier
		err   error
	)
	switch a.Type {
	case ModelDecisionTree:
		model, err = NewDecisionTree(a.Nodes, a.NFeatures, a.NClasses)
	case ModelRandomForest:
		trees := make([]*DecisionTree, len(a.Trees))
		for i, nodes := range a.Trees {
			if trees[i], err = NewDecisionTree(nodes, a.NFeatures, a.NClasses); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrMalformedArtifact, i, err)
			}
		}
		model, err = NewRandomForest(trees)
	case ModelLinear:
		model, err = NewLinearClassifier(a.Coef, a.Intercept, a.NClasses)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrMalformedArtifact, a.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArtifact, a.Type, err)
	}
	return model, nil
}
