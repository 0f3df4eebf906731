package ml

import (
	"errors"
	"fmt"
	"io"
)

// Prediction is the decoded output for one vector.
type Prediction struct {
	Label      string `json:"label"`
	ClassIndex int    `json:"class_index"`
}

// Pipeline chains the three loaded artifacts. It is immutable and safe for concurrent use.
type Pipeline struct {
	scaler     Scaler
	classifier Classifier
	decoder    LabelDecoder
}

func NewPipeline(scaler Scaler, classifier Classifier, decoder LabelDecoder) (*Pipeline, error) {
	if scaler == nil || classifier == nil || decoder == nil {
		return nil, errors.New("pipeline requires a scaler, a classifier and a label decoder")
	}
	return &Pipeline{scaler: scaler, classifier: classifier, decoder: decoder}, nil
}

// Predict runs scale → classify → decode on a single vector.
func (p *Pipeline) Predict(v FeatureVector) (Prediction, error) {
	if err := v.Validate(); err != nil {
		return Prediction{}, err
	}
	scaled, err := p.scaler.Transform(v.Matrix())
	if err != nil {
		return Prediction{}, fmt.Errorf("scale: %w", err)
	}
	indices, err := p.classifier.Predict(scaled)
	if err != nil {
		return Prediction{}, fmt.Errorf("classify: %w", err)
	}
	if len(indices) != 1 {
		return Prediction{}, fmt.Errorf("classify: expected 1 prediction, got %d", len(indices))
	}
	labels, err := p.decoder.Decode(indices)
	if err != nil {
		return Prediction{}, fmt.Errorf("decode: %w", err)
	}
	return Prediction{Label: labels[0], ClassIndex: indices[0]}, nil
}

// Classes lists every label the pipeline can produce.
func (p *Pipeline) Classes() []string {
	return p.decoder.Classes()
}

// Close releases classifier resources, if any.
func (p *Pipeline) Close() error {
	if c, ok := p.classifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
