package ml

import "fmt"

// CheckReport summarises a successful SelfCheck.
type CheckReport struct {
	Features   int      `json:"features"`
	Classes    []string `json:"classes"`
	ProbeLabel string   `json:"probe_label"`
}

// SelfCheck verifies the artifacts agree on the schema and that the default form
// state can be classified.
func (p *Pipeline) SelfCheck() (CheckReport, error) {
	if n := p.scaler.NumFeatures(); n != FeatureCount {
		return CheckReport{}, fmt.Errorf("%w: scaler expects %d features, schema has %d", ErrSchemaMismatch, n, FeatureCount)
	}
	if n := p.classifier.NumFeatures(); n != FeatureCount {
		return CheckReport{}, fmt.Errorf("%w: classifier expects %d features, schema has %d", ErrSchemaMismatch, n, FeatureCount)
	}
	classes := p.decoder.Classes()
	if n := p.classifier.NumClasses(); n != len(classes) {
		return CheckReport{}, fmt.Errorf("%w: classifier has %d classes, decoder has %d", ErrSchemaMismatch, n, len(classes))
	}

	probe, err := p.Predict(FeatureVector{})
	if err != nil {
		return CheckReport{}, fmt.Errorf("probe prediction: %w", err)
	}
	return CheckReport{
		Features:   FeatureCount,
		Classes:    classes,
		ProbeLabel: probe.Label,
	}, nil
}
