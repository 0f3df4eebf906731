package ml

type constClassifier struct {
	class    int
	nClasses int
}

func (c constClassifier) NumFeatures() int { return FeatureCount }
func (c constClassifier) NumClasses() int  { return c.nClasses }
func (c constClassifier) Predict(x [][]float64) ([]int, error) {
	if err := checkMatrix(x, FeatureCount); err != nil {
		return nil, err
	}
	out := make([]int, len(x))
	for i := range out {
		out[i] = c.class
	}
	return out, nil
}

// firstGreaterClassifier returns class 1 when column 0 exceeds column 1.
type firstGreaterClassifier struct{}

func (firstGreaterClassifier) NumFeatures() int { return FeatureCount }
func (firstGreaterClassifier) NumClasses() int  { return 2 }
func (firstGreaterClassifier) Predict(x [][]float64) ([]int, error) {
	out := make([]int, len(x))
	for i, row := range x {
		if row[0] > row[1] {
			out[i] = 1
		}
	}
	return out, nil
}

func mustPipeline(s Scaler, c Classifier, d LabelDecoder) *Pipeline {
	p, err := NewPipeline(s, c, d)
	if err != nil {
		panic(err)
	}
	return p
}

func mustLabels(classes ...string) *LabelEncoder {
	e, err := NewLabelEncoder(classes)
	if err != nil {
		panic(err)
	}
	return e
}

func sequenceVector() FeatureVector {
	var v FeatureVector
	for i := range v {
		v[i] = float64(i + 1)
	}
	return v
}
