package ml

// Scaler applies the normalisation fitted at training time.
type Scaler interface {
	Transform(x [][]float64) ([][]float64, error)
	NumFeatures() int
}

// Classifier maps each normalised row to a class index.
type Classifier interface {
	Predict(x [][]float64) ([]int, error)
	NumFeatures() int
	NumClasses() int
}

// LabelDecoder maps class indices back to the labels seen at training time.
type LabelDecoder interface {
	Decode(indices []int) ([]string, error)
	Classes() []string
}

// Predictor is anything that turns a FeatureVector into a Prediction.
type Predictor interface {
	Predict(v FeatureVector) (Prediction, error)
}
