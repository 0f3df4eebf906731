package ml

import (
	"errors"
	"fmt"
)

// LinearClassifier scores each class as coef·x + intercept and picks the highest.
// A single coefficient row is the binary form: class 1 when the score is positive.
type LinearClassifier struct {
	coef      [][]float64
	intercept []float64
	nClasses  int
}

func NewLinearClassifier(coef [][]float64, intercept []float64, nClasses int) (*LinearClassifier, error) {
	if len(coef) == 0 {
		return nil, errors.New("linear classifier has no coefficients")
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("linear classifier has %d coefficient rows and %d intercepts", len(coef), len(intercept))
	}
	width := len(coef[0])
	for i, row := range coef {
		if len(row) != width || width == 0 {
			return nil, fmt.Errorf("coefficient row %d has %d columns, expected %d", i, len(row), width)
		}
	}
	switch {
	case len(coef) == 1 && nClasses != 2:
		return nil, fmt.Errorf("binary linear classifier must have 2 classes, got %d", nClasses)
	case len(coef) > 1 && nClasses != len(coef):
		return nil, fmt.Errorf("linear classifier has %d rows for %d classes", len(coef), nClasses)
	}
	return &LinearClassifier{coef: coef, intercept: intercept, nClasses: nClasses}, nil
}

func (lc *LinearClassifier) NumFeatures() int { return len(lc.coef[0]) }

func (lc *LinearClassifier) NumClasses() int { return lc.nClasses }

func (lc *LinearClassifier) Predict(x [][]float64) ([]int, error) {
	if err := checkMatrix(x, lc.NumFeatures()); err != nil {
		return nil, err
	}
	out := make([]int, len(x))
	scores := make([]float64, len(lc.coef))
	for i, row := range x {
		for k, w := range lc.coef {
			scores[k] = dot(w, row) + lc.intercept[k]
		}
		if len(scores) == 1 {
			if scores[0] > 0 {
				out[i] = 1
			}
			continue
		}
		out[i] = argmaxFloat(scores)
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func argmaxFloat(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
