package ml

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPredictor memoises a pure Predictor. Only successful predictions are kept.
type CachedPredictor struct {
	next  Predictor
	cache *lru.Cache[FeatureVector, Prediction]
}

// NewCachedPredictor wraps next with an LRU of the given size. A non-positive size
// returns next unchanged.
func NewCachedPredictor(next Predictor, size int) (Predictor, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[FeatureVector, Prediction](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{next: next, cache: cache}, nil
}

func (c *CachedPredictor) Predict(v FeatureVector) (Prediction, error) {
	if p, ok := c.cache.Get(v); ok {
		return p, nil
	}
	p, err := c.next.Predict(v)
	if err != nil {
		return Prediction{}, err
	}
	c.cache.Add(v, p)
	return p, nil
}

// Len reports the number of cached vectors.
func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}
