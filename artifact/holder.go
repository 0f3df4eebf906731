package artifact

import (
	"sync/atomic"
	"time"

	"drybean/ml"
)

type loaded struct {
	pipeline  *ml.Pipeline
	predictor ml.Predictor
	report    ml.CheckReport
	loadedAt  time.Time
}

// Holder serves predictions from the current pipeline. Replacing the pipeline swaps
// the pipeline, its cache and its report together.
type Holder struct {
	current   atomic.Pointer[loaded]
	cacheSize int
}

func NewHolder(cacheSize int) *Holder {
	return &Holder{cacheSize: cacheSize}
}

// Swap installs p and returns the pipeline it replaced, if any.
func (h *Holder) Swap(p *ml.Pipeline, report ml.CheckReport) (*ml.Pipeline, error) {
	predictor, err := ml.NewCachedPredictor(p, h.cacheSize)
	if err != nil {
		return nil, err
	}
	prev := h.current.Swap(&loaded{
		pipeline:  p,
		predictor: predictor,
		report:    report,
		loadedAt:  time.Now(),
	})
	if prev == nil {
		return nil, nil
	}
	return prev.pipeline, nil
}

func (h *Holder) Predict(v ml.FeatureVector) (ml.Prediction, error) {
	cur := h.current.Load()
	if cur == nil {
		return ml.Prediction{}, ErrNoPipeline
	}
	return cur.predictor.Predict(v)
}

// Classes returns the labels of the current pipeline.
func (h *Holder) Classes() []string {
	cur := h.current.Load()
	if cur == nil {
		return nil
	}
	return cur.pipeline.Classes()
}

// Report returns the self-check report of the current pipeline.
func (h *Holder) Report() (ml.CheckReport, time.Time, bool) {
	cur := h.current.Load()
	if cur == nil {
		return ml.CheckReport{}, time.Time{}, false
	}
	return cur.report, cur.loadedAt, true
}

// Close releases the current pipeline.
func (h *Holder) Close() error {
	cur := h.current.Swap(nil)
	if cur == nil {
		return nil
	}
	return cur.pipeline.Close()
}
