package http

import (
	"context"
	"time"

	"go.uber.org/zap"

	"drybean/db"
	"drybean/ml"
	"drybean/monitoring"
)

// Predictor is the inference surface the handlers need. artifact.Holder satisfies it.
type Predictor interface {
	ml.Predictor
	Classes() []string
}

// Dependencies 处理器依赖
type Dependencies struct {
	Predictor Predictor
	// History and Metrics are optional.
	History  *db.HistoryStore
	Metrics  *monitoring.Metrics
	Sessions *SessionStore
	Logger   *zap.Logger
}

// Handler 处理器
type Handler struct {
	deps Dependencies
}

// Prediction sources recorded in metrics and history.
const (
	SourceForm = "form"
	SourceAPI  = "api"
)

// predict runs one prediction and records it. History failures are logged only.
func (h *Handler) predict(ctx context.Context, source, sessionID string, v ml.FeatureVector) (ml.Prediction, error) {
	start := time.Now()
	p, err := h.deps.Predictor.Predict(v)
	h.deps.Metrics.ObservePrediction(source, p.Label, time.Since(start), err)
	if err != nil {
		h.deps.Logger.Warn("prediction failed",
			zap.String("source", source),
			zap.String("request_id", GetRequestID(ctx)),
			zap.Error(err))
		return ml.Prediction{}, err
	}

	if h.deps.History != nil {
		if err := h.deps.History.Save(ctx, sessionID, source, v, p); err != nil {
			h.deps.Logger.Error("failed to save prediction", zap.Error(err))
		}
	}
	return p, nil
}
