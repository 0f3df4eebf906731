package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"drybean/artifact"
	"drybean/ml"
	"drybean/presenter"
)

// RegisterAPIHandlers 注册JSON API
func (h *Handler) RegisterAPIHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/history", h.handleHistory)
}

// PredictRequest accepts either named features or the full ordered vector.
type PredictRequest struct {
	Features map[string]float64 `json:"features,omitempty"`
	Values   []float64          `json:"values,omitempty"`
}

// Vector resolves the request into a FeatureVector. Missing named features default to 0.
func (r PredictRequest) Vector() (ml.FeatureVector, error) {
	switch {
	case r.Values != nil && r.Features != nil:
		return ml.FeatureVector{}, fmt.Errorf("%w: give either features or values, not both", ml.ErrInvalidInput)
	case r.Values != nil:
		return ml.NewFeatureVector(r.Values)
	default:
		return ml.FeatureVectorFromMap(r.Features)
	}
}

// PredictResponse 预测响应
type PredictResponse struct {
	Label      string `json:"label"`
	ClassIndex int    `json:"class_index"`
	Message    string `json:"message"`
}

// SchemaField describes one input field.
type SchemaField struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// SchemaResponse lists the inputs in order and the classes that can be predicted.
type SchemaResponse struct {
	Features []SchemaField `json:"features"`
	Classes  []string      `json:"classes"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if len(h.deps.Predictor.Classes()) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	resp := SchemaResponse{Classes: h.deps.Predictor.Classes()}
	for _, f := range ml.Features() {
		resp.Features = append(resp.Features, SchemaField{
			Key:     f.Key,
			Label:   f.Label,
			Min:     ml.FeatureMin,
			Default: ml.FeatureDefault,
			Step:    ml.FeatureStep,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	v, err := req.Vector()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	p, err := h.predict(r.Context(), SourceAPI, "", v)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		Label:      p.Label,
		ClassIndex: p.ClassIndex,
		Message:    presenter.Message(p.Label),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.deps.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.deps.History.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ml.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, artifact.ErrNoPipeline), errors.Is(err, ml.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
