package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"drybean/artifact"
	"drybean/db"
	"drybean/ml"
	"drybean/monitoring"
)

// newTestHolder serves SEKER for Area <= 100000 and BOMBAY above.
func newTestHolder(t *testing.T) *artifact.Holder {
	t.Helper()
	tree, err := ml.NewDecisionTree([]ml.TreeNode{
		{FeatureIdx: 0, Threshold: 100000, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, ClassLabel: 0},
		{IsLeaf: true, ClassLabel: 1},
	}, ml.FeatureCount, 2)
	require.NoError(t, err)
	labels, err := ml.NewLabelEncoder([]string{"SEKER", "BOMBAY"})
	require.NoError(t, err)
	p, err := ml.NewPipeline(ml.IdentityScaler{Width: ml.FeatureCount}, tree, labels)
	require.NoError(t, err)
	report, err := p.SelfCheck()
	require.NoError(t, err)

	h := artifact.NewHolder(16)
	_, err = h.Swap(p, report)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

type testEnv struct {
	handler  http.Handler
	sessions *SessionStore
	metrics  *monitoring.Metrics
	history  *db.HistoryStore
}

func newTestEnv(t *testing.T, predictor Predictor, withHistory bool) *testEnv {
	t.Helper()
	env := &testEnv{sessions: NewSessionStore(8, time.Minute)}
	env.metrics = monitoring.NewMetrics(func() float64 { return float64(env.sessions.Len()) })
	if withHistory {
		store, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		env.history = store
	}

	env.handler = NewHandler(DefaultServerConfig(), Dependencies{
		Predictor: predictor,
		History:   env.history,
		Metrics:   env.metrics,
		Sessions:  env.sessions,
		Logger:    zaptest.NewLogger(t),
	})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", SessionCookie)
	return nil
}

func TestFormRendersDefaults(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<title>Dry Bean Classifier</title>")
	assert.Contains(t, body, "🌱 Dry Bean Type Classification")
	assert.Contains(t, body, "Enter physical measurements of a dry bean to predict its class.")
	assert.Contains(t, body, "Predict Bean Type")
	for _, f := range ml.Features() {
		assert.Contains(t, body, `name="`+f.Key+`" min="0" step="0.01" value="0"`)
		assert.Contains(t, body, ">"+f.Label+"</label>")
	}
	assert.NotContains(t, body, "Predicted Bean Type")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestFormPredictShowsResult(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), true)

	rec := env.do(formRequest("/predict", url.Values{"Area": {"250000"}, "Perimeter": {"800.5"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	req.Header.Set("Accept-Language", "de-DE")
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Predicted Bean Type: <strong>BOMBAY</strong>")
	assert.Contains(t, body, `name="Area" min="0" step="0.01" value="250000"`)
	assert.Contains(t, body, `name="Perimeter" min="0" step="0.01" value="800.5"`)
	assert.Contains(t, body, "<td>800,5</td>")

	records, err := env.history.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, SourceForm, records[0].Source)
	assert.Equal(t, cookie.Value, records[0].SessionID)
	assert.Equal(t, "BOMBAY", records[0].Label)
}

func TestFormRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"negative", "-1", "Area must be"},
		{"not a number", "abc", "Area must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(formRequest("/predict", url.Values{"Area": {tt.value}}))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `value="`+tt.value+`"`)
			assert.NotContains(t, body, "Predicted Bean Type")
		})
	}
	assert.Zero(t, env.sessions.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	first := sessionCookie(t, env.do(formRequest("/predict", url.Values{"Area": {"250000"}})))
	second := sessionCookie(t, env.do(formRequest("/predict", url.Values{"Area": {"10"}})))
	require.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, 2, env.sessions.Len())

	get := func(c *http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(c)
		return env.do(req).Body.String()
	}
	assert.Contains(t, get(first), "<strong>BOMBAY</strong>")
	assert.Contains(t, get(second), "<strong>SEKER</strong>")
	assert.Contains(t, get(first), `name="Area" min="0" step="0.01" value="250000"`)
	assert.Contains(t, get(second), `name="Area" min="0" step="0.01" value="10"`)
}

func TestFormReset(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	cookie := sessionCookie(t, env.do(formRequest("/predict", url.Values{"Area": {"250000"}})))
	rec := env.do(formRequest("/reset", url.Values{}, cookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cookie.Value, sessionCookie(t, rec).Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	body := env.do(req).Body.String()
	assert.NotContains(t, body, "Predicted Bean Type")
	assert.Contains(t, body, `name="Area" min="0" step="0.01" value="0"`)
}

func postJSON(path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAPIPredict(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), true)

	values := make([]float64, ml.FeatureCount)
	values[0] = 300000
	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{"named features", map[string]any{"features": map[string]float64{"Area": 500}}, http.StatusOK, "SEKER"},
		{"display label", map[string]any{"features": map[string]float64{"Aspect Ratio": 1.5}}, http.StatusOK, "SEKER"},
		{"ordered values", map[string]any{"values": values}, http.StatusOK, "BOMBAY"},
		{"empty body object", map[string]any{}, http.StatusOK, "SEKER"},
		{"negative value", map[string]any{"features": map[string]float64{"Area": -1}}, http.StatusBadRequest, ""},
		{"unknown feature", map[string]any{"features": map[string]float64{"Colour": 1}}, http.StatusBadRequest, ""},
		{"short vector", map[string]any{"values": []float64{1, 2}}, http.StatusBadRequest, ""},
		{"unknown field", map[string]any{"area": 1}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(postJSON("/api/predict", tt.body))
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["error"])
				return
			}
			var resp PredictResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Label)
			assert.Equal(t, "Predicted Bean Type: **"+tt.want+"**", resp.Message)
		})
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/history?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var records []db.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, SourceAPI, records[0].Source)
}

func TestAPIPredictWithoutPipeline(t *testing.T) {
	env := newTestEnv(t, artifact.NewHolder(0), false)

	rec := env.do(postJSON("/api/predict", map[string]any{}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPISchemaAndHealth(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var schema SchemaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	require.Len(t, schema.Features, ml.FeatureCount)
	assert.Equal(t, "Area", schema.Features[0].Key)
	assert.Equal(t, "Aspect Ratio", schema.Features[4].Label)
	assert.Equal(t, 0.01, schema.Features[15].Step)
	assert.Equal(t, []string{"SEKER", "BOMBAY"}, schema.Classes)
}

func TestAPIHistoryDisabled(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIHistoryBadLimit(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/history?limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	env.do(formRequest("/predict", url.Values{"Area": {"250000"}}))
	env.do(postJSON("/api/predict", map[string]any{"features": map[string]float64{"Area": -5}}))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `drybean_predictions_total{label="BOMBAY",source="form"} 1`)
	assert.Contains(t, body, "drybean_active_sessions 1")
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, newTestHolder(t), false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
