package server

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KashifMalik777/ml-ids/pkg/model"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

// testModel flags flows whose duration is above 5
func testModel() *model.Model {
	return &model.Model{
		Features: []string{"flow_duration", "flow_bytes_s"},
		Scaler: model.Scaler{
			Mean:  []float64{5, 0},
			Scale: []float64{1, 1},
		},
		Logistic:  model.Logistic{Weights: []float64{4, 0}},
		Threshold: 0.5,
	}
}

func do(t *testing.T, s *Server, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, New(nil, testLogger()), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPredict(t *testing.T) {
	s := New(testModel(), testLogger())

	rec := do(t, s, http.MethodPost, "/predict", `{"Flow Duration": 9, " Flow Bytes/s": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Prediction)
	assert.Equal(t, "Attack", resp.Label)
	assert.True(t, resp.Probability > 0.99)

	rec = do(t, s, http.MethodPost, "/predict", `{"flow_duration": 1, "flow_bytes_s": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Prediction)
	assert.Equal(t, "Benign", resp.Label)
}

func TestPredictBadRequests(t *testing.T) {
	s := New(testModel(), testLogger())

	rec := do(t, s, http.MethodPost, "/predict", `{"flow_duration": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "flow_bytes_s")

	rec = do(t, s, http.MethodPost, "/predict", `{"flow_duration": "fast"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/predict", `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/predict", `{"Flow Duration": 1, "flow_duration": 2, "flow_bytes_s": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictWithoutModel(t *testing.T) {
	s := New(nil, testLogger())
	rec := do(t, s, http.MethodPost, "/predict", `{"flow_duration": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no model loaded")

	s.SetModel(testModel())
	rec = do(t, s, http.MethodPost, "/predict", `{"flow_duration": 1, "flow_bytes_s": 2}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := New(testModel(), testLogger())
	do(t, s, http.MethodPost, "/predict", `{"flow_duration": 9, "flow_bytes_s": 0}`)
	do(t, s, http.MethodGet, "/health", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ml_ids_predictions_total{label="Attack"} 1`)
	assert.Contains(t, body, `ml_ids_request_duration_seconds_count{code="200",path="/health"} 1`)
}
