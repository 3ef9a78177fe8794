package scorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

func newScorerServer(t *testing.T, score float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"feature_columns": []string{"bytes_in", "bytes_out", "login_failures"},
			"model_version":   "test",
		})
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// The vector must follow the metadata's canonical order.
		assert.Equal(t, []float64{100, 5000, 3}, req.Features)
		json.NewEncoder(w).Encode(map[string]any{
			"anomaly_score": score,
			"is_anomaly":    score >= 0.5,
		})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func TestNewClientLoadsFeatureOrder(t *testing.T) {
	srv := newScorerServer(t, 0.8)
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"bytes_in", "bytes_out", "login_failures"}, client.RequiredFeatures())
}

func TestNewClientFailsWhenScorerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second)
	assert.ErrorIs(t, err, core.ErrScorerUnavailable)
}

func TestNewClientFailsOnEmptyFeatureSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"feature_columns": []string{}})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second)
	assert.ErrorIs(t, err, core.ErrScorerUnavailable)
}

func TestPredictOrdersFeaturesAndRelaysScore(t *testing.T) {
	srv := newScorerServer(t, 0.83)
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)

	// Window keys deliberately out of canonical order.
	pred, err := client.Predict(context.Background(), core.FeatureWindow{
		"login_failures": 3,
		"bytes_in":       100,
		"bytes_out":      5000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.83, pred.AnomalyScore)
	assert.True(t, pred.IsAnomaly)
}

func TestPredictRejectsIncompleteWindow(t *testing.T) {
	srv := newScorerServer(t, 0.5)
	defer srv.Close()

	client, err := NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), core.FeatureWindow{
		"bytes_in": 100,
		// bytes_out and login_failures absent
	})
	var missing *core.FeatureMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "bytes_out", missing.Feature)
}

func TestPredictFailsOnNon200(t *testing.T) {
	meta := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"feature_columns": []string{"x"}})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", meta)
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), core.FeatureWindow{"x": 1})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newScorerServer(t, 0.5)
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	assert.NoError(t, client.Health(context.Background()))
}
