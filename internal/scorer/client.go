// Package scorer adapts the external anomaly model service to the
// core.AnomalyScorer contract. The model itself (training, artifacts, the
// clamp of the raw decision value into [0,1]) lives behind the service; this
// client only presents features in the model's canonical order and relays the
// bounded score.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

type Client struct {
	baseURL  string
	http     *http.Client
	features []string // canonical feature order, fixed at construction
}

type metadataResponse struct {
	FeatureColumns []string `json:"feature_columns"`
	ModelVersion   string   `json:"model_version"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	AnomalyScore float64 `json:"anomaly_score"`
	IsAnomaly    bool    `json:"is_anomaly"`
}

// NewClient fetches the scorer's feature metadata and returns a ready client.
// An unreachable scorer or empty feature set is fatal at startup and reported
// as ErrScorerUnavailable.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}

	resp, err := c.http.Get(baseURL + "/metadata")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: metadata returned status %d", core.ErrScorerUnavailable, resp.StatusCode)
	}

	var meta metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: invalid metadata: %v", core.ErrScorerUnavailable, err)
	}
	if len(meta.FeatureColumns) == 0 {
		return nil, fmt.Errorf("%w: metadata declares no features", core.ErrScorerUnavailable)
	}

	c.features = meta.FeatureColumns
	return c, nil
}

// RequiredFeatures returns the model's canonical feature order.
func (c *Client) RequiredFeatures() []string {
	out := make([]string, len(c.features))
	copy(out, c.features)
	return out
}

// Predict scores one window. A window missing a required feature fails with
// FeatureMissingError before the scorer is called; it is never defaulted.
func (c *Client) Predict(ctx context.Context, window core.FeatureWindow) (core.Prediction, error) {
	vec := make([]float64, len(c.features))
	for i, name := range c.features {
		v, ok := window[name]
		if !ok {
			return core.Prediction{}, &core.FeatureMissingError{Feature: name}
		}
		vec[i] = v
	}

	body, err := json.Marshal(predictRequest{Features: vec})
	if err != nil {
		return core.Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return core.Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.Prediction{}, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Prediction{}, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return core.Prediction{}, fmt.Errorf("invalid scorer response: %w", err)
	}

	return core.Prediction{
		AnomalyScore: result.AnomalyScore,
		IsAnomaly:    result.IsAnomaly,
	}, nil
}

// Health pings the scorer service. Used by the system status endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scorer health returned status %d", resp.StatusCode)
	}
	return nil
}
