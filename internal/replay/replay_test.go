package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/engine"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/service"
)

type stubScorer struct {
	score float64
}

func (s *stubScorer) Predict(_ context.Context, _ core.FeatureWindow) (core.Prediction, error) {
	return core.Prediction{AnomalyScore: s.score, IsAnomaly: s.score >= 0.5}, nil
}

type memoryAlertRepo struct {
	alerts []core.Alert
}

func (m *memoryAlertRepo) Record(_ context.Context, alert core.Alert) error {
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *memoryAlertRepo) GetAlerts(_ context.Context, _ core.AlertFilter) (*core.PaginatedAlerts, error) {
	return &core.PaginatedAlerts{Data: m.alerts}, nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "traffic.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newService(t *testing.T, score float64, repo *memoryAlertRepo) *service.DetectionService {
	t.Helper()
	ev, err := rules.Load([]core.RuleDefinition{
		{ID: "exfil", Description: "bulk outbound transfer", Condition: "bytes_out > 400000", Severity: "high"},
	})
	require.NoError(t, err)
	svc, err := service.NewDetectionService(&stubScorer{score: score}, repo, ev, engine.DefaultOptions())
	require.NoError(t, err)
	return svc
}

func TestRunReplaysEveryWindow(t *testing.T) {
	path := writeCSV(t, "bytes_in,bytes_out\n100,500000\n200,10\n")
	repo := &memoryAlertRepo{}
	runner := New(newService(t, 0.8, repo), path, time.Millisecond)

	require.NoError(t, runner.Run(context.Background()))

	// Row one fuses to 0.76 and alerts; row two has no rule match.
	require.Len(t, repo.alerts, 1)
	assert.Equal(t, []string{"exfil"}, repo.alerts[0].MatchedRules)
}

func TestRunSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "bytes_in,bytes_out\n100,not-a-number\n100\n200,500000\n")
	repo := &memoryAlertRepo{}
	runner := New(newService(t, 0.8, repo), path, time.Millisecond)

	require.NoError(t, runner.Run(context.Background()))
	assert.Len(t, repo.alerts, 1)
}

func TestRunHonorsCancellation(t *testing.T) {
	path := writeCSV(t, "bytes_in,bytes_out\n1,1\n2,2\n3,3\n")
	runner := New(newService(t, 0.1, &memoryAlertRepo{}), path, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("replay did not stop after cancellation")
	}
}

func TestRunFailsOnMissingFile(t *testing.T) {
	runner := New(newService(t, 0.1, &memoryAlertRepo{}), "/nonexistent/traffic.csv", time.Millisecond)
	assert.Error(t, runner.Run(context.Background()))
}

func TestRunFailsOnEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	runner := New(newService(t, 0.1, &memoryAlertRepo{}), path, time.Millisecond)
	assert.Error(t, runner.Run(context.Background()))
}
