package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/engine"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
)

type stubScorer struct {
	score float64
	err   error
}

func (s *stubScorer) Predict(_ context.Context, _ core.FeatureWindow) (core.Prediction, error) {
	if s.err != nil {
		return core.Prediction{}, s.err
	}
	return core.Prediction{AnomalyScore: s.score, IsAnomaly: s.score >= 0.5}, nil
}

type memoryAlertRepo struct {
	alerts []core.Alert
	err    error
}

func (m *memoryAlertRepo) Record(_ context.Context, alert core.Alert) error {
	if m.err != nil {
		return m.err
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *memoryAlertRepo) GetAlerts(_ context.Context, _ core.AlertFilter) (*core.PaginatedAlerts, error) {
	return &core.PaginatedAlerts{Data: m.alerts}, nil
}

func loadRules(t *testing.T, defs ...core.RuleDefinition) *rules.Evaluator {
	t.Helper()
	ev, err := rules.Load(defs)
	require.NoError(t, err)
	return ev
}

func TestProcessRecordsIntrusion(t *testing.T) {
	ev := loadRules(t, core.RuleDefinition{ID: "exfil", Condition: "bytes_out > 400000", Severity: "high"})
	repo := &memoryAlertRepo{}
	svc, err := NewDetectionService(&stubScorer{score: 0.8}, repo, ev, engine.DefaultOptions())
	require.NoError(t, err)

	result, err := svc.Process(context.Background(), core.FeatureWindow{"bytes_out": 500000})
	require.NoError(t, err)
	assert.True(t, result.IsIntrusion)

	require.Len(t, repo.alerts, 1)
	alert := repo.alerts[0]
	assert.Equal(t, result.FinalScore, alert.FinalScore)
	assert.Equal(t, core.SeverityHigh, alert.Severity)
	assert.Equal(t, []string{"exfil"}, alert.MatchedRules)
}

func TestProcessSkipsStorageForNormalTraffic(t *testing.T) {
	ev := loadRules(t, core.RuleDefinition{ID: "exfil", Condition: "bytes_out > 400000", Severity: "high"})
	repo := &memoryAlertRepo{}
	svc, err := NewDetectionService(&stubScorer{score: 0.2}, repo, ev, engine.DefaultOptions())
	require.NoError(t, err)

	result, err := svc.Process(context.Background(), core.FeatureWindow{"bytes_out": 10})
	require.NoError(t, err)
	assert.False(t, result.IsIntrusion)
	assert.Empty(t, repo.alerts)
}

func TestProcessSurfacesStorageErrorWithResult(t *testing.T) {
	ev := loadRules(t, core.RuleDefinition{ID: "exfil", Condition: "bytes_out > 400000", Severity: "high"})
	repo := &memoryAlertRepo{err: &core.StorageError{Backend: "mongo", Err: errors.New("connection reset")}}
	svc, err := NewDetectionService(&stubScorer{score: 0.8}, repo, ev, engine.DefaultOptions())
	require.NoError(t, err)

	result, err := svc.Process(context.Background(), core.FeatureWindow{"bytes_out": 500000})

	// The decision is valid even when the sink is down.
	require.NotNil(t, result)
	assert.True(t, result.IsIntrusion)
	var storeErr *core.StorageError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "mongo", storeErr.Backend)
}

func TestProcessPropagatesScorerFailure(t *testing.T) {
	ev := loadRules(t, core.RuleDefinition{ID: "r1", Condition: "x > 0", Severity: "low"})
	wantErr := errors.New("scorer timeout")
	svc, err := NewDetectionService(&stubScorer{err: wantErr}, &memoryAlertRepo{}, ev, engine.DefaultOptions())
	require.NoError(t, err)

	result, err := svc.Process(context.Background(), core.FeatureWindow{"x": 1})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, wantErr)
}

func TestReloadSwapsRuleSet(t *testing.T) {
	ev := loadRules(t, core.RuleDefinition{ID: "old", Condition: "x > 0", Severity: "low"})
	repo := &memoryAlertRepo{}
	svc, err := NewDetectionService(&stubScorer{score: 0.9}, repo, ev, engine.DefaultOptions())
	require.NoError(t, err)

	replacement := loadRules(t,
		core.RuleDefinition{ID: "new-a", Condition: "x > 0", Severity: "critical"},
		core.RuleDefinition{ID: "new-b", Condition: "x > 10", Severity: "medium"},
	)
	require.NoError(t, svc.Reload(replacement))

	active := svc.ActiveRules()
	require.Len(t, active, 2)
	assert.Equal(t, "new-a", active[0].ID)

	result, err := svc.Process(context.Background(), core.FeatureWindow{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, core.SeverityCritical, result.Severity)
}
