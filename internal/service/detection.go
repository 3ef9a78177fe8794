package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/engine"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/metrics"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
)

// DetectionService runs windows through the fusion engine and records
// intrusions in the alert repository. The engine and its compiled rule set
// are immutable; Reload builds a fresh engine and swaps the pointer, so
// in-flight evaluations keep the set they started with.
type DetectionService struct {
	scorer core.AnomalyScorer
	alerts core.AlertRepository
	opts   engine.Options

	mu     sync.RWMutex
	engine *engine.Engine
	rules  *rules.Evaluator
}

func NewDetectionService(scorer core.AnomalyScorer, alerts core.AlertRepository, evaluator *rules.Evaluator, opts engine.Options) (*DetectionService, error) {
	eng, err := engine.New(scorer, evaluator, opts)
	if err != nil {
		return nil, err
	}
	metrics.RulesLoaded.Set(float64(evaluator.Len()))
	return &DetectionService{
		scorer: scorer,
		alerts: alerts,
		opts:   opts,
		engine: eng,
		rules:  evaluator,
	}, nil
}

// Process evaluates one window and persists the result when it is flagged as
// an intrusion. A scorer failure aborts this window only. A storage failure
// is surfaced alongside the (still valid) decision; it is never retried here.
func (s *DetectionService) Process(ctx context.Context, window core.FeatureWindow) (*core.DecisionResult, error) {
	start := time.Now()

	s.mu.RLock()
	eng := s.engine
	s.mu.RUnlock()

	result, err := eng.Evaluate(ctx, window)
	if err != nil {
		metrics.WindowsFailed.Inc()
		return nil, err
	}
	metrics.WindowsEvaluated.Inc()
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	if !result.IsIntrusion {
		return result, nil
	}

	metrics.IntrusionsDetected.WithLabelValues(string(result.Severity)).Inc()

	alert := core.Alert{
		Timestamp:    result.EvaluatedAt,
		MLScore:      result.MLScore,
		RuleScore:    result.RuleScore,
		FinalScore:   result.FinalScore,
		Severity:     result.Severity,
		MatchedRules: result.RuleIDs(),
	}
	if err := s.alerts.Record(ctx, alert); err != nil {
		metrics.AlertWriteFailures.Inc()
		return result, err
	}
	return result, nil
}

// Reload swaps in a newly compiled rule set.
func (s *DetectionService) Reload(evaluator *rules.Evaluator) error {
	eng, err := engine.New(s.scorer, evaluator, s.opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.engine = eng
	s.rules = evaluator
	s.mu.Unlock()

	metrics.RulesLoaded.Set(float64(evaluator.Len()))
	log.Printf("♻️  Rule set reloaded: %d rules active", evaluator.Len())
	return nil
}

// ActiveRules returns the metadata of the rule set currently in use.
func (s *DetectionService) ActiveRules() []core.RuleDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.Rules()
}
