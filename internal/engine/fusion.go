// Package engine is the hybrid decision core: it fuses the ML anomaly score
// with the rule score into one final confidence value and classifies severity.
package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/rules"
)

// Options fix the fusion weights and alert threshold at construction time.
// The weights are not required to sum to 1; the final score is clamped into
// [0,1] before classification so operator-chosen weights cannot push it out
// of range.
type Options struct {
	MLWeight       float64
	RuleWeight     float64
	AlertThreshold float64
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MLWeight:       0.6,
		RuleWeight:     0.4,
		AlertThreshold: 0.7,
	}
}

// Engine combines one AnomalyScorer and one compiled rule set. Both are
// required at construction and immutable for the engine's lifetime, so
// concurrent evaluation of independent windows is safe.
type Engine struct {
	scorer core.AnomalyScorer
	rules  *rules.Evaluator
	opts   Options
}

// New builds a fusion engine. Scorer and rule evaluator are injected
// explicitly; there are no package-level instances.
func New(scorer core.AnomalyScorer, evaluator *rules.Evaluator, opts Options) (*Engine, error) {
	if scorer == nil {
		return nil, errors.New("fusion engine requires an anomaly scorer")
	}
	if evaluator == nil {
		return nil, errors.New("fusion engine requires a rule evaluator")
	}
	return &Engine{scorer: scorer, rules: evaluator, opts: opts}, nil
}

// Evaluate runs one window through both detectors and fuses the scores.
// A scorer failure aborts this window only and propagates unchanged; rule
// evaluation failures are absorbed inside the rule evaluator and never reach
// here as errors.
func (e *Engine) Evaluate(ctx context.Context, window core.FeatureWindow) (*core.DecisionResult, error) {
	ml, err := e.scorer.Predict(ctx, window)
	if err != nil {
		return nil, err
	}

	ruleResult := e.rules.Evaluate(window)

	final := e.opts.MLWeight*ml.AnomalyScore + e.opts.RuleWeight*ruleResult.RuleScore
	final = round4(clamp01(final))

	return &core.DecisionResult{
		MLScore:      ml.AnomalyScore,
		RuleScore:    ruleResult.RuleScore,
		FinalScore:   final,
		IsIntrusion:  final >= e.opts.AlertThreshold,
		Severity:     classifySeverity(final, ruleResult.Matched),
		MatchedRules: ruleResult.Matched,
		EvaluatedAt:  time.Now().UTC(),
	}, nil
}

// classifySeverity applies the decision table. A critical rule match wins over
// the score-derived severity: one high-confidence rule hit (a brute-force
// login pattern, say) escalates even when the blended score stays low.
func classifySeverity(finalScore float64, matched []core.MatchedRule) core.Severity {
	for _, m := range matched {
		if m.Severity == core.SeverityCritical {
			return core.SeverityCritical
		}
	}
	switch {
	case finalScore >= 0.9:
		return core.SeverityCritical
	case finalScore >= 0.75:
		return core.SeverityHigh
	case finalScore >= 0.5:
		return core.SeverityMedium
	default:
		return core.SeverityLow
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
