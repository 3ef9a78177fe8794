package rules

import (
	"log"
	"math"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/metrics"
)

// Rule is one compiled detection rule.
type Rule struct {
	ID          string
	Description string
	Severity    core.Severity
	pred        node
}

// Evaluator holds a validated, compiled rule set. It is immutable after Load
// and safe for concurrent use from any number of evaluation workers.
type Evaluator struct {
	rules []Rule
}

// Load validates and compiles a rule set. It fails with RuleDefinitionError if
// the source is empty, an id is missing or duplicated, or a condition does not
// parse under the predicate grammar. Severity labels outside the four
// recognized values default to low.
func Load(defs []core.RuleDefinition) (*Evaluator, error) {
	if len(defs) == 0 {
		return nil, &core.RuleDefinitionError{Reason: "rule source is empty"}
	}

	seen := make(map[string]bool, len(defs))
	compiled := make([]Rule, 0, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, &core.RuleDefinitionError{Reason: "rule without an id"}
		}
		if seen[def.ID] {
			return nil, &core.RuleDefinitionError{RuleID: def.ID, Reason: "duplicate rule id"}
		}
		seen[def.ID] = true

		if def.Condition == "" {
			return nil, &core.RuleDefinitionError{RuleID: def.ID, Reason: "missing condition"}
		}
		pred, err := compile(def.Condition)
		if err != nil {
			return nil, &core.RuleDefinitionError{RuleID: def.ID, Reason: err.Error()}
		}

		compiled = append(compiled, Rule{
			ID:          def.ID,
			Description: def.Description,
			Severity:    core.ParseSeverity(def.Severity),
			pred:        pred,
		})
	}

	return &Evaluator{rules: compiled}, nil
}

// Evaluate runs every rule against the window in declaration order. A rule
// whose predicate fails at evaluation time is skipped with a logged warning;
// it never blanks out the rest of the rule set. The rule score is the sum of
// matched severity weights, clipped at 1.0 and rounded to 3 decimals.
func (e *Evaluator) Evaluate(window core.FeatureWindow) core.RuleResult {
	var matched []core.MatchedRule
	total := 0.0

	for _, rule := range e.rules {
		v, err := rule.pred.eval(window)
		if err != nil {
			metrics.RuleEvalFailures.Inc()
			log.Printf("⚠️ Rule evaluation failed [%s]: %v", rule.ID, err)
			continue
		}
		if !v.b {
			continue
		}
		matched = append(matched, core.MatchedRule{
			RuleID:      rule.ID,
			Description: rule.Description,
			Severity:    rule.Severity,
		})
		total += rule.Severity.Weight()
	}

	return core.RuleResult{
		Matched:   matched,
		RuleScore: round3(math.Min(total, 1.0)),
	}
}

// Len reports the number of loaded rules.
func (e *Evaluator) Len() int { return len(e.rules) }

// Rules returns the compiled rule metadata in declaration order.
func (e *Evaluator) Rules() []core.RuleDefinition {
	out := make([]core.RuleDefinition, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, core.RuleDefinition{
			ID:          r.ID,
			Description: r.Description,
			Severity:    string(r.Severity),
		})
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
