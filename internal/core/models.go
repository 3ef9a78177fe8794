package core

import (
	"time"
)

// FeatureWindow is one discrete sample of named numeric measurements for a
// slice of traffic. It is built once per evaluation and never mutated.
type FeatureWindow map[string]float64

// Severity is the categorical escalation level assigned to rules and decisions.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityWeights = map[Severity]float64{
	SeverityLow:      0.2,
	SeverityMedium:   0.4,
	SeverityHigh:     0.7,
	SeverityCritical: 1.0,
}

// Weight returns the numeric contribution of a severity to the rule score.
// Unrecognized labels weigh the same as low.
func (s Severity) Weight() float64 {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return severityWeights[SeverityLow]
}

// ParseSeverity normalizes a severity label. Absent or unrecognized labels
// default to low, matching the weight fallback.
func ParseSeverity(label string) Severity {
	switch Severity(label) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(label)
	default:
		return SeverityLow
	}
}

// RuleDefinition is one record of the external rule source.
type RuleDefinition struct {
	ID          string `yaml:"id" bson:"_id" json:"id"`
	Description string `yaml:"description" bson:"description" json:"description"`
	Condition   string `yaml:"condition" bson:"condition" json:"condition"`
	Severity    string `yaml:"severity" bson:"severity" json:"severity"`
}

// MatchedRule is a view of a rule whose predicate evaluated true against a
// window. Its lifetime is tied to one evaluation call.
type MatchedRule struct {
	RuleID      string   `bson:"rule_id" json:"rule_id"`
	Description string   `bson:"description" json:"description"`
	Severity    Severity `bson:"severity" json:"severity"`
}

// RuleResult carries the outcome of evaluating a full rule set against one
// window: the matched rules in declaration order and the clipped score.
type RuleResult struct {
	Matched   []MatchedRule `json:"matched_rules"`
	RuleScore float64       `json:"rule_score"`
}

// Prediction is the bounded output of the external anomaly scorer.
type Prediction struct {
	AnomalyScore float64 `json:"anomaly_score"`
	IsAnomaly    bool    `json:"is_anomaly"`
}

// DecisionResult is the fused verdict for one FeatureWindow. It is constructed
// exactly once per evaluation, only by the fusion engine, and is immutable
// after creation.
type DecisionResult struct {
	MLScore      float64       `bson:"ml_score" json:"ml_score"`
	RuleScore    float64       `bson:"rule_score" json:"rule_score"`
	FinalScore   float64       `bson:"final_score" json:"final_score"`
	IsIntrusion  bool          `bson:"is_intrusion" json:"is_intrusion"`
	Severity     Severity      `bson:"severity" json:"severity"`
	MatchedRules []MatchedRule `bson:"matched_rules" json:"matched_rules"`
	EvaluatedAt  time.Time     `bson:"evaluated_at" json:"evaluated_at"`
}

// RuleIDs returns the matched rule ids in declaration order.
func (d *DecisionResult) RuleIDs() []string {
	ids := make([]string, 0, len(d.MatchedRules))
	for _, m := range d.MatchedRules {
		ids = append(ids, m.RuleID)
	}
	return ids
}

// Alert is the persisted record of an intrusive DecisionResult.
type Alert struct {
	ID           interface{} `bson:"_id,omitempty" json:"id,omitempty"`
	Timestamp    time.Time   `bson:"timestamp" json:"timestamp"`
	MLScore      float64     `bson:"ml_score" json:"ml_score"`
	RuleScore    float64     `bson:"rule_score" json:"rule_score"`
	FinalScore   float64     `bson:"final_score" json:"final_score"`
	Severity     Severity    `bson:"severity" json:"severity"`
	MatchedRules []string    `bson:"matched_rules" json:"matched_rules"`
}

// AlertFilter narrows and paginates alert queries.
type AlertFilter struct {
	Severity string
	Page     int64
	Limit    int64
}

// PaginatedAlerts is one page of persisted alerts, newest first.
type PaginatedAlerts struct {
	Data       []Alert `json:"data"`
	Pagination struct {
		CurrentPage int64 `json:"current_page"`
		TotalPages  int64 `json:"total_pages"`
		TotalItems  int64 `json:"total_items"`
		PerPage     int64 `json:"per_page"`
	} `json:"pagination"`
}

// --- AUTH MODELS ---

type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
