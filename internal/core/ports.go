package core

import (
	"context"
)

// AnomalyScorer scores one feature window with the external ML model. The
// returned anomaly score is already clamped into [0,1] by the scorer; callers
// must not re-clamp it. A window missing a required feature fails with
// FeatureMissingError rather than being silently defaulted.
type AnomalyScorer interface {
	Predict(ctx context.Context, window FeatureWindow) (Prediction, error)
}

// AlertRepository durably records intrusive decision results and serves the
// alerts API. Implementations must persist alerts with a monotonic identifier
// so the stored sequence reflects record order.
type AlertRepository interface {
	Record(ctx context.Context, alert Alert) error
	GetAlerts(ctx context.Context, filter AlertFilter) (*PaginatedAlerts, error)
}

// RuleRepository stores the managed rule set for the API surface.
type RuleRepository interface {
	GetAll(ctx context.Context) ([]RuleDefinition, error)
	Add(ctx context.Context, def RuleDefinition) error
	Delete(ctx context.Context, ruleID string) error
}

// UserRepository handles user authentication and management.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
