package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WindowsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hids_windows_evaluated_total",
		Help: "Feature windows run through the hybrid decision core.",
	})

	WindowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hids_windows_failed_total",
		Help: "Windows aborted by a scorer failure (missing feature, scorer error).",
	})

	IntrusionsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hids_intrusions_total",
		Help: "Decisions flagged as intrusions, by severity.",
	}, []string{"severity"})

	RuleEvalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hids_rule_eval_failures_total",
		Help: "Individual rules skipped at evaluation time (missing feature, division by zero).",
	})

	AlertWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hids_alert_write_failures_total",
		Help: "Alert sink writes that returned a storage error.",
	})

	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hids_evaluation_duration_seconds",
		Help:    "End-to-end latency of one window evaluation.",
		Buckets: prometheus.DefBuckets,
	})

	RulesLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hids_rules_loaded",
		Help: "Rules in the active compiled rule set.",
	})
)
