package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

func def(id, condition, severity string) core.RuleDefinition {
	return core.RuleDefinition{ID: id, Description: "test rule " + id, Condition: condition, Severity: severity}
}

func TestLoadRejectsEmptySource(t *testing.T) {
	_, err := Load(nil)
	var defErr *core.RuleDefinitionError
	require.ErrorAs(t, err, &defErr)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	_, err := Load([]core.RuleDefinition{
		def("r1", "a > 1", "low"),
		def("r1", "b > 1", "high"),
	})
	var defErr *core.RuleDefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "r1", defErr.RuleID)
}

func TestLoadRejectsMissingFields(t *testing.T) {
	_, err := Load([]core.RuleDefinition{def("", "a > 1", "low")})
	assert.Error(t, err)

	_, err = Load([]core.RuleDefinition{def("r1", "", "low")})
	assert.Error(t, err)
}

func TestLoadRejectsBadCondition(t *testing.T) {
	_, err := Load([]core.RuleDefinition{def("r1", "exec('rm -rf')", "low")})
	var defErr *core.RuleDefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "r1", defErr.RuleID)
}

func TestEvaluateCollectsMatchesInDeclarationOrder(t *testing.T) {
	ev, err := Load([]core.RuleDefinition{
		def("low-noise", "noise > 1", "low"),
		def("exfil", "bytes_out > 400000", "high"),
		def("scan", "unique_dst_ports > 100", "medium"),
	})
	require.NoError(t, err)

	result := ev.Evaluate(core.FeatureWindow{
		"noise":            0,
		"bytes_out":        500000,
		"unique_dst_ports": 120,
	})

	require.Len(t, result.Matched, 2)
	assert.Equal(t, "exfil", result.Matched[0].RuleID)
	assert.Equal(t, "scan", result.Matched[1].RuleID)
	assert.InDelta(t, 1.0, result.RuleScore, 1e-9) // 0.7 + 0.4 clipped
}

func TestRuleScoreClipsAtOne(t *testing.T) {
	defs := []core.RuleDefinition{
		def("c1", "x > 0", "critical"),
		def("c2", "x > 0", "critical"),
		def("c3", "x > 0", "critical"),
	}
	ev, err := Load(defs)
	require.NoError(t, err)

	result := ev.Evaluate(core.FeatureWindow{"x": 1})
	assert.Len(t, result.Matched, 3)
	assert.Equal(t, 1.0, result.RuleScore)
}

func TestRuleScoreIsRounded(t *testing.T) {
	ev, err := Load([]core.RuleDefinition{
		def("a", "x > 0", "low"),
		def("b", "x > 0", "medium"),
	})
	require.NoError(t, err)

	result := ev.Evaluate(core.FeatureWindow{"x": 1})
	assert.Equal(t, 0.6, result.RuleScore)
}

func TestUnrecognizedSeverityDefaultsToLow(t *testing.T) {
	ev, err := Load([]core.RuleDefinition{def("r1", "x > 0", "catastrophic")})
	require.NoError(t, err)

	result := ev.Evaluate(core.FeatureWindow{"x": 1})
	require.Len(t, result.Matched, 1)
	assert.Equal(t, core.SeverityLow, result.Matched[0].Severity)
	assert.Equal(t, 0.2, result.RuleScore)
}

func TestPartialFailureIsolation(t *testing.T) {
	ev, err := Load([]core.RuleDefinition{
		def("broken", "not_in_window > 5", "critical"),
		def("works", "login_failures > 10", "high"),
		def("div-zero", "bytes_out / bytes_in > 10", "medium"),
	})
	require.NoError(t, err)

	// bytes_in is zero, so div-zero fails at evaluation time; not_in_window
	// is absent. Only "works" must match, and nothing may abort.
	result := ev.Evaluate(core.FeatureWindow{
		"login_failures": 15,
		"bytes_out":      1000,
		"bytes_in":       0,
	})

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "works", result.Matched[0].RuleID)
	assert.Equal(t, 0.7, result.RuleScore)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	ev, err := Load([]core.RuleDefinition{
		def("r1", "a > 1 and b < 5", "high"),
		def("r2", "a + b >= 4", "medium"),
	})
	require.NoError(t, err)

	window := core.FeatureWindow{"a": 2, "b": 3}
	first := ev.Evaluate(window)
	second := ev.Evaluate(window)
	assert.Equal(t, first, second)
}

func TestLoadErrorIsRuleDefinitionError(t *testing.T) {
	_, err := Load([]core.RuleDefinition{})
	var defErr *core.RuleDefinitionError
	assert.True(t, errors.As(err, &defErr))
}
