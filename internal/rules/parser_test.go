package rules

import (
	"testing"
)

func TestCompileAcceptsGrammar(t *testing.T) {
	tests := []struct {
		name      string
		condition string
	}{
		{"simple comparison", "bytes_out > 400000"},
		{"conjunction", "bytes_out > 400000 and unique_dst_ports > 100"},
		{"disjunction", "dns_requests_per_min > 60 or login_failures >= 10"},
		{"negation", "not (packet_rate < 100)"},
		{"uppercase keywords", "bytes_out > 1000 AND bytes_in < 500"},
		{"symbolic combinators", "bytes_out > 1000 && bytes_in < 500 || !(login_failures == 0)"},
		{"arithmetic", "bytes_out / bytes_in > 10"},
		{"arithmetic with precedence", "bytes_out + bytes_in * 2 > 100000"},
		{"parenthesized arithmetic", "(bytes_out - bytes_in) / duration >= 5000"},
		{"unary minus", "delta < -0.5"},
		{"equality", "protocol_id == 6"},
		{"inequality", "protocol_id != 17"},
		{"string equality", "'tcp' == 'tcp'"},
		{"float literal", "entropy >= 7.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compile(tt.condition); err != nil {
				t.Errorf("compile(%q) failed: %v", tt.condition, err)
			}
		})
	}
}

func TestCompileRejectsOutsideGrammar(t *testing.T) {
	tests := []struct {
		name      string
		condition string
	}{
		{"function call", "abs(delta) > 1"},
		{"member access", "window.bytes_out > 1"},
		{"indexing", "features[0] > 1"},
		{"assignment", "bytes_out = 1"},
		{"bare feature is not boolean", "bytes_out"},
		{"arithmetic result is not boolean", "bytes_out + 1"},
		{"string literal is not boolean", "'blocked'"},
		{"chained comparison", "1 < bytes_out < 100"},
		{"boolean operand to comparison", "(a > 1) > 2"},
		{"logical over numbers", "bytes_out and bytes_in"},
		{"equality across types", "bytes_out == 'high'"},
		{"unterminated string", "proto == 'tc"},
		{"stray ampersand", "a > 1 & b > 2"},
		{"statement separator", "a > 1; b > 2"},
		{"empty expression", ""},
		{"trailing operator", "bytes_out >"},
		{"dangling tokens", "bytes_out > 1 bytes_in"},
		{"missing close paren", "(bytes_out > 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compile(tt.condition); err == nil {
				t.Errorf("compile(%q) should have been rejected", tt.condition)
			}
		})
	}
}

func TestShortCircuitSkipsMissingFeature(t *testing.T) {
	window := map[string]float64{"present": 5}

	// The right side references a missing feature but the left side already
	// decides the predicate.
	pred, err := compile("present > 1 or missing > 1")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	v, err := pred.eval(window)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !v.b {
		t.Error("expected predicate to match")
	}

	pred, err = compile("present < 1 and missing > 1")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	v, err = pred.eval(window)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if v.b {
		t.Error("expected predicate not to match")
	}
}
