package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

// LoadFile reads rule definitions from a YAML file: an ordered sequence of
// records with required id and condition, optional description and severity.
func LoadFile(path string) ([]core.RuleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.RuleDefinitionError{Reason: fmt.Sprintf("rules file not found: %v", err)}
	}

	var defs []core.RuleDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, &core.RuleDefinitionError{Reason: fmt.Sprintf("rules file must contain a list of rules: %v", err)}
	}
	return defs, nil
}

// FromFile loads and compiles a rule set from a YAML file in one step.
func FromFile(path string) (*Evaluator, error) {
	defs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(defs)
}
