package core

import (
	"errors"
	"fmt"
)

// ErrScorerUnavailable reports that the scorer service or its model artifacts
// could not be reached at startup. Fatal: the engine cannot initialize.
var ErrScorerUnavailable = errors.New("anomaly scorer unavailable")

// RuleDefinitionError reports a rule source that is empty, malformed, or uses
// a condition outside the predicate grammar. It rejects the rule set as a
// whole at load time.
type RuleDefinitionError struct {
	RuleID string
	Reason string
}

func (e *RuleDefinitionError) Error() string {
	if e.RuleID == "" {
		return "invalid rule set: " + e.Reason
	}
	return fmt.Sprintf("invalid rule %q: %s", e.RuleID, e.Reason)
}

// FeatureMissingError reports a window that lacks a feature the scorer
// requires. The window evaluation is aborted, never scored as zero.
type FeatureMissingError struct {
	Feature string
}

func (e *FeatureMissingError) Error() string {
	return fmt.Sprintf("missing feature in input window: %q", e.Feature)
}

// StorageError wraps a failed alert sink write. The decision core surfaces it
// to the caller and never retries internally.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("alert storage (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
