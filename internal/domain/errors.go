package domain

import (
	"errors"
	"fmt"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

var (
	// ErrNameCollision marks a rename whose target name is already taken.
	ErrNameCollision = errors.New("name collision")
	// ErrCheckFailed is returned by a --check run that found files needing formatting.
	ErrCheckFailed = errors.New("files need formatting")
	// ErrRunFailed is returned when at least one file or program-level rule failed.
	ErrRunFailed = errors.New("formatting failed")
)

// ConfigurationError is raised before any file is touched: malformed header,
// duplicate rule names, conflicting ordinals or unknown rule names.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}

	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProgramLocation is the location reported for GlobalSemantic failures.
const ProgramLocation = "program"

// RuleExecutionError reports a rule that failed while processing a unit of work.
type RuleExecutionError struct {
	Rule     string
	Phase    Capability
	Location string // document ID, or ProgramLocation
	Err      error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("rule %s (%s) failed on %s: %v", e.Rule, e.Phase, e.Location, e.Err)
}

func (e *RuleExecutionError) Unwrap() error { return e.Err }

// TransactionConflict rejects a GlobalSemantic batch that cannot be committed
// atomically.
type TransactionConflict struct {
	Rule     string
	Document m.DocumentID
	Path     m.NodePath
	Reason   string
}

func (e *TransactionConflict) Error() string {
	return fmt.Sprintf("rule %s: conflicting edit in %s at [%s]: %s", e.Rule, e.Document, e.Path, e.Reason)
}
