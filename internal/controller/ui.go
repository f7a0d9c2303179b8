// Package controller renders formatting results for the CLI.
package controller

import (
	"context"
	"io"
	"os"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeFormat StartMode = iota
	ModeCheck
	ModeRules
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithFormatMode sets the UI to report rewritten files.
func WithFormatMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeFormat
	}
}

// WithCheckMode sets the UI to report files that would be rewritten.
func WithCheckMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCheck
	}
}

// WithRulesMode sets the UI to list rules.
func WithRulesMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRules
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// RuleRow describes one rule for display.
type RuleRow struct {
	Name        string
	Phase       string
	Ordinal     int
	Grammars    []m.Grammar
	Description string
}

// UI defines the interface for displaying formatting results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayRules(ctx context.Context, rules []RuleRow) error
	DisplayDiff(ctx context.Context, path m.Path, before, after string) error
	DisplayReport(ctx context.Context, report m.RunReport) error
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewUI returns the pager TUI on a terminal and the plain SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
