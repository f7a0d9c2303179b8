package domain

import (
	"context"
	"slices"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// Capability is the data a rule needs, which decides the phase it runs in.
type Capability uint8

const (
	// Syntactic rules see only the tree of one file.
	Syntactic Capability = iota
	// LocalSemantic rules also query the file's symbol view.
	LocalSemantic
	// GlobalSemantic rules see every document and return edit batches.
	GlobalSemantic
)

// Capabilities lists the phases in execution order.
var Capabilities = []Capability{Syntactic, LocalSemantic, GlobalSemantic}

func (c Capability) String() string {
	switch c {
	case Syntactic:
		return "syntactic"
	case LocalSemantic:
		return "local-semantic"
	case GlobalSemantic:
		return "global-semantic"
	default:
		return "unknown"
	}
}

// RuleInfo is the static description of a rule.
type RuleInfo struct {
	Name        string
	Description string
	Capability  Capability
	Ordinal     int
	// Grammars the rule applies to; empty means every grammar.
	Grammars []m.Grammar
	// Commutative rules may share an ordinal with other commutative rules.
	Commutative bool
}

// Supports reports whether the rule applies to grammar.
func (i RuleInfo) Supports(grammar m.Grammar) bool {
	return len(i.Grammars) == 0 || slices.Contains(i.Grammars, grammar)
}

// Rule is implemented by every formatting rule.
type Rule interface {
	Info() RuleInfo
}

// SyntaxRule rewrites one file's tree. It returns the original root and false
// when nothing changed.
type SyntaxRule interface {
	Rule
	Rewrite(ctx context.Context, grammar m.Grammar, root *m.Node) (*m.Node, bool, error)
}

// LocalSemanticRule rewrites one file's tree using that file's symbols. The view
// always describes root.
type LocalSemanticRule interface {
	Rule
	RewriteWithSymbols(ctx context.Context, grammar m.Grammar, root *m.Node, view m.SymbolView) (*m.Node, bool, error)
}

// GlobalSemanticRule plans edits across the whole program. The returned batch is
// committed atomically or not at all.
type GlobalSemanticRule interface {
	Rule
	Plan(ctx context.Context, program *m.Program, view m.SymbolView) ([]m.Edit, error)
}

// SymbolProvider computes symbol views for the current trees.
type SymbolProvider interface {
	DocumentSymbols(ctx context.Context, doc *m.Document) (m.SymbolView, error)
	ProgramSymbols(ctx context.Context, program *m.Program) (m.SymbolView, error)
}

// RuleOptions carries the run-wide settings rules are built from.
type RuleOptions struct {
	Header         m.HeaderSpec
	EscapeNonASCII bool
}

// RuleSet builds the rules for a run.
type RuleSet func(opts RuleOptions) []Rule
