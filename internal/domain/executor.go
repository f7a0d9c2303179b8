package domain

import (
	"context"
	"fmt"
	"log/slog"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// UnitResult is the outcome of one phase on one file.
type UnitResult struct {
	// Root is the tree after the last rule that succeeded.
	Root *m.Node
	// Applied names the rules that changed the tree, in order.
	Applied []string
}

// Changed reports whether any rule changed the tree.
func (r UnitResult) Changed() bool { return len(r.Applied) > 0 }

// ProgramResult is the outcome of the GlobalSemantic phase.
type ProgramResult struct {
	// Applied names the rules whose batches were committed, in order.
	Applied []string
	// Touched lists, per document, the committed rules that changed it.
	Touched map[m.DocumentID][]string
	// Failures holds the RuleExecutionErrors of rules whose batches were discarded.
	Failures []error
}

// Executor runs one capability class's ordered rules against one unit of work.
type Executor interface {
	RunSyntactic(ctx context.Context, doc *m.Document, rules []Rule) (UnitResult, error)
	RunLocalSemantic(ctx context.Context, doc *m.Document, rules []Rule) (UnitResult, error)
	RunGlobalSemantic(ctx context.Context, program *m.Program, rules []Rule) (ProgramResult, error)
}

type executor struct {
	symbols SymbolProvider
}

// NewExecutor creates an Executor. symbols may be nil when no semantic rule runs.
func NewExecutor(symbols SymbolProvider) Executor {
	return &executor{symbols: symbols}
}

// RunSyntactic applies rules in order. On failure the result holds the tree of the
// last successful rule together with a RuleExecutionError.
func (e *executor) RunSyntactic(ctx context.Context, doc *m.Document, rules []Rule) (UnitResult, error) {
	result := UnitResult{Root: doc.Root}

	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rule, ok := r.(SyntaxRule)
		if !ok {
			continue
		}

		next, changed, err := rule.Rewrite(ctx, doc.Grammar, result.Root)
		if err != nil {
			return result, e.ruleError(rule, string(doc.ID), err)
		}

		result = advance(result, rule, next, changed)
	}

	return result, nil
}

// RunLocalSemantic applies rules in order, recomputing the file's symbol view
// whenever a previous rule replaced the tree.
func (e *executor) RunLocalSemantic(ctx context.Context, doc *m.Document, rules []Rule) (UnitResult, error) {
	result := UnitResult{Root: doc.Root}
	fc := &fileContext{doc: *doc, provider: e.symbols}

	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rule, ok := r.(LocalSemanticRule)
		if !ok {
			continue
		}

		fc.doc.Root = result.Root

		view, err := fc.view(ctx)
		if err != nil {
			return result, e.ruleError(rule, string(doc.ID), fmt.Errorf("symbols: %w", err))
		}

		next, changed, err := rule.RewriteWithSymbols(ctx, doc.Grammar, result.Root, view)
		if err != nil {
			return result, e.ruleError(rule, string(doc.ID), err)
		}

		result = advance(result, rule, next, changed)
	}

	return result, nil
}

// RunGlobalSemantic runs every rule against the shared program view. A rule's
// batch is committed only after the rule returned without error and the batch
// validated; a TransactionConflict stops the phase and is returned.
func (e *executor) RunGlobalSemantic(ctx context.Context, program *m.Program, rules []Rule) (ProgramResult, error) {
	result := ProgramResult{Touched: make(map[m.DocumentID][]string)}

	pc := &programContext{program: program, provider: e.symbols}

	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rule, ok := r.(GlobalSemanticRule)
		if !ok {
			continue
		}

		name := rule.Info().Name

		view, err := pc.view(ctx)
		if err != nil {
			result.Failures = append(result.Failures, e.ruleError(rule, ProgramLocation, fmt.Errorf("symbols: %w", err)))
			continue
		}

		edits, err := rule.Plan(ctx, program, view)
		if err != nil {
			slog.Error("Global rule failed, discarding its batch", "rule", name, "error", err)
			result.Failures = append(result.Failures, e.ruleError(rule, ProgramLocation, err))

			continue
		}

		touched, err := commit(program, name, edits)
		if err != nil {
			slog.Error("Rejected global edit batch", "rule", name, "edits", len(edits), "error", err)
			return result, err
		}

		if len(touched) > 0 {
			slog.Debug("Committed global edit batch", "rule", name, "edits", len(edits), "documents", len(touched))
			result.Applied = append(result.Applied, name)

			for _, id := range touched {
				result.Touched[id] = append(result.Touched[id], name)
			}
		}
	}

	return result, nil
}

func (e *executor) ruleError(rule Rule, location string, err error) error {
	info := rule.Info()
	slog.Error("Rule failed", "rule", info.Name, "phase", info.Capability, "location", location, "error", err)

	return &RuleExecutionError{Rule: info.Name, Phase: info.Capability, Location: location, Err: err}
}

// advance records a rule's output. A change counts only when it is reported and
// the rule returned a different tree.
func advance(result UnitResult, rule Rule, next *m.Node, changed bool) UnitResult {
	if !changed || next == nil || next == result.Root {
		return result
	}

	result.Root = next
	result.Applied = append(result.Applied, rule.Info().Name)

	return result
}

// fileContext caches one file's symbol view for the tree it was computed from.
type fileContext struct {
	doc      m.Document
	provider SymbolProvider

	viewRoot *m.Node
	cached   m.SymbolView
}

func (c *fileContext) view(ctx context.Context) (m.SymbolView, error) {
	if c.cached != nil && c.viewRoot == c.doc.Root {
		return c.cached, nil
	}

	if c.provider == nil {
		return nil, fmt.Errorf("no symbol provider for %s", c.doc.Grammar)
	}

	view, err := c.provider.DocumentSymbols(ctx, &c.doc)
	if err != nil {
		return nil, err
	}

	c.cached, c.viewRoot = view, c.doc.Root

	return view, nil
}

// programContext caches the program view until any document's tree changes.
type programContext struct {
	program  *m.Program
	provider SymbolProvider

	roots  map[m.DocumentID]*m.Node
	cached m.SymbolView
}

func (c *programContext) view(ctx context.Context) (m.SymbolView, error) {
	if c.cached != nil && !c.stale() {
		return c.cached, nil
	}

	if c.provider == nil {
		return nil, fmt.Errorf("no symbol provider")
	}

	view, err := c.provider.ProgramSymbols(ctx, c.program)
	if err != nil {
		return nil, err
	}

	c.cached = view
	c.roots = make(map[m.DocumentID]*m.Node, c.program.Len())

	for _, d := range c.program.Documents() {
		c.roots[d.ID] = d.Root
	}

	return view, nil
}

func (c *programContext) stale() bool {
	for _, d := range c.program.Documents() {
		if c.roots[d.ID] != d.Root {
			return true
		}
	}

	return false
}
