package domain

import (
	"context"
	"errors"
	"log/slog"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"golang.org/x/sync/errgroup"
)

// FileOutcome is what the pipeline did to one document.
type FileOutcome struct {
	// Applied names the rules that changed the document, in application order.
	Applied []string
	// Err is the RuleExecutionError that stopped the document's per-file phases.
	Err   error
	Phase Capability
}

// Failed reports whether a per-file phase failed for the document.
func (o *FileOutcome) Failed() bool { return o.Err != nil }

// PipelineResult collects per-document outcomes and the GlobalSemantic result.
type PipelineResult struct {
	Files  map[m.DocumentID]*FileOutcome
	Global ProgramResult
}

// Pipeline sequences the three phases over a program.
type Pipeline interface {
	Run(ctx context.Context, program *m.Program) (PipelineResult, error)
}

type pipeline struct {
	registry Registry
	executor Executor
	parallel int
}

// NewPipeline creates a Pipeline running per-file phases on at most parallel
// files at a time.
func NewPipeline(registry Registry, executor Executor, parallel int) Pipeline {
	if parallel < 1 {
		parallel = 1
	}

	return &pipeline{registry: registry, executor: executor, parallel: parallel}
}

// Run executes Syntactic for every file, then LocalSemantic for every file, then
// GlobalSemantic for the whole program. Document roots are updated in place.
//
// A RuleExecutionError ends a file's per-file phases but keeps it in the program.
// The returned error is a context error or a TransactionConflict; the result is
// valid in both cases.
func (p *pipeline) Run(ctx context.Context, program *m.Program) (PipelineResult, error) {
	result := PipelineResult{Files: make(map[m.DocumentID]*FileOutcome, program.Len())}
	for _, doc := range program.Documents() {
		result.Files[doc.ID] = &FileOutcome{}
	}

	if err := p.runPerFile(ctx, program, result, Syntactic); err != nil {
		return result, err
	}

	if err := p.runPerFile(ctx, program, result, LocalSemantic); err != nil {
		return result, err
	}

	global, err := p.runGlobal(ctx, program)
	result.Global = global

	for id, names := range global.Touched {
		if outcome, ok := result.Files[id]; ok {
			outcome.Applied = append(outcome.Applied, names...)
		}
	}

	return result, err
}

func (p *pipeline) runPerFile(ctx context.Context, program *m.Program, result PipelineResult, phase Capability) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.parallel)

	for _, doc := range program.Documents() {
		outcome := result.Files[doc.ID]
		if doc.Settled || outcome.Failed() {
			continue
		}

		rules := p.registry.RulesFor(phase, doc.Grammar)
		if len(rules) == 0 {
			continue
		}

		group.Go(func() error {
			var (
				unit UnitResult
				err  error
			)

			if phase == Syntactic {
				unit, err = p.executor.RunSyntactic(groupCtx, doc, rules)
			} else {
				unit, err = p.executor.RunLocalSemantic(groupCtx, doc, rules)
			}

			doc.Root = unit.Root
			outcome.Applied = append(outcome.Applied, unit.Applied...)

			var ruleErr *RuleExecutionError
			if errors.As(err, &ruleErr) {
				outcome.Err, outcome.Phase = err, phase
				return nil
			}

			return err
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Phase interrupted", "phase", phase, "error", err)
		return err
	}

	return nil
}

func (p *pipeline) runGlobal(ctx context.Context, program *m.Program) (ProgramResult, error) {
	grammars := make(map[m.Grammar]bool)
	for _, doc := range program.Documents() {
		grammars[doc.Grammar] = true
	}

	var rules []Rule

	for _, r := range p.registry.Rules() {
		info := r.Info()
		if info.Capability != GlobalSemantic {
			continue
		}

		for g := range grammars {
			if info.Supports(g) {
				rules = append(rules, r)
				break
			}
		}
	}

	if len(rules) == 0 {
		return ProgramResult{}, nil
	}

	return p.executor.RunGlobalSemantic(ctx, program, rules)
}
