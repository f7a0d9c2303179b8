package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/adapter"
	"codefmt.dev/pkg/codefmt/internal/controller"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"golang.org/x/sync/errgroup"
)

// fingerprintVersion changes whenever rule output changes in a way that
// invalidates cached digests.
const fingerprintVersion = "1"

// parsePhase is reported for files that never reached the pipeline.
const parsePhase = "parse"

// FormatArgs contains the arguments for a formatting run.
type FormatArgs struct {
	Paths   []m.Path
	Exclude []string
	Ignore  []string

	// HeaderLines is the configured header. HeaderFile, when set, takes its place.
	HeaderLines []string
	HeaderFile  m.Path

	Disable        []string
	EscapeNonASCII bool
	Parallel       int

	Check bool
	Diff  bool

	Report   m.Path
	CacheDir m.Path
	NoCache  bool
}

// Workflow defines the formatting workflow driven by the CLI.
type Workflow interface {
	Format(ctx context.Context, args FormatArgs) error
	ListRules(ctx context.Context) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.Parser
	adapter.CacheStore
	adapter.ReportStore
	controller.UI

	symbols SymbolProvider
	ruleSet RuleSet
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	parser adapter.Parser,
	symbols SymbolProvider,
	cacheStore adapter.CacheStore,
	reportStore adapter.ReportStore,
	ui controller.UI,
	ruleSet RuleSet,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		Parser:          parser,
		CacheStore:      cacheStore,
		ReportStore:     reportStore,
		UI:              ui,
		symbols:         symbols,
		ruleSet:         ruleSet,
	}
}

// loadedFile is one discovered source and what parsing made of it.
type loadedFile struct {
	source  m.Source
	content []byte
	digest  string
	doc     *m.Document
	err     error
}

// Format discovers, parses and formats the sources named by args.
func (w *workflow) Format(ctx context.Context, args FormatArgs) error {
	mode := controller.WithFormatMode()
	if args.Check {
		mode = controller.WithCheckMode()
	}

	if err := w.Start(ctx, mode); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	opts, err := w.ruleOptions(ctx, args)
	if err != nil {
		return err
	}

	registry, err := BuildRegistry(w.ruleSet(opts), args.Disable...)
	if err != nil {
		slog.Error("Failed to build rule registry", "error", err)
		return err
	}

	sources, err := w.Get(ctx, args.Paths, adapter.SourceFilter{Exclude: args.Exclude, Ignore: args.Ignore})
	if err != nil {
		return fmt.Errorf("get sources: %w", err)
	}

	slog.Info("Discovered sources", "count", len(sources))

	files, err := w.load(ctx, sources, args.Parallel)
	if err != nil {
		return err
	}

	fingerprint, err := w.fingerprint(registry, opts)
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}

	cache := w.loadCache(ctx, args, fingerprint)

	program, err := buildProgram(files, cache, args.NoCache)
	if err != nil {
		return err
	}

	result, runErr := NewPipeline(registry, NewExecutor(w.symbols), args.Parallel).Run(ctx, program)
	if runErr != nil && ctx.Err() != nil {
		return runErr
	}

	report, err := w.settle(ctx, files, result, cache, args)
	if err != nil {
		return err
	}

	if runErr != nil {
		report.Errors = append(report.Errors, runErr.Error())
	}

	if !args.NoCache && args.CacheDir != "" {
		if err := w.Save(ctx, args.CacheDir, cache); err != nil {
			slog.Error("Failed to save cache", "dir", args.CacheDir, "error", err)
		}
	}

	if args.Report != "" {
		if err := w.SaveReport(ctx, args.Report, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return outcome(report, runErr, args.Check)
}

// ListRules displays every built-in rule in execution order.
func (w *workflow) ListRules(ctx context.Context) error {
	if err := w.Start(ctx, controller.WithRulesMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	registry, err := BuildRegistry(w.ruleSet(RuleOptions{EscapeNonASCII: true}))
	if err != nil {
		return err
	}

	rules := registry.Rules()
	rows := make([]controller.RuleRow, 0, len(rules))

	for _, r := range rules {
		info := r.Info()
		rows = append(rows, controller.RuleRow{
			Name:        info.Name,
			Phase:       info.Capability.String(),
			Ordinal:     info.Ordinal,
			Grammars:    info.Grammars,
			Description: info.Description,
		})
	}

	if err := w.DisplayRules(ctx, rows); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) ruleOptions(ctx context.Context, args FormatArgs) (RuleOptions, error) {
	lines := make([]string, 0, len(args.HeaderLines))
	for _, l := range args.HeaderLines {
		lines = append(lines, m.StripCommentDelimiter(l))
	}

	if args.HeaderFile != "" {
		if len(args.HeaderLines) > 0 {
			return RuleOptions{}, &ConfigurationError{Reason: "header lines and header file are mutually exclusive"}
		}

		content, err := w.ReadFile(ctx, args.HeaderFile)
		if err != nil {
			return RuleOptions{}, &ConfigurationError{Reason: "read header file " + string(args.HeaderFile), Err: err}
		}

		lines = m.ParseHeaderText(string(content))
	}

	header, err := m.NewHeaderSpec(lines)
	if err != nil {
		return RuleOptions{}, &ConfigurationError{Reason: "header", Err: err}
	}

	return RuleOptions{Header: header, EscapeNonASCII: args.EscapeNonASCII}, nil
}

// load reads, digests and parses every source on a bounded pool. Per-file
// failures are kept in the result; only cancellation aborts.
func (w *workflow) load(ctx context.Context, sources []m.Source, parallel int) ([]*loadedFile, error) {
	files := make([]*loadedFile, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(parallel, 1))

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			files[i] = w.loadOne(groupCtx, source)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func (w *workflow) loadOne(ctx context.Context, source m.Source) *loadedFile {
	file := &loadedFile{source: source}

	content, err := w.ReadFile(ctx, source.Origin.FullPath)
	if err != nil {
		file.err = fmt.Errorf("read: %w", err)
		return file
	}

	file.content = content

	digest, err := w.Hash(content)
	if err != nil {
		file.err = fmt.Errorf("hash: %w", err)
		return file
	}

	file.digest = digest
	source.Origin.Hash = digest

	doc, err := w.Parse(ctx, source, content)
	if err != nil {
		slog.Error("Failed to parse source", "path", source.Origin.ShortPath, "error", err)
		file.err = err

		return file
	}

	file.doc = doc

	return file
}

func (w *workflow) fingerprint(registry Registry, opts RuleOptions) (string, error) {
	parts := []string{fingerprintVersion, strconv.FormatBool(opts.EscapeNonASCII)}

	for _, r := range registry.Rules() {
		info := r.Info()
		parts = append(parts, info.Name+"@"+strconv.Itoa(info.Ordinal))
	}

	parts = append(parts, opts.Header.Lines()...)

	return w.Hash([]byte(strings.Join(parts, "\n")))
}

func (w *workflow) loadCache(ctx context.Context, args FormatArgs, fingerprint string) *adapter.Cache {
	if args.NoCache || args.CacheDir == "" {
		return adapter.NewCache(fingerprint)
	}

	cache, err := w.Load(ctx, args.CacheDir, fingerprint)
	if err != nil {
		slog.Error("Failed to load cache, formatting everything", "dir", args.CacheDir, "error", err)
		return adapter.NewCache(fingerprint)
	}

	return cache
}

// buildProgram adds every parsed document to a program, marking documents whose
// content is already in formatted form as settled.
func buildProgram(files []*loadedFile, cache *adapter.Cache, noCache bool) (*m.Program, error) {
	program := m.NewProgram()

	for _, f := range files {
		if f.doc == nil {
			continue
		}

		f.doc.Settled = !noCache && cache.Settled(f.source.Origin.ShortPath, f.digest)

		if err := program.Add(f.doc); err != nil {
			return nil, fmt.Errorf("build program: %w", err)
		}
	}

	return program, nil
}

// settle turns pipeline results into file results and applies the output mode
// to every changed file.
func (w *workflow) settle(
	ctx context.Context,
	files []*loadedFile,
	result PipelineResult,
	cache *adapter.Cache,
	args FormatArgs,
) (m.RunReport, error) {
	report := m.RunReport{
		Files:       make([]m.FileResult, 0, len(files)),
		GlobalRules: result.Global.Applied,
	}

	for _, err := range result.Global.Failures {
		report.Errors = append(report.Errors, err.Error())
	}

	for _, f := range files {
		fr := m.FileResult{Path: f.source.Origin.ShortPath, Grammar: f.source.Grammar}

		if f.err != nil {
			fr.Status, fr.Phase, fr.Message, fr.Err = m.Failed, parsePhase, f.err.Error(), f.err
			report.Files = append(report.Files, fr)

			continue
		}

		after := f.doc.Root.Text()
		changed := after != string(f.content)

		outcome := result.Files[f.doc.ID]
		if outcome != nil {
			fr.Rules = outcome.Applied
		}

		switch {
		case outcome != nil && outcome.Failed():
			fr.Status, fr.Phase, fr.Message, fr.Err = m.Failed, outcome.Phase.String(), outcome.Err.Error(), outcome.Err
		case changed:
			fr.Status = m.Formatted
		case f.doc.Settled:
			fr.Status = m.Cached
		default:
			fr.Status = m.Unchanged
		}

		if changed {
			if err := w.emit(ctx, f, after, args); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return report, err
				}

				fr.Status, fr.Message, fr.Err = m.Failed, err.Error(), err
			}
		}

		if fr.Status != m.Failed {
			w.remember(cache, f.source.Origin.ShortPath, after)
		}

		report.Files = append(report.Files, fr)
	}

	return report, nil
}

// emit writes, diffs or only reports a changed file depending on the run mode.
func (w *workflow) emit(ctx context.Context, f *loadedFile, after string, args FormatArgs) error {
	switch {
	case args.Diff:
		return w.DisplayDiff(ctx, f.source.Origin.ShortPath, string(f.content), after)
	case args.Check:
		return nil
	default:
		slog.Debug("Writing formatted file", "path", f.source.Origin.ShortPath)

		if err := w.WriteFile(ctx, f.source.Origin.FullPath, []byte(after)); err != nil {
			slog.Error("Failed to write formatted file", "path", f.source.Origin.FullPath, "error", err)
			return fmt.Errorf("write: %w", err)
		}

		return nil
	}
}

func (w *workflow) remember(cache *adapter.Cache, path m.Path, formatted string) {
	digest, err := w.Hash([]byte(formatted))
	if err != nil {
		slog.Error("Failed to hash formatted content", "path", path, "error", err)
		return
	}

	cache.Digests[path] = digest
}

func outcome(report m.RunReport, runErr error, check bool) error {
	if runErr != nil {
		return fmt.Errorf("%w: %w", ErrRunFailed, runErr)
	}

	if failed := report.Count(m.Failed); failed > 0 || len(report.Errors) > 0 {
		return fmt.Errorf("%w: %d file(s), %d program error(s)", ErrRunFailed, failed, len(report.Errors))
	}

	if check && report.Count(m.Formatted) > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrCheckFailed, report.Count(m.Formatted))
	}

	return nil
}
