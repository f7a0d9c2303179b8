package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mode = newStartConfig(options).mode

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayRules prints the rules table in execution order.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []RuleRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderRulesTable(rules))

	return nil
}

// DisplayDiff prints a colored unified diff.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, before, after string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := UnifiedDiff(path, before, after)
	if err != nil {
		return fmt.Errorf("diff %s: %w", path, err)
	}

	s.printf("%s", colorizeDiff(diff))

	return nil
}

// DisplayReport prints every file that changed or failed, then the totals.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReportTable(report, s.mode))

	for _, msg := range report.Errors {
		s.printf("error: %s\n", msg)
	}

	return nil
}

func renderRulesTable(rules []RuleRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Phase", "Order", "Grammars", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, r := range rules {
		table.Append([]string{r.Name, r.Phase, fmt.Sprintf("%d", r.Ordinal), grammarList(r.Grammars), r.Description})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Rules %d", len(rules)), "", "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func renderReportTable(report m.RunReport, mode StartMode) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Rules"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	files := make([]m.FileResult, 0, len(report.Files))
	for _, f := range report.Files {
		if f.Status == m.Formatted || f.Status == m.Failed {
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	for _, f := range files {
		detail := strings.Join(f.Rules, ", ")
		if f.Status == m.Failed {
			detail = f.Message
		}

		table.Append([]string{string(f.Path), statusLabel(f.Status, mode), detail})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(report.Files)),
		fmt.Sprintf("%d %s", report.Count(m.Formatted), statusLabel(m.Formatted, mode)),
		fmt.Sprintf("%d failed, %d cached", report.Count(m.Failed), report.Count(m.Cached)),
	})

	table.Render()

	return tableBuffer.String()
}

func statusLabel(status m.FileStatus, mode StartMode) string {
	if status == m.Formatted && mode == ModeCheck {
		return "needs formatting"
	}

	return status.String()
}

func grammarList(grammars []m.Grammar) string {
	if len(grammars) == 0 {
		return "all"
	}

	names := make([]string, len(grammars))
	for i, g := range grammars {
		names[i] = string(g)
	}

	return strings.Join(names, ", ")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
