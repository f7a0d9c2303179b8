package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// TUI implements UI using Bubble Tea for interactive display. Output is collected
// while the run progresses and shown by Wait, paged when it does not fit the screen.
type TUI struct {
	output io.Writer

	mu    sync.Mutex
	mode  StartMode
	title string
	lines []string
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = newStartConfig(options).mode
	t.lines = nil

	switch t.mode {
	case ModeCheck:
		t.title = "codefmt - check"
	case ModeRules:
		t.title = "codefmt - rules"
	default:
		t.title = "codefmt - format"
	}

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close(_ context.Context) {}

// Wait shows the collected output and blocks until the user quits the pager.
func (t *TUI) Wait(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	model := newPagerModel(t.title, t.lines)
	t.mu.Unlock()

	if f, ok := t.output.(*os.File); ok {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			model.width, model.height = width, height
		}
	}

	if !model.needsPagination() {
		_, _ = fmt.Fprint(t.output, model.View())
		return
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		_, _ = fmt.Fprint(t.output, model.View())
	}
}

// DisplayRules lists the rules in execution order.
func (t *TUI) DisplayRules(ctx context.Context, rules []RuleRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("  %-22s %-16s %3d  %s", r.Name, r.Phase, r.Ordinal, faintStyle.Render(grammarList(r.Grammars))))
	}

	t.append(lines...)

	return nil
}

// DisplayDiff adds a colored unified diff.
func (t *TUI) DisplayDiff(ctx context.Context, path m.Path, before, after string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	diff, err := UnifiedDiff(path, before, after)
	if err != nil {
		return fmt.Errorf("diff %s: %w", path, err)
	}

	t.append(strings.Split(strings.TrimRight(colorizeDiff(diff), "\n"), "\n")...)

	return nil
}

// DisplayReport adds one line per changed or failed file and the totals.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	files := make([]m.FileResult, 0, len(report.Files))
	for _, f := range report.Files {
		if f.Status == m.Formatted || f.Status == m.Failed {
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	t.mu.Lock()
	mode := t.mode
	t.mu.Unlock()

	lines := make([]string, 0, len(files)+4)

	for _, f := range files {
		if f.Status == m.Failed {
			lines = append(lines, failedStyle.Render("  ✗ "+string(f.Path))+faintStyle.Render("  "+f.Message))
			continue
		}

		lines = append(lines, changedStyle.Render("  ✓ "+string(f.Path))+faintStyle.Render("  "+strings.Join(f.Rules, ", ")))
	}

	lines = append(lines, "", fmt.Sprintf("  📊 %d file(s): %d %s, %d failed, %d cached",
		len(report.Files), report.Count(m.Formatted), statusLabel(m.Formatted, mode), report.Count(m.Failed), report.Count(m.Cached)))

	for _, msg := range report.Errors {
		lines = append(lines, failedStyle.Render("  error: "+msg))
	}

	t.append(lines...)

	return nil
}

func (t *TUI) append(lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, lines...)
}

// pagerModel is the Bubble Tea model showing the collected lines.
type pagerModel struct {
	title    string
	lines    []string
	height   int
	width    int
	offset   int
	quitting bool
}

func newPagerModel(title string, lines []string) pagerModel {
	return pagerModel{title: title, lines: lines}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.height = msg.Height
		pm.width = msg.Width

		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)
	}

	return pm, nil
}

type pagerKeys struct {
	Quit     key.Binding
	Down     key.Binding
	Up       key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageDown key.Binding
	PageUp   key.Binding
}

var keys = pagerKeys{
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	PageDown: key.NewBinding(key.WithKeys("d", "pgdown"), key.WithHelp("d", "page down")),
	PageUp:   key.NewBinding(key.WithKeys("u", "pgup"), key.WithHelp("u", "page up")),
}

func (k pagerKeys) footer() string {
	bindings := []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Quit}
	parts := make([]string, 0, len(bindings))

	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}

	return strings.Join(parts, " | ")
}

func (pm pagerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		pm.quitting = true
		return pm, tea.Quit
	case key.Matches(msg, keys.Down):
		pm.offset = min(pm.offset+1, pm.maxOffset())
	case key.Matches(msg, keys.Up):
		pm.offset = max(pm.offset-1, 0)
	case key.Matches(msg, keys.Top):
		pm.offset = 0
	case key.Matches(msg, keys.Bottom):
		pm.offset = pm.maxOffset()
	case key.Matches(msg, keys.PageDown):
		pm.offset = min(pm.offset+pm.linesPerPage(), pm.maxOffset())
	case key.Matches(msg, keys.PageUp):
		pm.offset = max(pm.offset-pm.linesPerPage(), 0)
	}

	return pm, nil
}

func (pm pagerModel) linesPerPage() int {
	if pm.height == 0 {
		return 10
	}

	// title + blank line + blank line + footer
	reserved := 4

	return max(pm.height-reserved, 1)
}

func (pm pagerModel) maxOffset() int {
	return max(len(pm.lines)-pm.linesPerPage(), 0)
}

func (pm pagerModel) needsPagination() bool {
	return pm.height > 0 && len(pm.lines) > pm.linesPerPage()
}

func (pm pagerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title))
	b.WriteString("\n\n")

	if len(pm.lines) == 0 {
		b.WriteString("  📭 Nothing to show\n")
		return b.String()
	}

	visible := pm.lines
	paged := pm.needsPagination()

	if paged {
		end := min(pm.offset+pm.linesPerPage(), len(pm.lines))
		visible = pm.lines[pm.offset:end]
	}

	for _, line := range visible {
		b.WriteString(pm.fit(line))
		b.WriteString("\n")
	}

	if paged {
		end := min(pm.offset+pm.linesPerPage(), len(pm.lines))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(fmt.Sprintf("  Lines %d-%d of %d | %s",
			pm.offset+1, end, len(pm.lines), keys.footer())))
		b.WriteString("\n")
	}

	return b.String()
}

// fit truncates plain lines to the terminal width. Styled lines are left alone so
// escape sequences are never cut.
func (pm pagerModel) fit(line string) string {
	if pm.width <= 0 || strings.Contains(line, "\x1b[") {
		return line
	}

	return runewidth.Truncate(line, pm.width, "…")
}
