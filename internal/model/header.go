package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHeaderLineBreak marks a header line containing an embedded line break.
var ErrHeaderLineBreak = errors.New("header line contains a line break")

// HeaderSpec is the configured file header: plain text lines without comment
// delimiters. An empty header disables header normalization.
type HeaderSpec struct {
	lines []string
}

// NewHeaderSpec validates lines and builds a HeaderSpec. Blanks around each line
// are dropped: comments are compared without them, so a header keeping them
// would never match the comment it produced.
func NewHeaderSpec(lines []string) (HeaderSpec, error) {
	out := make([]string, len(lines))

	for i, line := range lines {
		if strings.ContainsAny(line, "\r\n") {
			return HeaderSpec{}, fmt.Errorf("line %d: %w", i+1, ErrHeaderLineBreak)
		}

		out[i] = strings.Trim(line, " \t")
	}

	return HeaderSpec{lines: out}, nil
}

// Lines returns a copy of the header lines.
func (h HeaderSpec) Lines() []string {
	out := make([]string, len(h.lines))
	copy(out, h.lines)

	return out
}

// Len returns the number of lines.
func (h HeaderSpec) Len() int { return len(h.lines) }

// IsEmpty reports whether header normalization is disabled.
func (h HeaderSpec) IsEmpty() bool { return len(h.lines) == 0 }

// Matches reports whether scanned equals the header line by line.
func (h HeaderSpec) Matches(scanned []string) bool {
	if len(scanned) != len(h.lines) {
		return false
	}

	for i := range scanned {
		if scanned[i] != h.lines[i] {
			return false
		}
	}

	return true
}

// commentDelimiters are stripped from configured header lines so the header stays
// grammar-neutral.
var commentDelimiters = []string{"//", "'", "#"}

// StripCommentDelimiter removes a leading line-comment delimiter and the
// whitespace after it. Lines without a delimiter are returned unchanged.
func StripCommentDelimiter(line string) string {
	for _, d := range commentDelimiters {
		if strings.HasPrefix(line, d) {
			return strings.TrimLeft(line[len(d):], " \t")
		}
	}

	return line
}

// ParseHeaderText splits header file content into lines, strips comment
// delimiters and drops trailing blank lines.
func ParseHeaderText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	for len(raw) > 0 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, StripCommentDelimiter(strings.TrimRight(l, " \t\r")))
	}

	return lines
}
