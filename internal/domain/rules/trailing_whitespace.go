package rules

import (
	"context"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type trailingWhitespace struct{}

// NewTrailingWhitespace creates the rule that strips whitespace at line ends.
func NewTrailingWhitespace() domain.SyntaxRule {
	return &trailingWhitespace{}
}

func (r *trailingWhitespace) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "TrailingWhitespace",
		Description: "Remove whitespace at the end of lines and of the file",
		Capability:  domain.Syntactic,
		Ordinal:     TrailingWhitespaceOrdinal,
	}
}

func (r *trailingWhitespace) Rewrite(_ context.Context, _ m.Grammar, root *m.Node) (*m.Node, bool, error) {
	next, changed := m.RewriteTokens(root, func(tok m.Token) (m.Token, bool) {
		eof := tok.Kind == m.EOFKind

		leading, lc := trimLineEnds(tok.Leading, eof && tok.Trailing.Len() == 0)
		trailing, tc := trimLineEnds(tok.Trailing, eof)

		if !lc && !tc {
			return tok, false
		}

		return tok.WithLeading(leading).WithTrailing(trailing), true
	})

	return next, changed, nil
}

// trimLineEnds drops whitespace followed by a line break, and the final
// whitespace of the list when atEnd is set. Line comments lose trailing blanks.
func trimLineEnds(list m.TriviaList, atEnd bool) (m.TriviaList, bool) {
	out, changed := list, false

	for i, t := range list {
		if t.Kind != m.TriviaLineComment {
			continue
		}

		if trimmed := strings.TrimRight(t.Text, " \t"); trimmed != t.Text {
			if !changed {
				out, changed = list.Clone(), true
			}

			out[i].Text = trimmed
		}
	}

	kept, dropped := out.Filter(func(i int, t m.Trivia) bool {
		if t.Kind != m.TriviaWhitespace {
			return true
		}

		j := i + 1
		for j < len(out) && out[j].Kind == m.TriviaWhitespace {
			j++
		}

		if j == len(out) {
			return !atEnd
		}

		return out[j].Kind != m.TriviaNewLine
	})

	return kept, changed || dropped
}
