package rules

import (
	"context"
	"testing"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ws(s string) m.Trivia  { return m.Trivia{Kind: m.TriviaWhitespace, Text: s} }
func nl() m.Trivia          { return m.Trivia{Kind: m.TriviaNewLine, Text: "\n"} }
func lc(s string) m.Trivia  { return m.Trivia{Kind: m.TriviaLineComment, Text: s} }
func dir(s string) m.Trivia { return m.Trivia{Kind: m.TriviaDirective, Text: s} }

func tok(kind, text string, leading, trailing m.TriviaList) *m.Node {
	return m.NewLeaf(m.Token{Kind: kind, Text: text, Leading: leading, Trailing: trailing})
}

func eof(leading m.TriviaList) *m.Node {
	return tok(m.EOFKind, "", leading, nil)
}

// file builds `<leading>kw name<trailing>` followed by EOF.
func file(leading, trailing, eofLeading m.TriviaList) *m.Node {
	return m.NewNode("source_file",
		m.NewNode("declaration",
			tok("var", "var", leading, m.TriviaList{ws(" ")}),
			tok("identifier", "x", nil, trailing),
		),
		eof(eofLeading),
	)
}

// rewriteTwice runs a syntactic rule and checks that a second run is a no-op.
func rewriteTwice(t *testing.T, rule domain.SyntaxRule, g m.Grammar, root *m.Node) (*m.Node, bool) {
	t.Helper()

	out, changed, err := rule.Rewrite(context.Background(), g, root)
	require.NoError(t, err)

	if !changed {
		assert.Same(t, root, out, "no-op must return the original tree")
	}

	again, changedAgain, err := rule.Rewrite(context.Background(), g, out)
	require.NoError(t, err)
	assert.False(t, changedAgain, "rule is not idempotent: %q", again.Text())
	assert.Same(t, out, again)

	return out, changed
}

// symbolView resolves leaves by pointer.
type symbolView struct {
	symbols map[*m.Node]m.Symbol
	refs    map[string][]m.NodeRef
}

func newSymbolView() *symbolView {
	return &symbolView{symbols: make(map[*m.Node]m.Symbol), refs: make(map[string][]m.NodeRef)}
}

func (v *symbolView) Resolve(n *m.Node) (m.Symbol, bool) {
	sym, ok := v.symbols[n]
	return sym, ok
}

func (v *symbolView) AllReferences(sym m.Symbol) []m.NodeRef {
	return v.refs[sym.ID]
}

// bind records every leaf of doc whose text is name as a reference to sym.
func (v *symbolView) bind(doc *m.Document, name string, sym m.Symbol) {
	for _, leaf := range m.Leaves(doc.Root) {
		tk, _ := leaf.Node.Token()
		if tk.Text != name {
			continue
		}

		v.symbols[leaf.Node] = sym
		v.refs[sym.ID] = append(v.refs[sym.ID], m.NodeRef{Document: doc.ID, Path: leaf.Path})
	}
}
