package domain

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// newDoc builds a document whose tree is one identifier leaf per word.
func newDoc(id string, words ...string) *m.Document {
	leaves := make([]*m.Node, 0, len(words)+1)
	for i, w := range words {
		tok := m.Token{Kind: "identifier", Text: w}
		if i < len(words)-1 {
			tok.Trailing = m.TriviaList{{Kind: m.TriviaWhitespace, Text: " "}}
		}

		leaves = append(leaves, m.NewLeaf(tok))
	}

	leaves = append(leaves, m.NewLeaf(m.Token{Kind: m.EOFKind, Leading: m.TriviaList{{Kind: m.TriviaNewLine, Text: "\n"}}}))

	return m.NewDocument(m.Path(id), m.GrammarGo, m.NewNode("source_file", leaves...))
}

func newProgram(docs ...*m.Document) *m.Program {
	p := m.NewProgram()
	for _, d := range docs {
		if err := p.Add(d); err != nil {
			panic(err)
		}
	}

	return p
}

// replaceWord rewrites every identifier equal to from.
func replaceWord(root *m.Node, from, to string) (*m.Node, bool) {
	return m.RewriteTokens(root, func(tok m.Token) (m.Token, bool) {
		if tok.Text != from {
			return tok, false
		}

		return tok.WithText(to), true
	})
}

type fakeSyntaxRule struct {
	info  RuleInfo
	fn    func(ctx context.Context, root *m.Node) (*m.Node, bool, error)
	calls atomic.Int32
}

func (r *fakeSyntaxRule) Info() RuleInfo { return r.info }

func (r *fakeSyntaxRule) Rewrite(ctx context.Context, _ m.Grammar, root *m.Node) (*m.Node, bool, error) {
	r.calls.Add(1)
	return r.fn(ctx, root)
}

// renameRule is a syntactic rule replacing one word with another.
func renameRule(name string, ordinal int, from, to string) *fakeSyntaxRule {
	return &fakeSyntaxRule{
		info: RuleInfo{Name: name, Capability: Syntactic, Ordinal: ordinal},
		fn: func(_ context.Context, root *m.Node) (*m.Node, bool, error) {
			out, changed := replaceWord(root, from, to)
			return out, changed, nil
		},
	}
}

type fakeLocalRule struct {
	info  RuleInfo
	fn    func(root *m.Node, view m.SymbolView) (*m.Node, bool, error)
	calls atomic.Int32
}

func (r *fakeLocalRule) Info() RuleInfo { return r.info }

func (r *fakeLocalRule) RewriteWithSymbols(_ context.Context, _ m.Grammar, root *m.Node, view m.SymbolView) (*m.Node, bool, error) {
	r.calls.Add(1)
	return r.fn(root, view)
}

type fakeGlobalRule struct {
	info RuleInfo
	fn   func(program *m.Program, view m.SymbolView) ([]m.Edit, error)
}

func (r *fakeGlobalRule) Info() RuleInfo { return r.info }

func (r *fakeGlobalRule) Plan(_ context.Context, program *m.Program, view m.SymbolView) ([]m.Edit, error) {
	return r.fn(program, view)
}

// fakeView remembers the trees it was computed for.
type fakeView struct {
	root  *m.Node
	roots map[m.DocumentID]*m.Node
}

func (v *fakeView) Resolve(_ *m.Node) (m.Symbol, bool) { return m.Symbol{}, false }

func (v *fakeView) AllReferences(_ m.Symbol) []m.NodeRef { return nil }

type fakeSymbols struct {
	mu            sync.Mutex
	documentCalls int
	programCalls  int
	err           error
}

func (s *fakeSymbols) DocumentSymbols(_ context.Context, doc *m.Document) (m.SymbolView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documentCalls++
	if s.err != nil {
		return nil, s.err
	}

	return &fakeView{root: doc.Root}, nil
}

func (s *fakeSymbols) ProgramSymbols(_ context.Context, program *m.Program) (m.SymbolView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.programCalls++
	if s.err != nil {
		return nil, s.err
	}

	roots := make(map[m.DocumentID]*m.Node)
	for _, d := range program.Documents() {
		roots[d.ID] = d.Root
	}

	return &fakeView{roots: roots}, nil
}

// leafEdit replaces the i-th leaf of doc with a leaf holding text.
func leafEdit(doc *m.Document, i int, text string) m.Edit {
	leaf := m.Leaves(doc.Root)[i]
	tok, _ := leaf.Node.Token()

	return m.Edit{Document: doc.ID, Path: leaf.Path, Replacement: leaf.Node.WithToken(tok.WithText(text))}
}

func words(doc *m.Document) string {
	return strings.TrimSuffix(doc.Root.Text(), "\n")
}
