package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrSyntax marks a file the parser could not read without errors.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupportedGrammar marks a grammar without a parser.
	ErrUnsupportedGrammar = errors.New("unsupported grammar")
)

var languages = map[m.Grammar]func() *sitter.Language{
	m.GrammarGo:         golang.GetLanguage,
	m.GrammarCSharp:     csharp.GetLanguage,
	m.GrammarJava:       java.GetLanguage,
	m.GrammarJavaScript: javascript.GetLanguage,
	m.GrammarPython:     python.GetLanguage,
}

// atomicKinds are kept as single tokens even when the grammar gives them children.
var atomicKinds = map[string]bool{
	"interpreted_string_literal":     true,
	"raw_string_literal":             true,
	"rune_literal":                   true,
	"string_literal":                 true,
	"verbatim_string_literal":        true,
	"character_literal":              true,
	"text_block":                     true,
	"string":                         true,
	"template_string":                true,
	"regex":                          true,
	"interpolated_string_expression": true,
}

// Parser turns source text into a lossless syntax tree.
type Parser interface {
	Parse(ctx context.Context, source m.Source, content []byte) (*m.Document, error)
	Supports(grammar m.Grammar) bool
}

// SitterParser parses with tree-sitter and re-attaches comments and whitespace to
// tokens as trivia.
type SitterParser struct{}

// NewSitterParser creates a SitterParser.
func NewSitterParser() *SitterParser {
	return &SitterParser{}
}

// Supports reports whether a tree-sitter grammar exists for grammar.
func (p *SitterParser) Supports(grammar m.Grammar) bool {
	_, ok := languages[grammar]
	return ok
}

// Parse builds the document for source. Rendering the returned tree yields
// content byte for byte.
func (p *SitterParser) Parse(ctx context.Context, source m.Source, content []byte) (*m.Document, error) {
	if source.Origin == nil {
		return nil, fmt.Errorf("missing source origin")
	}

	lang, ok := languages[source.Grammar]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", source.Origin.FullPath, ErrUnsupportedGrammar, source.Grammar)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		slog.Error("Failed to parse source", "path", source.Origin.FullPath, "error", err)
		return nil, fmt.Errorf("parse %s: %w", source.Origin.FullPath, err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, fmt.Errorf("%s: %w", source.Origin.FullPath, ErrSyntax)
	}

	b := &treeBuilder{content: content, comments: make(map[int]triviaSpan)}

	shape, err := b.shape(rootNode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.Origin.FullPath, err)
	}

	root := b.build(shape)
	if got := root.Text(); got != string(content) {
		return nil, fmt.Errorf("%s: tree does not round-trip (%d of %d bytes)", source.Origin.FullPath, len(got), len(content))
	}

	return m.NewDocument(source.Origin.FullPath, source.Grammar, root), nil
}

type span struct {
	start, end int
}

type triviaSpan struct {
	span
	kind m.TriviaKind
}

// shapeNode mirrors the tree-sitter tree with tokens as leaves.
type shapeNode struct {
	kind     string
	token    int // index into treeBuilder.tokens, -1 for interior nodes
	children []*shapeNode
}

type treeBuilder struct {
	content  []byte
	tokens   []span
	kinds    []string
	comments map[int]triviaSpan // by start offset
}

func (b *treeBuilder) shape(n *sitter.Node) (*shapeNode, error) {
	start, err := safecast.Conv[int](n.StartByte())
	if err != nil {
		return nil, err
	}

	end, err := safecast.Conv[int](n.EndByte())
	if err != nil {
		return nil, err
	}

	kind := n.Type()

	if tk, ok := b.triviaKind(kind, start, end); ok {
		b.comments[start] = triviaSpan{span: span{start, end}, kind: tk}
		return nil, nil
	}

	if n.ChildCount() == 0 || atomicKinds[kind] {
		if end <= start || strings.TrimSpace(string(b.content[start:end])) == "" {
			// zero-width and line-break tokens become trivia
			return nil, nil
		}

		b.tokens = append(b.tokens, span{start, end})
		b.kinds = append(b.kinds, kind)

		return &shapeNode{kind: kind, token: len(b.tokens) - 1}, nil
	}

	node := &shapeNode{kind: kind, token: -1}

	for i := 0; i < int(n.ChildCount()); i++ {
		child, err := b.shape(n.Child(i))
		if err != nil {
			return nil, err
		}

		if child != nil {
			node.children = append(node.children, child)
		}
	}

	return node, nil
}

func (b *treeBuilder) triviaKind(kind string, start, end int) (m.TriviaKind, bool) {
	switch {
	case strings.HasPrefix(kind, "preproc"):
		return m.TriviaDirective, true
	case strings.Contains(kind, "comment"):
		text := string(b.content[start:end])

		switch {
		case strings.HasPrefix(text, "/*"):
			return m.TriviaBlockComment, true
		case strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////"):
			return m.TriviaDocComment, true
		default:
			return m.TriviaLineComment, true
		}
	default:
		return 0, false
	}
}

// build distributes the text between tokens: a token's trailing trivia runs to
// the end of its line, everything after belongs to the next token. The rest of
// the file goes to the EOF token.
func (b *treeBuilder) build(shape *shapeNode) *m.Node {
	gaps := make([]m.TriviaList, len(b.tokens)+1)
	prev := 0

	for i, t := range b.tokens {
		gaps[i] = b.lexGap(prev, t.start)
		prev = t.end
	}

	gaps[len(b.tokens)] = b.lexGap(prev, len(b.content))

	leading := make([]m.TriviaList, len(b.tokens)+1)
	trailing := make([]m.TriviaList, len(b.tokens)+1)
	leading[0] = gaps[0]

	for i := 1; i <= len(b.tokens); i++ {
		trailing[i-1], leading[i] = splitAtLineEnd(gaps[i])
	}

	var root *m.Node
	if shape != nil {
		root = b.node(shape, leading, trailing)
	}

	eof := m.NewLeaf(m.Token{Kind: m.EOFKind, Leading: leading[len(b.tokens)]})

	switch {
	case root == nil:
		return m.NewNode("source_file", eof)
	case root.IsLeaf():
		return m.NewNode("source_file", root, eof)
	default:
		return root.WithChildren(append(root.Children(), eof)...)
	}
}

func (b *treeBuilder) node(s *shapeNode, leading, trailing []m.TriviaList) *m.Node {
	if s.token >= 0 {
		t := b.tokens[s.token]

		return m.NewLeaf(m.Token{
			Kind:     s.kind,
			Text:     string(b.content[t.start:t.end]),
			Leading:  leading[s.token],
			Trailing: trailing[s.token],
		})
	}

	children := make([]*m.Node, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, b.node(c, leading, trailing))
	}

	return m.NewNode(s.kind, children...)
}

// lexGap splits content[start:end] into comments, directives, whitespace runs
// and single line breaks.
func (b *treeBuilder) lexGap(start, end int) m.TriviaList {
	var list m.TriviaList

	i := start
	for i < end {
		if c, ok := b.commentAt(i, end); ok {
			list = append(list, b.commentTrivia(c)...)
			i = c.end

			continue
		}

		j := i

		switch ch := b.content[i]; {
		case ch == '\r' && i+1 < end && b.content[i+1] == '\n':
			j = i + 2
			list = append(list, m.Trivia{Kind: m.TriviaNewLine, Text: "\r\n"})
		case ch == '\n' || ch == '\r':
			j = i + 1
			list = append(list, m.Trivia{Kind: m.TriviaNewLine, Text: string(ch)})
		case isBlank(ch):
			for j < end && isBlank(b.content[j]) {
				j++
			}

			list = append(list, m.Trivia{Kind: m.TriviaWhitespace, Text: string(b.content[i:j])})
		default:
			for j < end && !isBlank(b.content[j]) && b.content[j] != '\n' && b.content[j] != '\r' {
				if _, ok := b.commentAt(j, end); ok {
					break
				}

				j++
			}

			list = append(list, m.Trivia{Kind: m.TriviaSkipped, Text: string(b.content[i:j])})
		}

		i = j
	}

	return list
}

func (b *treeBuilder) commentAt(pos, end int) (triviaSpan, bool) {
	c, ok := b.comments[pos]
	if !ok || c.end > end {
		return triviaSpan{}, false
	}

	return c, true
}

// commentTrivia returns the comment with any line break it swallowed split off.
func (b *treeBuilder) commentTrivia(c triviaSpan) m.TriviaList {
	text := string(b.content[c.start:c.end])
	if c.kind == m.TriviaBlockComment {
		return m.TriviaList{{Kind: c.kind, Text: text}}
	}

	body := strings.TrimRight(text, "\r\n")
	list := m.TriviaList{{Kind: c.kind, Text: body}}

	rest := text[len(body):]
	for rest != "" {
		nl := "\n"
		if strings.HasPrefix(rest, "\r\n") {
			nl = "\r\n"
		} else if rest[0] == '\r' {
			nl = "\r"
		}

		list = append(list, m.Trivia{Kind: m.TriviaNewLine, Text: nl})
		rest = rest[len(nl):]
	}

	return list
}

func splitAtLineEnd(gap m.TriviaList) (m.TriviaList, m.TriviaList) {
	for i, t := range gap {
		if t.Kind == m.TriviaNewLine {
			return gap.Slice(0, i+1), gap.Slice(i+1, len(gap))
		}
	}

	return gap, nil
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
}
