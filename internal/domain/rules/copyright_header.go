package rules

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/domain"
	"codefmt.dev/pkg/codefmt/internal/grammar"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type copyrightHeader struct {
	header m.HeaderSpec
}

// NewCopyrightHeader creates the rule that puts header at the top of every file.
// An empty header disables it.
func NewCopyrightHeader(header m.HeaderSpec) domain.SyntaxRule {
	return &copyrightHeader{header: header}
}

func (r *copyrightHeader) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "CopyrightHeader",
		Description: "Start every file with the configured header comment",
		Capability:  domain.Syntactic,
		Ordinal:     CopyrightHeaderOrdinal,
	}
}

func (r *copyrightHeader) Rewrite(_ context.Context, g m.Grammar, root *m.Node) (*m.Node, bool, error) {
	classifier, ok := grammar.ByName(g)
	if !ok || r.header.IsEmpty() {
		return root, false, nil
	}

	leaves := m.Leaves(root)
	if len(leaves) == 0 {
		return root, false, nil
	}

	target := leaves[0]
	if target.Node.Kind() == hashBangKind && len(leaves) > 1 {
		target = leaves[1]
	}

	classifier = classifier.WithNewLine(fileNewLine(leaves))

	tok, _ := target.Node.Token()
	pinned := classifier.Preamble(tok.Leading)

	rest, changed := domain.NormalizeHeader(tok.Leading[pinned:], r.header, classifier)
	if !changed {
		return root, false, nil
	}

	leading := make(m.TriviaList, 0, pinned+len(rest))
	leading = append(leading, tok.Leading[:pinned]...)
	leading = append(leading, rest...)

	next, err := root.ReplaceAt(target.Path, target.Node.WithToken(tok.WithLeading(leading)))
	if err != nil {
		return root, false, err
	}

	return next, true, nil
}

// hashBangKind is the interpreter line some grammars parse as a token.
const hashBangKind = "hash_bang_line"

// fileNewLine returns the first line break in the file, "\n" when there is none.
func fileNewLine(leaves []m.LeafRef) string {
	for _, leaf := range leaves {
		tok, _ := leaf.Node.Token()

		for _, list := range []m.TriviaList{tok.Leading, tok.Trailing} {
			for _, t := range list {
				if t.Kind == m.TriviaNewLine {
					return t.Text
				}
			}
		}
	}

	return "\n"
}
