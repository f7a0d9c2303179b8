package rules

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type openBraceBlankLines struct{}

// NewOpenBraceBlankLines creates the rule that removes blank lines right after an
// opening brace that ends its line.
func NewOpenBraceBlankLines() domain.SyntaxRule {
	return &openBraceBlankLines{}
}

func (r *openBraceBlankLines) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "OpenBraceBlankLines",
		Description: "Remove blank lines after an opening brace",
		Capability:  domain.Syntactic,
		Ordinal:     OpenBraceBlankLinesOrdinal,
		Grammars:    slashGrammars,
	}
}

func (r *openBraceBlankLines) Rewrite(_ context.Context, _ m.Grammar, root *m.Node) (*m.Node, bool, error) {
	leaves := m.Leaves(root)
	out, changed := root, false

	for i := 0; i+1 < len(leaves); i++ {
		open, _ := leaves[i].Node.Token()
		if open.Text != "{" || !endsLine(open.Trailing) {
			continue
		}

		next, _ := leaves[i+1].Node.Token()

		cut := blankPrefix(next.Leading)
		if cut == 0 {
			continue
		}

		var err error

		out, err = out.ReplaceAt(leaves[i+1].Path, leaves[i+1].Node.WithToken(next.WithLeading(next.Leading[cut:])))
		if err != nil {
			return root, false, err
		}

		changed = true
	}

	return out, changed, nil
}
