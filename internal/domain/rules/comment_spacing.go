package rules

import (
	"context"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

// directivePrefixes are comments read by tools; a space would break them.
var directivePrefixes = []string{"go:", "nolint", "lint:", "line ", "export ", "extern ", "+build", "#", "@ts-", "eslint", "region", "endregion"}

type commentSpacing struct{}

// NewCommentSpacing creates the rule that puts one space after "//".
func NewCommentSpacing() domain.SyntaxRule {
	return &commentSpacing{}
}

func (r *commentSpacing) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "CommentSpacing",
		Description: "Put a single space between // and the comment text",
		Capability:  domain.Syntactic,
		Ordinal:     CommentLayoutOrdinal,
		Grammars:    slashGrammars,
		Commutative: true,
	}
}

func (r *commentSpacing) Rewrite(_ context.Context, _ m.Grammar, root *m.Node) (*m.Node, bool, error) {
	next, changed := rewriteTrivia(root, func(list m.TriviaList, _ bool) (m.TriviaList, bool) {
		var out m.TriviaList

		for i, t := range list {
			text, ok := spaceComment(t)
			if !ok {
				continue
			}

			if out == nil {
				out = list.Clone()
			}

			out[i].Text = text
		}

		if out == nil {
			return list, false
		}

		return out, true
	})

	return next, changed, nil
}

func spaceComment(t m.Trivia) (string, bool) {
	if t.Kind != m.TriviaLineComment || !strings.HasPrefix(t.Text, "//") {
		return "", false
	}

	rest := t.Text[2:]
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '/' || isBanner(rest) {
		return "", false
	}

	for _, p := range directivePrefixes {
		if strings.HasPrefix(rest, p) {
			return "", false
		}
	}

	return "// " + rest, true
}

// isBanner matches separator lines such as "//-----" or "//=====".
func isBanner(rest string) bool {
	if len(rest) < 3 {
		return false
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] != rest[0] {
			return false
		}
	}

	return strings.ContainsRune("-=*#~_+", rune(rest[0]))
}
