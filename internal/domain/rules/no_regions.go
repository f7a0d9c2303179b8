package rules

import (
	"context"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type noRegions struct{}

// NewNoRegions creates the rule that deletes region markers.
func NewNoRegions() domain.SyntaxRule {
	return &noRegions{}
}

func (r *noRegions) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "NoRegions",
		Description: "Remove #region and #endregion markers",
		Capability:  domain.Syntactic,
		Ordinal:     NoRegionsOrdinal,
		Grammars:    []m.Grammar{m.GrammarCSharp, m.GrammarVisualBasic, m.GrammarGo},
	}
}

func (r *noRegions) Rewrite(_ context.Context, g m.Grammar, root *m.Node) (*m.Node, bool, error) {
	match := isRegionDirective
	if g == m.GrammarGo {
		match = isRegionComment
	}

	next, changed := rewriteTrivia(root, func(list m.TriviaList, leading bool) (m.TriviaList, bool) {
		return dropMatching(list, leading, func(list m.TriviaList, i int) bool { return match(list[i]) })
	})

	return next, changed, nil
}

// isRegionDirective matches "#region", "#endregion" and the Visual Basic
// "#Region" and "#End Region" forms.
func isRegionDirective(t m.Trivia) bool {
	if t.Kind != m.TriviaDirective {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(t.Text))
	if !strings.HasPrefix(text, "#") {
		return false
	}

	words := strings.Fields(strings.TrimSpace(text[1:]))
	if len(words) == 0 {
		return false
	}

	switch {
	case words[0] == "region" || words[0] == "endregion":
		return true
	case words[0] == "end" && len(words) > 1 && words[1] == "region":
		return true
	default:
		return false
	}
}

// isRegionComment matches the "//region" and "//endregion" folding markers used in Go.
func isRegionComment(t m.Trivia) bool {
	if t.Kind != m.TriviaLineComment {
		return false
	}

	word, _, _ := strings.Cut(strings.TrimRight(t.Text, " \t"), " ")

	return word == "//region" || word == "//endregion"
}
