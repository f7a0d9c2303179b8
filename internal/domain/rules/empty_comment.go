package rules

import (
	"context"
	"strings"

	"codefmt.dev/pkg/codefmt/internal/domain"
	"codefmt.dev/pkg/codefmt/internal/grammar"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type emptyComment struct{}

// NewEmptyComment creates the rule that deletes line comments without text.
func NewEmptyComment() domain.SyntaxRule {
	return &emptyComment{}
}

func (r *emptyComment) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "EmptyComment",
		Description: "Remove line comments that contain no text",
		Capability:  domain.Syntactic,
		Ordinal:     CommentLayoutOrdinal,
		Commutative: true,
	}
}

func (r *emptyComment) Rewrite(_ context.Context, g m.Grammar, root *m.Node) (*m.Node, bool, error) {
	classifier, ok := grammar.ByName(g)
	if !ok {
		return root, false, nil
	}

	next, changed := rewriteTrivia(root, func(list m.TriviaList, leading bool) (m.TriviaList, bool) {
		return dropMatching(list, leading, func(list m.TriviaList, i int) bool {
			return isEmptyComment(classifier, list[i]) && !inCommentBlock(classifier, list, i)
		})
	})

	return next, changed, nil
}

func isEmptyComment(c *grammar.Classifier, t m.Trivia) bool {
	return c.IsLineComment(t) && strings.TrimSpace(c.CommentText(t)) == ""
}

// inCommentBlock reports whether the line above or below item i holds a line
// comment with text. Empty lines inside a comment block separate paragraphs.
func inCommentBlock(c *grammar.Classifier, list m.TriviaList, i int) bool {
	for _, dir := range []int{-1, 1} {
		if j, ok := adjacentLine(list, i, dir); ok && c.IsLineComment(list[j]) && !isEmptyComment(c, list[j]) {
			return true
		}
	}

	return false
}
