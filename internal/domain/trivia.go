package domain

import m "codefmt.dev/pkg/codefmt/internal/model"

// TriviaClassifier hides a grammar's comment and line-break syntax from the
// grammar-agnostic trivia algorithms.
type TriviaClassifier interface {
	Grammar() m.Grammar
	IsLineComment(t m.Trivia) bool
	IsWhitespace(t m.Trivia) bool
	IsNewLine(t m.Trivia) bool
	MakeLineComment(text string) m.Trivia
	MakeNewLine() m.Trivia
	// CommentText returns a line comment's text without its delimiter and
	// without leading whitespace.
	CommentText(t m.Trivia) string
}

// skipBlank advances past whitespace and newline items.
func skipBlank(list m.TriviaList, i int, c TriviaClassifier) int {
	for i < len(list) && (c.IsWhitespace(list[i]) || c.IsNewLine(list[i])) {
		i++
	}

	return i
}

// skipToNextLine advances past whitespace and at most one newline.
func skipToNextLine(list m.TriviaList, i int, c TriviaClassifier) int {
	for i < len(list) && c.IsWhitespace(list[i]) {
		i++
	}

	if i < len(list) && c.IsNewLine(list[i]) {
		i++
	}

	return i
}
