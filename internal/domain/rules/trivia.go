package rules

import (
	m "codefmt.dev/pkg/codefmt/internal/model"
)

// rewriteTrivia applies fn to the leading and trailing trivia of every token.
func rewriteTrivia(root *m.Node, fn func(list m.TriviaList, leading bool) (m.TriviaList, bool)) (*m.Node, bool) {
	return m.RewriteTokens(root, func(tok m.Token) (m.Token, bool) {
		leading, lc := fn(tok.Leading, true)
		trailing, tc := fn(tok.Trailing, false)

		if !lc && !tc {
			return tok, false
		}

		return tok.WithLeading(leading).WithTrailing(trailing), true
	})
}

// lineStart returns the index of the whitespace run before item i and whether
// that run starts a line. Leading trivia always starts on a fresh line.
func lineStart(list m.TriviaList, i int, leading bool) (int, bool) {
	j := i
	for j > 0 && list[j-1].Kind == m.TriviaWhitespace {
		j--
	}

	if j == 0 {
		return j, leading
	}

	return j, list[j-1].Kind == m.TriviaNewLine
}

// dropItem removes item i and the whitespace before it. When the item was alone on
// its line the line break after it goes too. It returns the new list and the
// index the removed range started at.
func dropItem(list m.TriviaList, i int, leading bool) (m.TriviaList, int) {
	start, own := lineStart(list, i, leading)
	end := i + 1

	if own {
		k := end
		for k < len(list) && list[k].Kind == m.TriviaWhitespace {
			k++
		}

		if k < len(list) && list[k].Kind == m.TriviaNewLine {
			end = k + 1
		}
	}

	return list.Splice(start, end), start
}

// dropMatching removes every item for which match returns true.
func dropMatching(list m.TriviaList, leading bool, match func(list m.TriviaList, i int) bool) (m.TriviaList, bool) {
	changed := false

	for i := len(list) - 1; i >= 0; i-- {
		if !match(list, i) {
			continue
		}

		list, i = dropItem(list, i, leading)
		changed = true
	}

	return list, changed
}

// adjacentLine returns the index of the first non-whitespace item on the line
// next to item i, looking backward (dir -1) or forward (dir 1).
func adjacentLine(list m.TriviaList, i, dir int) (int, bool) {
	j := i + dir
	for j >= 0 && j < len(list) && list[j].Kind == m.TriviaWhitespace {
		j += dir
	}

	if j < 0 || j >= len(list) || list[j].Kind != m.TriviaNewLine {
		return 0, false
	}

	j += dir
	for j >= 0 && j < len(list) && list[j].Kind == m.TriviaWhitespace {
		j += dir
	}

	if j < 0 || j >= len(list) {
		return 0, false
	}

	return j, true
}

// endsLine reports whether list ends with a line break.
func endsLine(list m.TriviaList) bool {
	return len(list) > 0 && list[len(list)-1].Kind == m.TriviaNewLine
}

// blankPrefix returns the index after the blank lines that open list. The
// indentation of the first non-blank line is not part of it.
func blankPrefix(list m.TriviaList) int {
	end := 0

	for i, t := range list {
		switch t.Kind {
		case m.TriviaWhitespace:
		case m.TriviaNewLine:
			end = i + 1
		default:
			return end
		}
	}

	return end
}
