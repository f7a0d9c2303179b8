package domain

import (
	"strings"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

const copyrightMarker = "copyright"

// NormalizeHeader makes leading start with the configured header block.
//
// A leading block of line comments is compared with the header line by line; when
// it already matches, or the header is empty, leading is returned as-is with
// changed=false. Otherwise an existing block that mentions "copyright" is replaced,
// and any other block is kept below the new header.
func NormalizeHeader(leading m.TriviaList, header m.HeaderSpec, c TriviaClassifier) (m.TriviaList, bool) {
	if header.IsEmpty() {
		return leading, false
	}

	start := skipBlank(leading, 0, c)

	scanned, end, found := scanHeaderBlock(leading, start, c)
	if header.Matches(scanned) {
		return leading, false
	}

	cursor := start
	if found {
		cursor = skipBlank(leading, end, c)
	}

	nl := lineBreak(leading, c)

	out := make(m.TriviaList, 0, header.Len()*2+1+len(leading)-cursor)
	for _, line := range header.Lines() {
		out = append(out, c.MakeLineComment(line), nl)
	}

	out = append(out, nl)
	out = append(out, leading[cursor:]...)

	return out, true
}

// lineBreak reuses the first line break of leading, falling back to the
// classifier's.
func lineBreak(leading m.TriviaList, c TriviaClassifier) m.Trivia {
	for _, t := range leading {
		if c.IsNewLine(t) {
			return t
		}
	}

	return c.MakeNewLine()
}

// scanHeaderBlock reads consecutive line comments from start, one logical line
// each, and reports their text, the index after the block and whether any of
// them mentions copyright.
func scanHeaderBlock(list m.TriviaList, start int, c TriviaClassifier) ([]string, int, bool) {
	var (
		lines []string
		found bool
	)

	i := start
	for i < len(list) && c.IsLineComment(list[i]) {
		lines = append(lines, c.CommentText(list[i]))

		if strings.Contains(strings.ToLower(list[i].Text), copyrightMarker) {
			found = true
		}

		i = skipToNextLine(list, i+1, c)
	}

	return lines, i, found
}
