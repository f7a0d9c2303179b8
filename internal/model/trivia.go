package model

import "strings"

// TriviaKind classifies one piece of non-structural content.
type TriviaKind uint8

const (
	// TriviaWhitespace is a run of spaces and tabs.
	TriviaWhitespace TriviaKind = iota
	// TriviaNewLine is a single line break ("\n", "\r\n" or "\r").
	TriviaNewLine
	// TriviaLineComment runs to the end of the line, delimiter included.
	TriviaLineComment
	// TriviaBlockComment is a delimited comment that may span lines.
	TriviaBlockComment
	// TriviaDocComment is a documentation comment (e.g. "///" in C#).
	TriviaDocComment
	// TriviaDirective is a preprocessor-style directive line (e.g. "#region").
	TriviaDirective
	// TriviaSkipped is source text the parser did not attach to any token.
	TriviaSkipped
)

var triviaKindNames = [...]string{
	TriviaWhitespace:   "whitespace",
	TriviaNewLine:      "newline",
	TriviaLineComment:  "line-comment",
	TriviaBlockComment: "block-comment",
	TriviaDocComment:   "doc-comment",
	TriviaDirective:    "directive",
	TriviaSkipped:      "skipped",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaKindNames) {
		return triviaKindNames[k]
	}

	return "unknown"
}

// Trivia is one atomic piece of non-structural content attached to a token edge.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// TriviaList is an ordered trivia sequence. Operations never modify the receiver.
type TriviaList []Trivia

// Len returns the number of items.
func (l TriviaList) Len() int { return len(l) }

// Text concatenates the items' text.
func (l TriviaList) Text() string {
	var b strings.Builder
	for _, t := range l {
		b.WriteString(t.Text)
	}

	return b.String()
}

// Clone returns a copy that shares no backing array with l.
func (l TriviaList) Clone() TriviaList {
	if l == nil {
		return nil
	}

	out := make(TriviaList, len(l))
	copy(out, l)

	return out
}

// Slice returns a copy of items [start, end).
func (l TriviaList) Slice(start, end int) TriviaList {
	start, end = clampRange(len(l), start, end)

	return l[start:end].Clone()
}

// Splice returns a new list where items [start, end) are replaced by insert.
func (l TriviaList) Splice(start, end int, insert ...Trivia) TriviaList {
	start, end = clampRange(len(l), start, end)

	out := make(TriviaList, 0, len(l)-(end-start)+len(insert))
	out = append(out, l[:start]...)
	out = append(out, insert...)
	out = append(out, l[end:]...)

	return out
}

// Append returns a new list with items appended.
func (l TriviaList) Append(items ...Trivia) TriviaList {
	return l.Splice(len(l), len(l), items...)
}

// Equal reports whether both lists hold the same items in the same order.
func (l TriviaList) Equal(other TriviaList) bool {
	if len(l) != len(other) {
		return false
	}

	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}

	return true
}

// Filter returns the items for which keep returns true, and whether anything was dropped.
func (l TriviaList) Filter(keep func(i int, t Trivia) bool) (TriviaList, bool) {
	out := make(TriviaList, 0, len(l))
	for i, t := range l {
		if keep(i, t) {
			out = append(out, t)
		}
	}

	if len(out) == len(l) {
		return l, false
	}

	return out, true
}

func clampRange(n, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}

	if end > n {
		end = n
	}

	if start > end {
		start = end
	}

	return start, end
}
