// Package grammar describes the comment syntax of each supported language.
package grammar

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// Classifier answers trivia questions for one grammar.
type Classifier struct {
	grammar    m.Grammar
	delimiter  string
	extensions []string
	newline    string
	// pinned lines stay above any header: a "#!" interpreter line first, then an
	// encoding declaration on line one or two.
	pinned bool
}

// codingLine matches a PEP 263 encoding declaration.
var codingLine = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*[-_.a-zA-Z0-9]+`)

var classifiers = map[m.Grammar]*Classifier{
	m.GrammarGo:          {grammar: m.GrammarGo, delimiter: "//", extensions: []string{".go"}},
	m.GrammarCSharp:      {grammar: m.GrammarCSharp, delimiter: "//", extensions: []string{".cs"}},
	m.GrammarJava:        {grammar: m.GrammarJava, delimiter: "//", extensions: []string{".java"}},
	m.GrammarJavaScript:  {grammar: m.GrammarJavaScript, delimiter: "//", extensions: []string{".js", ".mjs", ".cjs"}},
	m.GrammarPython:      {grammar: m.GrammarPython, delimiter: "#", extensions: []string{".py"}, pinned: true},
	m.GrammarVisualBasic: {grammar: m.GrammarVisualBasic, delimiter: "'"},
}

// ByName returns the classifier for grammar.
func ByName(grammar m.Grammar) (*Classifier, bool) {
	c, ok := classifiers[grammar]
	return c, ok
}

// All returns every known grammar in name order.
func All() []m.Grammar {
	out := make([]m.Grammar, 0, len(classifiers))
	for g := range classifiers {
		out = append(out, g)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// ForPath returns the grammar of a file by extension. Grammars without a parser
// register no extension.
func ForPath(path string) (m.Grammar, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	for g, c := range classifiers {
		for _, e := range c.extensions {
			if e == ext {
				return g, true
			}
		}
	}

	return "", false
}

// Grammar returns the grammar the classifier describes.
func (c *Classifier) Grammar() m.Grammar { return c.grammar }

// Delimiter returns the line comment delimiter.
func (c *Classifier) Delimiter() string { return c.delimiter }

func (c *Classifier) IsLineComment(t m.Trivia) bool {
	return t.Kind == m.TriviaLineComment && strings.HasPrefix(t.Text, c.delimiter)
}

func (c *Classifier) IsWhitespace(t m.Trivia) bool { return t.Kind == m.TriviaWhitespace }

func (c *Classifier) IsNewLine(t m.Trivia) bool { return t.Kind == m.TriviaNewLine }

// MakeLineComment builds a line comment holding text.
func (c *Classifier) MakeLineComment(text string) m.Trivia {
	if text == "" {
		return m.Trivia{Kind: m.TriviaLineComment, Text: c.delimiter}
	}

	return m.Trivia{Kind: m.TriviaLineComment, Text: c.delimiter + " " + text}
}

// MakeNewLine builds a line break in the classifier's line ending, "\n" unless
// WithNewLine chose another.
func (c *Classifier) MakeNewLine() m.Trivia {
	if c.newline == "" {
		return m.Trivia{Kind: m.TriviaNewLine, Text: "\n"}
	}

	return m.Trivia{Kind: m.TriviaNewLine, Text: c.newline}
}

// WithNewLine returns a copy of the classifier that breaks lines with newline.
func (c *Classifier) WithNewLine(newline string) *Classifier {
	out := *c
	out.newline = newline

	return &out
}

// Preamble returns how many items at the start of list belong to lines that must
// stay first in the file, line breaks included.
func (c *Classifier) Preamble(list m.TriviaList) int {
	if !c.pinned {
		return 0
	}

	end := 0

	for line := 0; line < 2 && end < len(list); line++ {
		t := list[end]
		if !c.IsLineComment(t) {
			break
		}

		interpreter := line == 0 && strings.HasPrefix(t.Text, "#!")
		if !interpreter && !codingLine.MatchString(t.Text) {
			break
		}

		end++
		if end < len(list) && c.IsNewLine(list[end]) {
			end++
		}
	}

	return end
}

func (c *Classifier) CommentText(t m.Trivia) string {
	return strings.TrimLeft(strings.TrimPrefix(t.Text, c.delimiter), " \t")
}
