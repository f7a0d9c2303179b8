package rules

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

// literalKinds lists the token kinds whose text understands \u escapes. Raw and
// verbatim literals are absent on purpose.
var literalKinds = map[m.Grammar][]string{
	m.GrammarGo:         {"interpreted_string_literal", "rune_literal"},
	m.GrammarCSharp:     {"string_literal", "character_literal"},
	m.GrammarJava:       {"string_literal", "character_literal"},
	m.GrammarJavaScript: {"string"},
}

type nonASCIILiterals struct{}

// NewNonASCIILiterals creates the rule that escapes non-ASCII characters inside
// string and character literals.
func NewNonASCIILiterals() domain.SyntaxRule {
	return &nonASCIILiterals{}
}

func (r *nonASCIILiterals) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "NonASCIILiterals",
		Description: `Escape non-ASCII characters in literals as \uXXXX`,
		Capability:  domain.Syntactic,
		Ordinal:     NonASCIILiteralsOrdinal,
		Grammars:    []m.Grammar{m.GrammarGo, m.GrammarCSharp, m.GrammarJava, m.GrammarJavaScript},
	}
}

func (r *nonASCIILiterals) Rewrite(_ context.Context, g m.Grammar, root *m.Node) (*m.Node, bool, error) {
	kinds := literalKinds[g]
	surrogates := g == m.GrammarJava || g == m.GrammarJavaScript

	next, changed := m.RewriteTokens(root, func(tok m.Token) (m.Token, bool) {
		if !slices.Contains(kinds, tok.Kind) {
			return tok, false
		}

		escaped, ok := escapeNonASCII(tok.Text, surrogates)
		if !ok {
			return tok, false
		}

		return tok.WithText(escaped), true
	})

	return next, changed, nil
}

// escapeNonASCII rewrites every rune above 0x7F. Runes outside the BMP become
// \UXXXXXXXX, or a surrogate pair of \uXXXX escapes for grammars without \U.
func escapeNonASCII(text string, surrogates bool) (string, bool) {
	if isASCII(text) || !utf8.ValidString(text) {
		return text, false
	}

	var b strings.Builder

	for _, r := range text {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04X`, r)
		case surrogates:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
		default:
			fmt.Fprintf(&b, `\U%08X`, r)
		}
	}

	return b.String(), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
