// Package rules holds the formatting rules shipped with codefmt.
package rules

import (
	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

// Ordinals inside each capability class.
const (
	CopyrightHeaderOrdinal     = 2
	ImportOrderOrdinal         = 4
	NonASCIILiteralsOrdinal    = 7
	NoSpaceBeforeParenOrdinal  = 10
	NoRegionsOrdinal           = 11
	CommentLayoutOrdinal       = 13
	OpenBraceBlankLinesOrdinal = 14
	TrailingWhitespaceOrdinal  = 15

	RedundantImportAliasOrdinal = 3

	IdentifierCaseOrdinal = 1
)

var slashGrammars = []m.Grammar{m.GrammarGo, m.GrammarCSharp, m.GrammarJava, m.GrammarJavaScript}

// Default returns every built-in rule configured from opts, in registration order.
func Default(opts domain.RuleOptions) []domain.Rule {
	rules := []domain.Rule{
		NewCopyrightHeader(opts.Header),
		NewImportOrder(),
	}

	if opts.EscapeNonASCII {
		rules = append(rules, NewNonASCIILiterals())
	}

	return append(rules,
		NewNoSpaceBeforeParen(),
		NewNoRegions(),
		NewCommentSpacing(),
		NewEmptyComment(),
		NewOpenBraceBlankLines(),
		NewTrailingWhitespace(),
		NewRedundantImportAlias(),
		NewIdentifierCase(),
	)
}
