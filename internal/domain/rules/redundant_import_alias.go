package rules

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type redundantImportAlias struct{}

// NewRedundantImportAlias creates the rule that removes an import alias equal to
// the imported package's own name.
func NewRedundantImportAlias() domain.LocalSemanticRule {
	return &redundantImportAlias{}
}

func (r *redundantImportAlias) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "RedundantImportAlias",
		Description: "Drop import aliases that repeat the package name",
		Capability:  domain.LocalSemantic,
		Ordinal:     RedundantImportAliasOrdinal,
		Grammars:    []m.Grammar{m.GrammarGo},
	}
}

func (r *redundantImportAlias) RewriteWithSymbols(_ context.Context, _ m.Grammar, root *m.Node, view m.SymbolView) (*m.Node, bool, error) {
	next, changed := m.Rewrite(root, func(n *m.Node) (*m.Node, bool) {
		if n.Kind() != "import_spec" || n.NumChildren() != 2 {
			return n, false
		}

		alias, path := n.Child(0), n.Child(1)
		if alias.Kind() != "package_identifier" || !path.IsLeaf() {
			return n, false
		}

		aliasTok, _ := alias.Token()

		sym, ok := view.Resolve(alias)
		if !ok || sym.Kind != m.SymbolPackage || sym.Imported == "" || sym.Imported != aliasTok.Text {
			return n, false
		}

		pathTok, _ := path.Token()

		leading := aliasTok.Leading.Clone()
		if !onlyWhitespace(aliasTok.Trailing) {
			leading = leading.Append(aliasTok.Trailing...)
		}

		leading = leading.Append(pathTok.Leading...)

		return n.WithChildren(path.WithToken(pathTok.WithLeading(leading))), true
	})

	return next, changed, nil
}

func onlyWhitespace(list m.TriviaList) bool {
	for _, t := range list {
		if t.Kind != m.TriviaWhitespace {
			return false
		}
	}

	return true
}
