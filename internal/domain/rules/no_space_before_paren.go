package rules

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

// parenLists maps, per grammar, a declaration or object creation to the kind of
// its parenthesized list.
var parenLists = map[m.Grammar]map[string]string{
	m.GrammarCSharp: {
		"method_declaration":          "parameter_list",
		"constructor_declaration":     "parameter_list",
		"anonymous_method_expression": "parameter_list",
		"object_creation_expression":  "argument_list",
	},
	m.GrammarJava: {
		"method_declaration":         "formal_parameters",
		"constructor_declaration":    "formal_parameters",
		"object_creation_expression": "argument_list",
	},
}

type noSpaceBeforeParen struct{}

// NewNoSpaceBeforeParen creates the rule that removes the space between a method
// name, constructor, delegate keyword or created type and its opening parenthesis.
func NewNoSpaceBeforeParen() domain.SyntaxRule {
	return &noSpaceBeforeParen{}
}

func (r *noSpaceBeforeParen) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "NoSpaceBeforeParen",
		Description: "Remove whitespace before the parenthesis of declarations and object creation",
		Capability:  domain.Syntactic,
		Ordinal:     NoSpaceBeforeParenOrdinal,
		Grammars:    []m.Grammar{m.GrammarCSharp, m.GrammarJava},
	}
}

func (r *noSpaceBeforeParen) Rewrite(_ context.Context, g m.Grammar, root *m.Node) (*m.Node, bool, error) {
	lists := parenLists[g]

	var err error

	next, changed := m.Rewrite(root, func(n *m.Node) (*m.Node, bool) {
		listKind, ok := lists[n.Kind()]
		if !ok || err != nil {
			return n, false
		}

		out, ch, e := closeUpParen(n, listKind)
		if e != nil {
			err = e
			return n, false
		}

		return out, ch
	})
	if err != nil {
		return root, false, err
	}

	return next, changed, nil
}

// closeUpParen drops the blanks after the token before the first child of kind
// listKind. Trailing trivia holding anything but blanks is kept.
func closeUpParen(n *m.Node, listKind string) (*m.Node, bool, error) {
	for i := 1; i < n.NumChildren(); i++ {
		if n.Child(i).Kind() != listKind {
			continue
		}

		prev := n.Child(i - 1)

		leaves := m.Leaves(prev)
		if len(leaves) == 0 {
			return n, false, nil
		}

		last := leaves[len(leaves)-1]
		tok, _ := last.Node.Token()

		if len(tok.Trailing) == 0 || !onlyWhitespace(tok.Trailing) {
			return n, false, nil
		}

		replaced, err := prev.ReplaceAt(last.Path, last.Node.WithToken(tok.WithTrailing(nil)))
		if err != nil {
			return n, false, err
		}

		return n.WithChild(i-1, replaced), true, nil
	}

	return n, false, nil
}
