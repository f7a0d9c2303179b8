package rules

import (
	"context"
	"sort"
	"strconv"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

type importOrder struct{}

// NewImportOrder creates the rule that sorts the imports of each parenthesized
// import block by path. Blank lines split a block into groups that are sorted
// on their own.
func NewImportOrder() domain.SyntaxRule {
	return &importOrder{}
}

func (r *importOrder) Info() domain.RuleInfo {
	return domain.RuleInfo{
		Name:        "ImportOrder",
		Description: "Sort imports by path within each group",
		Capability:  domain.Syntactic,
		Ordinal:     ImportOrderOrdinal,
		Grammars:    []m.Grammar{m.GrammarGo},
	}
}

func (r *importOrder) Rewrite(_ context.Context, _ m.Grammar, root *m.Node) (*m.Node, bool, error) {
	var err error

	next, changed := m.Rewrite(root, func(n *m.Node) (*m.Node, bool) {
		if err != nil || n.Kind() != "import_spec_list" {
			return n, false
		}

		out, ch, e := sortImportSpecs(n)
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

type importSpec struct {
	node *m.Node
	// separator is the run of blank lines above the spec; it stays in place.
	separator m.TriviaList
	// leading is the rest of the spec's leading trivia; it moves with the spec.
	leading m.TriviaList
	path    string
	name    string
}

// sortImportSpecs orders the specs between "(" and ")". Lists holding anything
// else, or a spec not ending its line, are left alone.
func sortImportSpecs(list *m.Node) (*m.Node, bool, error) {
	children := list.Children()
	if len(children) < 4 {
		return list, false, nil
	}

	specs := make([]importSpec, 0, len(children)-2)

	for _, child := range children[1 : len(children)-1] {
		spec, ok := readImportSpec(child)
		if !ok {
			return list, false, nil
		}

		specs = append(specs, spec)
	}

	changed := false

	for start := 0; start < len(specs); {
		end := start + 1
		for end < len(specs) && len(specs[end].separator) == 0 {
			end++
		}

		group := specs[start:end]

		sorted := make([]importSpec, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].path != sorted[j].path {
				return sorted[i].path < sorted[j].path
			}

			return sorted[i].name < sorted[j].name
		})

		for pos, spec := range sorted {
			if spec.node == group[pos].node {
				continue
			}

			leading := make(m.TriviaList, 0, len(group[pos].separator)+len(spec.leading))
			leading = append(leading, group[pos].separator...)
			leading = append(leading, spec.leading...)

			node, err := withLeading(spec.node, leading)
			if err != nil {
				return list, false, err
			}

			children[1+start+pos] = node
			changed = true
		}

		start = end
	}

	if !changed {
		return list, false, nil
	}

	return list.WithChildren(children...), true, nil
}

func readImportSpec(n *m.Node) (importSpec, bool) {
	if n.Kind() != "import_spec" {
		return importSpec{}, false
	}

	leaves := m.Leaves(n)
	if len(leaves) == 0 {
		return importSpec{}, false
	}

	first, _ := leaves[0].Node.Token()
	last, _ := leaves[len(leaves)-1].Node.Token()

	if !endsLine(last.Trailing) {
		return importSpec{}, false
	}

	path, err := strconv.Unquote(last.Text)
	if err != nil {
		path = last.Text
	}

	spec := importSpec{node: n, path: path}
	if len(leaves) > 1 {
		spec.name = first.Text
	}

	cut := blankPrefix(first.Leading)
	spec.separator = first.Leading[:cut]
	spec.leading = first.Leading[cut:]

	return spec, true
}

func withLeading(n *m.Node, leading m.TriviaList) (*m.Node, error) {
	leaf, path, ok := m.FirstLeaf(n)
	if !ok {
		return n, nil
	}

	tok, _ := leaf.Token()

	return n.ReplaceAt(path, leaf.WithToken(tok.WithLeading(leading)))
}
