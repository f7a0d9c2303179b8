package domain

import (
	"slices"

	m "codefmt.dev/pkg/codefmt/internal/model"
)

// commit validates a GlobalSemantic batch and applies it to every document at
// once, returning the documents whose tree changed. Nothing is applied when
// validation fails.
func commit(program *m.Program, rule string, edits []m.Edit) ([]m.DocumentID, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	byDoc := make(map[m.DocumentID][]m.Edit)
	order := make([]m.DocumentID, 0)

	for _, e := range edits {
		doc, ok := program.Get(e.Document)
		if !ok {
			return nil, &TransactionConflict{Rule: rule, Document: e.Document, Path: e.Path, Reason: "unknown document"}
		}

		if e.Replacement == nil {
			return nil, &TransactionConflict{Rule: rule, Document: e.Document, Path: e.Path, Reason: "missing replacement"}
		}

		if _, ok := doc.Root.At(e.Path); !ok {
			return nil, &TransactionConflict{Rule: rule, Document: e.Document, Path: e.Path, Reason: "path does not exist"}
		}

		if _, seen := byDoc[e.Document]; !seen {
			order = append(order, e.Document)
		}

		byDoc[e.Document] = append(byDoc[e.Document], e)
	}

	roots := make(map[m.DocumentID]*m.Node, len(byDoc))

	for _, id := range order {
		docEdits := byDoc[id]
		if err := checkOverlaps(rule, docEdits); err != nil {
			return nil, err
		}

		doc, _ := program.Get(id)
		root := doc.Root

		for _, e := range docEdits {
			next, err := root.ReplaceAt(e.Path, e.Replacement)
			if err != nil {
				return nil, &TransactionConflict{Rule: rule, Document: id, Path: e.Path, Reason: err.Error()}
			}

			root = next
		}

		roots[id] = root
	}

	var touched []m.DocumentID

	for _, id := range order {
		doc, _ := program.Get(id)
		if roots[id] != doc.Root {
			doc.Root = roots[id]
			touched = append(touched, id)
		}
	}

	return touched, nil
}

// checkOverlaps rejects two edits where one path is a prefix of the other. After a
// lexicographic sort any overlapping pair is adjacent.
func checkOverlaps(rule string, edits []m.Edit) error {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b m.Edit) int { return slices.Compare(a.Path, b.Path) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return &TransactionConflict{
				Rule:     rule,
				Document: sorted[i].Document,
				Path:     sorted[i].Path,
				Reason:   "overlaps the edit at [" + sorted[i-1].Path.String() + "]",
			}
		}
	}

	return nil
}
