package model

// Edit replaces the node at Path in Document with Replacement.
type Edit struct {
	Document    DocumentID
	Path        NodePath
	Replacement *Node
}

// Overlaps reports whether two edits rewrite a common region of the same document.
func (e Edit) Overlaps(o Edit) bool {
	return e.Document == o.Document && e.Path.Overlaps(o.Path)
}
