package model

import (
	"fmt"
	"sort"
)

// DocumentID identifies a document inside a program.
type DocumentID string

// Document is one file under formatting: its grammar and current tree.
// Root is replaced, never mutated, whenever a rule changes the file.
type Document struct {
	ID      DocumentID
	Path    Path
	Grammar Grammar
	Root    *Node

	// Settled documents are already in their formatted form; per-file phases skip them.
	Settled bool
}

// NewDocument builds a document for root.
func NewDocument(path Path, grammar Grammar, root *Node) *Document {
	return &Document{
		ID:      DocumentID(path),
		Path:    path,
		Grammar: grammar,
		Root:    root,
	}
}

// Program is the ordered set of documents formatted together.
type Program struct {
	docs  []*Document
	byID  map[DocumentID]*Document
	roots map[*Node]DocumentID
}

// NewProgram builds an empty program.
func NewProgram() *Program {
	return &Program{
		byID:  make(map[DocumentID]*Document),
		roots: make(map[*Node]DocumentID),
	}
}

// Add registers a document. Document IDs must be unique and no two documents may
// share a tree.
func (p *Program) Add(doc *Document) error {
	if doc == nil || doc.Root == nil {
		return fmt.Errorf("document without tree")
	}

	if _, ok := p.byID[doc.ID]; ok {
		return fmt.Errorf("duplicate document %q", doc.ID)
	}

	if owner, ok := p.roots[doc.Root]; ok {
		return fmt.Errorf("document %q shares its tree with %q", doc.ID, owner)
	}

	p.docs = append(p.docs, doc)
	p.byID[doc.ID] = doc
	p.roots[doc.Root] = doc.ID

	return nil
}

// Get returns the document with id.
func (p *Program) Get(id DocumentID) (*Document, bool) {
	doc, ok := p.byID[id]
	return doc, ok
}

// Documents returns the documents in insertion order.
func (p *Program) Documents() []*Document {
	out := make([]*Document, len(p.docs))
	copy(out, p.docs)

	return out
}

// Len returns the number of documents.
func (p *Program) Len() int { return len(p.docs) }

// SortedIDs returns every document ID in lexical order.
func (p *Program) SortedIDs() []DocumentID {
	ids := make([]DocumentID, 0, len(p.docs))
	for _, d := range p.docs {
		ids = append(ids, d.ID)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
