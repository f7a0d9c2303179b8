// Package model defines the data structures shared by the formatting engine and its host.
package model

import "strings"

// EOFKind is the kind of the zero-width token that closes every file and carries
// its trailing trivia.
const EOFKind = "EOF"

// Token is a structural token with the trivia attached to its edges.
type Token struct {
	Kind     string
	Text     string
	Leading  TriviaList
	Trailing TriviaList
}

// FullText renders the token together with its trivia.
func (t Token) FullText() string {
	return t.Leading.Text() + t.Text + t.Trailing.Text()
}

// WithLeading returns a copy of t with the given leading trivia.
func (t Token) WithLeading(l TriviaList) Token {
	t.Leading = l
	return t
}

// WithTrailing returns a copy of t with the given trailing trivia.
func (t Token) WithTrailing(l TriviaList) Token {
	t.Trailing = l
	return t
}

// WithText returns a copy of t with the given text.
func (t Token) WithText(text string) Token {
	t.Text = text
	return t
}

// Equal reports structural equality.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Text == o.Text && t.Leading.Equal(o.Leading) && t.Trailing.Equal(o.Trailing)
}

// Node is an immutable syntax tree node: a leaf wrapping one token or an interior
// node with ordered children. Nodes are never modified after construction; every
// With method returns a new node and shares untouched children.
type Node struct {
	kind     string
	token    *Token
	children []*Node
}

// NewLeaf builds a leaf node for tok.
func NewLeaf(tok Token) *Node {
	tok.Leading = tok.Leading.Clone()
	tok.Trailing = tok.Trailing.Clone()

	return &Node{kind: tok.Kind, token: &tok}
}

// NewNode builds an interior node. The children slice is copied.
func NewNode(kind string, children ...*Node) *Node {
	cs := make([]*Node, len(children))
	copy(cs, children)

	return &Node{kind: kind, children: cs}
}

// Kind returns the grammar-specific node kind.
func (n *Node) Kind() string { return n.kind }

// IsLeaf reports whether n wraps a token.
func (n *Node) IsLeaf() bool { return n.token != nil }

// Token returns the wrapped token of a leaf.
func (n *Node) Token() (Token, bool) {
	if n.token == nil {
		return Token{}, false
	}

	return *n.token, true
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the children slice.
func (n *Node) Children() []*Node {
	cs := make([]*Node, len(n.children))
	copy(cs, n.children)

	return cs
}

// WithToken returns a leaf with tok replacing the wrapped token.
func (n *Node) WithToken(tok Token) *Node {
	leaf := NewLeaf(tok)
	leaf.kind = n.kind

	return leaf
}

// WithChildren returns an interior node of the same kind with new children.
func (n *Node) WithChildren(children ...*Node) *Node {
	return NewNode(n.kind, children...)
}

// WithChild returns a copy of n whose i-th child is replaced.
func (n *Node) WithChild(i int, child *Node) *Node {
	cs := n.Children()
	cs[i] = child

	return &Node{kind: n.kind, children: cs}
}

// Text renders the subtree losslessly.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeTo(&b)

	return b.String()
}

func (n *Node) writeTo(b *strings.Builder) {
	if n.token != nil {
		b.WriteString(n.token.Leading.Text())
		b.WriteString(n.token.Text)
		b.WriteString(n.token.Trailing.Text())

		return
	}

	for _, c := range n.children {
		c.writeTo(b)
	}
}

// Equal reports structural equality of two subtrees.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil || a.kind != b.kind {
		return false
	}

	if (a.token == nil) != (b.token == nil) {
		return false
	}

	if a.token != nil {
		return a.token.Equal(*b.token)
	}

	if len(a.children) != len(b.children) {
		return false
	}

	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}

	return true
}
