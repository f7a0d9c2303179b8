package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NodePath addresses a node by child indices from a root.
type NodePath []int

// String renders the path as "0/3/1".
func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}

	return strings.Join(parts, "/")
}

// Overlaps reports whether one path is a prefix of the other, i.e. whether
// replacing the node at one path also rewrites the node at the other.
func (p NodePath) Overlaps(o NodePath) bool {
	n := len(p)
	if len(o) < n {
		n = len(o)
	}

	for i := 0; i < n; i++ {
		if p[i] != o[i] {
			return false
		}
	}

	return true
}

func (p NodePath) child(i int) NodePath {
	out := make(NodePath, len(p)+1)
	copy(out, p)
	out[len(p)] = i

	return out
}

// At returns the node at path, or false when the path does not exist.
func (n *Node) At(path NodePath) (*Node, bool) {
	cur := n
	for _, idx := range path {
		if idx < 0 || idx >= len(cur.children) {
			return nil, false
		}

		cur = cur.children[idx]
	}

	return cur, true
}

// ReplaceAt returns a new root where the node at path is replaced.
func (n *Node) ReplaceAt(path NodePath, replacement *Node) (*Node, error) {
	if len(path) == 0 {
		return replacement, nil
	}

	idx := path[0]
	if idx < 0 || idx >= len(n.children) {
		return nil, fmt.Errorf("path %s: index %d out of range", path, idx)
	}

	child, err := n.children[idx].ReplaceAt(path[1:], replacement)
	if err != nil {
		return nil, err
	}

	if child == n.children[idx] {
		return n, nil
	}

	return n.WithChild(idx, child), nil
}

// Walk visits nodes depth-first in source order. Returning false from fn skips the
// node's children.
func Walk(root *Node, fn func(n *Node, path NodePath) bool) {
	walk(root, NodePath{}, fn)
}

func walk(n *Node, path NodePath, fn func(*Node, NodePath) bool) {
	if !fn(n, path) {
		return
	}

	for i, c := range n.children {
		walk(c, path.child(i), fn)
	}
}

// LeafRef is a token leaf and its position in the tree.
type LeafRef struct {
	Node   *Node
	Path   NodePath
	Offset int // byte offset of the token text in the rendered tree
}

// Leaves lists every token leaf in source order with its rendered offset.
func Leaves(root *Node) []LeafRef {
	var (
		out    []LeafRef
		offset int
	)

	Walk(root, func(n *Node, path NodePath) bool {
		if n.token == nil {
			return true
		}

		offset += len(n.token.Leading.Text())
		out = append(out, LeafRef{Node: n, Path: path, Offset: offset})
		offset += len(n.token.Text) + len(n.token.Trailing.Text())

		return false
	})

	return out
}

// FirstLeaf returns the first token leaf and its path.
func FirstLeaf(root *Node) (*Node, NodePath, bool) {
	var (
		found *Node
		at    NodePath
	)

	Walk(root, func(n *Node, path NodePath) bool {
		if found != nil {
			return false
		}

		if n.token != nil {
			found, at = n, path
			return false
		}

		return true
	})

	return found, at, found != nil
}

// Rewrite applies fn bottom-up. fn receives a node whose children were already
// rewritten and returns the replacement plus whether it changed anything. Parents
// are rebuilt only along changed paths; an unchanged tree is returned as-is.
func Rewrite(root *Node, fn func(n *Node) (*Node, bool)) (*Node, bool) {
	var changed bool

	cur := root
	if len(root.children) > 0 {
		var cs []*Node

		for i, c := range root.children {
			nc, ch := Rewrite(c, fn)
			if !ch {
				continue
			}

			if cs == nil {
				cs = root.Children()
			}

			cs[i] = nc
			changed = true
		}

		if changed {
			cur = &Node{kind: root.kind, children: cs}
		}
	}

	next, ch := fn(cur)
	if ch {
		return next, true
	}

	return cur, changed
}

// RewriteTokens applies fn to every token leaf.
func RewriteTokens(root *Node, fn func(tok Token) (Token, bool)) (*Node, bool) {
	return Rewrite(root, func(n *Node) (*Node, bool) {
		tok, ok := n.Token()
		if !ok {
			return n, false
		}

		next, changed := fn(tok)
		if !changed {
			return n, false
		}

		return n.WithToken(next), true
	})
}
