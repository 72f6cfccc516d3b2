package tree

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Position is a 1-based line/column location in source text.
type Position struct {
	Line   int
	Column int
}

// Range delimits a span of source text, in both positions and bytes.
type Range struct {
	Start     Position
	End       Position
	StartByte int
	EndByte   int
}

// Tree owns a parsed source document. The tree is immutable once parsed;
// Nodes handed out by it borrow the tree and its source read-only.
type Tree struct {
	inner  *sitter.Tree
	source []byte
}

// Source returns the raw bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// RootNode returns the root of the parse tree.
func (t *Tree) RootNode() Node {
	if t == nil || t.inner == nil {
		return Node{}
	}
	return Node{inner: t.inner.RootNode(), source: t.source}
}

// Close releases the underlying parser resources. Nodes obtained from the
// tree must not be used afterwards.
func (t *Tree) Close() {
	if t == nil || t.inner == nil {
		return
	}
	t.inner.Close()
	t.inner = nil
}

// Node is a lightweight read-only reference into a Tree. The zero Node is
// "no node"; check IsZero before use.
type Node struct {
	inner  *sitter.Node
	source []byte
}

// IsZero reports whether the node references nothing.
func (n Node) IsZero() bool {
	return n.inner == nil
}

// Kind returns the grammar node kind, e.g. "identifier".
func (n Node) Kind() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.Kind()
}

// Text slices the node's span out of the source, verbatim.
func (n Node) Text() string {
	if n.inner == nil {
		return ""
	}
	start := int(n.inner.StartByte())
	end := int(n.inner.EndByte())
	if start < 0 || end < start || end > len(n.source) {
		return ""
	}
	return string(n.source[start:end])
}

// Range returns the node's source span.
func (n Node) Range() Range {
	if n.inner == nil {
		return Range{}
	}
	start := n.inner.StartPosition()
	end := n.inner.EndPosition()
	return Range{
		Start:     Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:       Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
		StartByte: int(n.inner.StartByte()),
		EndByte:   int(n.inner.EndByte()),
	}
}

// Parent returns the enclosing node, or the zero Node at the root.
func (n Node) Parent() Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.Parent(), source: n.source}
}

// NamedChildCount counts the named (non-punctuation) children.
func (n Node) NamedChildCount() int {
	if n.inner == nil {
		return 0
	}
	return int(n.inner.NamedChildCount())
}

// NamedChild returns the i-th named child, or the zero Node.
func (n Node) NamedChild(i int) Node {
	if n.inner == nil || i < 0 {
		return Node{}
	}
	return Node{inner: n.inner.NamedChild(uint(i)), source: n.source}
}

// NamedChildren collects every named child in order.
func (n Node) NamedChildren() []Node {
	count := n.NamedChildCount()
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if !child.IsZero() {
			children = append(children, child)
		}
	}
	return children
}

// ChildByFieldName returns the child bound to a grammar field, if any.
func (n Node) ChildByFieldName(name string) Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.ChildByFieldName(name), source: n.source}
}

// NextNamedSibling returns the following named sibling, or the zero Node.
func (n Node) NextNamedSibling() Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.NextNamedSibling(), source: n.source}
}

// PrevNamedSibling returns the preceding named sibling, or the zero Node.
func (n Node) PrevNamedSibling() Node {
	if n.inner == nil {
		return Node{}
	}
	return Node{inner: n.inner.PrevNamedSibling(), source: n.source}
}

// HasError reports whether the subtree contains parse errors.
func (n Node) HasError() bool {
	if n.inner == nil {
		return false
	}
	return n.inner.HasError()
}
