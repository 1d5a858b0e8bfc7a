package ast

import (
	"fmt"
	"io"
	"strings"
)

const (
	RootTag = ">"
)

type Position struct {
	Offset int
	Row    int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Node is a read-only view of a syntax tree node.
type Node interface {
	Tag() string
	Contents() string
	Position() Position
	ChildCount() int
	Child(i int) Node
}

type Tree struct {
	tag      string
	contents string
	pos      Position
	children []*Tree
}

func NewLeaf(tag string, contents string, pos Position) *Tree {
	return &Tree{
		tag:      tag,
		contents: contents,
		pos:      pos,
	}
}

func NewBranch(tag string, pos Position, children ...*Tree) *Tree {
	return &Tree{
		tag:      tag,
		pos:      pos,
		children: children,
	}
}

func (t *Tree) Tag() string        { return t.tag }
func (t *Tree) Contents() string   { return t.contents }
func (t *Tree) Position() Position { return t.pos }
func (t *Tree) ChildCount() int    { return len(t.children) }

func (t *Tree) Child(i int) Node {
	if i < 0 || i >= len(t.children) {
		return nil
	}

	return t.children[i]
}

// HasTag reports whether one of the rule names in the node's tag matches name.
func HasTag(n Node, name string) bool {
	return strings.Contains(n.Tag(), name)
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n Node) int {

	if n == nil {
		return 0
	}

	total := 1
	for i := 0; i < n.ChildCount(); i++ {
		total += CountNodes(n.Child(i))
	}

	return total
}

// Print writes an indented rendering of the tree, one node per line.
func Print(w io.Writer, n Node) {
	printDepth(w, n, 0)
}

func printDepth(w io.Writer, n Node, depth int) {

	if n == nil {
		return
	}

	indent := strings.Repeat("  ", depth)

	if n.ChildCount() == 0 {
		fmt.Fprintf(w, "%s%s:%s '%s'\n", indent, n.Tag(), n.Position(), n.Contents())
		return
	}

	fmt.Fprintf(w, "%s%s \n", indent, n.Tag())
	for i := 0; i < n.ChildCount(); i++ {
		printDepth(w, n.Child(i), depth+1)
	}
}
