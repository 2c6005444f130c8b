package ast

// Visitor receives every node of a tree on entry and on exit.
//
// Enter returns false to skip n's children; Leave is then not called for n.
// Context that depends on the enclosing declaration is pushed in Enter and
// popped in Leave.
type Visitor interface {
	Enter(n, parent *Node) bool
	Leave(n, parent *Node)
}

// Walk traverses the tree rooted at root in depth-first pre-order.
//
// Children are read by position from the live slice, so a visitor may edit
// the node it is entering or its parent's children at or before the
// current position.
func Walk(v Visitor, root *Node) {
	if root == nil {
		return
	}

	walk(v, root, nil)
}

func walk(v Visitor, n, parent *Node) {
	if n == nil || !v.Enter(n, parent) {
		return
	}

	for i := 0; i < len(n.Children); i++ {
		walk(v, n.Children[i], n)
	}

	v.Leave(n, parent)
}

type inspector func(*Node) bool

func (f inspector) Enter(n, _ *Node) bool { return f(n) }
func (f inspector) Leave(_, _ *Node)      {}

// Inspect calls f for every node in pre-order; f returns false to skip the
// node's children.
func Inspect(root *Node, f func(*Node) bool) {
	Walk(inspector(f), root)
}

// Leaves returns the tokens under root in source order.
func Leaves(root *Node) []*Node {
	var out []*Node

	Inspect(root, func(n *Node) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}

		return true
	})

	return out
}
