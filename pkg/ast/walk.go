package ast

// Inspect traverses the tree depth-first in source order, calling f for
// each node. If f returns false the children of that node are skipped.
func Inspect(root Node, f func(Node) bool) {
	if root == nil || !f(root) {
		return
	}
	for _, child := range root.Children() {
		Inspect(child, f)
	}
}

// Filter collects every node in the tree for which keep returns true.
func Filter(root Node, keep func(Node) bool) []Node {
	var out []Node
	Inspect(root, func(n Node) bool {
		if keep(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// IsName reports whether n is the identifier id.
func IsName(n Node, id string) bool {
	name, ok := n.(*Name)
	return ok && name.ID == id
}
