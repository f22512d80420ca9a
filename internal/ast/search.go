package ast

// FindAll returns every node in the subtree of root (root included) for which
// pred holds, in pre-order. With nested false the search does not descend into
// script block expressions below root.
func (t *Tree) FindAll(root NodeID, pred func(NodeID) bool, nested bool) []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if pred(id) {
			out = append(out, id)
		}
		if !nested && id != root && t.Kind(id) == KindScriptBlockExpression {
			return
		}
		for _, c := range t.Children(id) {
			walk(c)
		}
	}
	if t.Node(root) != nil {
		walk(root)
	}
	return out
}

// Enclosing returns the nearest proper ancestor of id whose kind is one of
// kinds, or NoNode.
func (t *Tree) Enclosing(id NodeID, kinds ...Kind) NodeID {
	for p := t.Parent(id); p.Valid(); p = t.Parent(p) {
		k := t.Kind(p)
		for _, want := range kinds {
			if k == want {
				return p
			}
		}
	}
	return NoNode
}

// Contains reports whether ancestor is id or one of its ancestors.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	for n := id; n.Valid(); n = t.Parent(n) {
		if n == ancestor {
			return true
		}
	}
	return false
}
