package ast

// NodeID indexes a node inside its Tree. The zero value is NoNode, so optional
// child slots need no explicit initialization.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = 0

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool { return id > NoNode }

// Extent is the source span of a node. Offsets are ordered: a node that ends
// before another starts precedes it in the source.
type Extent struct {
	Start int
	End   int
}

// Payload is the kind-specific part of a node.
type Payload interface {
	Kind() Kind
	// Children lists the child nodes in source order.
	Children() []NodeID
}

// Node is one arena slot. Parent is an index, never an owning pointer.
type Node struct {
	Parent NodeID
	Extent Extent
	Label  string
	Data   Payload
}

// Tree owns all nodes of one parsed script. It is read-only once built and
// may be shared by concurrent readers.
type Tree struct {
	nodes  []Node
	root   NodeID
	labels map[string]NodeID
}

// Root returns the top-level node.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Node returns the node with the given id, or nil for NoNode and out of range ids.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id <= NoNode || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Data returns the payload of id, or nil.
func (t *Tree) Data(id NodeID) Payload {
	if n := t.Node(id); n != nil {
		return n.Data
	}
	return nil
}

// Kind returns the kind of id, KindInvalid when absent.
func (t *Tree) Kind(id NodeID) Kind {
	if d := t.Data(id); d != nil {
		return d.Kind()
	}
	return KindInvalid
}

// Parent returns the parent of id, NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Extent returns the source span of id.
func (t *Tree) Extent(id NodeID) Extent {
	if n := t.Node(id); n != nil {
		return n.Extent
	}
	return Extent{}
}

// Lookup finds a node by the label it was given at build time.
func (t *Tree) Lookup(label string) (NodeID, bool) {
	id, ok := t.labels[label]
	return id, ok
}

// Labels returns all labelled nodes.
func (t *Tree) Labels() map[string]NodeID {
	out := make(map[string]NodeID, len(t.labels))
	for k, v := range t.labels {
		out[k] = v
	}
	return out
}

// Children returns the children of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	if d := t.Data(id); d != nil {
		return d.Children()
	}
	return nil
}

// IndexInParent returns the position of id among its parent's children, or -1.
func (t *Tree) IndexInParent(id NodeID) int {
	for i, c := range t.Children(t.Parent(id)) {
		if c == id {
			return i
		}
	}
	return -1
}

// Ref is a borrowed reference to a node of a specific tree. Two refs are equal
// iff they name the same node of the same tree.
type Ref struct {
	Tree *Tree
	ID   NodeID
}

// Valid reports whether the ref names a node.
func (r Ref) Valid() bool { return r.Tree != nil && r.ID.Valid() }

// Data returns the payload of the referenced node.
func (r Ref) Data() Payload {
	if !r.Valid() {
		return nil
	}
	return r.Tree.Data(r.ID)
}

// TypeName is a type reference written in source, e.g. [int] or [MyClass].
// Definition links to a class declared in the same tree when the name resolves
// to one; it is a cross reference, not a child.
type TypeName struct {
	Name       string
	Definition NodeID
}

// IsZero reports an absent type name.
func (tn TypeName) IsZero() bool { return tn.Name == "" }

// children helpers

func ids(list ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(list))
	for _, id := range list {
		if id.Valid() {
			out = append(out, id)
		}
	}
	return out
}

func join(head []NodeID, tail ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(head)+len(tail))
	for _, id := range head {
		if id.Valid() {
			out = append(out, id)
		}
	}
	return append(out, ids(tail...)...)
}
