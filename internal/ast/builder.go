package ast

import (
	"fmt"
	"strings"
)

// Builder assembles a Tree. Nodes may be added in any order; Build assigns
// parents and extents by walking from the root, so source order is the order
// in which each payload lists its children.
type Builder struct {
	nodes  []Node
	labels map[string]NodeID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:  make([]Node, 1, 64), // slot 0 is NoNode
		labels: make(map[string]NodeID),
	}
}

// Add appends a node and returns its id.
func (b *Builder) Add(p Payload) NodeID {
	b.nodes = append(b.nodes, Node{Data: p})
	return NodeID(len(b.nodes) - 1)
}

// Label names a node so it can be found after Build.
func (b *Builder) Label(id NodeID, label string) NodeID {
	if label != "" && id.Valid() && int(id) < len(b.nodes) {
		b.nodes[id].Label = label
		b.labels[label] = id
	}
	return id
}

// Data returns the payload of a node added so far.
func (b *Builder) Data(id NodeID) Payload {
	if !id.Valid() || int(id) >= len(b.nodes) {
		return nil
	}
	return b.nodes[id].Data
}

// Build finalizes the tree rooted at root. The builder must not be used
// afterwards.
func (b *Builder) Build(root NodeID) (*Tree, error) {
	if !root.Valid() || int(root) >= len(b.nodes) {
		return nil, fmt.Errorf("invalid root node %d", root)
	}
	seen := make([]bool, len(b.nodes))
	offset := 0
	var walk func(id, parent NodeID) error
	walk = func(id, parent NodeID) error {
		if int(id) >= len(b.nodes) {
			return fmt.Errorf("node %d out of range", id)
		}
		if seen[id] {
			return fmt.Errorf("node %d (%s) is reachable from more than one parent", id, b.nodes[id].Data.Kind())
		}
		seen[id] = true
		n := &b.nodes[id]
		n.Parent = parent
		n.Extent.Start = offset
		offset++
		for _, c := range n.Data.Children() {
			if err := walk(c, id); err != nil {
				return err
			}
		}
		n.Extent.End = offset
		offset++
		return nil
	}
	if err := walk(root, NoNode); err != nil {
		return nil, err
	}

	t := &Tree{nodes: b.nodes, root: root, labels: b.labels}
	t.linkTypeDefinitions()
	b.nodes = nil
	b.labels = nil
	return t, nil
}

// MustBuild is Build for trees known to be well formed.
func (b *Builder) MustBuild(root NodeID) *Tree {
	t, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return t
}

// linkTypeDefinitions points type names at classes declared in the same tree.
func (t *Tree) linkTypeDefinitions() {
	defs := make(map[string]NodeID)
	for id := NodeID(1); int(id) < len(t.nodes); id++ {
		if td, ok := t.nodes[id].Data.(*TypeDefinition); ok && td.Name != "" {
			defs[strings.ToLower(td.Name)] = id
		}
	}
	if len(defs) == 0 {
		return
	}
	link := func(tn *TypeName) {
		if tn.Definition.Valid() || tn.Name == "" {
			return
		}
		if id, ok := defs[strings.ToLower(tn.Name)]; ok {
			tn.Definition = id
		}
	}
	for id := NodeID(1); int(id) < len(t.nodes); id++ {
		switch d := t.nodes[id].Data.(type) {
		case *TypeConstraint:
			link(&d.TypeName)
		case *Attribute:
			link(&d.TypeName)
		case *Trap:
			link(&d.TrapType)
		case *Catch:
			for i := range d.CatchTypes {
				link(&d.CatchTypes[i])
			}
		case *TypeDefinition:
			for i := range d.BaseTypes {
				link(&d.BaseTypes[i])
			}
		case *PropertyMember:
			link(&d.PropertyType)
		case *FunctionMember:
			link(&d.ReturnType)
		case *TypeExpression:
			link(&d.TypeName)
		case *Convert:
			link(&d.TypeName)
		}
	}
}

// Convenience constructors. They cover the shapes a parser produces most
// often and keep hand-written trees short.

func (b *Builder) Const(v any) NodeID { return b.Add(&Constant{Value: v}) }
func (b *Builder) Str(s string) NodeID { return b.Add(&StringConstant{Value: s}) }
func (b *Builder) Bare(s string) NodeID { return b.Add(&StringConstant{Value: s, Bare: true}) }
func (b *Builder) Var(path string) NodeID {
	return b.Add(&Variable{Path: NewVariablePath(path)})
}

func (b *Builder) TypeExpr(name string) NodeID {
	return b.Add(&TypeExpression{TypeName: TypeName{Name: name}})
}

func (b *Builder) Cast(typeName string, child NodeID) NodeID {
	return b.Add(&Convert{TypeName: TypeName{Name: typeName}, Child: child})
}

func (b *Builder) Assign(left, right NodeID) NodeID {
	return b.Add(&Assignment{Operator: "=", Left: left, Right: right})
}

// Expr wraps an expression as a pipeline element.
func (b *Builder) Expr(e NodeID) NodeID { return b.Add(&CommandExpression{Expression: e}) }

// Stmt wraps an expression as a one-element pipeline statement.
func (b *Builder) Stmt(e NodeID) NodeID { return b.Pipe(b.Expr(e)) }

func (b *Builder) Pipe(elements ...NodeID) NodeID { return b.Add(&Pipeline{Elements: elements}) }

// Cmd builds a command whose first element is the bare-word name.
func (b *Builder) Cmd(name string, args ...NodeID) NodeID {
	return b.Add(&Command{Elements: append([]NodeID{b.Bare(name)}, args...)})
}

// Param builds -name, or -name:arg when arg is valid.
func (b *Builder) Param(name string, arg NodeID) NodeID {
	return b.Add(&CommandParameter{Name: name, Argument: arg})
}

func (b *Builder) Block(stmts ...NodeID) NodeID { return b.Add(&StatementBlock{Statements: stmts}) }

// Script builds a script block whose statements form the end block.
func (b *Builder) Script(stmts ...NodeID) NodeID {
	return b.Add(&ScriptBlock{End: b.Add(&NamedBlock{Block: BlockEnd, Statements: stmts})})
}

// ScriptWithParams builds a script block with a param() block.
func (b *Builder) ScriptWithParams(params []NodeID, stmts ...NodeID) NodeID {
	return b.Add(&ScriptBlock{
		ParamBlock: b.Add(&ParamBlock{Parameters: params}),
		End:        b.Add(&NamedBlock{Block: BlockEnd, Statements: stmts}),
	})
}

// ScriptExpr builds { stmts } used as a value.
func (b *Builder) ScriptExpr(stmts ...NodeID) NodeID {
	return b.Add(&ScriptBlockExpression{ScriptBlock: b.Script(stmts...)})
}

func (b *Builder) ArrayExpr(stmts ...NodeID) NodeID {
	return b.Add(&ArrayExpression{Body: b.Block(stmts...)})
}

func (b *Builder) ArrayLit(elems ...NodeID) NodeID { return b.Add(&ArrayLiteral{Elements: elems}) }

func (b *Builder) Hash(pairs ...KeyValue) NodeID { return b.Add(&Hashtable{Pairs: pairs}) }

func (b *Builder) Member(target NodeID, name string, static bool) NodeID {
	return b.Add(&Member{Target: target, Member: b.Bare(name), Static: static})
}

func (b *Builder) Invoke(target NodeID, name string, static bool, args ...NodeID) NodeID {
	return b.Add(&InvokeMember{Target: target, Member: b.Bare(name), Static: static, Arguments: args})
}

func (b *Builder) Index(target, index NodeID) NodeID {
	return b.Add(&Index{Target: target, Index: index})
}

func (b *Builder) Binary(op string, left, right NodeID) NodeID {
	return b.Add(&Binary{Operator: op, Left: left, Right: right})
}

func (b *Builder) Unary(op string, child NodeID) NodeID {
	return b.Add(&Unary{Operator: op, Child: child})
}

func (b *Builder) Paren(pipeline NodeID) NodeID { return b.Add(&Paren{Pipeline: pipeline}) }

// ParamDecl declares a parameter, constrained to typeName when it is not empty.
func (b *Builder) ParamDecl(name, typeName string) NodeID {
	p := &Parameter{Name: b.Var(name)}
	if typeName != "" {
		p.Attributes = []NodeID{b.Add(&TypeConstraint{TypeName: TypeName{Name: typeName}})}
	}
	return b.Add(p)
}

// Function declares function name { body } where body is a script block.
func (b *Builder) Function(name string, body NodeID) NodeID {
	return b.Add(&FunctionDefinition{Name: name, Body: body})
}

// ForEach builds foreach ($variable in collection) { stmts }.
func (b *Builder) ForEach(variable string, collection NodeID, stmts ...NodeID) NodeID {
	return b.Add(&ForEach{Variable: b.Var(variable), Condition: collection, Body: b.Block(stmts...)})
}
