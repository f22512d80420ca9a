package analyzer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// InferenceContext is the state of one top-level inference call. It must not
// be shared between concurrent calls.
type InferenceContext struct {
	// ID correlates the debug lines of one session.
	ID         uuid.UUID
	Permission Permission
	// EnclosingType is the class whose body is being analyzed. It resolves
	// $this and makes that class's hidden members visible.
	EnclosingType ast.Ref

	tree   *ast.Tree
	engine *Engine
}

// Tree returns the syntax tree the session infers over.
func (c *InferenceContext) Tree() *ast.Tree { return c.tree }

// Infer returns the candidate types of id.
func (c *InferenceContext) Infer(id ast.NodeID) []typesystem.Descriptor {
	if c.tree == nil || !id.Valid() || c.tree.Node(id) == nil {
		return nil
	}
	out, _ := c.visit(id)
	return out
}

func (c *InferenceContext) inferAll(ids []ast.NodeID) []typesystem.Descriptor {
	var out []typesystem.Descriptor
	for _, id := range ids {
		out = append(out, c.Infer(id)...)
	}
	return out
}

// TryBoundedEval evaluates id and returns the type of the value it produces.
// It only runs when the session allows bounded evaluation. A non-empty
// sequence value stands for its first element.
func (c *InferenceContext) TryBoundedEval(id ast.NodeID) (typesystem.Descriptor, bool) {
	if c.Permission < AllowBoundedEval || c.engine.evaluator == nil {
		return typesystem.Descriptor{}, false
	}
	restore := c.withPermission(NoRuntimeUse)
	defer restore()

	v, err := c.engine.evaluator.Eval(c.tree, id)
	if err != nil {
		c.debugf("bounded eval of node %d: %v", id, err)
		return typesystem.Descriptor{}, false
	}
	if items, ok := v.([]any); ok && len(items) > 0 {
		v = items[0]
	}
	t := c.engine.universe.ValueType(v)
	if t == nil {
		return typesystem.Descriptor{}, false
	}
	c.debugf("bounded eval of node %d: %s", id, t)
	return typesystem.NewNative(t), true
}

// withPermission switches the session permission until the returned func is
// called.
func (c *InferenceContext) withPermission(p Permission) (restore func()) {
	saved := c.Permission
	c.Permission = p
	return func() { c.Permission = saved }
}

func (c *InferenceContext) debugf(format string, args ...any) {
	c.engine.logger.Printf("[%s] %s", c.ID, fmt.Sprintf(format, args...))
}

// typeNameDescriptor resolves a type name written in the tree: a class
// declared in the same tree, a native type, or an opaque name.
func (c *InferenceContext) typeNameDescriptor(tn ast.TypeName) typesystem.Descriptor {
	if tn.Definition.Valid() {
		return typesystem.NewUserDefined(ast.Ref{Tree: c.tree, ID: tn.Definition})
	}
	return c.nameDescriptor(tn.Name)
}

// nameDescriptor resolves a type name given as text, e.g. a New-Object
// argument or a declared output type.
func (c *InferenceContext) nameDescriptor(name string) typesystem.Descriptor {
	if t, ok := c.engine.universe.Lookup(name); ok {
		return typesystem.NewNative(t)
	}
	if def := c.classNamed(name); def.Valid() {
		return typesystem.NewUserDefined(def)
	}
	return typesystem.NewNamed(name)
}

func (c *InferenceContext) namesDescriptors(names []string) []typesystem.Descriptor {
	out := make([]typesystem.Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, c.nameDescriptor(n))
	}
	return out
}

func (c *InferenceContext) classNamed(name string) ast.Ref {
	if c.tree == nil || name == "" {
		return ast.Ref{}
	}
	name = strings.Trim(name, "[]")
	defs := c.tree.FindAll(c.tree.Root(), func(id ast.NodeID) bool {
		td, ok := c.tree.Data(id).(*ast.TypeDefinition)
		return ok && strings.EqualFold(td.Name, name)
	}, true)
	if len(defs) == 0 {
		return ast.Ref{}
	}
	return ast.Ref{Tree: c.tree, ID: defs[0]}
}

func (c *InferenceContext) native(name string) typesystem.Descriptor {
	return typesystem.NewNative(c.engine.universe.MustGet(name))
}
