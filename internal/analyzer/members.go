package analyzer

import (
	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// MemberFilter keeps the members it returns true for.
type MemberFilter func(typesystem.Member) bool

func notHidden(m typesystem.Member) bool { return !m.IsHidden() }

func notConstructor(m typesystem.Member) bool {
	switch m := m.(type) {
	case *typesystem.MethodGroup:
		return !m.Constructor
	case *ClassMember:
		return !m.Constructor
	}
	return true
}

// both combines two filters; either may be nil.
func both(a, b MemberFilter) MemberFilter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(m typesystem.Member) bool { return a(m) && b(m) }
}

func keep(members []typesystem.Member, filter MemberFilter) []typesystem.Member {
	if filter == nil {
		return members
	}
	out := members[:0:0]
	for _, m := range members {
		if filter(m) {
			out = append(out, m)
		}
	}
	return out
}

// ClassMember is a property, method or constructor declared by a class in a
// syntax tree. Constructors are exposed as static members named new.
type ClassMember struct {
	Name        string
	Static      bool
	Hidden      bool
	Constructor bool
	// Class is the declaring TypeDefinition.
	Class ast.Ref
	// Decl is the PropertyMember or FunctionMember node. It is zero for the
	// default constructor of a class that declares none.
	Decl ast.Ref
}

func (m *ClassMember) MemberName() string { return m.Name }
func (m *ClassMember) IsHidden() bool     { return m.Hidden }
func (m *ClassMember) IsStatic() bool     { return m.Static }

// Property returns the property declaration, or nil.
func (m *ClassMember) Property() *ast.PropertyMember {
	p, _ := m.Decl.Data().(*ast.PropertyMember)
	return p
}

// Function returns the method or constructor declaration, or nil.
func (m *ClassMember) Function() *ast.FunctionMember {
	f, _ := m.Decl.Data().(*ast.FunctionMember)
	return f
}

func classMember(class ast.Ref, id ast.NodeID) *ClassMember {
	decl := ast.Ref{Tree: class.Tree, ID: id}
	switch d := decl.Data().(type) {
	case *ast.PropertyMember:
		return &ClassMember{Name: d.Name, Static: d.Static, Hidden: d.Hidden, Class: class, Decl: decl}
	case *ast.FunctionMember:
		if d.Constructor {
			return &ClassMember{Name: "new", Static: true, Hidden: d.Hidden, Constructor: true, Class: class, Decl: decl}
		}
		return &ClassMember{Name: d.Name, Static: d.Static, Hidden: d.Hidden, Class: class, Decl: decl}
	}
	return nil
}

// ResolveMembers lists the members of d. Hidden members are dropped unless d
// is the session's enclosing class; filter, when not nil, drops more.
func (c *InferenceContext) ResolveMembers(d typesystem.Descriptor, static bool, filter MemberFilter) []typesystem.Member {
	switch d.Kind() {
	case typesystem.DescriptorNative:
		return c.nativeMembers(d.Native(), static, filter)
	case typesystem.DescriptorUserDefined:
		return c.userMembers(d.Definition(), static, filter)
	case typesystem.DescriptorNamed:
		return c.namedMembers(d, static, filter)
	}
	return nil
}

// nativeMembers searches t, then its element type: the array element or the
// T of every IEnumerable[T] it implements. Instance searches put extension
// members ahead of declared ones.
func (c *InferenceContext) nativeMembers(t *typesystem.Type, static bool, filter MemberFilter) []typesystem.Member {
	if t == nil {
		return nil
	}
	u := c.engine.universe
	search := []*typesystem.Type{t}
	if t.IsArray() {
		search = append(search, t.Elem)
	} else if def := u.Get(typesystem.IEnumerableDefName); def != nil {
		for _, i := range t.AllInterfaces() {
			if i.IsConstructedFrom(def) && len(i.TypeArgs) == 1 {
				search = append(search, i.TypeArgs[0])
			}
		}
	}

	var out []typesystem.Member
	seen := make(map[*typesystem.Type]bool, len(search))
	for _, st := range search {
		if st == nil || seen[st] {
			continue
		}
		seen[st] = true
		if !static {
			out = append(out, c.engine.extensions.Lookup(st.Hierarchy()...)...)
		}
		out = append(out, u.Members(st, static)...)
	}
	return keep(out, both(notHidden, filter))
}

// userMembers lists the members a declared class has: its own, those of its
// bases, and those of System.Object. Static searches include a default
// constructor when the class declares none.
func (c *InferenceContext) userMembers(def ast.Ref, static bool, filter MemberFilter) []typesystem.Member {
	w := &classWalk{ctx: c, static: static, visited: make(map[ast.Ref]bool)}
	foundCtor := w.walk(def, filter)
	out := w.members
	if static {
		if !foundCtor {
			out = append(out, &ClassMember{Name: "new", Static: true, Constructor: true, Class: def})
		}
		filter = both(notConstructor, filter)
	}
	if static || !w.nativeBase {
		out = append(out, keep(c.engine.universe.Members(c.engine.universe.Object(), static), filter)...)
	}
	return out
}

type classWalk struct {
	ctx        *InferenceContext
	static     bool
	visited    map[ast.Ref]bool
	members    []typesystem.Member
	nativeBase bool
}

// walk adds the members of def and its bases and reports whether def itself
// declares a constructor. Base constructors are never inherited.
func (w *classWalk) walk(def ast.Ref, filter MemberFilter) bool {
	td, ok := def.Data().(*ast.TypeDefinition)
	if !ok || w.visited[def] {
		return false
	}
	w.visited[def] = true

	if def != w.ctx.EnclosingType {
		filter = both(notHidden, filter)
	}
	foundCtor := false
	for _, id := range td.Members {
		m := classMember(def, id)
		if m == nil {
			continue
		}
		if m.Constructor {
			foundCtor = true
		}
		if m.Static == w.static && (filter == nil || filter(m)) {
			w.members = append(w.members, m)
		}
	}

	baseFilter := filter
	if w.static {
		baseFilter = both(notConstructor, filter)
	}
	for _, base := range td.BaseTypes {
		if base.Definition.Valid() {
			w.walk(ast.Ref{Tree: def.Tree, ID: base.Definition}, baseFilter)
			continue
		}
		t, ok := w.ctx.engine.universe.Lookup(base.Name)
		if !ok {
			w.ctx.debugf("base type %s of %s is unknown", base.Name, td.Name)
			continue
		}
		if t.Kind != typesystem.KindInterface {
			w.nativeBase = true
		}
		w.members = append(w.members, w.ctx.nativeMembers(t, w.static, baseFilter)...)
	}
	return foundCtor
}

// namedMembers resolves members of a type known only by name: extension
// members registered under the name and, for instance class names, the
// class's properties.
func (c *InferenceContext) namedMembers(d typesystem.Descriptor, static bool, filter MemberFilter) []typesystem.Member {
	if static {
		return nil
	}
	out := c.engine.extensions.Lookup(d.Name())
	if ns, class, ok := d.ParseInstanceName(config.CimInstanceTypeName); ok && c.engine.instances != nil {
		props, err := c.engine.instances.ClassProperties(ns, class)
		if err != nil {
			c.debugf("instance class %s/%s: %v", ns, class, err)
		}
		for _, p := range props {
			out = append(out, p)
		}
	}
	return keep(out, both(notHidden, filter))
}
