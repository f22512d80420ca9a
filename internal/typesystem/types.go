package typesystem

import "strings"

// TypeKind classifies a native type.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindStruct
	KindInterface
	KindEnum
	KindArray
	KindGenericParameter
	KindVoid
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindGenericParameter:
		return "generic parameter"
	case KindVoid:
		return "void"
	}
	return "unknown"
}

// Type is a native type. Types are interned by a Universe, so two *Type
// values denote the same type iff they are the same pointer.
type Type struct {
	// Name is the full name, e.g. System.Collections.Generic.List`1 for a
	// generic definition or System.Collections.Generic.List[System.Int32] for
	// a constructed type.
	Name string
	// Short is the accelerator name, e.g. int for System.Int32.
	Short string
	Kind  TypeKind

	// Elem is the element type of an array.
	Elem *Type

	// GenericDef and TypeArgs describe a constructed generic type. On a
	// generic definition TypeArgs holds its generic parameters.
	GenericDef *Type
	TypeArgs   []*Type

	Base       *Type
	Interfaces []*Type

	// DefaultMember names the indexer property, e.g. Item.
	DefaultMember string
	Hidden        bool

	Members []Member
	Statics []Member
}

// IsArray reports an array type.
func (t *Type) IsArray() bool { return t != nil && t.Kind == KindArray }

// IsGenericDefinition reports an open generic definition such as List`1.
func (t *Type) IsGenericDefinition() bool {
	return t != nil && t.GenericDef == nil && len(t.TypeArgs) > 0
}

// IsConstructedFrom reports whether t is an instantiation of def.
func (t *Type) IsConstructedFrom(def *Type) bool {
	return t != nil && def != nil && t.GenericDef == def
}

// ContainsGenericParameters reports whether t mentions an unbound generic
// parameter anywhere in its structure.
func (t *Type) ContainsGenericParameters() bool {
	if t == nil {
		return false
	}
	switch {
	case t.Kind == KindGenericParameter:
		return true
	case t.Kind == KindArray:
		return t.Elem.ContainsGenericParameters()
	}
	for _, a := range t.TypeArgs {
		if a.ContainsGenericParameters() {
			return true
		}
	}
	return false
}

// AllInterfaces returns every interface t implements, including those
// inherited from bases and other interfaces, without duplicates.
func (t *Type) AllInterfaces() []*Type {
	var out []*Type
	seen := make(map[*Type]bool)
	var visit func(*Type)
	visit = func(x *Type) {
		for _, i := range x.Interfaces {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
				visit(i)
			}
		}
	}
	for x := t; x != nil; x = x.Base {
		visit(x)
	}
	return out
}

// Hierarchy lists the names of t and its base classes, most derived first,
// ending with System.Object. Extension members are looked up along it.
func (t *Type) Hierarchy() []string {
	var out []string
	for x := t; x != nil; x = x.Base {
		out = append(out, x.Name)
	}
	if len(out) == 0 || !strings.EqualFold(out[len(out)-1], ObjectName) {
		out = append(out, ObjectName)
	}
	return out
}

// String returns the display name: the accelerator when there is one,
// the simple name of a generic definition with its arguments spelled out,
// otherwise the full name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch {
	case t.Kind == KindArray:
		return t.Elem.String() + "[]"
	case t.GenericDef != nil:
		args := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.String()
		}
		return stripArity(t.GenericDef.SimpleName()) + "[" + strings.Join(args, ",") + "]"
	case t.Short != "":
		return t.Short
	}
	return t.Name
}

// SimpleName is the last dotted segment of the full name.
func (t *Type) SimpleName() string {
	name := t.Name
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func stripArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
