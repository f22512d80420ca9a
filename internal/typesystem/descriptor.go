package typesystem

import (
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
)

// DescriptorKind tells which form a Descriptor holds.
type DescriptorKind uint8

const (
	DescriptorNone DescriptorKind = iota
	DescriptorNative
	DescriptorUserDefined
	DescriptorNamed
)

// Descriptor is one candidate type: a native type, a class declared in a
// syntax tree, or an opaque name. Descriptors are comparable; == is identity
// of the underlying type, node or name.
type Descriptor struct {
	native *Type
	def    ast.Ref
	name   string
}

// NewNative wraps a native type.
func NewNative(t *Type) Descriptor { return Descriptor{native: t} }

// NewUserDefined wraps a reference to a TypeDefinition node.
func NewUserDefined(def ast.Ref) Descriptor { return Descriptor{def: def} }

// NewNamed wraps a name that resolves to neither a native type nor a
// declared class.
func NewNamed(name string) Descriptor { return Descriptor{name: name} }

func (d Descriptor) Kind() DescriptorKind {
	switch {
	case d.native != nil:
		return DescriptorNative
	case d.def.Valid():
		return DescriptorUserDefined
	case d.name != "":
		return DescriptorNamed
	}
	return DescriptorNone
}

// Native returns the native type, or nil.
func (d Descriptor) Native() *Type { return d.native }

// Definition returns the class declaration reference, or a zero Ref.
func (d Descriptor) Definition() ast.Ref { return d.def }

// Name returns the opaque name for Named descriptors and the full name for
// the other forms.
func (d Descriptor) Name() string {
	switch d.Kind() {
	case DescriptorNative:
		return d.native.Name
	case DescriptorUserDefined:
		if td, ok := d.def.Data().(*ast.TypeDefinition); ok {
			return td.Name
		}
	}
	return d.name
}

// String is the display name.
func (d Descriptor) String() string {
	if d.native != nil {
		return d.native.String()
	}
	return d.Name()
}

// Equal is ==, spelled out for readability at call sites.
func (d Descriptor) Equal(o Descriptor) bool { return d == o }

func (d Descriptor) IsZero() bool { return d.Kind() == DescriptorNone }

// ParseInstanceName splits a Named descriptor of the form
// <marker>#<namespace>/<class> into its namespace and class. The separator
// between namespace and class may also be a backslash.
func (d Descriptor) ParseInstanceName(marker string) (namespace, class string, ok bool) {
	if d.Kind() != DescriptorNamed {
		return "", "", false
	}
	return ParseInstanceName(d.name, marker)
}

// ParseInstanceName is the string form of Descriptor.ParseInstanceName.
func ParseInstanceName(name, marker string) (namespace, class string, ok bool) {
	prefix := marker + "#"
	if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return "", "", false
	}
	rest := name[len(prefix):]
	i := strings.LastIndexAny(rest, `/\`)
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// Distinct drops repeated descriptors, keeping first occurrences in order.
func Distinct(ds []Descriptor) []Descriptor {
	seen := make(map[Descriptor]bool, len(ds))
	out := make([]Descriptor, 0, len(ds))
	for _, d := range ds {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
