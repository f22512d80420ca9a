package typesystem

import (
	"fmt"
	"strings"
	"sync"
)

// Well-known full names.
const (
	ObjectName         = "System.Object"
	StringName         = "System.String"
	BoolName           = "System.Boolean"
	IntName            = "System.Int32"
	LongName           = "System.Int64"
	DoubleName         = "System.Double"
	VoidName           = "System.Void"
	ArrayName          = "System.Array"
	HashtableName      = "System.Collections.Hashtable"
	ScriptBlockName    = "System.Management.Automation.ScriptBlock"
	PSMethodName       = "System.Management.Automation.PSMethod"
	CimInstanceName    = "Microsoft.Management.Infrastructure.CimInstance"
	IEnumerableDefName = "System.Collections.Generic.IEnumerable`1"
	IListDefName       = "System.Collections.Generic.IList`1"
	IDictionaryDefName = "System.Collections.Generic.IDictionary`2"
)

// namespaces searched when a name is neither a full name nor an accelerator.
var implicitNamespaces = []string{
	"System.",
	"System.Collections.",
	"System.Collections.Generic.",
	"System.Management.Automation.",
}

// Universe interns every native type known to the engine. It is safe for
// concurrent use; arrays and generic instantiations are created on demand and
// interned, so equal inputs always yield the same *Type.
type Universe struct {
	mu      sync.Mutex
	byName  map[string]*Type
	byShort map[string]*Type
}

// NewUniverse returns a universe populated with the built-in types.
func NewUniverse() *Universe {
	u := &Universe{
		byName:  make(map[string]*Type),
		byShort: make(map[string]*Type),
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	registerBuiltins(u)
	return u
}

// Register adds a type. Its full name must be new; its accelerator and
// simple name are registered when not already taken.
func (u *Universe) Register(t *Type) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.registerLocked(t)
}

func (u *Universe) registerLocked(t *Type) error {
	if t.Name == "" {
		return fmt.Errorf("type has no name")
	}
	key := strings.ToLower(t.Name)
	if _, ok := u.byName[key]; ok {
		return fmt.Errorf("type %s already registered", t.Name)
	}
	u.byName[key] = t
	if t.Short != "" {
		u.alias(t.Short, t)
	}
	if t.GenericDef == nil && t.Kind != KindArray {
		u.alias(t.SimpleName(), t)
	}
	return nil
}

func (u *Universe) alias(name string, t *Type) {
	key := strings.ToLower(name)
	if _, ok := u.byShort[key]; !ok {
		u.byShort[key] = t
	}
}

// Get returns a registered type by exact full name or accelerator, without
// parsing array or generic syntax.
func (u *Universe) Get(name string) *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.plainLocked(name)
}

func (u *Universe) plainLocked(name string) *Type {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := u.byName[key]; ok {
		return t
	}
	if t, ok := u.byShort[key]; ok {
		return t
	}
	for _, ns := range implicitNamespaces {
		if t, ok := u.byName[strings.ToLower(ns)+key]; ok {
			return t
		}
	}
	return nil
}

// Lookup resolves type-name text as written in scripts: full names,
// accelerators, T[] arrays and Generic[A,B] instantiations. Surrounding
// brackets are allowed.
func (u *Universe) Lookup(name string) (*Type, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	t := u.lookupLocked(strings.TrimSpace(name))
	return t, t != nil
}

func (u *Universe) lookupLocked(name string) *Type {
	if name == "" {
		return nil
	}
	if t := u.plainLocked(name); t != nil {
		return t
	}
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") && matchingBracket(name, 0) == len(name)-1 {
		return u.lookupLocked(strings.TrimSpace(name[1 : len(name)-1]))
	}
	if strings.HasSuffix(name, "[]") {
		elem := u.lookupLocked(strings.TrimSpace(name[:len(name)-2]))
		if elem == nil {
			return nil
		}
		return u.arrayOfLocked(elem)
	}
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") || matchingBracket(name, open) != len(name)-1 {
		return nil
	}
	argText := splitTopLevel(name[open+1 : len(name)-1])
	args := make([]*Type, len(argText))
	for i, a := range argText {
		if args[i] = u.lookupLocked(strings.TrimSpace(a)); args[i] == nil {
			return nil
		}
	}
	base := strings.TrimSpace(name[:open])
	if i := strings.IndexByte(base, '`'); i >= 0 {
		base = base[:i]
	}
	def := u.plainLocked(fmt.Sprintf("%s`%d", base, len(args)))
	if def == nil {
		return nil
	}
	t, err := u.instantiateLocked(def, args)
	if err != nil {
		return nil
	}
	return t
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// ArrayOf returns the single-dimension array type of elem.
func (u *Universe) ArrayOf(elem *Type) *Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.arrayOfLocked(elem)
}

func (u *Universe) arrayOfLocked(elem *Type) *Type {
	name := elem.Name + "[]"
	if t, ok := u.byName[strings.ToLower(name)]; ok {
		return t
	}
	t := &Type{
		Name:          name,
		Kind:          KindArray,
		Elem:          elem,
		Base:          u.byName[strings.ToLower(ArrayName)],
		DefaultMember: "Item",
	}
	u.byName[strings.ToLower(name)] = t
	for _, defName := range []string{IListDefName, "System.Collections.Generic.ICollection`1", IEnumerableDefName} {
		if def := u.byName[strings.ToLower(defName)]; def != nil {
			if it, err := u.instantiateLocked(def, []*Type{elem}); err == nil {
				t.Interfaces = append(t.Interfaces, it)
			}
		}
	}
	t.Members = []Member{
		&Property{Name: "Item", Type: elem, Params: []*Type{u.byName[strings.ToLower(IntName)]}},
	}
	return t
}

// Instantiate constructs def[args...]. Instantiating twice with the same
// arguments returns the same type.
func (u *Universe) Instantiate(def *Type, args ...*Type) (*Type, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.instantiateLocked(def, args)
}

func (u *Universe) instantiateLocked(def *Type, args []*Type) (*Type, error) {
	if !def.IsGenericDefinition() {
		return nil, fmt.Errorf("%s is not a generic type definition", def.Name)
	}
	if len(args) != len(def.TypeArgs) {
		return nil, fmt.Errorf("%s expects %d type arguments, got %d", def.Name, len(def.TypeArgs), len(args))
	}
	names := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("nil type argument %d for %s", i, def.Name)
		}
		names[i] = a.Name
	}
	name := stripArity(def.Name) + "[" + strings.Join(names, ",") + "]"
	key := strings.ToLower(name)
	if t, ok := u.byName[key]; ok {
		return t, nil
	}

	t := &Type{
		Name:          name,
		Kind:          def.Kind,
		GenericDef:    def,
		TypeArgs:      append([]*Type(nil), args...),
		DefaultMember: def.DefaultMember,
		Hidden:        def.Hidden,
	}
	// Intern before expanding so self-referencing members terminate.
	u.byName[key] = t

	s := make(substitution, len(args))
	for i, p := range def.TypeArgs {
		s[p] = args[i]
	}
	t.Base = u.substLocked(def.Base, s)
	for _, i := range def.Interfaces {
		t.Interfaces = append(t.Interfaces, u.substLocked(i, s))
	}
	t.Members = u.substMembersLocked(def.Members, s)
	t.Statics = u.substMembersLocked(def.Statics, s)
	return t, nil
}

type substitution map[*Type]*Type

func (u *Universe) substLocked(t *Type, s substitution) *Type {
	if t == nil {
		return nil
	}
	if r, ok := s[t]; ok {
		return r
	}
	switch {
	case t.Kind == KindArray:
		if elem := u.substLocked(t.Elem, s); elem != t.Elem {
			return u.arrayOfLocked(elem)
		}
	case t.GenericDef != nil:
		args := make([]*Type, len(t.TypeArgs))
		changed := false
		for i, a := range t.TypeArgs {
			args[i] = u.substLocked(a, s)
			changed = changed || args[i] != a
		}
		if changed {
			if r, err := u.instantiateLocked(t.GenericDef, args); err == nil {
				return r
			}
		}
	}
	return t
}

func (u *Universe) substMembersLocked(members []Member, s substitution) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		switch m := m.(type) {
		case *Property:
			c := *m
			c.Type = u.substLocked(m.Type, s)
			c.Params = u.substListLocked(m.Params, s)
			out = append(out, &c)
		case *Field:
			c := *m
			c.Type = u.substLocked(m.Type, s)
			out = append(out, &c)
		case *MethodGroup:
			c := *m
			c.Overloads = make([]Method, len(m.Overloads))
			for i, o := range m.Overloads {
				c.Overloads[i] = Method{
					Params:     u.substListLocked(o.Params, s),
					ReturnType: u.substLocked(o.ReturnType, s),
				}
			}
			out = append(out, &c)
		case *ExtendedMember:
			c := *m
			c.ValueType = u.substLocked(m.ValueType, s)
			out = append(out, &c)
		default:
			out = append(out, m)
		}
	}
	return out
}

func (u *Universe) substListLocked(list []*Type, s substitution) []*Type {
	if list == nil {
		return nil
	}
	out := make([]*Type, len(list))
	for i, t := range list {
		out[i] = u.substLocked(t, s)
	}
	return out
}

// Members returns the instance or static members of t. Instance members
// include those inherited from base classes, most derived first.
func (u *Universe) Members(t *Type, static bool) []Member {
	if t == nil {
		return nil
	}
	if static {
		return append([]Member(nil), t.Statics...)
	}
	var out []Member
	for x := t; x != nil; x = x.Base {
		out = append(out, x.Members...)
	}
	if t.Kind == KindInterface {
		for _, i := range t.AllInterfaces() {
			out = append(out, i.Members...)
		}
	}
	return out
}

// Object returns System.Object.
func (u *Universe) Object() *Type { return u.Get(ObjectName) }

// MustGet returns a registered type and panics when it is missing. Use it
// only for built-in names.
func (u *Universe) MustGet(name string) *Type {
	t := u.Get(name)
	if t == nil {
		panic("typesystem: unknown built-in type " + name)
	}
	return t
}

// Types returns every registered type, excluding arrays and instantiations.
func (u *Universe) Types() []*Type {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*Type, 0, len(u.byName))
	for _, t := range u.byName {
		if t.Kind != KindArray && t.GenericDef == nil {
			out = append(out, t)
		}
	}
	return out
}
