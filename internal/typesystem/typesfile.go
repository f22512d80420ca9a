package typesystem

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TypesFile describes extra native types and extension members:
//
//	types:
//	  - name: Contoso.Widget
//	    short: widget
//	    base: object
//	    default_member: Item
//	    properties:
//	      - {name: Size, type: int}
//	    methods:
//	      - {name: Resize, returns: [Contoso.Widget]}
//	    constructors: [[], [int]]
//	extensions:
//	  - type: System.String
//	    members:
//	      - {name: Shout, kind: scriptmethod, output_types: [string]}
type TypesFile struct {
	Types      []TypeSpec      `yaml:"types"`
	Extensions []ExtensionSpec `yaml:"extensions"`
}

// TypeSpec declares one native type.
type TypeSpec struct {
	Name          string       `yaml:"name"`
	Short         string       `yaml:"short,omitempty"`
	Kind          string       `yaml:"kind,omitempty"`
	Base          string       `yaml:"base,omitempty"`
	Interfaces    []string     `yaml:"interfaces,omitempty"`
	DefaultMember string       `yaml:"default_member,omitempty"`
	Hidden        bool         `yaml:"hidden,omitempty"`
	Properties    []MemberSpec `yaml:"properties,omitempty"`
	Fields        []MemberSpec `yaml:"fields,omitempty"`
	Methods       []MemberSpec `yaml:"methods,omitempty"`
	Constructors  [][]string   `yaml:"constructors,omitempty"`
}

// MemberSpec declares a property, field or method. Returns lists one return
// type per overload.
type MemberSpec struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type,omitempty"`
	Params  []string `yaml:"params,omitempty"`
	Returns []string `yaml:"returns,omitempty"`
	Static  bool     `yaml:"static,omitempty"`
	Hidden  bool     `yaml:"hidden,omitempty"`
}

// ExtensionSpec attaches extended members to a type name.
type ExtensionSpec struct {
	Type    string               `yaml:"type"`
	Members []ExtendedMemberSpec `yaml:"members"`
}

// ExtendedMemberSpec declares one extended member.
type ExtendedMemberSpec struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	ValueType   string   `yaml:"value_type,omitempty"`
	References  string   `yaml:"references,omitempty"`
	OutputTypes []string `yaml:"output_types,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty"`
}

var typeKindNames = map[string]TypeKind{
	"":          KindClass,
	"class":     KindClass,
	"struct":    KindStruct,
	"interface": KindInterface,
	"enum":      KindEnum,
}

// LoadTypesFile reads and parses a types file.
func LoadTypesFile(path string) (*TypesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading types %s: %w", path, err)
	}
	return ParseTypesFile(data, path)
}

// ParseTypesFile parses types file content. The path is used only for error
// messages.
func ParseTypesFile(data []byte, path string) (*TypesFile, error) {
	var f TypesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *TypesFile) validate(path string) error {
	seen := make(map[string]bool)
	for i, t := range f.Types {
		if t.Name == "" {
			return fmt.Errorf("%s: types[%d]: name is required", path, i)
		}
		key := strings.ToLower(t.Name)
		if seen[key] {
			return fmt.Errorf("%s: types[%d]: duplicate type %s", path, i, t.Name)
		}
		seen[key] = true
		if _, ok := typeKindNames[strings.ToLower(t.Kind)]; !ok {
			return fmt.Errorf("%s: types[%d]: unknown kind %q", path, i, t.Kind)
		}
		for j, m := range append(append(append([]MemberSpec{}, t.Properties...), t.Fields...), t.Methods...) {
			if m.Name == "" {
				return fmt.Errorf("%s: %s: member %d: name is required", path, t.Name, j)
			}
		}
	}
	for i, e := range f.Extensions {
		if e.Type == "" {
			return fmt.Errorf("%s: extensions[%d]: type is required", path, i)
		}
		for j, m := range e.Members {
			if m.Name == "" {
				return fmt.Errorf("%s: extensions[%d].members[%d]: name is required", path, i, j)
			}
			kind, ok := extendedKindNames[strings.ToLower(m.Kind)]
			if !ok {
				return fmt.Errorf("%s: extensions[%d].members[%d]: unknown kind %q", path, i, j, m.Kind)
			}
			if kind == AliasProperty && m.References == "" {
				return fmt.Errorf("%s: extensions[%d].members[%d]: alias %s needs references", path, i, j, m.Name)
			}
		}
	}
	return nil
}

// Apply registers the file's types in u and its extension members in ext.
// Types are registered before members are resolved, so types in one file may
// refer to each other.
func (f *TypesFile) Apply(u *Universe, ext *ExtensionTable) error {
	declared := make([]*Type, len(f.Types))
	for i, spec := range f.Types {
		t := &Type{
			Name:          spec.Name,
			Short:         spec.Short,
			Kind:          typeKindNames[strings.ToLower(spec.Kind)],
			DefaultMember: spec.DefaultMember,
			Hidden:        spec.Hidden,
		}
		if err := u.Register(t); err != nil {
			return err
		}
		declared[i] = t
	}

	resolve := func(owner, name string) (*Type, error) {
		if name == "" {
			return nil, nil
		}
		t, ok := u.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown type %s", owner, name)
		}
		return t, nil
	}
	resolveAll := func(owner string, names []string) ([]*Type, error) {
		out := make([]*Type, 0, len(names))
		for _, n := range names {
			t, err := resolve(owner, n)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}

	for i, spec := range f.Types {
		t := declared[i]
		var err error
		if t.Base, err = resolve(t.Name, spec.Base); err != nil {
			return err
		}
		if t.Base == nil && t.Kind != KindInterface {
			t.Base = u.Object()
		}
		if t.Interfaces, err = resolveAll(t.Name, spec.Interfaces); err != nil {
			return err
		}
		for _, p := range spec.Properties {
			pt, err := resolve(t.Name, p.Type)
			if err != nil {
				return err
			}
			params, err := resolveAll(t.Name, p.Params)
			if err != nil {
				return err
			}
			t.add(&Property{Name: p.Name, Type: pt, Params: params, Static: p.Static, Hidden: p.Hidden})
		}
		for _, fl := range spec.Fields {
			ft, err := resolve(t.Name, fl.Type)
			if err != nil {
				return err
			}
			t.add(&Field{Name: fl.Name, Type: ft, Static: fl.Static, Hidden: fl.Hidden})
		}
		for _, m := range spec.Methods {
			params, err := resolveAll(t.Name, m.Params)
			if err != nil {
				return err
			}
			g := &MethodGroup{Name: m.Name, Static: m.Static, Hidden: m.Hidden}
			rets := m.Returns
			if len(rets) == 0 {
				rets = []string{"void"}
			}
			for _, r := range rets {
				rt, err := resolve(t.Name, r)
				if err != nil {
					return err
				}
				g.Overloads = append(g.Overloads, Method{Params: params, ReturnType: rt})
			}
			t.add(g)
		}
		if len(spec.Constructors) > 0 {
			g := &MethodGroup{Name: "new", Static: true, Constructor: true}
			for _, c := range spec.Constructors {
				params, err := resolveAll(t.Name, c)
				if err != nil {
					return err
				}
				g.Overloads = append(g.Overloads, Method{Params: params, ReturnType: t})
			}
			t.Statics = append(t.Statics, g)
		}
	}

	for _, spec := range f.Extensions {
		typeName := spec.Type
		if t, ok := u.Lookup(typeName); ok {
			typeName = t.Name
		}
		for _, m := range spec.Members {
			vt, err := resolve(typeName, m.ValueType)
			if err != nil {
				return err
			}
			ext.Add(typeName, &ExtendedMember{
				Name:           m.Name,
				Kind:           extendedKindNames[strings.ToLower(m.Kind)],
				ValueType:      vt,
				ReferencedName: m.References,
				OutputTypes:    m.OutputTypes,
				Hidden:         m.Hidden,
			})
		}
	}
	return nil
}

func (t *Type) add(m Member) {
	if m.IsStatic() {
		t.Statics = append(t.Statics, m)
	} else {
		t.Members = append(t.Members, m)
	}
}
