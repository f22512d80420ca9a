package analyzer

import (
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// inferMember resolves target.member or target.member(...). Alias members
// extend the list of names searched, up to config.MaxAliasChain names.
func (c *InferenceContext) inferMember(target, member ast.NodeID, static, invoked bool) []typesystem.Descriptor {
	name, ok := c.tree.Data(member).(*ast.StringConstant)
	if !ok {
		return nil
	}
	candidates := c.MemberTargets(target, static)
	if len(candidates) == 0 {
		return nil
	}

	wantDefaultCtor := static && invoked && strings.EqualFold(name.Value, "new")
	var out []typesystem.Descriptor
	for _, cand := range candidates {
		members := c.ResolveMembers(cand, static, nil)
		names := []string{name.Value}
	names:
		for i := 0; i < len(names); i++ {
			for _, m := range members {
				if !strings.EqualFold(m.MemberName(), names[i]) {
					continue
				}
				switch m := m.(type) {
				case *typesystem.Property:
					if !invoked && m.Type != nil {
						out = append(out, typesystem.NewNative(m.Type))
						continue names
					}
				case *typesystem.Field:
					if !invoked && m.Type != nil {
						out = append(out, typesystem.NewNative(m.Type))
					}
				case *typesystem.MethodGroup:
					wantDefaultCtor = false
					if !invoked {
						out = append(out, c.native(typesystem.PSMethodName))
						continue
					}
					for _, o := range m.Overloads {
						if returnsValue(o.ReturnType) {
							out = append(out, typesystem.NewNative(o.ReturnType))
						}
					}
				case *ClassMember:
					if m.Constructor {
						wantDefaultCtor = false
						if invoked {
							out = append(out, typesystem.NewUserDefined(m.Class))
						}
						continue
					}
					out = append(out, c.classMemberTypes(m, invoked)...)
				case *typesystem.ExtendedMember:
					switch m.Kind {
					case typesystem.NoteProperty, typesystem.CodeProperty:
						if m.ValueType != nil {
							out = append(out, typesystem.NewNative(m.ValueType))
						}
					case typesystem.AliasProperty:
						names = appendAlias(names, m.ReferencedName)
					case typesystem.ScriptProperty, typesystem.ScriptMethod:
						out = append(out, c.namesDescriptors(m.OutputTypes)...)
					}
					continue names
				case *typesystem.InstanceProperty:
					if m.Type != nil {
						out = append(out, typesystem.NewNative(m.Type))
					} else {
						out = append(out, c.nameDescriptor(m.TypeName))
					}
					continue names
				}
			}
		}
		if wantDefaultCtor {
			out = append(out, cand)
		}
	}
	return out
}

// MemberTargets returns what a member is looked up on: the type named by a
// type expression for static access, otherwise the target's candidates or,
// failing those, the type of its bounded evaluation.
func (c *InferenceContext) MemberTargets(target ast.NodeID, static bool) []typesystem.Descriptor {
	if static {
		te, ok := c.tree.Data(target).(*ast.TypeExpression)
		if !ok {
			return nil
		}
		d := c.typeNameDescriptor(te.TypeName)
		if d.Kind() == typesystem.DescriptorNamed {
			return nil
		}
		return []typesystem.Descriptor{d}
	}
	out := c.Infer(target)
	if len(out) == 0 {
		if d, ok := c.TryBoundedEval(target); ok {
			out = append(out, d)
		}
	}
	return out
}

func (c *InferenceContext) classMemberTypes(m *ClassMember, invoked bool) []typesystem.Descriptor {
	if f := m.Function(); f != nil {
		if !invoked {
			return []typesystem.Descriptor{c.native(typesystem.PSMethodName)}
		}
		if f.IsReturnTypeVoid() {
			return nil
		}
		return []typesystem.Descriptor{c.typeNameDescriptor(f.ReturnType)}
	}
	if p := m.Property(); p != nil && !invoked {
		if p.PropertyType.IsZero() {
			return []typesystem.Descriptor{typesystem.NewNative(c.engine.universe.Object())}
		}
		return []typesystem.Descriptor{c.typeNameDescriptor(p.PropertyType)}
	}
	return nil
}

func returnsValue(t *typesystem.Type) bool {
	return t != nil && t.Kind != typesystem.KindVoid && !t.ContainsGenericParameters()
}

func appendAlias(names []string, target string) []string {
	if target == "" || len(names) >= config.MaxAliasChain {
		return names
	}
	for _, n := range names {
		if strings.EqualFold(n, target) {
			return names
		}
	}
	return append(names, target)
}

// inferIndex resolves target[index]. Each candidate that is not indexable
// stands for itself: an indexed command result is usually one of several
// objects of the declared output type.
func (c *InferenceContext) inferIndex(n *ast.Index) []typesystem.Descriptor {
	u := c.engine.universe
	dictDef := u.Get(typesystem.IDictionaryDefName)
	listDef := u.Get(typesystem.IListDefName)

	var out []typesystem.Descriptor
	for _, cand := range c.Infer(n.Target) {
		t := cand.Native()
		if t == nil {
			out = append(out, cand)
			continue
		}
		if t.IsArray() {
			out = append(out, typesystem.NewNative(t.Elem))
			continue
		}
		found := false
		for _, i := range t.AllInterfaces() {
			var elem *typesystem.Type
			switch {
			case dictDef != nil && i.IsConstructedFrom(dictDef) && len(i.TypeArgs) == 2:
				elem = i.TypeArgs[1]
			case listDef != nil && i.IsConstructedFrom(listDef) && len(i.TypeArgs) == 1:
				elem = i.TypeArgs[0]
			}
			if elem != nil && !elem.ContainsGenericParameters() {
				found = true
				out = append(out, typesystem.NewNative(elem))
			}
		}
		if t.DefaultMember != "" {
			for _, m := range u.Members(t, false) {
				if p, ok := m.(*typesystem.Property); ok && p.Type != nil && len(p.Params) > 0 &&
					strings.EqualFold(p.Name, t.DefaultMember) {
					found = true
					out = append(out, typesystem.NewNative(p.Type))
				}
			}
		}
		if !found {
			out = append(out, cand)
		}
	}
	return out
}
