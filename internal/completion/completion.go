// Package completion offers member completions for editors: given a member
// access node and what the user has typed so far, it lists the members of the
// target's inferred types.
package completion

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/funvibe/scriptinfer/internal/analyzer"
	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// ItemKind uses the LSP CompletionItemKind numbering.
type ItemKind int

const (
	ItemMethod      ItemKind = 2
	ItemConstructor ItemKind = 4
	ItemField       ItemKind = 5
	ItemProperty    ItemKind = 10
)

func (k ItemKind) String() string {
	switch k {
	case ItemMethod:
		return "method"
	case ItemConstructor:
		return "constructor"
	case ItemField:
		return "field"
	case ItemProperty:
		return "property"
	}
	return "member"
}

// Item is one completion candidate.
type Item struct {
	Label string
	Kind  ItemKind
	// Detail is the display type: the value type of a property or field,
	// the return type of a method.
	Detail string
	// Extended is set for members added by the extension table.
	Extended bool
}

// Members completes the member access at node, which must be a Member or
// InvokeMember. The target is inferred with the highest permission the
// engine grants. An empty prefix lists every member by name.
func Members(e *analyzer.Engine, tree *ast.Tree, node ast.NodeID, prefix string) []Item {
	var target ast.NodeID
	var static bool
	switch n := tree.Data(node).(type) {
	case *ast.Member:
		target, static = n.Target, n.Static
	case *ast.InvokeMember:
		target, static = n.Target, n.Static
	default:
		return nil
	}

	ctx, err := e.NewContextAt(tree, node, e.MaxPermission())
	if err != nil {
		return nil
	}

	var items []Item
	seen := make(map[string]bool)
	for _, d := range ctx.MemberTargets(target, static) {
		for _, m := range ctx.ResolveMembers(d, static, nil) {
			key := strings.ToLower(m.MemberName())
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, describe(m))
		}
	}
	return rank(items, prefix)
}

// rank keeps the items whose label fuzzy-matches prefix, closest first.
func rank(items []Item, prefix string) []Item {
	if prefix == "" {
		slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label)) })
		return items
	}

	labels := make([]string, len(items))
	byLabel := make(map[string]Item, len(items))
	for i, it := range items {
		labels[i] = it.Label
		byLabel[it.Label] = it
	}
	ranks := fuzzy.RankFindFold(prefix, labels)
	slices.SortFunc(ranks, func(a, b fuzzy.Rank) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Target), strings.ToLower(b.Target))
	})

	out := make([]Item, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, byLabel[r.Target])
	}
	return out
}

func describe(m typesystem.Member) Item {
	it := Item{Label: m.MemberName(), Kind: ItemProperty}
	switch m := m.(type) {
	case *typesystem.Property:
		it.Detail = typeString(m.Type)
	case *typesystem.Field:
		it.Kind = ItemField
		it.Detail = typeString(m.Type)
	case *typesystem.MethodGroup:
		it.Kind = ItemMethod
		if m.Constructor {
			it.Kind = ItemConstructor
		}
		if len(m.Overloads) > 0 {
			it.Detail = typeString(m.Overloads[0].ReturnType)
		}
	case *analyzer.ClassMember:
		switch {
		case m.Constructor:
			it.Kind = ItemConstructor
			it.Detail = typesystem.NewUserDefined(m.Class).String()
		case m.Function() != nil:
			it.Kind = ItemMethod
			f := m.Function()
			if f.IsReturnTypeVoid() {
				it.Detail = "void"
			} else {
				it.Detail = f.ReturnType.Name
			}
		case m.Property() != nil:
			it.Detail = m.Property().PropertyType.Name
			if it.Detail == "" {
				it.Detail = "object"
			}
		}
	case *typesystem.ExtendedMember:
		it.Extended = true
		if m.Kind == typesystem.ScriptMethod {
			it.Kind = ItemMethod
		}
		switch {
		case m.ValueType != nil:
			it.Detail = m.ValueType.String()
		case len(m.OutputTypes) > 0:
			it.Detail = m.OutputTypes[0]
		case m.ReferencedName != "":
			it.Detail = "-> " + m.ReferencedName
		}
	case *typesystem.InstanceProperty:
		if m.Type != nil {
			it.Detail = m.Type.String()
		} else {
			it.Detail = m.TypeName
		}
	}
	return it
}

func typeString(t *typesystem.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
