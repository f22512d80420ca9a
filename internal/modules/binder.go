package modules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
)

// BoundArgument is the argument a parameter received. Value is NoNode for a
// switch given without an explicit value, or a named parameter missing its
// argument.
type BoundArgument struct {
	Parameter *ParameterInfo
	Value     ast.NodeID
}

// Binding is the result of matching one command invocation's arguments to
// declared parameters without running anything.
type Binding struct {
	Command *CommandInfo
	// Bound is keyed by lowercased parameter name.
	Bound map[string]BoundArgument
	// Unbound lists arguments no parameter accepted, in source order.
	Unbound []ast.NodeID
	// Errors records parameters that could not be resolved. They do not stop
	// the remaining arguments from binding.
	Errors []error
}

// Argument returns the node bound to the named parameter.
func (b *Binding) Argument(name string) (ast.NodeID, bool) {
	if b == nil {
		return ast.NoNode, false
	}
	arg, ok := b.Bound[strings.ToLower(name)]
	if !ok || !arg.Value.Valid() {
		return ast.NoNode, false
	}
	return arg.Value, true
}

// IsBound reports whether the parameter received anything, switches included.
func (b *Binding) IsBound(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.Bound[strings.ToLower(name)]
	return ok
}

// PseudoBinder binds command invocations against a Catalog.
type PseudoBinder struct {
	catalog *Catalog
}

// NewPseudoBinder returns a binder resolving commands in catalog.
func NewPseudoBinder(catalog *Catalog) *PseudoBinder {
	return &PseudoBinder{catalog: catalog}
}

// Bind resolves the command named by a Command node's first element and
// matches the remaining elements to its parameters: -Name arguments by exact
// name, alias or unique prefix, then the leftovers by position. It fails only
// when the command itself cannot be resolved.
func (p *PseudoBinder) Bind(tree *ast.Tree, id ast.NodeID) (*Binding, error) {
	cmd, ok := tree.Data(id).(*ast.Command)
	if !ok {
		return nil, fmt.Errorf("node %d is not a command", id)
	}
	if len(cmd.Elements) == 0 {
		return nil, fmt.Errorf("node %d: empty command", id)
	}
	name, ok := tree.Data(cmd.Elements[0]).(*ast.StringConstant)
	if !ok {
		return nil, fmt.Errorf("node %d: command name is not a constant", id)
	}
	info, err := p.catalog.Lookup(name.Value)
	if err != nil {
		return nil, err
	}

	b := &Binding{Command: info, Bound: make(map[string]BoundArgument)}
	var positional []ast.NodeID
	elems := cmd.Elements[1:]
	for i := 0; i < len(elems); i++ {
		el := elems[i]
		cp, ok := tree.Data(el).(*ast.CommandParameter)
		if !ok {
			positional = append(positional, el)
			continue
		}
		param, err := info.Parameter(cp.Name)
		if err != nil {
			b.Errors = append(b.Errors, err)
			if cp.Argument.Valid() {
				b.Unbound = append(b.Unbound, cp.Argument)
			}
			continue
		}
		arg := BoundArgument{Parameter: param, Value: cp.Argument}
		if !param.Switch && !arg.Value.Valid() && i+1 < len(elems) {
			if _, next := tree.Data(elems[i+1]).(*ast.CommandParameter); !next {
				i++
				arg.Value = elems[i]
			}
		}
		b.Bound[strings.ToLower(param.Name)] = arg
	}

	var slots []*ParameterInfo
	for i := range info.Parameters {
		prm := &info.Parameters[i]
		if prm.Position != NoPosition && !prm.Switch && !b.IsBound(prm.Name) {
			slots = append(slots, prm)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })
	for i, arg := range positional {
		if i >= len(slots) {
			b.Unbound = append(b.Unbound, positional[i:]...)
			break
		}
		b.Bound[strings.ToLower(slots[i].Name)] = BoundArgument{Parameter: slots[i], Value: arg}
	}
	return b, nil
}
