package analyzer

import (
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// Names of the attribute that adds a type name to a parameter.
var typeNameAttributes = map[string]bool{
	"pstypename":          true,
	"pstypenameattribute": true,
	"system.management.automation.pstypenameattribute": true,
}

// visit dispatches on the node kind. The second result is false only for
// payloads the switch does not know, which the kind set is closed against.
func (c *InferenceContext) visit(id ast.NodeID) ([]typesystem.Descriptor, bool) {
	u := c.engine.universe
	switch n := c.tree.Data(id).(type) {
	// Expressions
	case *ast.Constant:
		if t := u.ValueType(n.Value); t != nil {
			return []typesystem.Descriptor{typesystem.NewNative(t)}, true
		}
		return nil, true
	case *ast.StringConstant, *ast.ExpandableString:
		return []typesystem.Descriptor{c.native(typesystem.StringName)}, true
	case *ast.Variable:
		return c.inferVariable(id, n), true
	case *ast.TypeExpression:
		return []typesystem.Descriptor{c.typeNameDescriptor(n.TypeName)}, true
	case *ast.Convert:
		return []typesystem.Descriptor{c.typeNameDescriptor(n.TypeName)}, true
	case *ast.Member:
		return c.inferMember(n.Target, n.Member, n.Static, false), true
	case *ast.InvokeMember:
		return c.inferMember(n.Target, n.Member, n.Static, true), true
	case *ast.BaseCtorInvoke:
		return c.inferMember(n.Target, n.Member, false, true), true
	case *ast.ArrayExpression, *ast.ArrayLiteral:
		return []typesystem.Descriptor{typesystem.NewNative(u.ArrayOf(u.Object()))}, true
	case *ast.Hashtable:
		return []typesystem.Descriptor{c.native(typesystem.HashtableName)}, true
	case *ast.ScriptBlockExpression:
		return []typesystem.Descriptor{c.native(typesystem.ScriptBlockName)}, true
	case *ast.Paren:
		return c.Infer(n.Pipeline), true
	case *ast.SubExpression:
		return c.Infer(n.Body), true
	case *ast.Index:
		return c.inferIndex(n), true
	case *ast.AttributedExpression:
		return c.Infer(n.Child), true
	case *ast.UsingExpression:
		return c.Infer(n.Sub), true
	case *ast.Binary:
		return c.Infer(n.Left), true
	case *ast.Unary:
		if n.IsNot() {
			return []typesystem.Descriptor{c.native(typesystem.BoolName)}, true
		}
		return c.Infer(n.Child), true
	case *ast.ErrorExpression:
		return c.inferAll(n.Nested), true

	// Blocks
	case *ast.ScriptBlock:
		return c.inferAll([]ast.NodeID{n.Begin, n.Process, n.End}), true
	case *ast.NamedBlock:
		return c.inferAll(n.Statements), true
	case *ast.StatementBlock:
		return c.inferAll(n.Statements), true
	case *ast.Parameter:
		return c.inferParameter(n), true

	// Statements
	case *ast.If:
		var out []typesystem.Descriptor
		for _, cl := range n.Clauses {
			out = append(out, c.Infer(cl.Body)...)
		}
		return append(out, c.Infer(n.Else)...), true
	case *ast.Switch:
		var out []typesystem.Descriptor
		for _, cl := range n.Clauses {
			out = append(out, c.Infer(cl.Body)...)
		}
		return append(out, c.Infer(n.Default)...), true
	case *ast.Trap:
		return c.Infer(n.Body), true
	case *ast.Data:
		return c.Infer(n.Body), true
	case *ast.ForEach:
		return c.Infer(n.Body), true
	case *ast.For:
		return c.Infer(n.Body), true
	case *ast.While:
		return c.Infer(n.Body), true
	case *ast.DoWhile:
		return c.Infer(n.Body), true
	case *ast.DoUntil:
		return c.Infer(n.Body), true
	case *ast.Try:
		out := c.Infer(n.Body)
		out = append(out, c.inferAll(n.Catches)...)
		return append(out, c.Infer(n.Finally)...), true
	case *ast.Catch:
		return c.Infer(n.Body), true
	case *ast.Return:
		return c.Infer(n.Pipeline), true
	case *ast.Assignment:
		return c.Infer(n.Left), true
	case *ast.Pipeline:
		if len(n.Elements) == 0 {
			return nil, true
		}
		return c.Infer(n.Elements[len(n.Elements)-1]), true
	case *ast.Command:
		return c.inferCommand(id), true
	case *ast.CommandExpression:
		return c.Infer(n.Expression), true
	case *ast.BlockStatement:
		return c.Infer(n.Body), true
	case *ast.Configuration:
		return c.Infer(n.Body), true
	case *ast.DynamicKeyword:
		if len(n.CommandElements) == 0 {
			return nil, true
		}
		return c.Infer(n.CommandElements[0]), true
	case *ast.ErrorStatement:
		return c.inferAll(n.Nested), true

	// Declarations and flow control carry no value.
	case *ast.ParamBlock, *ast.TypeConstraint, *ast.Attribute, *ast.NamedAttributeArgument,
		*ast.FunctionDefinition, *ast.Break, *ast.Continue, *ast.Exit, *ast.Throw,
		*ast.CommandParameter, *ast.FileRedirection, *ast.MergingRedirection,
		*ast.TypeDefinition, *ast.PropertyMember, *ast.FunctionMember, *ast.UsingStatement:
		return nil, true
	}
	return nil, false
}

// inferParameter yields the type constraint, then every type name attribute.
func (c *InferenceContext) inferParameter(p *ast.Parameter) []typesystem.Descriptor {
	var out []typesystem.Descriptor
	for _, id := range p.Attributes {
		if tc, ok := c.tree.Data(id).(*ast.TypeConstraint); ok {
			out = append(out, c.typeNameDescriptor(tc.TypeName))
			break
		}
	}
	for _, id := range p.Attributes {
		attr, ok := c.tree.Data(id).(*ast.Attribute)
		if !ok || !typeNameAttributes[strings.ToLower(attr.TypeName.Name)] || len(attr.Positional) == 0 {
			continue
		}
		if s, ok := c.tree.Data(attr.Positional[0]).(*ast.StringConstant); ok && s.Value != "" {
			out = append(out, c.nameDescriptor(s.Value))
		}
	}
	return out
}
