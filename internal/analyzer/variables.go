package analyzer

import (
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// automaticVariables is config.AutomaticVariables keyed by lowercased name.
var automaticVariables = func() map[string]string {
	m := make(map[string]string, len(config.AutomaticVariables))
	for name, typeName := range config.AutomaticVariables {
		m[strings.ToLower(name)] = typeName
	}
	return m
}()

func (c *InferenceContext) inferVariable(id ast.NodeID, v *ast.Variable) []typesystem.Descriptor {
	path := v.Path
	if !path.IsVariable() {
		return nil
	}
	if path.IsUnqualified() && (path.UserPath == config.UnderbarVar || strings.EqualFold(path.UserPath, config.PSItemVar)) {
		if out, ok := c.pipelineItem(id); ok {
			return out
		}
	}
	if path.IsUnqualified() {
		if strings.EqualFold(path.UserPath, config.ThisVar) && c.EnclosingType.Valid() {
			return []typesystem.Descriptor{typesystem.NewUserDefined(c.EnclosingType)}
		}
		if typeName, ok := automaticVariables[strings.ToLower(path.UserPath)]; ok && typeName != "object" {
			return []typesystem.Descriptor{c.nameDescriptor(typeName)}
		}
	}
	return c.bindingSites(id, v)
}

// pipelineItem infers $_ inside a script block passed to a command: it is one
// item of what the preceding pipeline element produces. ok is false when the
// reference is not in that position.
func (c *InferenceContext) pipelineItem(id ast.NodeID) (out []typesystem.Descriptor, ok bool) {
	t := c.tree
	block := t.Enclosing(id, ast.KindScriptBlockExpression)
	if !block.Valid() {
		return nil, false
	}

	// @{ Expression = { $_ } } and @{ E = { $_ }, 'x' } stand for the hashtable.
	at := block
	if p := t.Parent(at); t.Kind(p) == ast.KindCommandExpression && t.Kind(t.Parent(p)) == ast.KindPipeline {
		outer := t.Parent(t.Parent(p))
		switch {
		case t.Kind(outer) == ast.KindHashtable:
			at = outer
		case t.Kind(outer) == ast.KindArrayLiteral && t.Kind(t.Parent(outer)) == ast.KindHashtable:
			at = t.Parent(outer)
		}
	} else if t.Kind(p) == ast.KindHashtable {
		at = p
	}
	if t.Kind(t.Parent(at)) == ast.KindCommandParameter {
		at = t.Parent(at)
	}

	cmd := t.Parent(at)
	if t.Kind(cmd) != ast.KindCommand {
		return nil, false
	}
	pipe, isPipe := t.Data(t.Parent(cmd)).(*ast.Pipeline)
	if !isPipe {
		return nil, true
	}
	idx := indexOf(pipe.Elements, cmd)
	if idx <= 0 {
		return nil, true
	}
	prev := pipe.Elements[idx-1]
	if items := c.literalItems(prev); len(items) > 0 {
		return typesystem.Distinct(items), true
	}
	return c.unroll(c.Infer(prev)), true
}

// literalItems infers the items of a literal collection, @(...) or a,b,c,
// possibly wrapped as a pipeline element. Other nodes have no items.
func (c *InferenceContext) literalItems(id ast.NodeID) []typesystem.Descriptor {
	switch n := c.tree.Data(id).(type) {
	case *ast.CommandExpression:
		return c.literalItems(n.Expression)
	case *ast.Pipeline:
		if len(n.Elements) == 1 {
			return c.literalItems(n.Elements[0])
		}
	case *ast.Paren:
		return c.literalItems(n.Pipeline)
	case *ast.ArrayLiteral:
		return c.inferAll(n.Elements)
	case *ast.ArrayExpression:
		block, ok := c.tree.Data(n.Body).(*ast.StatementBlock)
		if !ok {
			return nil
		}
		var out []typesystem.Descriptor
		for _, st := range block.Statements {
			if items := c.literalItems(st); len(items) > 0 {
				out = append(out, items...)
				continue
			}
			out = append(out, c.Infer(st)...)
		}
		return out
	}
	return nil
}

// unroll replaces collection types with their element type, the way a
// pipeline or foreach loop enumerates them. Strings are not enumerated, and
// an enumerable without an IEnumerable[T] element type is kept as is.
func (c *InferenceContext) unroll(ds []typesystem.Descriptor) []typesystem.Descriptor {
	u := c.engine.universe
	enumerable := u.Get("System.Collections.IEnumerable")
	genDef := u.Get(typesystem.IEnumerableDefName)
	str := u.Get(typesystem.StringName)

	var out []typesystem.Descriptor
	for _, d := range ds {
		t := d.Native()
		if t == nil || t == str {
			out = append(out, d)
			continue
		}
		if t.IsArray() {
			out = append(out, typesystem.NewNative(t.Elem))
			continue
		}
		ifaces := t.AllInterfaces()
		if t != enumerable && !containsType(ifaces, enumerable) {
			out = append(out, d)
			continue
		}
		typed := false
		for _, i := range ifaces {
			if genDef != nil && i.IsConstructedFrom(genDef) && len(i.TypeArgs) == 1 {
				out = append(out, typesystem.NewNative(i.TypeArgs[0]))
				typed = true
			}
		}
		if !typed {
			out = append(out, d)
		}
	}
	return out
}

// bindingSites searches the enclosing function, or the whole tree, for the
// places that last gave the variable a value before the reference.
func (c *InferenceContext) bindingSites(id ast.NodeID, v *ast.Variable) []typesystem.Descriptor {
	t := c.tree
	scope := t.Enclosing(id, ast.KindFunctionDefinition, ast.KindFunctionMember)
	if !scope.Valid() {
		scope = t.Root()
	}
	start := t.Extent(id).Start
	sites := t.FindAll(scope, func(n ast.NodeID) bool {
		switch t.Kind(n) {
		case ast.KindParameter, ast.KindAssignment, ast.KindCommand:
			return t.Extent(n).End < start && c.assignsSameVariable(v, n)
		case ast.KindForEach:
			// The loop variable is bound once its collection is evaluated.
			fe := t.Data(n).(*ast.ForEach)
			return t.Extent(fe.Condition).End < start && c.assignsSameVariable(v, n)
		}
		return false
	}, true)
	if len(sites) == 0 {
		if d, ok := c.TryBoundedEval(id); ok {
			return []typesystem.Descriptor{d}
		}
		return nil
	}

	var assignments []*ast.Assignment
	var assignEnds []int
	var loop *ast.ForEach
	command := ast.NoNode
	for _, n := range sites {
		switch d := t.Data(n).(type) {
		case *ast.Parameter:
			if out := c.inferParameter(d); len(out) > 0 {
				return out
			}
		case *ast.Assignment:
			assignments = append(assignments, d)
			assignEnds = append(assignEnds, t.Extent(n).End)
		case *ast.ForEach:
			if loop == nil {
				loop = d
			}
		case *ast.Command:
			if !command.Valid() {
				command = n
			}
		}
	}

	for _, a := range assignments {
		if conv, ok := t.Data(a.Left).(*ast.Convert); ok {
			return []typesystem.Descriptor{c.typeNameDescriptor(conv.TypeName)}
		}
	}
	if loop != nil {
		return c.unroll(c.Infer(loop.Condition))
	}
	if command.Valid() {
		return c.Infer(command)
	}

	var closest *ast.Assignment
	best := -1
	for i, a := range assignments {
		if diff := start - assignEnds[i]; best < 0 || diff < best {
			best = diff
			closest = a
		}
	}
	if closest == nil {
		return nil
	}
	return c.Infer(closest.Right)
}

// assignsSameVariable reports whether site binds the variable v names.
func (c *InferenceContext) assignsSameVariable(v *ast.Variable, site ast.NodeID) bool {
	t := c.tree
	name := v.Path.UnqualifiedPath()
	switch d := t.Data(site).(type) {
	case *ast.Parameter:
		pv, ok := t.Data(d.Name).(*ast.Variable)
		return ok && v.Path.IsUnscopedVariable() && strings.EqualFold(pv.Path.UnqualifiedPath(), name)
	case *ast.ForEach:
		lv, ok := t.Data(d.Variable).(*ast.Variable)
		return ok && v.Path.IsUnscopedVariable() && strings.EqualFold(lv.Path.UnqualifiedPath(), name)
	case *ast.Command:
		return c.capturesVariable(site, name)
	case *ast.Assignment:
		lhs := d.Left
		if conv, ok := t.Data(lhs).(*ast.Convert); ok {
			lhs = conv.Child
		}
		target, ok := t.Data(lhs).(*ast.Variable)
		if !ok {
			return false
		}
		if strings.EqualFold(target.Path.UserPath, v.Path.UserPath) {
			return true
		}
		// $script:x refers to an x assigned unqualified at script level.
		return v.Path.IsScript() && strings.EqualFold(target.Path.UnqualifiedPath(), name)
	}
	return false
}

// capturesVariable reports whether a command stores its output in the named
// variable through -PipelineVariable or -OutVariable.
func (c *InferenceContext) capturesVariable(cmd ast.NodeID, name string) bool {
	if c.engine.binder == nil {
		return false
	}
	binding, err := c.engine.binder.Bind(c.tree, cmd)
	if err != nil {
		c.debugf("bind node %d: %v", cmd, err)
		return false
	}
	for _, param := range []string{config.PipelineVariableParam, config.OutVariableParam} {
		arg, ok := binding.Argument(param)
		if !ok {
			continue
		}
		if s, ok := c.tree.Data(arg).(*ast.StringConstant); ok && strings.EqualFold(s.Value, name) {
			return true
		}
	}
	return false
}

func indexOf(ids []ast.NodeID, id ast.NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

func containsType(ts []*typesystem.Type, t *typesystem.Type) bool {
	if t == nil {
		return false
	}
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
