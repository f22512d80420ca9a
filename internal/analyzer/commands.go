package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/modules"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// inferCommand yields what a command invocation writes to the pipeline: its
// declared output types, narrowed by a literal -Path, or refined for the
// object commands that pass through or construct their output.
func (c *InferenceContext) inferCommand(id ast.NodeID) []typesystem.Descriptor {
	if c.engine.binder == nil {
		return nil
	}
	binding, err := c.engine.binder.Bind(c.tree, id)
	if err != nil {
		c.debugf("bind node %d: %v", id, err)
		return nil
	}
	if binding == nil || binding.Command == nil {
		return nil
	}

	info := c.specializeForPath(binding)
	if info.IsCmdlet() {
		if out := c.objectCommandTypes(id, info, binding); len(out) > 0 {
			return out
		}
	}
	return c.namesDescriptors(info.OutputTypes)
}

func (c *InferenceContext) specializeForPath(binding *modules.Binding) *modules.CommandInfo {
	info := binding.Command
	if c.engine.specializer == nil {
		return info
	}
	arg, ok := binding.Argument(config.PathParam)
	if !ok {
		arg, ok = binding.Argument(config.LiteralPathParam)
	}
	if !ok {
		return info
	}
	path, ok := c.tree.Data(arg).(*ast.StringConstant)
	if !ok {
		return info
	}
	specialized, err := c.engine.specializer.SpecializeForPath(info, path.Value)
	if err != nil {
		c.debugf("specialize %s for %q: %v", info.Name, path.Value, err)
		return info
	}
	return specialized
}

// objectCommandTypes handles the commands whose output depends on their
// arguments or input rather than on their declaration.
func (c *InferenceContext) objectCommandTypes(id ast.NodeID, info *modules.CommandInfo, binding *modules.Binding) []typesystem.Descriptor {
	switch impl := info.ImplementingType; {
	case strings.EqualFold(impl, config.NewObjectCommand):
		if name, ok := c.constantArgument(binding, config.TypeNameParam); ok && name != "" {
			return []typesystem.Descriptor{c.nameDescriptor(name)}
		}
	case strings.EqualFold(impl, config.GetCimInstanceCommand), strings.EqualFold(impl, config.NewCimInstanceCommand):
		var out []typesystem.Descriptor
		if class, ok := c.constantArgument(binding, config.ClassNameParam); ok && strings.TrimSpace(class) != "" {
			ns, ok := c.constantArgument(binding, config.NamespaceParam)
			if !ok || ns == "" {
				ns = config.DefaultCimNamespace
			}
			out = append(out, typesystem.NewNamed(fmt.Sprintf("%s#%s/%s", config.CimInstanceTypeName, ns, class)))
		}
		return append(out, c.native(typesystem.CimInstanceName))
	case strings.EqualFold(impl, config.WhereObjectCommand), strings.EqualFold(impl, config.SortObjectCommand):
		pipe, ok := c.tree.Data(c.tree.Parent(id)).(*ast.Pipeline)
		if !ok {
			return nil
		}
		if i := indexOf(pipe.Elements, id); i > 0 {
			return c.Infer(pipe.Elements[i-1])
		}
	case strings.EqualFold(impl, config.ForEachObjectCommand):
		var out []typesystem.Descriptor
		for _, param := range []string{config.BeginParam, config.ProcessParam, config.EndParam} {
			arg, ok := binding.Argument(param)
			if !ok {
				continue
			}
			if sb, ok := c.tree.Data(arg).(*ast.ScriptBlockExpression); ok {
				out = append(out, c.Infer(sb.ScriptBlock)...)
			}
		}
		return out
	}
	return nil
}

func (c *InferenceContext) constantArgument(binding *modules.Binding, param string) (string, bool) {
	arg, ok := binding.Argument(param)
	if !ok {
		return "", false
	}
	s, ok := c.tree.Data(arg).(*ast.StringConstant)
	if !ok {
		return "", false
	}
	return s.Value, true
}
