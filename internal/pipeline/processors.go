package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/scriptinfer/internal/analyzer"
	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/completion"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/evaluator"
	"github.com/funvibe/scriptinfer/internal/instances"
	"github.com/funvibe/scriptinfer/internal/modules"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// ConfigProcessor loads the project file: ConfigPath when set, otherwise the
// nearest scriptinfer.yaml above the tree document. Without one the defaults
// apply.
type ConfigProcessor struct{}

func (p *ConfigProcessor) Process(ctx *PipelineContext) *PipelineContext {
	path := ctx.ConfigPath
	if path == "" {
		found, err := config.FindConfig(filepath.Dir(ctx.TreePath))
		if err != nil {
			ctx.addError(err)
			return ctx
		}
		path = found
	}
	if path == "" {
		project, err := config.ParseProject(nil, "defaults")
		if err != nil {
			ctx.addError(err)
			return ctx
		}
		ctx.Project = project
		return ctx
	}
	project, err := config.LoadProject(path)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	ctx.Logger.Printf("using config %s", path)
	ctx.Project = project
	return ctx
}

// TypesProcessor builds the native type model: the built-in types, the
// project's type files and its Go packages.
type TypesProcessor struct{}

func (p *TypesProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Project == nil {
		return ctx
	}
	ctx.Universe = typesystem.NewUniverse()
	ctx.Extensions = typesystem.DefaultExtensions(ctx.Universe)

	files, err := ctx.Project.ResolveAll(ctx.Project.Types)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	for _, path := range files {
		f, err := typesystem.LoadTypesFile(path)
		if err != nil {
			ctx.addError(err)
			continue
		}
		if err := f.Apply(ctx.Universe, ctx.Extensions); err != nil {
			ctx.addError(fmt.Errorf("%s: %w", path, err))
		}
	}

	if len(ctx.Project.GoPackages) > 0 {
		imported, err := typesystem.ImportGoPackages(ctx.Universe, ctx.Project.Dir(), ctx.Project.GoPackages...)
		if err != nil {
			ctx.addError(fmt.Errorf("go_packages: %w", err))
			return ctx
		}
		ctx.Logger.Printf("imported %d Go types", len(imported))
	}
	return ctx
}

// CatalogProcessor loads the command catalogs, through the SQLite cache when
// the project names one.
type CatalogProcessor struct{}

func (p *CatalogProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Project == nil {
		return ctx
	}
	ctx.Catalog = modules.NewCatalog()

	if ctx.Project.Cache != "" {
		cache, err := modules.OpenCache(ctx.Project.Resolve(ctx.Project.Cache))
		if err != nil {
			ctx.addError(err)
		} else {
			ctx.onClose(cache)
			ctx.Catalog.UseCache(cache)
		}
	}

	files, err := ctx.Project.ResolveAll(ctx.Project.Catalogs)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	for _, path := range files {
		m, err := ctx.Catalog.Load(path)
		if err != nil {
			ctx.addError(err)
			continue
		}
		ctx.Logger.Printf("catalog %s: %d commands", m.Name, len(m.Commands))
	}
	return ctx
}

// InstancesProcessor sets up instance class metadata: the project's proto
// files first, then the reflection server.
type InstancesProcessor struct{}

func (p *InstancesProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Project == nil || ctx.Universe == nil {
		return ctx
	}
	if len(ctx.Project.Protos) > 0 {
		importPaths := make([]string, len(ctx.Project.ProtoImportPaths))
		for i, ip := range ctx.Project.ProtoImportPaths {
			importPaths[i] = ctx.Project.Resolve(ip)
		}
		files, err := ctx.Project.ResolveAll(ctx.Project.Protos)
		if err != nil {
			ctx.addError(err)
			return ctx
		}
		protos := instances.NewProtoCatalog(ctx.Universe)
		if err := protos.LoadFiles(importPaths, relativeTo(importPaths, files)...); err != nil {
			ctx.addError(err)
		} else {
			ctx.Instances = append(ctx.Instances, protos)
		}
	}
	if target := ctx.Project.ReflectionTarget; target != "" {
		refl, err := instances.DialReflection(target, ctx.Universe)
		if err != nil {
			ctx.addError(err)
			return ctx
		}
		ctx.onClose(refl)
		ctx.Instances = append(ctx.Instances, refl)
	}
	return ctx
}

// relativeTo rewrites each file relative to the first import path holding
// it, which is how the proto parser looks files up.
func relativeTo(importPaths, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f
		for _, ip := range importPaths {
			rel, err := filepath.Rel(ip, f)
			if err == nil && !strings.HasPrefix(rel, "..") {
				out[i] = filepath.ToSlash(rel)
				break
			}
		}
	}
	return out
}

// EngineProcessor assembles the inference engine from the loaded pieces.
type EngineProcessor struct{}

func (p *EngineProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Project == nil || ctx.Universe == nil || ctx.Catalog == nil {
		return ctx
	}
	maxPerm, err := analyzer.ParsePermission(ctx.Project.MaxPermission)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	opts := analyzer.Options{
		Universe:      ctx.Universe,
		Extensions:    ctx.Extensions,
		Binder:        modules.NewPseudoBinder(ctx.Catalog),
		Specializer:   ctx.Catalog,
		Evaluator:     evaluator.New(evaluator.NewEnvironment(ctx.Project.Variables)),
		Logger:        ctx.Logger,
		MaxPermission: maxPerm,
	}
	if len(ctx.Instances) > 0 {
		opts.Instances = ctx.Instances
	}
	ctx.Engine = analyzer.New(opts)
	return ctx
}

// TreeProcessor loads the tree document and picks the labelled targets.
type TreeProcessor struct{}

func (p *TreeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	tree, err := ast.LoadDocument(ctx.TreePath)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	ctx.Tree = tree

	labels := tree.Labels()
	if len(ctx.Labels) == 0 {
		for label, id := range labels {
			ctx.Targets = append(ctx.Targets, Target{Label: label, Node: id})
		}
		sort.Slice(ctx.Targets, func(i, j int) bool { return ctx.Targets[i].Label < ctx.Targets[j].Label })
		return ctx
	}
	for _, label := range ctx.Labels {
		id, ok := labels[label]
		if !ok {
			ctx.addError(fmt.Errorf("%s: no node labelled %q", ctx.TreePath, label))
			continue
		}
		ctx.Targets = append(ctx.Targets, Target{Label: label, Node: id})
	}
	return ctx
}

// InferProcessor infers every target concurrently.
type InferProcessor struct{}

func (p *InferProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Engine == nil || ctx.Tree == nil || len(ctx.Targets) == 0 {
		return ctx
	}
	nodes := make([]ast.NodeID, len(ctx.Targets))
	for i, t := range ctx.Targets {
		nodes[i] = t.Node
	}
	out, err := ctx.Engine.InferAll(ctx.Context, ctx.Tree, nodes, ctx.Permission)
	if err != nil {
		ctx.addError(err)
		return ctx
	}
	for i, t := range ctx.Targets {
		ctx.Results = append(ctx.Results, Result{Target: t, Types: out[i]})
	}
	return ctx
}

// CompleteProcessor lists member completions for every target.
type CompleteProcessor struct {
	Prefix string
}

func (p *CompleteProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Engine == nil || ctx.Tree == nil {
		return ctx
	}
	for _, t := range ctx.Targets {
		switch ctx.Tree.Kind(t.Node) {
		case ast.KindMember, ast.KindInvokeMember:
		default:
			ctx.addError(fmt.Errorf("%s: node %q is a %s, not a member access", ctx.TreePath, t.Label, ctx.Tree.Kind(t.Node)))
			continue
		}
		ctx.Completions = append(ctx.Completions, Completion{
			Target: t,
			Items:  completion.Members(ctx.Engine, ctx.Tree, t.Node, p.Prefix),
		})
	}
	return ctx
}
