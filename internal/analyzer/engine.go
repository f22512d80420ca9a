// Package analyzer infers the candidate types of expressions and statements
// in a script syntax tree without running the script.
//
// Every inference call returns a possibly empty list of descriptors in
// discovery order. An empty list means "don't know"; it is never an error.
// Errors are reserved for caller mistakes such as requesting a permission the
// engine was not configured to grant.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// ErrPermissionDenied is returned when a call asks for more than
// Options.MaxPermission allows.
var ErrPermissionDenied = errors.New("permission denied")

// Options configures an Engine. Zero collaborators disable the features that
// need them: without a Binder commands infer to nothing, without an Evaluator
// bounded evaluation never succeeds.
type Options struct {
	Universe    *typesystem.Universe
	Extensions  *typesystem.ExtensionTable
	Binder      Binder
	Specializer PathSpecializer
	Evaluator   Evaluator
	Instances   InstanceMetadata

	// Logger receives debug lines about swallowed collaborator failures.
	// Nil discards them.
	Logger *log.Logger

	// MaxPermission caps the permission any call may request.
	MaxPermission Permission
}

// Engine holds the read-only collaborators shared by inference calls. It is
// safe for concurrent use; each call gets its own InferenceContext.
type Engine struct {
	universe    *typesystem.Universe
	extensions  *typesystem.ExtensionTable
	binder      Binder
	specializer PathSpecializer
	evaluator   Evaluator
	instances   InstanceMetadata
	logger      *log.Logger
	maxPerm     Permission
}

func New(opts Options) *Engine {
	e := &Engine{
		universe:    opts.Universe,
		extensions:  opts.Extensions,
		binder:      opts.Binder,
		specializer: opts.Specializer,
		evaluator:   opts.Evaluator,
		instances:   opts.Instances,
		logger:      opts.Logger,
		maxPerm:     opts.MaxPermission,
	}
	if e.universe == nil {
		e.universe = typesystem.NewUniverse()
	}
	if e.extensions == nil {
		e.extensions = typesystem.DefaultExtensions(e.universe)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	return e
}

// Universe returns the native type model the engine resolves names against.
func (e *Engine) Universe() *typesystem.Universe { return e.universe }

// MaxPermission returns the highest permission a call may request.
func (e *Engine) MaxPermission() Permission { return e.maxPerm }

// NewContext starts an inference session over tree. A zero enclosing
// reference means the class, if any, is derived from each inferred node's
// ancestors.
func (e *Engine) NewContext(tree *ast.Tree, perm Permission, enclosing ast.Ref) (*InferenceContext, error) {
	if perm > e.maxPerm {
		return nil, fmt.Errorf("%s exceeds %s: %w", perm, e.maxPerm, ErrPermissionDenied)
	}
	return &InferenceContext{
		ID:            uuid.New(),
		Permission:    perm,
		EnclosingType: enclosing,
		tree:          tree,
		engine:        e,
	}, nil
}

// NewContextAt starts a session for work around node, taking the enclosing
// class from node's ancestors.
func (e *Engine) NewContextAt(tree *ast.Tree, node ast.NodeID, perm Permission) (*InferenceContext, error) {
	return e.NewContext(tree, perm, enclosingClass(tree, node))
}

// InferType infers node without any runtime use.
func (e *Engine) InferType(tree *ast.Tree, node ast.NodeID) []typesystem.Descriptor {
	out, _ := e.InferTypeIn(tree, node, NoRuntimeUse, ast.Ref{})
	return out
}

// InferTypeWithPermission infers node, allowing bounded evaluation when perm
// says so.
func (e *Engine) InferTypeWithPermission(tree *ast.Tree, node ast.NodeID, perm Permission) ([]typesystem.Descriptor, error) {
	return e.InferTypeIn(tree, node, perm, ast.Ref{})
}

// InferTypeIn infers node as if it appeared inside the class enclosing. A
// zero enclosing reference derives the class from node's ancestors.
func (e *Engine) InferTypeIn(tree *ast.Tree, node ast.NodeID, perm Permission, enclosing ast.Ref) ([]typesystem.Descriptor, error) {
	ctx, err := e.NewContext(tree, perm, enclosing)
	if err != nil {
		return nil, err
	}
	if !ctx.EnclosingType.Valid() {
		ctx.EnclosingType = enclosingClass(tree, node)
	}
	return ctx.Infer(node), nil
}

// InferAll infers each node in its own session, concurrently. Results are in
// the order of nodes.
func (e *Engine) InferAll(ctx context.Context, tree *ast.Tree, nodes []ast.NodeID, perm Permission) ([][]typesystem.Descriptor, error) {
	if perm > e.maxPerm {
		return nil, fmt.Errorf("%s exceeds %s: %w", perm, e.maxPerm, ErrPermissionDenied)
	}
	out := make([][]typesystem.Descriptor, len(nodes))
	g, ctx := errgroup.WithContext(ctx)
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.InferTypeIn(tree, node, perm, ast.Ref{})
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func enclosingClass(tree *ast.Tree, node ast.NodeID) ast.Ref {
	if tree == nil {
		return ast.Ref{}
	}
	if def := tree.Enclosing(node, ast.KindTypeDefinition); def.Valid() {
		return ast.Ref{Tree: tree, ID: def}
	}
	return ast.Ref{}
}
