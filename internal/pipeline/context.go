package pipeline

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/funvibe/scriptinfer/internal/analyzer"
	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/completion"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/instances"
	"github.com/funvibe/scriptinfer/internal/modules"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// Target is a labelled node of the tree document.
type Target struct {
	Label string
	Node  ast.NodeID
}

// Result is the inference outcome for one target.
type Result struct {
	Target
	Types []typesystem.Descriptor
}

// Completion lists the member completions for one target.
type Completion struct {
	Target
	Items []completion.Item
}

// PipelineContext carries the inputs and the accumulated state of one run.
type PipelineContext struct {
	// Inputs.
	Context    context.Context
	TreePath   string
	ConfigPath string
	// Labels restricts the run to these targets; empty means every label.
	Labels     []string
	Permission analyzer.Permission
	Logger     *log.Logger

	// Filled in by the stages.
	Project     *config.Project
	Universe    *typesystem.Universe
	Extensions  *typesystem.ExtensionTable
	Catalog     *modules.Catalog
	Instances   instances.Multi
	Engine      *analyzer.Engine
	Tree        *ast.Tree
	Targets     []Target
	Results     []Result
	Completions []Completion

	Errors []error

	closers []io.Closer
}

// NewPipelineContext starts a run over the tree document at treePath.
func NewPipelineContext(treePath string) *PipelineContext {
	return &PipelineContext{
		Context:  context.Background(),
		TreePath: treePath,
		Logger:   log.New(io.Discard, "", 0),
	}
}

func (c *PipelineContext) addError(err error) {
	c.Errors = append(c.Errors, err)
}

// onClose registers a resource released by Close.
func (c *PipelineContext) onClose(cl io.Closer) {
	c.closers = append(c.closers, cl)
}

// Close releases the caches and connections the stages opened.
func (c *PipelineContext) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
