package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/config"
	"github.com/funvibe/scriptinfer/internal/modules"
	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// Binder matches a command invocation's arguments to the parameters its
// metadata declares. modules.PseudoBinder implements it.
type Binder interface {
	Bind(tree *ast.Tree, id ast.NodeID) (*modules.Binding, error)
}

// PathSpecializer narrows a command's output types to the provider a literal
// path belongs to. modules.Catalog implements it.
type PathSpecializer interface {
	SpecializeForPath(info *modules.CommandInfo, path string) (*modules.CommandInfo, error)
}

// Evaluator folds a side-effect-free expression to a value.
// evaluator.SafeEvaluator implements it.
type Evaluator interface {
	Eval(tree *ast.Tree, id ast.NodeID) (any, error)
}

// InstanceMetadata lists the properties of external instance classes.
// The providers in package instances implement it.
type InstanceMetadata interface {
	ClassProperties(namespace, class string) ([]*typesystem.InstanceProperty, error)
}

// Permission says what an inference call may do beyond reading the tree.
type Permission uint8

const (
	// NoRuntimeUse never evaluates anything.
	NoRuntimeUse Permission = iota
	// AllowBoundedEval lets the engine fold constant expressions when static
	// analysis finds nothing.
	AllowBoundedEval
)

func (p Permission) String() string {
	switch p {
	case NoRuntimeUse:
		return config.PermissionNoRuntimeUse
	case AllowBoundedEval:
		return config.PermissionAllowBoundedEval
	}
	return fmt.Sprintf("permission(%d)", uint8(p))
}

// ParsePermission reads the spelling used by max_permission in project files.
// The empty string means NoRuntimeUse.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.PermissionNoRuntimeUse:
		return NoRuntimeUse, nil
	case config.PermissionAllowBoundedEval:
		return AllowBoundedEval, nil
	}
	return NoRuntimeUse, fmt.Errorf("unknown permission %q", s)
}
