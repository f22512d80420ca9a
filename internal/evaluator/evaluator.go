// Package evaluator folds side-effect-free expressions to values. It never
// runs commands, invokes members or calls user code: anything outside a small
// closed set of constant forms is refused with ErrNotSafe.
package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/scriptinfer/internal/ast"
)

// ErrNotSafe is returned for expressions the evaluator will not run.
var ErrNotSafe = errors.New("expression is not safe to evaluate")

const (
	// MaxDepth bounds expression nesting.
	MaxDepth = 64
	// MaxItems bounds the length of arrays and strings an evaluation builds.
	MaxItems = 10000
)

// SafeEvaluator evaluates constants, array and hashtable literals,
// parenthesized and sub-expressions, arithmetic, string concatenation,
// comparisons, casts to primitive types and variables from a snapshot.
//
// Values are plain Go values: nil, bool, int, int64, float64, string, rune,
// byte, []any and map[string]any.
type SafeEvaluator struct {
	env *Environment
}

// New returns an evaluator reading variables from env, which may be nil.
func New(env *Environment) *SafeEvaluator {
	return &SafeEvaluator{env: env}
}

// Eval evaluates the expression or single-expression statement at id.
func (e *SafeEvaluator) Eval(tree *ast.Tree, id ast.NodeID) (any, error) {
	s := &state{tree: tree, env: e.env}
	return s.eval(id)
}

type state struct {
	tree  *ast.Tree
	env   *Environment
	depth int
}

func notSafe(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotSafe)
}

func (s *state) eval(id ast.NodeID) (any, error) {
	if s.depth >= MaxDepth {
		return nil, notSafe("nesting deeper than %d", MaxDepth)
	}
	s.depth++
	defer func() { s.depth-- }()

	switch n := s.tree.Data(id).(type) {
	case *ast.Constant:
		return n.Value, nil
	case *ast.StringConstant:
		return n.Value, nil
	case *ast.ExpandableString:
		if len(n.Nested) > 0 {
			return nil, notSafe("string with embedded expressions")
		}
		return n.Value, nil
	case *ast.Variable:
		return s.variable(n)
	case *ast.ArrayLiteral:
		out := make([]any, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := s.eval(el)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.ArrayExpression:
		vals, err := s.statements(n.Body)
		if err != nil {
			return nil, err
		}
		return vals, nil
	case *ast.SubExpression:
		vals, err := s.statements(n.Body)
		if err != nil {
			return nil, err
		}
		return unwrapSingle(vals), nil
	case *ast.Hashtable:
		return s.hashtable(n)
	case *ast.Paren:
		return s.eval(n.Pipeline)
	case *ast.Pipeline:
		if len(n.Elements) != 1 {
			return nil, notSafe("pipeline with %d elements", len(n.Elements))
		}
		return s.eval(n.Elements[0])
	case *ast.CommandExpression:
		if len(n.Redirections) > 0 {
			return nil, notSafe("redirected expression")
		}
		return s.eval(n.Expression)
	case *ast.Convert:
		v, err := s.eval(n.Child)
		if err != nil {
			return nil, err
		}
		return convert(v, n.TypeName.Name)
	case *ast.Unary:
		v, err := s.eval(n.Child)
		if err != nil {
			return nil, err
		}
		return unary(n.Operator, v)
	case *ast.Binary:
		left, err := s.eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := s.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return binary(n.Operator, left, right)
	case nil:
		return nil, notSafe("node %d does not exist", id)
	default:
		return nil, notSafe("%s expression", n.Kind())
	}
}

func (s *state) variable(n *ast.Variable) (any, error) {
	if n.Splatted || !n.Path.IsVariable() {
		return nil, notSafe("$%s is not a plain variable", n.Path.UserPath)
	}
	name := n.Path.UnqualifiedPath()
	switch strings.ToLower(name) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if v, ok := s.env.Get(name); ok {
		return v, nil
	}
	return nil, notSafe("$%s is not in the variable snapshot", name)
}

// statements evaluates the statements of a StatementBlock, flattening array
// results the way pipeline output is collected.
func (s *state) statements(id ast.NodeID) ([]any, error) {
	out := []any{}
	if !id.Valid() {
		return out, nil
	}
	var stmts []ast.NodeID
	switch b := s.tree.Data(id).(type) {
	case *ast.StatementBlock:
		stmts = b.Statements
	case *ast.NamedBlock:
		stmts = b.Statements
	default:
		stmts = []ast.NodeID{id}
	}
	for _, st := range stmts {
		v, err := s.eval(st)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case nil:
		case []any:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
		if len(out) > MaxItems {
			return nil, notSafe("more than %d items", MaxItems)
		}
	}
	return out, nil
}

func (s *state) hashtable(n *ast.Hashtable) (any, error) {
	out := make(map[string]any, len(n.Pairs))
	for _, p := range n.Pairs {
		k, err := s.eval(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := s.eval(p.Value)
		if err != nil {
			return nil, err
		}
		if k == nil {
			return nil, notSafe("null hashtable key")
		}
		out[toString(k)] = v
	}
	return out, nil
}

func unwrapSingle(vals []any) any {
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return vals[0]
	}
	return vals
}
