package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/scriptinfer/internal/ast"
)

func evalBuilt(t *testing.T, env *Environment, build func(b *ast.Builder) ast.NodeID) (any, error) {
	t.Helper()
	b := ast.NewBuilder()
	target := build(b)
	tree := b.MustBuild(b.Script(b.Stmt(target)))
	return New(env).Eval(tree, target)
}

func TestEvalValues(t *testing.T) {
	env := NewEnvironment(map[string]any{"Limit": 10, "name": "svc"})
	tests := []struct {
		name  string
		build func(b *ast.Builder) ast.NodeID
		want  any
	}{
		{"int", func(b *ast.Builder) ast.NodeID { return b.Const(42) }, 42},
		{"string", func(b *ast.Builder) ast.NodeID { return b.Str("abc") }, "abc"},
		{"null", func(b *ast.Builder) ast.NodeID { return b.Var("null") }, nil},
		{"true", func(b *ast.Builder) ast.NodeID { return b.Var("TRUE") }, true},
		{"snapshot variable", func(b *ast.Builder) ast.NodeID { return b.Var("limit") }, 10},
		{"scoped snapshot variable", func(b *ast.Builder) ast.NodeID { return b.Var("script:Name") }, "svc"},
		{"add", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Const(1), b.Const(2)) }, 3},
		{"add double", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Const(1), b.Const(0.5)) }, 1.5},
		{"exact division stays int", func(b *ast.Builder) ast.NodeID { return b.Binary("/", b.Const(6), b.Const(3)) }, 2},
		{"inexact division", func(b *ast.Builder) ast.NodeID { return b.Binary("/", b.Const(7), b.Const(2)) }, 3.5},
		{"int overflow widens", func(b *ast.Builder) ast.NodeID {
			return b.Binary("*", b.Const(2147483647), b.Const(2))
		}, 4294967294.0},
		{"long stays long", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Const(int64(1)), b.Const(1)) }, int64(2)},
		{"long add overflow widens", func(b *ast.Builder) ast.NodeID {
			return b.Binary("+", b.Const(int64(math.MaxInt64)), b.Const(1))
		}, float64(math.MaxInt64) + 1},
		{"long subtract overflow widens", func(b *ast.Builder) ast.NodeID {
			return b.Binary("-", b.Const(int64(math.MinInt64)), b.Const(1))
		}, float64(math.MinInt64) - 1},
		{"long multiply overflow widens", func(b *ast.Builder) ast.NodeID {
			return b.Binary("*", b.Const(int64(math.MaxInt64)), b.Const(2))
		}, float64(math.MaxInt64) * 2},
		{"long division overflow widens", func(b *ast.Builder) ast.NodeID {
			return b.Binary("/", b.Const(int64(math.MinInt64)), b.Const(int64(-1)))
		}, -float64(math.MinInt64)},
		{"long multiply in range", func(b *ast.Builder) ast.NodeID {
			return b.Binary("*", b.Const(int64(-3037000499)), b.Const(int64(3037000499)))
		}, int64(-9223372030926249001)},
		{"concat", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Str("a"), b.Const(1)) }, "a1"},
		{"string coerces to number", func(b *ast.Builder) ast.NodeID { return b.Binary("+", b.Const(1), b.Str("2")) }, 3},
		{"repeat", func(b *ast.Builder) ast.NodeID { return b.Binary("*", b.Str("ab"), b.Const(3)) }, "ababab"},
		{"not", func(b *ast.Builder) ast.NodeID { return b.Unary("-not", b.Const(0)) }, true},
		{"negate", func(b *ast.Builder) ast.NodeID { return b.Unary("-", b.Const(5)) }, -5},
		{"compare strings ignoring case", func(b *ast.Builder) ast.NodeID { return b.Binary("-eq", b.Str("A"), b.Str("a")) }, true},
		{"compare case sensitive", func(b *ast.Builder) ast.NodeID { return b.Binary("-ceq", b.Str("A"), b.Str("a")) }, false},
		{"compare number with string", func(b *ast.Builder) ast.NodeID { return b.Binary("-lt", b.Const(2), b.Str("10")) }, true},
		{"band", func(b *ast.Builder) ast.NodeID { return b.Binary("-band", b.Const(6), b.Const(3)) }, 2},
		{"cast int rounds to even", func(b *ast.Builder) ast.NodeID { return b.Cast("int", b.Const(2.5)) }, 2},
		{"cast string", func(b *ast.Builder) ast.NodeID { return b.Cast("string", b.Const(true)) }, "True"},
		{"cast char", func(b *ast.Builder) ast.NodeID { return b.Cast("char", b.Str("x")) }, 'x'},
		{"cast byte", func(b *ast.Builder) ast.NodeID { return b.Cast("byte", b.Str("7")) }, uint8(7)},
		{"paren", func(b *ast.Builder) ast.NodeID { return b.Paren(b.Pipe(b.Expr(b.Const(9)))) }, 9},
		{"sub expression unwraps", func(b *ast.Builder) ast.NodeID {
			return b.Add(&ast.SubExpression{Body: b.Block(b.Stmt(b.Const(1)))})
		}, 1},
		{"join", func(b *ast.Builder) ast.NodeID {
			return b.Binary("-join", b.ArrayLit(b.Const(1), b.Const(2)), b.Str(","))
		}, "1,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalBuilt(t, env, tt.build)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalCollections(t *testing.T) {
	got, err := evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		return b.ArrayExpr(b.Stmt(b.ArrayLit(b.Const(1), b.Const(2))), b.Stmt(b.Str("x")))
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, "x"}, got)

	got, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		return b.ArrayExpr()
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)

	got, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		return b.Hash(ast.KeyValue{Key: b.Bare("a"), Value: b.Const(1)}, ast.KeyValue{Key: b.Const(2), Value: b.Str("two")})
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "2": "two"}, got)

	got, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		return b.Binary("..", b.Const(3), b.Const(1))
	})
	require.NoError(t, err)
	assert.Equal(t, []any{3, 2, 1}, got)

	got, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		return b.Binary("-gt", b.ArrayLit(b.Const(1), b.Const(5), b.Const(9)), b.Const(4))
	})
	require.NoError(t, err)
	assert.Equal(t, []any{5, 9}, got, "comparison filters arrays")
}

func TestEvalRefuses(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) ast.NodeID
	}{
		{"command", func(b *ast.Builder) ast.NodeID { return b.Cmd("Remove-Item", b.Str("x")) }},
		{"method call", func(b *ast.Builder) ast.NodeID { return b.Invoke(b.Str("x"), "ToUpper", false) }},
		{"member", func(b *ast.Builder) ast.NodeID { return b.Member(b.Str("x"), "Length", false) }},
		{"unknown variable", func(b *ast.Builder) ast.NodeID { return b.Var("secret") }},
		{"drive path", func(b *ast.Builder) ast.NodeID { return b.Var("env:PATH") }},
		{"script block", func(b *ast.Builder) ast.NodeID { return b.ScriptExpr() }},
		{"cast to class", func(b *ast.Builder) ast.NodeID { return b.Cast("System.IO.FileInfo", b.Str("x")) }},
		{"huge range", func(b *ast.Builder) ast.NodeID { return b.Binary("..", b.Const(1), b.Const(1000000)) }},
		{"unknown operator", func(b *ast.Builder) ast.NodeID { return b.Binary("-match", b.Str("a"), b.Str("a")) }},
		{"expandable with nested", func(b *ast.Builder) ast.NodeID {
			return b.Add(&ast.ExpandableString{Value: "$x", Nested: []ast.NodeID{b.Var("x")}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalBuilt(t, nil, tt.build)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotSafe), "%v", err)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID { return b.Binary("/", b.Const(1), b.Const(0)) })
	assert.ErrorIs(t, err, errDivideByZero)

	_, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID { return b.Cast("int", b.Str("abc")) })
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotSafe))

	_, err = evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID { return b.Cast("byte", b.Const(300)) })
	assert.Error(t, err)
}

func TestEvalDepthLimit(t *testing.T) {
	_, err := evalBuilt(t, nil, func(b *ast.Builder) ast.NodeID {
		n := b.Const(1)
		for i := 0; i < MaxDepth+1; i++ {
			n = b.Unary("+", n)
		}
		return n
	})
	assert.ErrorIs(t, err, ErrNotSafe)
}

func TestEnclosedEnvironment(t *testing.T) {
	outer := NewEnvironment(map[string]any{"a": 1, "b": 2})
	inner := NewEnclosedEnvironment(outer, map[string]any{"B": 3})

	v, ok := inner.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = inner.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.ElementsMatch(t, []string{"a", "b"}, inner.Names())

	var none *Environment
	_, ok = none.Get("a")
	assert.False(t, ok)
}
