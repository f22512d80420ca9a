package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, "kind %d has no name", k)
		assert.Equal(t, k, got)
		require.NotNil(t, newPayload(k), "no payload for %s", k)
		assert.Equal(t, k, newPayload(k).Kind())
	}
	_, ok := ParseKind("nonsense")
	assert.False(t, ok)
}

func TestBuildAssignsParentsAndExtents(t *testing.T) {
	b := NewBuilder()
	x := b.Label(b.Var("x"), "x")
	one := b.Label(b.Const(1), "one")
	assign := b.Label(b.Assign(x, one), "assign")
	use := b.Label(b.Var("x"), "use")
	root := b.Script(assign, b.Stmt(use))
	tree := b.MustBuild(root)

	assert.Equal(t, root, tree.Root())
	assert.Equal(t, assign, tree.Parent(x))
	assert.Equal(t, NoNode, tree.Parent(root))
	assert.Equal(t, 0, tree.IndexInParent(x))
	assert.Equal(t, 1, tree.IndexInParent(one))

	// Source order follows child order.
	assert.Less(t, tree.Extent(x).End, tree.Extent(one).Start)
	assert.Less(t, tree.Extent(assign).End, tree.Extent(use).Start)
	assert.True(t, tree.Extent(root).Start < tree.Extent(x).Start && tree.Extent(root).End > tree.Extent(use).End)

	got, ok := tree.Lookup("use")
	require.True(t, ok)
	assert.Equal(t, use, got)
}

func TestBuildRejectsSharedNodes(t *testing.T) {
	b := NewBuilder()
	x := b.Var("x")
	root := b.Script(b.Stmt(x), b.Stmt(x))
	_, err := b.Build(root)
	assert.Error(t, err)
}

func TestTypeNamesLinkToDeclaredClasses(t *testing.T) {
	b := NewBuilder()
	class := b.Add(&TypeDefinition{Name: "Widget"})
	cast := b.Label(b.Cast("widget", b.Const(nil)), "cast")
	other := b.Label(b.TypeExpr("int"), "int")
	tree := b.MustBuild(b.Script(class, b.Stmt(cast), b.Stmt(other)))

	assert.Equal(t, class, tree.Data(cast).(*Convert).TypeName.Definition)
	assert.False(t, tree.Data(other).(*TypeExpression).TypeName.Definition.Valid())
}

func TestFindAllAndEnclosing(t *testing.T) {
	b := NewBuilder()
	inner := b.Label(b.Var("inner"), "inner")
	sb := b.ScriptExpr(b.Stmt(inner))
	outer := b.Var("outer")
	fn := b.Label(b.Function("f", b.Script(b.Stmt(outer), b.Stmt(sb))), "fn")
	tree := b.MustBuild(b.Script(fn))

	isVar := func(id NodeID) bool { return tree.Kind(id) == KindVariable }
	assert.Equal(t, []NodeID{outer}, tree.FindAll(tree.Root(), isVar, false))
	assert.Equal(t, []NodeID{outer, inner}, tree.FindAll(tree.Root(), isVar, true))

	assert.Equal(t, fn, tree.Enclosing(inner, KindFunctionDefinition))
	assert.Equal(t, NoNode, tree.Enclosing(fn, KindFunctionDefinition))
	assert.True(t, tree.Contains(fn, inner))
	assert.False(t, tree.Contains(inner, fn))
}

func TestVariablePath(t *testing.T) {
	tests := []struct {
		path       string
		variable   bool
		unscoped   bool
		script     bool
		unqualName string
	}{
		{"x", true, true, false, "x"},
		{"script:x", true, false, true, "x"},
		{"Global:x", true, false, false, "x"},
		{"variable:x", true, true, false, "x"},
		{"env:PATH", false, false, false, "PATH"},
	}
	for _, tt := range tests {
		p := NewVariablePath(tt.path)
		assert.Equal(t, tt.variable, p.IsVariable(), tt.path)
		assert.Equal(t, tt.unscoped, p.IsUnscopedVariable(), tt.path)
		assert.Equal(t, tt.script, p.IsScript(), tt.path)
		assert.Equal(t, tt.unqualName, p.UnqualifiedPath(), tt.path)
	}
}

func TestVoidReturnTypes(t *testing.T) {
	assert.True(t, (&FunctionMember{}).IsReturnTypeVoid())
	assert.True(t, (&FunctionMember{ReturnType: TypeName{Name: "Void"}}).IsReturnTypeVoid())
	assert.True(t, (&FunctionMember{Constructor: true, ReturnType: TypeName{Name: "C"}}).IsReturnTypeVoid())
	assert.False(t, (&FunctionMember{ReturnType: TypeName{Name: "int"}}).IsReturnTypeVoid())
}

func TestParseDocument(t *testing.T) {
	src := `
kind: scriptblock
end:
  kind: namedblock
  block: end
  statements:
    - kind: assignment
      operator: "="
      left: {kind: convert, typename: int, child: $x}
      right: 42
    - kind: pipeline
      elements:
        - kind: command
          label: cmd
          elements:
            - Get-ChildItem
            - {kind: commandparameter, name: Path}
            - 'C:\'
        - kind: commandexpression
          expression: {kind: member, label: len, target: $x, member: Length}
`
	tree, err := ParseDocument([]byte(src))
	require.NoError(t, err)

	cmd, ok := tree.Lookup("cmd")
	require.True(t, ok)
	c := tree.Data(cmd).(*Command)
	require.Len(t, c.Elements, 3)
	name := tree.Data(c.Elements[0]).(*StringConstant)
	assert.Equal(t, "Get-ChildItem", name.Value)
	assert.True(t, name.Bare)
	assert.Equal(t, "Path", tree.Data(c.Elements[1]).(*CommandParameter).Name)
	path := tree.Data(c.Elements[2]).(*StringConstant)
	assert.Equal(t, `C:\`, path.Value)
	assert.False(t, path.Bare)

	member, ok := tree.Lookup("len")
	require.True(t, ok)
	m := tree.Data(member).(*Member)
	assert.Equal(t, "x", tree.Data(m.Target).(*Variable).Path.UnqualifiedPath())

	block := tree.Data(tree.Data(tree.Root()).(*ScriptBlock).End).(*NamedBlock)
	a := tree.Data(block.Statements[0]).(*Assignment)
	assert.Equal(t, 42, tree.Data(a.Right).(*Constant).Value)
	assert.Equal(t, "int", tree.Data(a.Left).(*Convert).TypeName.Name)
}

func TestParseDocumentErrors(t *testing.T) {
	for _, src := range []string{
		"kind: nosuchkind",
		"kind: member\nbogus: 1",
		"kind: namedblock\nblock: middle",
		"kind: pipeline\nelements: notalist",
		"",
	} {
		_, err := ParseDocument([]byte(src))
		assert.Error(t, err, src)
	}
}
