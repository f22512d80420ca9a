package completion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/scriptinfer/internal/analyzer"
	"github.com/funvibe/scriptinfer/internal/ast"
	"github.com/funvibe/scriptinfer/internal/evaluator"
	"github.com/funvibe/scriptinfer/internal/modules"
)

func newEngine(vars map[string]any) *analyzer.Engine {
	catalog := modules.NewCatalog()
	return analyzer.New(analyzer.Options{
		Binder:        modules.NewPseudoBinder(catalog),
		Specializer:   catalog,
		Evaluator:     evaluator.New(evaluator.NewEnvironment(vars)),
		MaxPermission: analyzer.AllowBoundedEval,
	})
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func find(items []Item, label string) (Item, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return Item{}, false
}

func TestInstanceMembers(t *testing.T) {
	b := ast.NewBuilder()
	access := b.Member(b.Str("abc"), "ToU", false)
	tree := b.MustBuild(b.Script(b.Stmt(access)))

	items := Members(newEngine(nil), tree, access, "toup")
	require.NotEmpty(t, items)
	assert.Equal(t, "ToUpper", items[0].Label, "closest match first")
	assert.Equal(t, ItemMethod, items[0].Kind)
	assert.Equal(t, "string", items[0].Detail)
	assert.Contains(t, labels(items), "ToUpperInvariant")
	assert.NotContains(t, labels(items), "Length")
}

func TestEmptyPrefixListsAllByName(t *testing.T) {
	b := ast.NewBuilder()
	access := b.Member(b.Invoke(b.TypeExpr("System.Diagnostics.Process"), "GetCurrentProcess", true), "", false)
	tree := b.MustBuild(b.Script(b.Stmt(access)))

	items := Members(newEngine(nil), tree, access, "")
	got := labels(items)
	assert.IsNonDecreasing(t, lowerAll(got))
	assert.Subset(t, got, []string{"Id", "Kill", "ProcessName", "Name", "CPU", "ToString"})

	name, ok := find(items, "Name")
	require.True(t, ok)
	assert.True(t, name.Extended)
	assert.Equal(t, "-> ProcessName", name.Detail)

	cpu, _ := find(items, "CPU")
	assert.Equal(t, "double", cpu.Detail)
}

func TestStaticMembers(t *testing.T) {
	b := ast.NewBuilder()
	access := b.Member(b.TypeExpr("string"), "", true)
	tree := b.MustBuild(b.Script(b.Stmt(access)))

	items := Members(newEngine(nil), tree, access, "")
	got := labels(items)
	assert.Subset(t, got, []string{"Empty", "Join", "new", "IsNullOrEmpty"})
	assert.NotContains(t, got, "Length")

	empty, _ := find(items, "Empty")
	assert.Equal(t, ItemField, empty.Kind)
	ctor, _ := find(items, "new")
	assert.Equal(t, ItemConstructor, ctor.Kind)
}

func TestDuplicatesAcrossCandidates(t *testing.T) {
	b := ast.NewBuilder()
	cmd := b.Cmd("Get-ChildItem", b.Bare(`C:\temp`))
	access := b.Member(b.Var("items"), "", false)
	tree := b.MustBuild(b.Script(
		b.Assign(b.Var("items"), b.Pipe(cmd)),
		b.Stmt(access),
	))

	items := Members(newEngine(nil), tree, access, "fullname")
	assert.Equal(t, []string{"FullName"}, labels(items), "FileInfo and DirectoryInfo share FullName")
}

func TestUserClassHidesHiddenMembers(t *testing.T) {
	b := ast.NewBuilder()
	def := b.Add(&ast.TypeDefinition{Name: "Widget", Members: []ast.NodeID{
		b.Add(&ast.PropertyMember{Name: "Size", PropertyType: ast.TypeName{Name: "int"}}),
		b.Add(&ast.PropertyMember{Name: "Token", Hidden: true}),
		b.Add(&ast.FunctionMember{Name: "Resize", Body: b.Script()}),
	}})
	access := b.Member(b.Cast("Widget", b.Const(nil)), "", false)
	tree := b.MustBuild(b.Script(def, b.Stmt(access)))

	items := Members(newEngine(nil), tree, access, "")
	got := labels(items)
	assert.Subset(t, got, []string{"Size", "Resize", "GetType"})
	assert.NotContains(t, got, "Token")

	size, _ := find(items, "Size")
	assert.Equal(t, "int", size.Detail)
	resize, _ := find(items, "Resize")
	assert.Equal(t, ItemMethod, resize.Kind)
	assert.Equal(t, "void", resize.Detail)
}

func TestTargetFromSnapshot(t *testing.T) {
	b := ast.NewBuilder()
	access := b.Member(b.Var("greeting"), "", false)
	tree := b.MustBuild(b.Script(b.Stmt(access)))

	items := Members(newEngine(map[string]any{"greeting": "hi"}), tree, access, "len")
	require.NotEmpty(t, items)
	assert.Equal(t, "Length", items[0].Label)
}

func TestNotAMemberAccess(t *testing.T) {
	b := ast.NewBuilder()
	s := b.Str("x")
	tree := b.MustBuild(b.Script(b.Stmt(s)))
	assert.Nil(t, Members(newEngine(nil), tree, s, ""))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
