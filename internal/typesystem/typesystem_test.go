package typesystem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/scriptinfer/internal/ast"
)

func TestLookupForms(t *testing.T) {
	u := NewUniverse()
	intT := u.MustGet(IntName)

	tests := []struct {
		text string
		want string
	}{
		{"int", IntName},
		{"System.Int32", IntName},
		{"Int32", IntName},
		{"[int]", IntName},
		{"STRING", StringName},
		{"Collections.Hashtable", HashtableName},
		{"int[]", "System.Int32[]"},
		{"[int[]]", "System.Int32[]"},
		{"List[int]", "System.Collections.Generic.List[System.Int32]"},
		{"System.Collections.Generic.Dictionary[string,int]", "System.Collections.Generic.Dictionary[System.String,System.Int32]"},
		{"Dictionary[string, List[int]]", "System.Collections.Generic.Dictionary[System.String,System.Collections.Generic.List[System.Int32]]"},
	}
	for _, tt := range tests {
		got, ok := u.Lookup(tt.text)
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.want, got.Name, tt.text)
	}

	for _, bad := range []string{"", "NoSuchType", "List[NoSuchType]", "int[", "List[int,int]"} {
		_, ok := u.Lookup(bad)
		assert.False(t, ok, bad)
	}

	a, _ := u.Lookup("int[]")
	assert.Same(t, a, u.ArrayOf(intT))
	assert.Same(t, intT, a.Elem)
}

func TestInstantiateIsInterned(t *testing.T) {
	u := NewUniverse()
	def := u.MustGet("System.Collections.Generic.Dictionary`2")
	str, intT := u.MustGet(StringName), u.MustGet(IntName)

	d1, err := u.Instantiate(def, str, intT)
	require.NoError(t, err)
	d2, err := u.Instantiate(def, str, intT)
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, "Dictionary[string,int]", d1.String())
	assert.False(t, d1.ContainsGenericParameters())
	assert.True(t, def.TypeArgs[0].ContainsGenericParameters())

	_, err = u.Instantiate(def, str)
	assert.Error(t, err)
	_, err = u.Instantiate(str, intT)
	assert.Error(t, err)
}

func TestInstantiateSubstitutesMembers(t *testing.T) {
	u := NewUniverse()
	d, ok := u.Lookup("Dictionary[string,int]")
	require.True(t, ok)
	intT := u.MustGet(IntName)

	var item *Property
	for _, m := range u.Members(d, false) {
		if p, ok := m.(*Property); ok && p.Name == "Item" {
			item = p
		}
	}
	require.NotNil(t, item)
	assert.Same(t, intT, item.Type)
	assert.Equal(t, "Item", d.DefaultMember)

	iDict := u.MustGet(IDictionaryDefName)
	var found bool
	for _, i := range d.AllInterfaces() {
		if i.IsConstructedFrom(iDict) {
			found = true
			assert.Same(t, intT, i.TypeArgs[1])
		}
	}
	assert.True(t, found)

	var ctor *MethodGroup
	for _, m := range u.Members(d, true) {
		if g, ok := m.(*MethodGroup); ok && g.Constructor {
			ctor = g
		}
	}
	require.NotNil(t, ctor)
	assert.Same(t, d, ctor.Overloads[0].ReturnType)
}

func TestArraysImplementGenericInterfaces(t *testing.T) {
	u := NewUniverse()
	str := u.MustGet(StringName)
	arr := u.ArrayOf(str)
	enumerable := u.MustGet(IEnumerableDefName)

	var elems []*Type
	for _, i := range arr.AllInterfaces() {
		if i.IsConstructedFrom(enumerable) {
			elems = append(elems, i.TypeArgs[0])
		}
	}
	require.NotEmpty(t, elems)
	assert.Same(t, str, elems[0])
	assert.Equal(t, "string[]", arr.String())
	assert.Same(t, u.MustGet(ArrayName), arr.Base)
}

func TestMembersIncludeBaseClasses(t *testing.T) {
	u := NewUniverse()
	fi := u.MustGet("System.IO.FileInfo")
	names := map[string]bool{}
	for _, m := range u.Members(fi, false) {
		names[m.MemberName()] = true
	}
	assert.True(t, names["Length"])
	assert.True(t, names["FullName"])
	assert.True(t, names["ToString"])

	assert.Equal(t, []string{"System.IO.FileInfo", "System.IO.FileSystemInfo", ObjectName}, fi.Hierarchy())
}

func TestValueType(t *testing.T) {
	u := NewUniverse()
	tests := []struct {
		v    any
		want string
	}{
		{42, IntName},
		{int64(1), LongName},
		{1 << 40, LongName},
		{1.5, DoubleName},
		{"x", StringName},
		{true, BoolName},
		{time.Now(), "System.DateTime"},
		{[]any{1}, "System.Object[]"},
		{map[string]any{}, HashtableName},
		{struct{}{}, ObjectName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, u.ValueType(tt.v).Name, "%#v", tt.v)
	}
	assert.Nil(t, u.ValueType(nil))
}

func TestDescriptorEquality(t *testing.T) {
	u := NewUniverse()
	intT := u.MustGet(IntName)
	assert.Equal(t, NewNative(intT), NewNative(intT))
	assert.NotEqual(t, NewNative(intT), NewNative(u.MustGet(LongName)))
	assert.Equal(t, NewNamed("a"), NewNamed("a"))
	assert.NotEqual(t, NewNamed("a"), NewNative(intT))

	b := ast.NewBuilder()
	c1 := b.Add(&ast.TypeDefinition{Name: "C"})
	c2 := b.Add(&ast.TypeDefinition{Name: "C"})
	tree := b.MustBuild(b.Script(c1, c2))
	d1 := NewUserDefined(ast.Ref{Tree: tree, ID: c1})
	assert.Equal(t, d1, NewUserDefined(ast.Ref{Tree: tree, ID: c1}))
	assert.NotEqual(t, d1, NewUserDefined(ast.Ref{Tree: tree, ID: c2}))
	assert.Equal(t, DescriptorUserDefined, d1.Kind())
	assert.Equal(t, "C", d1.Name())

	assert.Equal(t, DescriptorNone, Descriptor{}.Kind())
	assert.Len(t, Distinct([]Descriptor{NewNative(intT), NewNamed("a"), NewNative(intT)}), 2)
}

func TestParseInstanceName(t *testing.T) {
	ns, class, ok := NewNamed(CimInstanceName + "#root/cimv2/Win32_Process").ParseInstanceName(CimInstanceName)
	require.True(t, ok)
	assert.Equal(t, "root/cimv2", ns)
	assert.Equal(t, "Win32_Process", class)

	ns, class, ok = ParseInstanceName(CimInstanceName+`#root\cimv2\Win32_Service`, CimInstanceName)
	require.True(t, ok)
	assert.Equal(t, `root\cimv2`, ns)
	assert.Equal(t, "Win32_Service", class)

	_, _, ok = ParseInstanceName("Other#root/x", CimInstanceName)
	assert.False(t, ok)
	_, _, ok = NewNative(NewUniverse().Object()).ParseInstanceName(CimInstanceName)
	assert.False(t, ok)
}

func TestExtensionTableFollowsHierarchy(t *testing.T) {
	u := NewUniverse()
	ext := DefaultExtensions(u)
	arr := u.ArrayOf(u.MustGet(IntName))
	members := ext.Lookup(arr.Hierarchy()...)
	require.Len(t, members, 1)
	alias := members[0].(*ExtendedMember)
	assert.Equal(t, AliasProperty, alias.Kind)
	assert.Equal(t, "Length", alias.ReferencedName)

	assert.Empty(t, ext.Lookup("no.such.type"))
}

func TestTypesFile(t *testing.T) {
	src := `
types:
  - name: Contoso.Widget
    short: widget
    properties:
      - {name: Size, type: int}
      - {name: Secret, type: string, hidden: true}
      - {name: Default, type: Contoso.Widget, static: true}
    methods:
      - {name: Parts, returns: ["Contoso.Part[]"]}
    constructors: [[], [int]]
  - name: Contoso.Part
    base: Contoso.Widget
extensions:
  - type: widget
    members:
      - {name: Area, kind: scriptproperty, output_types: [double]}
      - {name: Length, kind: aliasproperty, references: Size}
`
	f, err := ParseTypesFile([]byte(src), "types.yaml")
	require.NoError(t, err)

	u := NewUniverse()
	ext := NewExtensionTable()
	require.NoError(t, f.Apply(u, ext))

	w, ok := u.Lookup("widget")
	require.True(t, ok)
	part, ok := u.Lookup("Contoso.Part")
	require.True(t, ok)
	assert.Same(t, w, part.Base)
	assert.Len(t, w.Members, 3)
	assert.Len(t, w.Statics, 2)
	assert.Len(t, ext.Lookup(part.Hierarchy()...), 2)

	parts := w.Members[2].(*MethodGroup)
	assert.Same(t, u.ArrayOf(part), parts.Overloads[0].ReturnType)
}

func TestTypesFileErrors(t *testing.T) {
	for _, src := range []string{
		"types: [{short: x}]",
		"types: [{name: A}, {name: a}]",
		"types: [{name: A, kind: union}]",
		"extensions: [{members: [{name: x, kind: noteproperty}]}]",
		"extensions: [{type: string, members: [{name: x, kind: bogus}]}]",
		"extensions: [{type: string, members: [{name: x, kind: aliasproperty}]}]",
	} {
		_, err := ParseTypesFile([]byte(src), "t.yaml")
		assert.Error(t, err, src)
	}

	f, err := ParseTypesFile([]byte("types: [{name: A, base: Missing}]"), "t.yaml")
	require.NoError(t, err)
	assert.Error(t, f.Apply(NewUniverse(), NewExtensionTable()))
}
