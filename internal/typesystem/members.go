package typesystem

// Member is anything a type exposes by name: properties, fields, method
// groups and extended members.
type Member interface {
	MemberName() string
	IsHidden() bool
	IsStatic() bool
}

// Property is a native property. Indexers are properties with Params.
type Property struct {
	Name     string
	Type     *Type
	Params   []*Type
	Static   bool
	Hidden   bool
	ReadOnly bool
}

func (p *Property) MemberName() string { return p.Name }
func (p *Property) IsHidden() bool     { return p.Hidden }
func (p *Property) IsStatic() bool     { return p.Static }

// Field is a native field.
type Field struct {
	Name   string
	Type   *Type
	Static bool
	Hidden bool
}

func (f *Field) MemberName() string { return f.Name }
func (f *Field) IsHidden() bool     { return f.Hidden }
func (f *Field) IsStatic() bool     { return f.Static }

// Method is one overload of a method group.
type Method struct {
	Params     []*Type
	ReturnType *Type
}

// MethodGroup holds all overloads sharing a name. Constructors are static
// groups named new whose overloads return the declaring type.
type MethodGroup struct {
	Name        string
	Overloads   []Method
	Static      bool
	Hidden      bool
	Constructor bool
}

func (m *MethodGroup) MemberName() string { return m.Name }
func (m *MethodGroup) IsHidden() bool     { return m.Hidden }
func (m *MethodGroup) IsStatic() bool     { return m.Static }

// ExtendedKind distinguishes members added on top of a native type.
type ExtendedKind uint8

const (
	NoteProperty ExtendedKind = iota
	AliasProperty
	CodeProperty
	ScriptProperty
	ScriptMethod
)

var extendedKindNames = map[string]ExtendedKind{
	"noteproperty":   NoteProperty,
	"aliasproperty":  AliasProperty,
	"codeproperty":   CodeProperty,
	"scriptproperty": ScriptProperty,
	"scriptmethod":   ScriptMethod,
}

func (k ExtendedKind) String() string {
	for name, v := range extendedKindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// ExtendedMember is a member registered in an ExtensionTable or attached by an
// adapter.
//
//   - NoteProperty: ValueType is the type of the stored value, nil for $null.
//   - AliasProperty: ReferencedName is the member it forwards to.
//   - CodeProperty: ValueType is the getter's return type.
//   - ScriptProperty, ScriptMethod: OutputTypes are the declared output type
//     names of the script.
type ExtendedMember struct {
	Name           string
	Kind           ExtendedKind
	ValueType      *Type
	ReferencedName string
	OutputTypes    []string
	Hidden         bool
}

func (e *ExtendedMember) MemberName() string { return e.Name }
func (e *ExtendedMember) IsHidden() bool     { return e.Hidden }
func (e *ExtendedMember) IsStatic() bool     { return false }

// InstanceProperty is a property of an external instance class. TypeName is
// the declared type as the instance schema spells it.
type InstanceProperty struct {
	Name     string
	TypeName string
	Type     *Type
}

func (p *InstanceProperty) MemberName() string { return p.Name }
func (p *InstanceProperty) IsHidden() bool     { return false }
func (p *InstanceProperty) IsStatic() bool     { return false }
