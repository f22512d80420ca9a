package ast

import "strings"

// Constant is a numeric, boolean or null literal. Value is nil for $null.
type Constant struct {
	Value any
}

func (c *Constant) Kind() Kind         { return KindConstant }
func (c *Constant) Children() []NodeID { return nil }

// StringConstant is a quoted or bare-word string.
type StringConstant struct {
	Value string
	Bare  bool
}

func (s *StringConstant) Kind() Kind         { return KindStringConstant }
func (s *StringConstant) Children() []NodeID { return nil }

// ExpandableString is a double-quoted string with embedded expressions.
type ExpandableString struct {
	Value  string
	Nested []NodeID
}

func (e *ExpandableString) Kind() Kind         { return KindExpandableString }
func (e *ExpandableString) Children() []NodeID { return join(e.Nested) }

// Variable is $name, $scope:name or $drive:path.
type Variable struct {
	Path     VariablePath
	Splatted bool
}

func (v *Variable) Kind() Kind         { return KindVariable }
func (v *Variable) Children() []NodeID { return nil }

// TypeExpression is [type] used as a value, e.g. the target of [int]::MaxValue.
type TypeExpression struct {
	TypeName TypeName
}

func (t *TypeExpression) Kind() Kind         { return KindTypeExpression }
func (t *TypeExpression) Children() []NodeID { return nil }

// Convert is [type]child.
type Convert struct {
	TypeName TypeName
	Child    NodeID
}

func (c *Convert) Kind() Kind         { return KindConvert }
func (c *Convert) Children() []NodeID { return ids(c.Child) }

// Member is target.member or target::member.
type Member struct {
	Target NodeID
	Member NodeID
	Static bool
}

func (m *Member) Kind() Kind         { return KindMember }
func (m *Member) Children() []NodeID { return ids(m.Target, m.Member) }

// InvokeMember is target.member(args) or target::member(args).
type InvokeMember struct {
	Target    NodeID
	Member    NodeID
	Static    bool
	Arguments []NodeID
}

func (m *InvokeMember) Kind() Kind { return KindInvokeMember }
func (m *InvokeMember) Children() []NodeID {
	return join(append([]NodeID{m.Target, m.Member}, m.Arguments...))
}

// BaseCtorInvoke is the implicit base(...) call of a class constructor.
type BaseCtorInvoke struct {
	Target    NodeID
	Member    NodeID
	Arguments []NodeID
}

func (b *BaseCtorInvoke) Kind() Kind { return KindBaseCtorInvoke }
func (b *BaseCtorInvoke) Children() []NodeID {
	return join(append([]NodeID{b.Target, b.Member}, b.Arguments...))
}

// ArrayExpression is @( statements ).
type ArrayExpression struct {
	Body NodeID
}

func (a *ArrayExpression) Kind() Kind         { return KindArrayExpression }
func (a *ArrayExpression) Children() []NodeID { return ids(a.Body) }

// ArrayLiteral is a, b, c.
type ArrayLiteral struct {
	Elements []NodeID
}

func (a *ArrayLiteral) Kind() Kind         { return KindArrayLiteral }
func (a *ArrayLiteral) Children() []NodeID { return join(a.Elements) }

// KeyValue is one hashtable entry.
type KeyValue struct {
	Key   NodeID
	Value NodeID
}

// Hashtable is @{ k = v }.
type Hashtable struct {
	Pairs []KeyValue
}

func (h *Hashtable) Kind() Kind { return KindHashtable }
func (h *Hashtable) Children() []NodeID {
	out := make([]NodeID, 0, len(h.Pairs)*2)
	for _, p := range h.Pairs {
		out = append(out, ids(p.Key, p.Value)...)
	}
	return out
}

// ScriptBlockExpression is { ... } used as a value.
type ScriptBlockExpression struct {
	ScriptBlock NodeID
}

func (s *ScriptBlockExpression) Kind() Kind         { return KindScriptBlockExpression }
func (s *ScriptBlockExpression) Children() []NodeID { return ids(s.ScriptBlock) }

// Paren is ( pipeline ).
type Paren struct {
	Pipeline NodeID
}

func (p *Paren) Kind() Kind         { return KindParen }
func (p *Paren) Children() []NodeID { return ids(p.Pipeline) }

// SubExpression is $( statements ).
type SubExpression struct {
	Body NodeID
}

func (s *SubExpression) Kind() Kind         { return KindSubExpression }
func (s *SubExpression) Children() []NodeID { return ids(s.Body) }

// Index is target[index].
type Index struct {
	Target NodeID
	Index  NodeID
}

func (i *Index) Kind() Kind         { return KindIndex }
func (i *Index) Children() []NodeID { return ids(i.Target, i.Index) }

// AttributedExpression is [attribute]child.
type AttributedExpression struct {
	Attribute NodeID
	Child     NodeID
}

func (a *AttributedExpression) Kind() Kind         { return KindAttributedExpression }
func (a *AttributedExpression) Children() []NodeID { return ids(a.Attribute, a.Child) }

// UsingExpression is $using:expr.
type UsingExpression struct {
	Sub NodeID
}

func (u *UsingExpression) Kind() Kind         { return KindUsingExpression }
func (u *UsingExpression) Children() []NodeID { return ids(u.Sub) }

// Binary is left op right.
type Binary struct {
	Operator string
	Left     NodeID
	Right    NodeID
}

func (b *Binary) Kind() Kind         { return KindBinary }
func (b *Binary) Children() []NodeID { return ids(b.Left, b.Right) }

// Unary is op child, including postfix ++ and --.
type Unary struct {
	Operator string
	Child    NodeID
}

func (u *Unary) Kind() Kind         { return KindUnary }
func (u *Unary) Children() []NodeID { return ids(u.Child) }

// IsNot reports the boolean negation operators.
func (u *Unary) IsNot() bool {
	op := lower(u.Operator)
	return op == "-not" || op == "!"
}

// ErrorExpression wraps whatever a failed expression parse recovered.
type ErrorExpression struct {
	Nested []NodeID
}

func (e *ErrorExpression) Kind() Kind         { return KindErrorExpression }
func (e *ErrorExpression) Children() []NodeID { return join(e.Nested) }

func lower(s string) string { return strings.ToLower(s) }
