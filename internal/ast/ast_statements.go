package ast

// BlockKind names the begin/process/end sections of a script block.
type BlockKind uint8

const (
	BlockEnd BlockKind = iota
	BlockBegin
	BlockProcess
	BlockDynamicParam
)

// ScriptBlock is the body of a script, function or { } literal.
type ScriptBlock struct {
	ParamBlock NodeID
	Begin      NodeID
	Process    NodeID
	End        NodeID
}

func (s *ScriptBlock) Kind() Kind         { return KindScriptBlock }
func (s *ScriptBlock) Children() []NodeID { return ids(s.ParamBlock, s.Begin, s.Process, s.End) }

// ParamBlock is param(...).
type ParamBlock struct {
	Attributes []NodeID
	Parameters []NodeID
}

func (p *ParamBlock) Kind() Kind         { return KindParamBlock }
func (p *ParamBlock) Children() []NodeID { return join(append(append([]NodeID{}, p.Attributes...), p.Parameters...)) }

// NamedBlock is a begin/process/end section, or the implicit end block.
type NamedBlock struct {
	Block      BlockKind
	Statements []NodeID
}

func (n *NamedBlock) Kind() Kind         { return KindNamedBlock }
func (n *NamedBlock) Children() []NodeID { return join(n.Statements) }

// Parameter is one declared parameter. Name is a Variable node.
type Parameter struct {
	Attributes []NodeID
	Name       NodeID
	Default    NodeID
}

func (p *Parameter) Kind() Kind         { return KindParameter }
func (p *Parameter) Children() []NodeID { return join(p.Attributes, p.Name, p.Default) }

// TypeConstraint is [type] on a parameter or an assignment target.
type TypeConstraint struct {
	TypeName TypeName
}

func (t *TypeConstraint) Kind() Kind         { return KindTypeConstraint }
func (t *TypeConstraint) Children() []NodeID { return nil }

// Attribute is [Name(args)].
type Attribute struct {
	TypeName   TypeName
	Positional []NodeID
	Named      []NodeID
}

func (a *Attribute) Kind() Kind { return KindAttribute }
func (a *Attribute) Children() []NodeID {
	return join(append(append([]NodeID{}, a.Positional...), a.Named...))
}

// NamedAttributeArgument is Name = value inside an attribute.
type NamedAttributeArgument struct {
	Name     string
	Argument NodeID
}

func (n *NamedAttributeArgument) Kind() Kind         { return KindNamedAttributeArgument }
func (n *NamedAttributeArgument) Children() []NodeID { return ids(n.Argument) }

// FunctionDefinition is function Name(params) { body }.
type FunctionDefinition struct {
	Name       string
	IsFilter   bool
	Parameters []NodeID
	Body       NodeID
}

func (f *FunctionDefinition) Kind() Kind         { return KindFunctionDefinition }
func (f *FunctionDefinition) Children() []NodeID { return join(f.Parameters, f.Body) }

// StatementBlock is { statements } used by control flow.
type StatementBlock struct {
	Statements []NodeID
}

func (s *StatementBlock) Kind() Kind         { return KindStatementBlock }
func (s *StatementBlock) Children() []NodeID { return join(s.Statements) }

// Clause pairs a condition with its body (if/elseif, switch cases).
type Clause struct {
	Condition NodeID
	Body      NodeID
}

// If holds all if/elseif clauses and the optional else body.
type If struct {
	Clauses []Clause
	Else    NodeID
}

func (i *If) Kind() Kind { return KindIf }
func (i *If) Children() []NodeID {
	out := make([]NodeID, 0, len(i.Clauses)*2+1)
	for _, c := range i.Clauses {
		out = append(out, ids(c.Condition, c.Body)...)
	}
	return append(out, ids(i.Else)...)
}

// Switch is switch (cond) { clauses; default }.
type Switch struct {
	Condition NodeID
	Clauses   []Clause
	Default   NodeID
}

func (s *Switch) Kind() Kind { return KindSwitch }
func (s *Switch) Children() []NodeID {
	out := ids(s.Condition)
	for _, c := range s.Clauses {
		out = append(out, ids(c.Condition, c.Body)...)
	}
	return append(out, ids(s.Default)...)
}

// Trap is trap [type] { body }.
type Trap struct {
	TrapType TypeName
	Body     NodeID
}

func (t *Trap) Kind() Kind         { return KindTrap }
func (t *Trap) Children() []NodeID { return ids(t.Body) }

// Data is data { body }.
type Data struct {
	Variable string
	Body     NodeID
}

func (d *Data) Kind() Kind         { return KindData }
func (d *Data) Children() []NodeID { return ids(d.Body) }

// ForEach is foreach ($Variable in Condition) { Body }.
type ForEach struct {
	Variable  NodeID
	Condition NodeID
	Body      NodeID
}

func (f *ForEach) Kind() Kind         { return KindForEach }
func (f *ForEach) Children() []NodeID { return ids(f.Variable, f.Condition, f.Body) }

// For is for (init; cond; iter) { body }.
type For struct {
	Initializer NodeID
	Condition   NodeID
	Iterator    NodeID
	Body        NodeID
}

func (f *For) Kind() Kind         { return KindFor }
func (f *For) Children() []NodeID { return ids(f.Initializer, f.Condition, f.Iterator, f.Body) }

// While is while (cond) { body }.
type While struct {
	Condition NodeID
	Body      NodeID
}

func (w *While) Kind() Kind         { return KindWhile }
func (w *While) Children() []NodeID { return ids(w.Condition, w.Body) }

// DoWhile is do { body } while (cond).
type DoWhile struct {
	Body      NodeID
	Condition NodeID
}

func (d *DoWhile) Kind() Kind         { return KindDoWhile }
func (d *DoWhile) Children() []NodeID { return ids(d.Body, d.Condition) }

// DoUntil is do { body } until (cond).
type DoUntil struct {
	Body      NodeID
	Condition NodeID
}

func (d *DoUntil) Kind() Kind         { return KindDoUntil }
func (d *DoUntil) Children() []NodeID { return ids(d.Body, d.Condition) }

// Try is try { body } catch... finally { }.
type Try struct {
	Body    NodeID
	Catches []NodeID
	Finally NodeID
}

func (t *Try) Kind() Kind         { return KindTry }
func (t *Try) Children() []NodeID { return join(append([]NodeID{t.Body}, t.Catches...), t.Finally) }

// Catch is catch [types] { body }.
type Catch struct {
	CatchTypes []TypeName
	Body       NodeID
}

func (c *Catch) Kind() Kind         { return KindCatch }
func (c *Catch) Children() []NodeID { return ids(c.Body) }

// Break is break [label].
type Break struct{ Label NodeID }

func (b *Break) Kind() Kind         { return KindBreak }
func (b *Break) Children() []NodeID { return ids(b.Label) }

// Continue is continue [label].
type Continue struct{ Label NodeID }

func (c *Continue) Kind() Kind         { return KindContinue }
func (c *Continue) Children() []NodeID { return ids(c.Label) }

// Return is return [pipeline].
type Return struct{ Pipeline NodeID }

func (r *Return) Kind() Kind         { return KindReturn }
func (r *Return) Children() []NodeID { return ids(r.Pipeline) }

// Exit is exit [pipeline].
type Exit struct{ Pipeline NodeID }

func (e *Exit) Kind() Kind         { return KindExit }
func (e *Exit) Children() []NodeID { return ids(e.Pipeline) }

// Throw is throw [pipeline].
type Throw struct{ Pipeline NodeID }

func (t *Throw) Kind() Kind         { return KindThrow }
func (t *Throw) Children() []NodeID { return ids(t.Pipeline) }

// Assignment is Left op Right. Left is a Variable, a Convert wrapping a
// Variable, or another assignable expression.
type Assignment struct {
	Operator string
	Left     NodeID
	Right    NodeID
}

func (a *Assignment) Kind() Kind         { return KindAssignment }
func (a *Assignment) Children() []NodeID { return ids(a.Left, a.Right) }

// Pipeline is a | b | c.
type Pipeline struct {
	Elements []NodeID
}

func (p *Pipeline) Kind() Kind         { return KindPipeline }
func (p *Pipeline) Children() []NodeID { return join(p.Elements) }

// Command is a command invocation. Elements[0] is the command name, the rest
// are CommandParameter nodes and arguments in source order.
type Command struct {
	InvocationOperator string
	Elements           []NodeID
	Redirections       []NodeID
}

func (c *Command) Kind() Kind { return KindCommand }
func (c *Command) Children() []NodeID {
	return join(append(append([]NodeID{}, c.Elements...), c.Redirections...))
}

// CommandExpression is an expression used as a pipeline element.
type CommandExpression struct {
	Expression   NodeID
	Redirections []NodeID
}

func (c *CommandExpression) Kind() Kind         { return KindCommandExpression }
func (c *CommandExpression) Children() []NodeID { return join(append([]NodeID{c.Expression}, c.Redirections...)) }

// CommandParameter is -Name or -Name:argument.
type CommandParameter struct {
	Name     string
	Argument NodeID
}

func (c *CommandParameter) Kind() Kind         { return KindCommandParameter }
func (c *CommandParameter) Children() []NodeID { return ids(c.Argument) }

// FileRedirection is > file.
type FileRedirection struct {
	Stream   string
	Append   bool
	Location NodeID
}

func (f *FileRedirection) Kind() Kind         { return KindFileRedirection }
func (f *FileRedirection) Children() []NodeID { return ids(f.Location) }

// MergingRedirection is 2>&1.
type MergingRedirection struct {
	From string
	To   string
}

func (m *MergingRedirection) Kind() Kind         { return KindMergingRedirection }
func (m *MergingRedirection) Children() []NodeID { return nil }

// BlockStatement is keyword { body }, e.g. parallel { }.
type BlockStatement struct {
	Keyword string
	Body    NodeID
}

func (b *BlockStatement) Kind() Kind         { return KindBlockStatement }
func (b *BlockStatement) Children() []NodeID { return ids(b.Body) }

// TypeDefinition is a class, interface or enum declaration.
type TypeDefinition struct {
	Name        string
	IsInterface bool
	IsEnum      bool
	BaseTypes   []TypeName
	Members     []NodeID
}

func (t *TypeDefinition) Kind() Kind         { return KindTypeDefinition }
func (t *TypeDefinition) Children() []NodeID { return join(t.Members) }

// PropertyMember is a class property. PropertyType is zero when untyped.
type PropertyMember struct {
	Name         string
	PropertyType TypeName
	Static       bool
	Hidden       bool
	Initial      NodeID
}

func (p *PropertyMember) Kind() Kind         { return KindPropertyMember }
func (p *PropertyMember) Children() []NodeID { return ids(p.Initial) }

// FunctionMember is a class method or constructor. A zero ReturnType or one
// naming void marks a method with no value.
type FunctionMember struct {
	Name        string
	ReturnType  TypeName
	Static      bool
	Hidden      bool
	Constructor bool
	Parameters  []NodeID
	Body        NodeID
}

func (f *FunctionMember) Kind() Kind         { return KindFunctionMember }
func (f *FunctionMember) Children() []NodeID { return join(f.Parameters, f.Body) }

// IsReturnTypeVoid reports whether invoking the method yields nothing.
func (f *FunctionMember) IsReturnTypeVoid() bool {
	if f.Constructor || f.ReturnType.IsZero() {
		return true
	}
	switch lower(f.ReturnType.Name) {
	case "void", "system.void":
		return true
	}
	return false
}

// UsingStatement is using namespace/module/assembly.
type UsingStatement struct {
	UsingKind string
	Name      string
}

func (u *UsingStatement) Kind() Kind         { return KindUsingStatement }
func (u *UsingStatement) Children() []NodeID { return nil }

// Configuration is configuration Name { body }.
type Configuration struct {
	Name string
	Body NodeID
}

func (c *Configuration) Kind() Kind         { return KindConfiguration }
func (c *Configuration) Children() []NodeID { return ids(c.Body) }

// DynamicKeyword is a keyword statement defined at runtime.
type DynamicKeyword struct {
	CommandElements []NodeID
}

func (d *DynamicKeyword) Kind() Kind         { return KindDynamicKeyword }
func (d *DynamicKeyword) Children() []NodeID { return join(d.CommandElements) }

// ErrorStatement wraps whatever a failed statement parse recovered.
type ErrorStatement struct {
	Nested []NodeID
}

func (e *ErrorStatement) Kind() Kind         { return KindErrorStatement }
func (e *ErrorStatement) Children() []NodeID { return join(e.Nested) }
