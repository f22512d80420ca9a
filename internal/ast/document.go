package ast

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree documents describe a syntax tree in YAML. Every node is a mapping with
// a kind key naming its Kind, an optional label, and one key per payload
// field (field names are matched case-insensitively):
//
//	kind: pipeline
//	elements:
//	  - kind: command
//	    label: cmd
//	    elements: [Get-ChildItem, {kind: commandparameter, name: Path}, "C:\\"]
//
// Scalars stand in for the common leaves: "$x" is a variable, an untagged
// string is a bare-word string, numbers, booleans and null are constants.

// LoadDocument reads a tree document from a file.
func LoadDocument(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree document: %w", err)
	}
	t, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseDocument builds a tree from YAML bytes.
func ParseDocument(data []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty tree document")
	}
	d := &decoder{b: NewBuilder()}
	root, err := d.node(doc.Content[0])
	if err != nil {
		return nil, err
	}
	return d.b.Build(root)
}

type decoder struct {
	b *Builder
}

var (
	nodeIDType   = reflect.TypeOf(NoNode)
	typeNameType = reflect.TypeOf(TypeName{})
	pathType     = reflect.TypeOf(VariablePath{})
	blockType    = reflect.TypeOf(BlockEnd)
	clauseType   = reflect.TypeOf(Clause{})
	keyValueType = reflect.TypeOf(KeyValue{})
)

var blockNames = map[string]BlockKind{
	"end":          BlockEnd,
	"begin":        BlockBegin,
	"process":      BlockProcess,
	"dynamicparam": BlockDynamicParam,
}

func errAt(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func (d *decoder) node(n *yaml.Node) (NodeID, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
	default:
		return NoNode, errAt(n, "expected a node mapping or scalar")
	}

	var kindName, label string
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch strings.ToLower(n.Content[i].Value) {
		case "kind":
			kindName = n.Content[i+1].Value
		case "label":
			label = n.Content[i+1].Value
		}
	}
	kind, ok := ParseKind(kindName)
	if !ok {
		return NoNode, errAt(n, "unknown node kind %q", kindName)
	}
	p := newPayload(kind)
	v := reflect.ValueOf(p).Elem()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch strings.ToLower(key.Value) {
		case "kind", "label":
			continue
		}
		f := fieldByName(v, key.Value)
		if !f.IsValid() {
			return NoNode, errAt(key, "%s has no field %q", kind, key.Value)
		}
		if err := d.field(f, val); err != nil {
			return NoNode, err
		}
	}
	return d.b.Label(d.b.Add(p), label), nil
}

func (d *decoder) scalar(n *yaml.Node) (NodeID, error) {
	switch n.Tag {
	case "!!null":
		return d.b.Const(nil), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return NoNode, errAt(n, "bad boolean %q", n.Value)
		}
		return d.b.Const(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return NoNode, errAt(n, "bad integer %q", n.Value)
		}
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return d.b.Const(int(i)), nil
		}
		return d.b.Const(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return NoNode, errAt(n, "bad number %q", n.Value)
		}
		return d.b.Const(f), nil
	}
	if strings.HasPrefix(n.Value, "$") && len(n.Value) > 1 {
		return d.b.Var(n.Value[1:]), nil
	}
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return d.b.Str(n.Value), nil
	}
	return d.b.Bare(n.Value), nil
}

func fieldByName(v reflect.Value, name string) reflect.Value {
	return v.FieldByNameFunc(func(f string) bool { return strings.EqualFold(f, name) })
}

func (d *decoder) field(f reflect.Value, n *yaml.Node) error {
	switch f.Type() {
	case nodeIDType:
		id, err := d.node(n)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(id))
		return nil
	case typeNameType:
		f.Set(reflect.ValueOf(TypeName{Name: n.Value}))
		return nil
	case pathType:
		f.Set(reflect.ValueOf(NewVariablePath(strings.TrimPrefix(n.Value, "$"))))
		return nil
	case blockType:
		bk, ok := blockNames[strings.ToLower(n.Value)]
		if !ok {
			return errAt(n, "unknown block kind %q", n.Value)
		}
		f.Set(reflect.ValueOf(bk))
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(n.Value)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return errAt(n, "bad boolean %q", n.Value)
		}
		f.SetBool(b)
		return nil
	case reflect.Interface:
		// Constant.Value
		var v any
		if err := n.Decode(&v); err != nil {
			return errAt(n, "bad constant: %v", err)
		}
		if i, ok := v.(int); ok && (i < math.MinInt32 || i > math.MaxInt32) {
			v = int64(i)
		}
		if v != nil {
			f.Set(reflect.ValueOf(v))
		}
		return nil
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return errAt(n, "expected a list")
		}
		out := reflect.MakeSlice(f.Type(), 0, len(n.Content))
		for _, item := range n.Content {
			elem := reflect.New(f.Type().Elem()).Elem()
			if err := d.element(elem, item); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		f.Set(out)
		return nil
	}
	return errAt(n, "unsupported field type %s", f.Type())
}

func (d *decoder) element(elem reflect.Value, n *yaml.Node) error {
	switch elem.Type() {
	case clauseType, keyValueType:
		if n.Kind != yaml.MappingNode {
			return errAt(n, "expected a mapping")
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			f := fieldByName(elem, n.Content[i].Value)
			if !f.IsValid() {
				return errAt(n.Content[i], "unknown field %q", n.Content[i].Value)
			}
			if err := d.field(f, n.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	}
	return d.field(elem, n)
}

// newPayload returns a zero payload for kind.
func newPayload(k Kind) Payload {
	switch k {
	case KindScriptBlock:
		return &ScriptBlock{}
	case KindParamBlock:
		return &ParamBlock{}
	case KindNamedBlock:
		return &NamedBlock{}
	case KindParameter:
		return &Parameter{}
	case KindTypeConstraint:
		return &TypeConstraint{}
	case KindAttribute:
		return &Attribute{}
	case KindNamedAttributeArgument:
		return &NamedAttributeArgument{}
	case KindFunctionDefinition:
		return &FunctionDefinition{}
	case KindStatementBlock:
		return &StatementBlock{}
	case KindIf:
		return &If{}
	case KindSwitch:
		return &Switch{}
	case KindTrap:
		return &Trap{}
	case KindData:
		return &Data{}
	case KindForEach:
		return &ForEach{}
	case KindFor:
		return &For{}
	case KindWhile:
		return &While{}
	case KindDoWhile:
		return &DoWhile{}
	case KindDoUntil:
		return &DoUntil{}
	case KindTry:
		return &Try{}
	case KindCatch:
		return &Catch{}
	case KindBreak:
		return &Break{}
	case KindContinue:
		return &Continue{}
	case KindReturn:
		return &Return{}
	case KindExit:
		return &Exit{}
	case KindThrow:
		return &Throw{}
	case KindAssignment:
		return &Assignment{}
	case KindPipeline:
		return &Pipeline{}
	case KindCommand:
		return &Command{}
	case KindCommandExpression:
		return &CommandExpression{}
	case KindCommandParameter:
		return &CommandParameter{}
	case KindFileRedirection:
		return &FileRedirection{}
	case KindMergingRedirection:
		return &MergingRedirection{}
	case KindBlockStatement:
		return &BlockStatement{}
	case KindTypeDefinition:
		return &TypeDefinition{}
	case KindPropertyMember:
		return &PropertyMember{}
	case KindFunctionMember:
		return &FunctionMember{}
	case KindUsingStatement:
		return &UsingStatement{}
	case KindConfiguration:
		return &Configuration{}
	case KindDynamicKeyword:
		return &DynamicKeyword{}
	case KindErrorStatement:
		return &ErrorStatement{}
	case KindConstant:
		return &Constant{}
	case KindStringConstant:
		return &StringConstant{}
	case KindExpandableString:
		return &ExpandableString{}
	case KindVariable:
		return &Variable{}
	case KindTypeExpression:
		return &TypeExpression{}
	case KindConvert:
		return &Convert{}
	case KindMember:
		return &Member{}
	case KindInvokeMember:
		return &InvokeMember{}
	case KindBaseCtorInvoke:
		return &BaseCtorInvoke{}
	case KindArrayExpression:
		return &ArrayExpression{}
	case KindArrayLiteral:
		return &ArrayLiteral{}
	case KindHashtable:
		return &Hashtable{}
	case KindScriptBlockExpression:
		return &ScriptBlockExpression{}
	case KindParen:
		return &Paren{}
	case KindSubExpression:
		return &SubExpression{}
	case KindIndex:
		return &Index{}
	case KindAttributedExpression:
		return &AttributedExpression{}
	case KindUsingExpression:
		return &UsingExpression{}
	case KindBinary:
		return &Binary{}
	case KindUnary:
		return &Unary{}
	case KindErrorExpression:
		return &ErrorExpression{}
	}
	return nil
}
