package ast

import "strings"

// Kind identifies the payload type of a node. The set is closed: every payload
// type in this package reports exactly one Kind.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Structure and statements
	KindScriptBlock
	KindParamBlock
	KindNamedBlock
	KindParameter
	KindTypeConstraint
	KindAttribute
	KindNamedAttributeArgument
	KindFunctionDefinition
	KindStatementBlock
	KindIf
	KindSwitch
	KindTrap
	KindData
	KindForEach
	KindFor
	KindWhile
	KindDoWhile
	KindDoUntil
	KindTry
	KindCatch
	KindBreak
	KindContinue
	KindReturn
	KindExit
	KindThrow
	KindAssignment
	KindPipeline
	KindCommand
	KindCommandExpression
	KindCommandParameter
	KindFileRedirection
	KindMergingRedirection
	KindBlockStatement
	KindTypeDefinition
	KindPropertyMember
	KindFunctionMember
	KindUsingStatement
	KindConfiguration
	KindDynamicKeyword
	KindErrorStatement

	// Expressions
	KindConstant
	KindStringConstant
	KindExpandableString
	KindVariable
	KindTypeExpression
	KindConvert
	KindMember
	KindInvokeMember
	KindBaseCtorInvoke
	KindArrayExpression
	KindArrayLiteral
	KindHashtable
	KindScriptBlockExpression
	KindParen
	KindSubExpression
	KindIndex
	KindAttributedExpression
	KindUsingExpression
	KindBinary
	KindUnary
	KindErrorExpression

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                "invalid",
	KindScriptBlock:            "scriptblock",
	KindParamBlock:             "paramblock",
	KindNamedBlock:             "namedblock",
	KindParameter:              "parameter",
	KindTypeConstraint:         "typeconstraint",
	KindAttribute:              "attribute",
	KindNamedAttributeArgument: "namedattributeargument",
	KindFunctionDefinition:     "function",
	KindStatementBlock:         "statementblock",
	KindIf:                     "if",
	KindSwitch:                 "switch",
	KindTrap:                   "trap",
	KindData:                   "data",
	KindForEach:                "foreach",
	KindFor:                    "for",
	KindWhile:                  "while",
	KindDoWhile:                "dowhile",
	KindDoUntil:                "dountil",
	KindTry:                    "try",
	KindCatch:                  "catch",
	KindBreak:                  "break",
	KindContinue:               "continue",
	KindReturn:                 "return",
	KindExit:                   "exit",
	KindThrow:                  "throw",
	KindAssignment:             "assignment",
	KindPipeline:               "pipeline",
	KindCommand:                "command",
	KindCommandExpression:      "commandexpression",
	KindCommandParameter:       "commandparameter",
	KindFileRedirection:        "fileredirection",
	KindMergingRedirection:     "mergingredirection",
	KindBlockStatement:         "blockstatement",
	KindTypeDefinition:         "typedefinition",
	KindPropertyMember:         "property",
	KindFunctionMember:         "method",
	KindUsingStatement:         "using",
	KindConfiguration:          "configuration",
	KindDynamicKeyword:         "dynamickeyword",
	KindErrorStatement:         "errorstatement",
	KindConstant:               "constant",
	KindStringConstant:         "string",
	KindExpandableString:       "expandablestring",
	KindVariable:               "variable",
	KindTypeExpression:         "type",
	KindConvert:                "convert",
	KindMember:                 "member",
	KindInvokeMember:           "invokemember",
	KindBaseCtorInvoke:         "basector",
	KindArrayExpression:        "arrayexpression",
	KindArrayLiteral:           "arrayliteral",
	KindHashtable:              "hashtable",
	KindScriptBlockExpression:  "scriptblockexpression",
	KindParen:                  "paren",
	KindSubExpression:          "subexpression",
	KindIndex:                  "index",
	KindAttributedExpression:   "attributed",
	KindUsingExpression:        "usingexpression",
	KindBinary:                 "binary",
	KindUnary:                  "unary",
	KindErrorExpression:        "errorexpression",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind maps a document kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(name)
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// AllKinds returns every valid node kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsExpression reports whether nodes of this kind are expressions.
func (k Kind) IsExpression() bool {
	return k >= KindConstant && k < kindCount
}
