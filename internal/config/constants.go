package config

// ConfigFileName is the project file searched for by FindConfig.
const ConfigFileName = "scriptinfer.yaml"

// TreeFileExt is the extension of YAML tree documents.
const TreeFileExt = ".yaml"

// Special variable names
const (
	UnderbarVar = "_"
	PSItemVar   = "PSItem"
	ThisVar     = "this"
)

// MaxAliasChain bounds how many member names one member access may chase
// through alias properties.
const MaxAliasChain = 16

// Implementing types of the commands whose output is refined beyond their
// declared output types.
const (
	NewObjectCommand      = "Microsoft.PowerShell.Commands.NewObjectCommand"
	GetCimInstanceCommand = "Microsoft.Management.Infrastructure.CimCmdlets.GetCimInstanceCommand"
	NewCimInstanceCommand = "Microsoft.Management.Infrastructure.CimCmdlets.NewCimInstanceCommand"
	WhereObjectCommand    = "Microsoft.PowerShell.Commands.WhereObjectCommand"
	SortObjectCommand     = "Microsoft.PowerShell.Commands.SortObjectCommand"
	ForEachObjectCommand  = "Microsoft.PowerShell.Commands.ForEachObjectCommand"
)

// Parameter names the resolver looks at
const (
	PathParam             = "Path"
	LiteralPathParam      = "LiteralPath"
	TypeNameParam         = "TypeName"
	NamespaceParam        = "Namespace"
	ClassNameParam        = "ClassName"
	BeginParam            = "Begin"
	ProcessParam          = "Process"
	EndParam              = "End"
	PipelineVariableParam = "PipelineVariable"
	PipelineVariableAlias = "pv"
	OutVariableParam      = "OutVariable"
	OutVariableAlias      = "ov"
)

// CimInstanceTypeName prefixes instance class names: <name>#<namespace>/<class>.
const CimInstanceTypeName = "Microsoft.Management.Infrastructure.CimInstance"

// DefaultCimNamespace is used when a query names a class but no namespace.
const DefaultCimNamespace = "root/cimv2"

// AutomaticVariables maps variables the host always defines to their type.
// Entries typed object carry no information and are skipped by the resolver.
var AutomaticVariables = map[string]string{
	"$":                 "object",
	"?":                 "bool",
	"^":                 "object",
	"_":                 "object",
	"args":              "object[]",
	"ConsoleFileName":   "string",
	"Error":             "System.Collections.ArrayList",
	"EventArgs":         "object",
	"ExecutionContext":  "System.Management.Automation.EngineIntrinsics",
	"false":             "bool",
	"foreach":           "System.Collections.IEnumerator",
	"HOME":              "string",
	"Host":              "System.Management.Automation.Host.PSHost",
	"input":             "System.Collections.IEnumerator",
	"IsCoreCLR":         "bool",
	"IsLinux":           "bool",
	"IsMacOS":           "bool",
	"IsWindows":         "bool",
	"LASTEXITCODE":      "int",
	"Matches":           "hashtable",
	"MyInvocation":      "System.Management.Automation.InvocationInfo",
	"NestedPromptLevel": "int",
	"null":              "object",
	"PID":               "int",
	"PROFILE":           "string",
	"PSBoundParameters": "System.Management.Automation.PSBoundParametersDictionary",
	"PSCmdlet":          "System.Management.Automation.PSCmdlet",
	"PSCommandPath":     "string",
	"PSCulture":         "string",
	"PSHOME":            "string",
	"PSItem":            "object",
	"PSScriptRoot":      "string",
	"PSUICulture":       "string",
	"PSVersionTable":    "hashtable",
	"PWD":               "System.Management.Automation.PathInfo",
	"Sender":            "object",
	"ShellId":           "string",
	"StackTrace":        "string",
	"switch":            "System.Collections.IEnumerator",
	"this":              "object",
	"true":              "bool",
}
