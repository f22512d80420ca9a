package modules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCommand is returned when no catalog module declares a command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrAmbiguousParameter is returned when a parameter prefix matches
	// more than one declared parameter.
	ErrAmbiguousParameter = errors.New("ambiguous parameter")
	// ErrUnknownParameter is returned when a command declares no parameter
	// with the given name, alias or prefix.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// CommandType says how a command is implemented.
type CommandType uint8

const (
	CommandCmdlet CommandType = iota
	CommandFunction
	CommandAlias
	CommandApplication
	CommandScript
)

var commandTypeNames = map[string]CommandType{
	"cmdlet":      CommandCmdlet,
	"function":    CommandFunction,
	"alias":       CommandAlias,
	"application": CommandApplication,
	"script":      CommandScript,
}

func (t CommandType) String() string {
	for name, v := range commandTypeNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

// NoPosition marks a parameter that binds only by name.
const NoPosition = -1

// ParameterInfo is one declared parameter of a command.
type ParameterInfo struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty"`
	Position int      `yaml:"position"`
	Switch   bool     `yaml:"switch,omitempty"`
}

// PathOutput narrows a command's output types for paths under a provider
// prefix such as env: or Cert:. An empty prefix matches plain file system
// paths.
type PathOutput struct {
	Prefix      string   `yaml:"prefix"`
	OutputTypes []string `yaml:"output_types"`
}

// CommandInfo is the static metadata of one command.
type CommandInfo struct {
	Name             string
	Module           string
	Type             CommandType
	ImplementingType string
	OutputTypes      []string
	Parameters       []ParameterInfo
	PathOutputs      []PathOutput
	// AliasOf names the resolved command for aliases.
	AliasOf string
}

// IsCmdlet reports a compiled cmdlet.
func (c *CommandInfo) IsCmdlet() bool { return c.Type == CommandCmdlet }

// QualifiedName is Module\Name, or Name for commands outside a module.
func (c *CommandInfo) QualifiedName() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + `\` + c.Name
}

// Parameter resolves a parameter by exact name, alias or unique prefix, the
// way the shell does when binding -Name arguments.
func (c *CommandInfo) Parameter(name string) (*ParameterInfo, error) {
	name = strings.TrimPrefix(name, "-")
	for i := range c.Parameters {
		p := &c.Parameters[i]
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
		for _, a := range p.Aliases {
			if strings.EqualFold(a, name) {
				return p, nil
			}
		}
	}
	var matches []*ParameterInfo
	lower := strings.ToLower(name)
	for i := range c.Parameters {
		if strings.HasPrefix(strings.ToLower(c.Parameters[i].Name), lower) {
			matches = append(matches, &c.Parameters[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s: -%s: %w", c.Name, name, ErrUnknownParameter)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return nil, fmt.Errorf("%s: -%s matches %s: %w", c.Name, name, strings.Join(names, ", "), ErrAmbiguousParameter)
}

// Clone returns a copy that shares no slices with c.
func (c *CommandInfo) Clone() *CommandInfo {
	out := *c
	out.OutputTypes = append([]string(nil), c.OutputTypes...)
	out.Parameters = append([]ParameterInfo(nil), c.Parameters...)
	out.PathOutputs = append([]PathOutput(nil), c.PathOutputs...)
	return &out
}

// commonParameters are accepted by every cmdlet and advanced function.
var commonParameters = []ParameterInfo{
	{Name: "Verbose", Aliases: []string{"vb"}, Position: NoPosition, Switch: true},
	{Name: "Debug", Aliases: []string{"db"}, Position: NoPosition, Switch: true},
	{Name: "ErrorAction", Aliases: []string{"ea"}, Type: "System.Management.Automation.ActionPreference", Position: NoPosition},
	{Name: "WarningAction", Aliases: []string{"wa"}, Type: "System.Management.Automation.ActionPreference", Position: NoPosition},
	{Name: "ErrorVariable", Aliases: []string{"ev"}, Type: "string", Position: NoPosition},
	{Name: "WarningVariable", Aliases: []string{"wv"}, Type: "string", Position: NoPosition},
	{Name: "OutVariable", Aliases: []string{"ov"}, Type: "string", Position: NoPosition},
	{Name: "OutBuffer", Aliases: []string{"ob"}, Type: "int", Position: NoPosition},
	{Name: "PipelineVariable", Aliases: []string{"pv"}, Type: "string", Position: NoPosition},
}

func (c *CommandInfo) addCommonParameters() {
	for _, cp := range commonParameters {
		if !c.declares(cp.Name) {
			c.Parameters = append(c.Parameters, cp)
		}
	}
}

func (c *CommandInfo) declares(name string) bool {
	for _, p := range c.Parameters {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
