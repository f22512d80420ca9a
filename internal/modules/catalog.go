package modules

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// BuiltinModule is the name of the catalog module compiled into the binary.
const BuiltinModule = "Microsoft.PowerShell.Core"

//go:embed builtin_commands.yaml
var builtinCatalog []byte

// maxAliasDepth bounds alias-to-alias resolution.
const maxAliasDepth = 8

// Module is one loaded catalog file.
type Module struct {
	Name      string
	Path      string
	Commands  []*CommandInfo
	IsVirtual bool // compiled in, not read from disk
}

// Catalog indexes commands from every loaded module. Commands from modules
// loaded later shadow earlier ones with the same name. A Catalog is safe for
// concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	modules   map[string]*Module
	order     []*Module
	commands  map[string]*CommandInfo
	qualified map[string]*CommandInfo
	cache     *Cache
}

// NewCatalog returns a catalog holding the built-in module.
func NewCatalog() *Catalog {
	c := &Catalog{
		modules:   make(map[string]*Module),
		commands:  make(map[string]*CommandInfo),
		qualified: make(map[string]*CommandInfo),
	}
	f, err := parseCatalogFile(builtinCatalog, "builtin_commands.yaml")
	if err != nil {
		panic(fmt.Sprintf("modules: built-in catalog: %v", err))
	}
	m := f.module("virtual:" + BuiltinModule)
	m.IsVirtual = true
	c.register(m)
	return c
}

// UseCache makes Load consult and fill cache.
func (c *Catalog) UseCache(cache *Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = cache
}

// Load reads a catalog file and registers its commands. Loading the same
// path twice returns the module loaded first.
func (c *Catalog) Load(path string) (*Module, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	m, ok := c.modules[absPath]
	cache := c.cache
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var f *catalogFile
	if cache != nil {
		f, err = cache.loadCatalog(data, absPath)
	} else {
		f, err = parseCatalogFile(data, path)
	}
	if err != nil {
		return nil, err
	}

	m = f.module(absPath)
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.modules[absPath]; ok {
		return prev, nil
	}
	c.register(m)
	return m, nil
}

// Parse registers commands from catalog content without touching the disk.
// The name identifies the module for repeated calls and error messages.
func (c *Catalog) Parse(data []byte, name string) (*Module, error) {
	f, err := parseCatalogFile(data, name)
	if err != nil {
		return nil, err
	}
	m := f.module(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.register(m)
	return m, nil
}

func (c *Catalog) register(m *Module) {
	c.modules[m.Path] = m
	c.order = append(c.order, m)
	for _, cmd := range m.Commands {
		c.commands[strings.ToLower(cmd.Name)] = cmd
		c.qualified[strings.ToLower(cmd.QualifiedName())] = cmd
	}
}

// Lookup resolves a command name, optionally module qualified as
// Module\Name, following aliases to the command they name.
func (c *Catalog) Lookup(name string) (*CommandInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cmd := c.lookupLocked(name)
	for depth := 0; cmd != nil && cmd.Type == CommandAlias; depth++ {
		if depth == maxAliasDepth {
			return nil, fmt.Errorf("%s: alias chain too long: %w", name, ErrUnknownCommand)
		}
		cmd = c.lookupLocked(cmd.AliasOf)
	}
	if cmd == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	return cmd, nil
}

func (c *Catalog) lookupLocked(name string) *CommandInfo {
	key := strings.ToLower(name)
	if strings.ContainsRune(key, '\\') {
		return c.qualified[key]
	}
	return c.commands[key]
}

// Commands returns the visible commands sorted by name, aliases included.
func (c *Catalog) Commands() []*CommandInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*CommandInfo, 0, len(c.commands))
	for _, cmd := range c.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}

// Modules returns loaded modules in load order.
func (c *Catalog) Modules() []*Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Module(nil), c.order...)
}

// SpecializeForPath returns a copy of info whose output types are narrowed to
// the provider the literal path belongs to. Commands without per-provider
// outputs are returned unchanged. It fails when the command declares
// per-provider outputs and none applies to path.
func (c *Catalog) SpecializeForPath(info *CommandInfo, path string) (*CommandInfo, error) {
	if len(info.PathOutputs) == 0 {
		return info, nil
	}
	var fallback *PathOutput
	for i := range info.PathOutputs {
		po := &info.PathOutputs[i]
		if po.Prefix == "" {
			fallback = po
			continue
		}
		if len(path) >= len(po.Prefix) && strings.EqualFold(path[:len(po.Prefix)], po.Prefix) {
			return specialized(info, po), nil
		}
	}
	if fallback != nil && !hasDrivePrefix(path) {
		return specialized(info, fallback), nil
	}
	return nil, fmt.Errorf("%s: no provider output for path %q", info.Name, path)
}

func specialized(info *CommandInfo, po *PathOutput) *CommandInfo {
	out := info.Clone()
	out.OutputTypes = append([]string(nil), po.OutputTypes...)
	return out
}

// hasDrivePrefix reports a provider-qualified path like env:PATH. Single
// letter drives are file system drives.
func hasDrivePrefix(path string) bool {
	i := strings.IndexByte(path, ':')
	return i > 1 && !strings.ContainsAny(path[:i], `/\`)
}

// catalogFile is the on-disk form:
//
//	module: Contoso.Tools
//	commands:
//	  - name: Get-Widget
//	    type: cmdlet
//	    implementing_type: Contoso.Tools.GetWidgetCommand
//	    output_types: [Contoso.Widget]
//	    aliases: [gw]
//	    parameters:
//	      - {name: Name, type: string, position: 0}
//	      - {name: Force, switch: true}
type catalogFile struct {
	Module   string        `yaml:"module"`
	Commands []commandSpec `yaml:"commands"`
}

type commandSpec struct {
	Name             string          `yaml:"name"`
	Type             string          `yaml:"type,omitempty"`
	ImplementingType string          `yaml:"implementing_type,omitempty"`
	OutputTypes      []string        `yaml:"output_types,omitempty"`
	Parameters       []parameterSpec `yaml:"parameters,omitempty"`
	PathOutputs      []PathOutput    `yaml:"path_outputs,omitempty"`
	AliasOf          string          `yaml:"alias_of,omitempty"`
	Aliases          []string        `yaml:"aliases,omitempty"`
	NoCommon         bool            `yaml:"no_common_parameters,omitempty"`
}

type parameterSpec struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty"`
	Position *int     `yaml:"position,omitempty"`
	Switch   bool     `yaml:"switch,omitempty"`
}

func parseCatalogFile(data []byte, path string) (*catalogFile, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *catalogFile) validate(path string) error {
	seen := make(map[string]bool)
	for i, cmd := range f.Commands {
		if cmd.Name == "" {
			return fmt.Errorf("%s: commands[%d]: name is required", path, i)
		}
		for _, n := range append([]string{cmd.Name}, cmd.Aliases...) {
			key := strings.ToLower(n)
			if seen[key] {
				return fmt.Errorf("%s: commands[%d]: duplicate command %s", path, i, n)
			}
			seen[key] = true
		}
		kind, ok := commandTypeNames[strings.ToLower(cmd.Type)]
		if cmd.Type == "" {
			kind, ok = CommandCmdlet, true
			if cmd.AliasOf != "" {
				kind = CommandAlias
			}
		}
		if !ok {
			return fmt.Errorf("%s: %s: unknown command type %q", path, cmd.Name, cmd.Type)
		}
		if kind == CommandAlias && cmd.AliasOf == "" {
			return fmt.Errorf("%s: %s: alias needs alias_of", path, cmd.Name)
		}
		if kind != CommandAlias && cmd.AliasOf != "" {
			return fmt.Errorf("%s: %s: alias_of set on a %s", path, cmd.Name, kind)
		}
		params := make(map[string]bool)
		positions := make(map[int]string)
		for j, p := range cmd.Parameters {
			if p.Name == "" {
				return fmt.Errorf("%s: %s: parameters[%d]: name is required", path, cmd.Name, j)
			}
			key := strings.ToLower(p.Name)
			if params[key] {
				return fmt.Errorf("%s: %s: duplicate parameter %s", path, cmd.Name, p.Name)
			}
			params[key] = true
			if p.Position != nil {
				if other, dup := positions[*p.Position]; dup {
					return fmt.Errorf("%s: %s: parameters %s and %s share position %d", path, cmd.Name, other, p.Name, *p.Position)
				}
				positions[*p.Position] = p.Name
			}
		}
	}
	return nil
}

// module converts the file into catalog entries. Aliases listed on a
// command become alias entries of their own.
func (f *catalogFile) module(path string) *Module {
	m := &Module{Name: f.Module, Path: path}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, spec := range f.Commands {
		cmd := &CommandInfo{
			Name:             spec.Name,
			Module:           m.Name,
			ImplementingType: spec.ImplementingType,
			OutputTypes:      spec.OutputTypes,
			PathOutputs:      spec.PathOutputs,
			AliasOf:          spec.AliasOf,
		}
		cmd.Type = commandTypeNames[strings.ToLower(spec.Type)]
		if spec.Type == "" && spec.AliasOf != "" {
			cmd.Type = CommandAlias
		}
		for _, p := range spec.Parameters {
			info := ParameterInfo{Name: p.Name, Type: p.Type, Aliases: p.Aliases, Position: NoPosition, Switch: p.Switch}
			if p.Position != nil {
				info.Position = *p.Position
			}
			cmd.Parameters = append(cmd.Parameters, info)
		}
		if !spec.NoCommon && (cmd.Type == CommandCmdlet || cmd.Type == CommandFunction) {
			cmd.addCommonParameters()
		}
		m.Commands = append(m.Commands, cmd)
		for _, a := range spec.Aliases {
			m.Commands = append(m.Commands, &CommandInfo{Name: a, Module: m.Name, Type: CommandAlias, AliasOf: spec.Name})
		}
	}
	return m
}
