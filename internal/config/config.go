package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Permission levels accepted by max_permission.
const (
	PermissionNoRuntimeUse     = "no_runtime_use"
	PermissionAllowBoundedEval = "allow_bounded_eval"
)

// Project is the top-level scriptinfer.yaml configuration.
type Project struct {
	// Catalogs are command catalog files.
	Catalogs []string `yaml:"catalogs"`

	// Types are native type files with extra types and extension members.
	Types []string `yaml:"types,omitempty"`

	// Protos are .proto files (globs allowed) describing external instance classes.
	Protos []string `yaml:"protos,omitempty"`

	// ProtoImportPaths are searched for imports of Protos.
	ProtoImportPaths []string `yaml:"proto_import_paths,omitempty"`

	// ReflectionTarget is an optional gRPC server queried for instance classes.
	ReflectionTarget string `yaml:"reflection_target,omitempty"`

	// GoPackages are Go package patterns imported as native types.
	GoPackages []string `yaml:"go_packages,omitempty"`

	// Cache is the SQLite catalog cache. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`

	// MaxPermission caps the permission any inference call may request.
	MaxPermission string `yaml:"max_permission,omitempty"`

	// Variables is the read-only snapshot visible to bounded evaluation.
	Variables map[string]any `yaml:"variables,omitempty"`

	// dir is the directory holding the config file; relative paths resolve
	// against it.
	dir string
}

// LoadProject reads and parses a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	p, err := ParseProject(data, path)
	if err != nil {
		return nil, err
	}
	p.dir = filepath.Dir(path)
	return p, nil
}

// ParseProject parses project content. The path is used only for error messages.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()
	return &p, nil
}

// FindConfig searches for scriptinfer.yaml starting from dir and walking up to
// parent directories. It returns "" and a nil error when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (p *Project) validate(path string) error {
	for i, c := range p.Catalogs {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%s: catalogs[%d]: empty path", path, i)
		}
	}
	for i, t := range p.Types {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%s: types[%d]: empty path", path, i)
		}
	}
	switch strings.ToLower(p.MaxPermission) {
	case "", PermissionNoRuntimeUse, PermissionAllowBoundedEval:
	default:
		return fmt.Errorf("%s: max_permission: unknown level %q (want %s or %s)",
			path, p.MaxPermission, PermissionNoRuntimeUse, PermissionAllowBoundedEval)
	}
	if len(p.ProtoImportPaths) > 0 && len(p.Protos) == 0 {
		return fmt.Errorf("%s: proto_import_paths set without protos", path)
	}
	return nil
}

func (p *Project) setDefaults() {
	if p.MaxPermission == "" {
		p.MaxPermission = PermissionNoRuntimeUse
	}
	p.MaxPermission = strings.ToLower(p.MaxPermission)
	if len(p.Protos) > 0 && len(p.ProtoImportPaths) == 0 {
		p.ProtoImportPaths = []string{"."}
	}
}

// Dir returns the directory of the loaded file, "." for parsed content.
func (p *Project) Dir() string {
	if p.dir == "" {
		return "."
	}
	return p.dir
}

// Resolve makes a path from the config relative to its directory.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir(), path)
}

// ResolveAll applies Resolve to each path and expands globs. A pattern
// matching nothing is kept as is so the caller reports the missing file.
func (p *Project) ResolveAll(paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		full := p.Resolve(path)
		if !strings.ContainsAny(full, "*?[") {
			out = append(out, full)
			continue
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %s: %w", path, err)
		}
		if len(matches) == 0 {
			out = append(out, full)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

// AllowsBoundedEval reports whether inference may evaluate expressions.
func (p *Project) AllowsBoundedEval() bool {
	return p.MaxPermission == PermissionAllowBoundedEval
}
