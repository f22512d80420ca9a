package typesystem

import (
	"strings"
	"sync"
)

// ExtensionTable holds members attached to types by name on top of what the
// native type declares, e.g. an alias property Count on System.Array.
type ExtensionTable struct {
	mu      sync.RWMutex
	members map[string][]Member
}

// NewExtensionTable returns an empty table.
func NewExtensionTable() *ExtensionTable {
	return &ExtensionTable{members: make(map[string][]Member)}
}

// Add registers members for a type name. Names compare case-insensitively.
func (e *ExtensionTable) Add(typeName string, members ...Member) {
	key := strings.ToLower(typeName)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.members[key] = append(e.members[key], members...)
}

// Lookup returns the members registered for each name in order. Pass a
// type's Hierarchy to include members inherited from base types.
func (e *ExtensionTable) Lookup(names ...string) []Member {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []Member
	for _, n := range names {
		out = append(out, e.members[strings.ToLower(n)]...)
	}
	return out
}

// Len returns the number of type names with registered members.
func (e *ExtensionTable) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.members)
}

// DefaultExtensions returns the extension members every session starts with.
func DefaultExtensions(u *Universe) *ExtensionTable {
	e := NewExtensionTable()
	e.Add(ArrayName, &ExtendedMember{Name: "Count", Kind: AliasProperty, ReferencedName: "Length"})
	e.Add("System.Diagnostics.Process",
		&ExtendedMember{Name: "Name", Kind: AliasProperty, ReferencedName: "ProcessName"},
		&ExtendedMember{Name: "Handles", Kind: AliasProperty, ReferencedName: "HandleCount"},
		&ExtendedMember{Name: "WS", Kind: AliasProperty, ReferencedName: "WorkingSet64"},
		&ExtendedMember{Name: "Path", Kind: ScriptProperty, OutputTypes: []string{"string"}},
		&ExtendedMember{Name: "CPU", Kind: ScriptProperty, OutputTypes: []string{"double"}},
	)
	e.Add("System.IO.FileInfo",
		&ExtendedMember{Name: "BaseName", Kind: ScriptProperty, OutputTypes: []string{"string"}},
		&ExtendedMember{Name: "VersionInfo", Kind: ScriptProperty, OutputTypes: []string{"System.Diagnostics.FileVersionInfo"}},
	)
	e.Add("System.IO.DirectoryInfo",
		&ExtendedMember{Name: "BaseName", Kind: CodeProperty, ValueType: u.MustGet(StringName)},
	)
	e.Add("System.ServiceProcess.ServiceController",
		&ExtendedMember{Name: "RequiredServices", Kind: AliasProperty, ReferencedName: "ServicesDependedOn"},
	)
	return e
}
