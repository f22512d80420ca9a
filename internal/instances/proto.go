package instances

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/funvibe/scriptinfer/internal/typesystem"
)

// ProtoCatalog serves instance classes described by .proto files. Each
// message is a class; its package is the namespace.
type ProtoCatalog struct {
	universe *typesystem.Universe

	mu      sync.RWMutex
	classes map[string]*desc.MessageDescriptor
	files   map[string]*desc.FileDescriptor
}

// NewProtoCatalog returns an empty catalog. Property types are resolved
// against u when it is not nil.
func NewProtoCatalog(u *typesystem.Universe) *ProtoCatalog {
	return &ProtoCatalog{
		universe: u,
		classes:  make(map[string]*desc.MessageDescriptor),
		files:    make(map[string]*desc.FileDescriptor),
	}
}

// LoadFiles parses proto files, searching importPaths for them and their
// imports.
func (c *ProtoCatalog) LoadFiles(importPaths []string, files ...string) error {
	parser := protoparse.Parser{ImportPaths: importPaths}
	return c.parse(parser, files)
}

// LoadSources parses proto sources held in memory, keyed by file name.
func (c *ProtoCatalog) LoadSources(sources map[string]string) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	parser := protoparse.Parser{Accessor: protoparse.FileContentsFromMap(sources)}
	return c.parse(parser, names)
}

func (c *ProtoCatalog) parse(parser protoparse.Parser, names []string) error {
	if len(names) == 0 {
		return nil
	}
	fds, err := parser.ParseFiles(names...)
	if err != nil {
		return fmt.Errorf("failed to parse proto: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fd := range fds {
		c.addFile(fd)
	}
	return nil
}

func (c *ProtoCatalog) addFile(fd *desc.FileDescriptor) {
	if _, ok := c.files[fd.GetName()]; ok {
		return
	}
	c.files[fd.GetName()] = fd
	for _, dep := range fd.GetDependencies() {
		c.addFile(dep)
	}
	var add func(md *desc.MessageDescriptor)
	add = func(md *desc.MessageDescriptor) {
		if md.IsMapEntry() {
			return
		}
		c.classes[classKey(NamespaceOf(fd.GetPackage()), md.GetName())] = md
		for _, nested := range md.GetNestedMessageTypes() {
			add(nested)
		}
	}
	for _, md := range fd.GetMessageTypes() {
		add(md)
	}
}

// Files returns the loaded file descriptors, dependencies included, sorted by
// name.
func (c *ProtoCatalog) Files() []*desc.FileDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*desc.FileDescriptor, 0, len(c.files))
	for _, fd := range c.files {
		out = append(out, fd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Len returns the number of known classes.
func (c *ProtoCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classes)
}

// ClassProperties implements Provider. Names compare case-insensitively.
func (c *ProtoCatalog) ClassProperties(namespace, class string) ([]*typesystem.InstanceProperty, error) {
	c.mu.RLock()
	md, ok := c.classes[classKey(namespace, class)]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", namespace, class, ErrUnknownClass)
	}
	return properties(c.universe, md), nil
}
