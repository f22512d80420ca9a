package evaluator

import (
	"strings"
	"sync"
)

// Environment is the read-only variable snapshot an evaluation sees. Names
// compare case-insensitively; an enclosed environment falls back to its outer
// one.
type Environment struct {
	mu    sync.RWMutex
	store map[string]any
	outer *Environment
}

func NewEnvironment(vars map[string]any) *Environment {
	env := &Environment{store: make(map[string]any, len(vars))}
	for name, v := range vars {
		env.store[strings.ToLower(name)] = v
	}
	return env
}

func NewEnclosedEnvironment(outer *Environment, vars map[string]any) *Environment {
	env := NewEnvironment(vars)
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (any, bool) {
	if e == nil {
		return nil, false
	}
	e.mu.RLock()
	v, ok := e.store[strings.ToLower(name)]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		v, ok = e.outer.Get(name)
	}
	return v, ok
}

// Names returns every visible variable name, inner scopes first.
func (e *Environment) Names() []string {
	var out []string
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		env.mu.RLock()
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		env.mu.RUnlock()
	}
	return out
}
