package ast

import "strings"

// VariablePath is the text after $ in a variable reference, e.g. "x",
// "script:x" or "env:PATH".
type VariablePath struct {
	UserPath string
}

var scopeQualifiers = map[string]bool{
	"global":   true,
	"local":    true,
	"private":  true,
	"script":   true,
	"using":    true,
	"workflow": true,
}

// NewVariablePath wraps the user-written path.
func NewVariablePath(path string) VariablePath { return VariablePath{UserPath: path} }

func (p VariablePath) split() (qualifier, name string) {
	i := strings.IndexByte(p.UserPath, ':')
	if i <= 0 {
		return "", p.UserPath
	}
	return p.UserPath[:i], p.UserPath[i+1:]
}

// IsUnqualified reports a path with no scope or drive prefix.
func (p VariablePath) IsUnqualified() bool {
	q, _ := p.split()
	return q == ""
}

// IsVariable reports whether the path names a variable rather than an item on
// some other drive.
func (p VariablePath) IsVariable() bool {
	q, _ := p.split()
	return q == "" || scopeQualifiers[strings.ToLower(q)] || strings.EqualFold(q, "variable")
}

// IsUnscopedVariable reports a variable without a scope prefix.
func (p VariablePath) IsUnscopedVariable() bool {
	q, _ := p.split()
	return q == "" || strings.EqualFold(q, "variable")
}

// IsScript reports the $script: scope.
func (p VariablePath) IsScript() bool {
	q, _ := p.split()
	return strings.EqualFold(q, "script")
}

// UnqualifiedPath drops any scope or drive prefix.
func (p VariablePath) UnqualifiedPath() string {
	_, n := p.split()
	return n
}

func (p VariablePath) String() string { return "$" + p.UserPath }
