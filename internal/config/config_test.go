package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProject(t *testing.T) {
	src := `
catalogs: [commands.yaml]
types: [types.yaml]
protos: [cim/*.proto]
cache: .scriptinfer/catalog.db
max_permission: Allow_Bounded_Eval
variables:
  limit: 3
`
	p, err := ParseProject([]byte(src), "scriptinfer.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"commands.yaml"}, p.Catalogs)
	assert.True(t, p.AllowsBoundedEval())
	assert.Equal(t, []string{"."}, p.ProtoImportPaths)
	assert.Equal(t, 3, p.Variables["limit"])
	assert.Equal(t, filepath.Join(".", "x.yaml"), p.Resolve("x.yaml"))
}

func TestParseProjectDefaults(t *testing.T) {
	p, err := ParseProject([]byte("catalogs: [a.yaml]"), "scriptinfer.yaml")
	require.NoError(t, err)
	assert.Equal(t, PermissionNoRuntimeUse, p.MaxPermission)
	assert.False(t, p.AllowsBoundedEval())
}

func TestParseProjectErrors(t *testing.T) {
	for _, src := range []string{
		"catalogs: [\"\"]",
		"max_permission: everything",
		"proto_import_paths: [.]",
		"catalogs: {a: b}",
	} {
		_, err := ParseProject([]byte(src), "scriptinfer.yaml")
		assert.Error(t, err, src)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("catalogs: [c.yaml]"), 0o644))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), found)

	p, err := LoadProject(found)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "c.yaml"), p.Resolve("c.yaml"))

	files, err := p.ResolveAll([]string{"*.yaml", "missing.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, ConfigFileName), filepath.Join(root, "missing.yaml")}, files)
}
