package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scion/pkg/domain"
)

const echoModuleSource = `package main

func Echo() map[string]any {
	return map[string]any{
		"name":        "core.echo",
		"displayName": "Echo",
		"version":     1,
	}
}

func New() map[string]any {
	return map[string]any{"name": "core.echo", "displayName": "Echo (default)"}
}
`

const failingModuleSource = `package main

import "errors"

func Broken() (map[string]any, error) {
	return nil, errors.New("descriptor unavailable")
}
`

func writeModule(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "Echo.node.go", echoModuleSource)

	l := New()
	mod, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, mod.Path())

	fn, ok := mod.Export("Echo")
	require.True(t, ok, "exact export should resolve")

	raw, err := Call(fn)
	require.NoError(t, err)
	assert.Equal(t, "core.echo", raw["name"])
}

func TestLoadMissingFile(t *testing.T) {
	l := New()
	missing := filepath.Join(t.TempDir(), "Nope.node.go")

	_, err := l.Load(missing)
	require.Error(t, err)

	var notFound *domain.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{missing}, notFound.Paths)
	assert.Error(t, notFound.Cause)
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "Empty.node.go", "   \n")

	_, err := New().Load(path)

	var notFound *domain.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLoadWithRoot(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "Echo.node.go", echoModuleSource)

	l := New(WithRoot(dir))
	mod, err := l.Load("Echo.node.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Echo.node.go"), mod.Path())
}

func TestLoadFromCandidates(t *testing.T) {
	dir := t.TempDir()
	real := writeModule(t, dir, "Echo.node.go", echoModuleSource)

	t.Run("first hit wins", func(t *testing.T) {
		mod, err := New().LoadFromCandidates([]string{
			filepath.Join(dir, "missing", "Echo.node.go"),
			real,
			filepath.Join(dir, "never-reached", "Echo.node.go"),
		})
		require.NoError(t, err)
		assert.Equal(t, real, mod.Path())
	})

	t.Run("exhausted candidates list every path", func(t *testing.T) {
		a := filepath.Join(dir, "a", "Echo.node.go")
		b := filepath.Join(dir, "b", "Echo.node.go")

		_, err := New().LoadFromCandidates([]string{a, b})
		require.Error(t, err)

		var notFound *domain.ModuleNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{a, b}, notFound.Paths)
		assert.Error(t, notFound.Cause)
		assert.Contains(t, err.Error(), a)
		assert.Contains(t, err.Error(), b)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		_, err := New().LoadFromCandidates(nil)
		var notFound *domain.ModuleNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestModuleExports(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "Echo.node.go", echoModuleSource)

	mod, err := New().Load(path)
	require.NoError(t, err)

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"Echo", "New"}, mod.ExportNames())
	})

	t.Run("default export", func(t *testing.T) {
		fn, ok := mod.Default()
		require.True(t, ok)
		raw, err := Call(fn)
		require.NoError(t, err)
		assert.Equal(t, "Echo (default)", raw["displayName"])
	})

	t.Run("case-insensitive fold", func(t *testing.T) {
		fn, ok := mod.ExportFold("ECHO")
		require.True(t, ok)
		raw, err := Call(fn)
		require.NoError(t, err)
		assert.Equal(t, "Echo", raw["displayName"])
	})

	t.Run("absent export", func(t *testing.T) {
		_, ok := mod.Export("Mystery")
		assert.False(t, ok)
		_, ok = mod.ExportFold("mystery")
		assert.False(t, ok)
	})
}

func TestCall(t *testing.T) {
	dir := t.TempDir()

	t.Run("constructor error surfaces", func(t *testing.T) {
		path := writeModule(t, dir, "Broken.node.go", failingModuleSource)
		mod, err := New().Load(path)
		require.NoError(t, err)

		fn, ok := mod.Export("Broken")
		require.True(t, ok)

		_, err = Call(fn)
		require.Error(t, err)
		assert.Equal(t, "descriptor unavailable", err.Error())
	})

	t.Run("non-function export", func(t *testing.T) {
		path := writeModule(t, dir, "Value.node.go", "package main\n\nvar Answer = 42\n")
		mod, err := New().Load(path)
		require.NoError(t, err)

		fn, ok := mod.Export("Answer")
		require.True(t, ok)

		_, err = Call(fn)
		require.Error(t, err)
	})
}

func TestLoadSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "Bad.node.go", "package main\n\nfunc Bad( {")

	_, err := New().Load(path)
	require.Error(t, err)

	var notFound *domain.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Error(t, notFound.Cause)
}
