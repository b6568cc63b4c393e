package nodes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/loader"
	"github.com/aretw0/scion/pkg/ports"
)

const echoSource = `package main

func Echo() map[string]any {
	return map[string]any{
		"name":        "core.echo",
		"displayName": "Echo",
		"version":     1,
		"inputs":      []string{"main"},
		"outputs":     []string{"main"},
		"properties": []map[string]any{
			{"name": "text", "type": "string", "default": "hello"},
		},
	}
}
`

const fetchSource = `package main

func Fetch() map[string]any {
	return map[string]any{
		"name":           "core.fetch",
		"displayName":    "Fetch",
		"defaultVersion": 2,
		"versions": map[string]any{
			"1": map[string]any{"name": "core.fetch", "displayName": "Fetch", "version": 1},
			"2": map[string]any{"name": "core.fetch", "displayName": "Fetch", "version": 2},
		},
	}
}
`

const summarizerSource = `package main

func Summarizer() map[string]any {
	return map[string]any{
		"name":        "community.summarizer",
		"displayName": "Summarizer",
		"version":     1,
	}
}
`

// countingLocator decorates a real locator so tests can observe how
// often discovery actually runs.
type countingLocator struct {
	inner      ports.ModuleLocator
	loadCalls  int
	candidates [][]string
}

func (c *countingLocator) Load(path string) (*loader.Module, error) {
	c.loadCalls++
	return c.inner.Load(path)
}

func (c *countingLocator) LoadFromCandidates(paths []string) (*loader.Module, error) {
	c.candidates = append(c.candidates, paths)
	return c.inner.LoadFromCandidates(paths)
}

func writeDefinition(t *testing.T, base, rel, source string) string {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestLoadNodeType(t *testing.T) {
	base := t.TempDir()
	path := writeDefinition(t, base, "core/nodes/Echo/Echo.node.go", echoSource)

	loc := &countingLocator{inner: loader.New()}
	r := NewRegistry(loc, WithBaseDir(base))

	require.NoError(t, r.LoadNodeType("core.echo"))

	kind, err := r.GetByName("core.echo")
	require.NoError(t, err)

	desc := kind.Describe()
	assert.Equal(t, "core.echo", desc.Name)
	assert.Equal(t, "Echo", desc.DisplayName)
	require.Len(t, desc.Properties, 1)
	assert.Equal(t, "text", desc.Properties[0].Name)
	assert.Equal(t, "hello", desc.Properties[0].Default)

	known := r.GetKnownTypes()
	require.Contains(t, known, "core.echo")
	assert.Equal(t, "Echo", known["core.echo"].ClassName)
	assert.Equal(t, path, known["core.echo"].SourcePath)

	t.Run("loading again is a no-op", func(t *testing.T) {
		require.NoError(t, r.LoadNodeType("core.echo"))
		assert.Len(t, loc.candidates, 1, "discovery must run at most once per identifier")
	})
}

func TestLoadNodeTypeOriginalCaseDir(t *testing.T) {
	base := t.TempDir()
	writeDefinition(t, base, "core/nodes/echo/Echo.node.go", echoSource)

	r := NewRegistry(loader.New(), WithBaseDir(base))
	require.NoError(t, r.LoadNodeType("core.echo"))

	known := r.GetKnownTypes()
	assert.Contains(t, known["core.echo"].SourcePath, filepath.Join("nodes", "echo"))
}

func TestLoadNodeTypeCommunityCategory(t *testing.T) {
	base := t.TempDir()
	writeDefinition(t, base, "community/nodes/tools/Summarizer/Summarizer.node.go", summarizerSource)

	r := NewRegistry(loader.New(), WithBaseDir(base))
	require.NoError(t, r.LoadNodeType("community.summarizer"))

	kind, err := r.GetByName("community.summarizer")
	require.NoError(t, err)
	assert.Equal(t, "Summarizer", kind.Describe().DisplayName)
}

func TestLoadNodeTypeSearchRoot(t *testing.T) {
	base := t.TempDir()
	custom := t.TempDir()
	writeDefinition(t, custom, "Widget/Widget.node.go", `package main

func Widget() map[string]any {
	return map[string]any{"name": "acme.widget", "displayName": "Widget"}
}
`)

	r := NewRegistry(loader.New(), WithBaseDir(base), WithSearchRoot(custom))
	require.NoError(t, r.LoadNodeType("acme.widget"))

	known := r.GetKnownTypes()
	assert.Equal(t, filepath.Join(custom, "Widget", "Widget.node.go"), known["acme.widget"].SourcePath)
}

func TestGetByNameBeforeLoad(t *testing.T) {
	r := NewRegistry(loader.New())

	_, err := r.GetByName("core.never")
	var notLoaded *domain.NotLoadedError
	require.ErrorAs(t, err, &notLoaded)
	assert.Equal(t, "core.never", notLoaded.Identifier)

	_, err = r.GetByNameAndVersion("core.never", 1)
	require.ErrorAs(t, err, &notLoaded)
}

func TestGetByNameAndVersion(t *testing.T) {
	base := t.TempDir()
	writeDefinition(t, base, "core/nodes/Echo/Echo.node.go", echoSource)
	writeDefinition(t, base, "core/nodes/Fetch/Fetch.node.go", fetchSource)

	r := NewRegistry(loader.New(), WithBaseDir(base))
	require.NoError(t, r.LoadNodeType("core.echo"))
	require.NoError(t, r.LoadNodeType("core.fetch"))

	t.Run("concrete types answer every version", func(t *testing.T) {
		nt, err := r.GetByNameAndVersion("core.echo", 99)
		require.NoError(t, err)
		assert.Equal(t, "core.echo", nt.Description.Name)
	})

	t.Run("default version", func(t *testing.T) {
		nt, err := r.GetByNameAndVersion("core.fetch", 0)
		require.NoError(t, err)
		assert.Equal(t, float64(2), nt.Description.Version)
	})

	t.Run("explicit version", func(t *testing.T) {
		nt, err := r.GetByNameAndVersion("core.fetch", 1)
		require.NoError(t, err)
		assert.Equal(t, float64(1), nt.Description.Version)
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := r.GetByNameAndVersion("core.fetch", 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no version")
	})
}

func TestVersionContainerWithoutDefault(t *testing.T) {
	base := t.TempDir()
	writeDefinition(t, base, "core/nodes/Poll/Poll.node.go", `package main

func Poll() map[string]any {
	return map[string]any{
		"name": "core.poll",
		"versions": map[string]any{
			"1":   map[string]any{"name": "core.poll", "version": 1},
			"1.1": map[string]any{"name": "core.poll", "version": 1.1},
		},
	}
}
`)

	r := NewRegistry(loader.New(), WithBaseDir(base))
	require.NoError(t, r.LoadNodeType("core.poll"))

	nt, err := r.GetByNameAndVersion("core.poll", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.1, nt.Description.Version, "no default means highest wins")
}

func TestInjectedConstructors(t *testing.T) {
	ctor := func() (domain.NodeKind, error) {
		return &domain.NodeType{Description: domain.NodeDescription{
			Name:        "acme.custom",
			DisplayName: "Custom",
		}}, nil
	}

	loc := &countingLocator{inner: loader.New()}
	r := NewRegistry(loc, WithInjected(map[string]domain.NodeConstructor{
		"acme.custom": ctor,
	}))

	require.NoError(t, r.LoadNodeType("acme.custom"))
	assert.Empty(t, loc.candidates, "injected types must never consult the locator")
	assert.Zero(t, loc.loadCalls)

	kind, err := r.GetByName("acme.custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", kind.Describe().DisplayName)

	known := r.GetKnownTypes()
	assert.Equal(t, "Custom", known["acme.custom"].ClassName)
	assert.Empty(t, known["acme.custom"].SourcePath)

	t.Run("constructor error", func(t *testing.T) {
		failing := NewRegistry(loc, WithInjected(map[string]domain.NodeConstructor{
			"acme.broken": func() (domain.NodeKind, error) {
				return nil, assert.AnError
			},
		}))

		err := failing.LoadNodeType("acme.broken")
		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "acme.broken", loadErr.Identifier)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("constructor returns nothing", func(t *testing.T) {
		empty := NewRegistry(loc, WithInjected(map[string]domain.NodeConstructor{
			"acme.void": func() (domain.NodeKind, error) { return nil, nil },
		}))

		err := empty.LoadNodeType("acme.void")
		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
	})
}

func TestExportResolution(t *testing.T) {
	t.Run("default export", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/Relay/Relay.node.go", `package main

func New() map[string]any {
	return map[string]any{"name": "core.relay", "displayName": "Relay"}
}
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		require.NoError(t, r.LoadNodeType("core.relay"))
	})

	t.Run("case-insensitive scan", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/EchoService/EchoService.node.go", `package main

func ECHOService() map[string]any {
	return map[string]any{"name": "core.echoService", "displayName": "Echo Service"}
}
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		require.NoError(t, r.LoadNodeType("core.echoService"))
	})

	t.Run("no usable export", func(t *testing.T) {
		base := t.TempDir()
		path := writeDefinition(t, base, "core/nodes/Widget/Widget.node.go", `package main

func helper() map[string]any { return nil }
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		err := r.LoadNodeType("core.widget")

		var classErr *domain.ClassNotFoundError
		require.ErrorAs(t, err, &classErr)
		assert.Equal(t, "Widget", classErr.Symbol)
		assert.Equal(t, path, classErr.Path)
	})

	t.Run("non-main package still resolves exact names", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/Probe/Probe.node.go", `package definition

func Probe() map[string]any {
	return map[string]any{"name": "core.probe", "displayName": "Probe"}
}
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		require.NoError(t, r.LoadNodeType("core.probe"))
	})
}

func TestConstructorFailures(t *testing.T) {
	t.Run("constructor error", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/Broken/Broken.node.go", `package main

import "errors"

func Broken() (map[string]any, error) {
	return nil, errors.New("descriptor unavailable")
}
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		err := r.LoadNodeType("core.broken")

		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Contains(t, err.Error(), "descriptor unavailable")
	})

	t.Run("not a descriptor", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/Num/Num.node.go", `package main

func Num() int { return 42 }
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		err := r.LoadNodeType("core.num")

		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
	})

	t.Run("descriptor without a name", func(t *testing.T) {
		base := t.TempDir()
		writeDefinition(t, base, "core/nodes/Ghost/Ghost.node.go", `package main

func Ghost() map[string]any {
	return map[string]any{"displayName": "Ghost"}
}
`)

		r := NewRegistry(loader.New(), WithBaseDir(base))
		err := r.LoadNodeType("core.ghost")

		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
	})
}

func TestLoadNodesFromWorkflow(t *testing.T) {
	base := t.TempDir()
	writeDefinition(t, base, "core/nodes/Echo/Echo.node.go", echoSource)
	writeDefinition(t, base, "core/nodes/Fetch/Fetch.node.go", fetchSource)

	t.Run("duplicates load once", func(t *testing.T) {
		loc := &countingLocator{inner: loader.New()}
		r := NewRegistry(loc, WithBaseDir(base))

		err := r.LoadNodesFromWorkflow([]domain.WorkflowNode{
			{Name: "Echo 1", Type: "core.echo"},
			{Name: "Echo 2", Type: "core.echo"},
			{Name: "Fetch", Type: "core.fetch"},
		})
		require.NoError(t, err)
		assert.Len(t, loc.candidates, 2, "one discovery per unique type")
	})

	t.Run("first failure aborts", func(t *testing.T) {
		r := NewRegistry(loader.New(), WithBaseDir(base))

		err := r.LoadNodesFromWorkflow([]domain.WorkflowNode{
			{Name: "Echo", Type: "core.echo"},
			{Name: "Ghost", Type: "core.ghost"},
			{Name: "Fetch", Type: "core.fetch"},
		})

		var notFound *domain.ModuleNotFoundError
		require.ErrorAs(t, err, &notFound)

		// Types loaded before the failure stay loaded.
		_, echoErr := r.GetByName("core.echo")
		assert.NoError(t, echoErr)
		_, fetchErr := r.GetByName("core.fetch")
		assert.Error(t, fetchErr)
	})

	t.Run("nodes without a type are skipped", func(t *testing.T) {
		r := NewRegistry(loader.New(), WithBaseDir(base))
		require.NoError(t, r.LoadNodesFromWorkflow([]domain.WorkflowNode{
			{Name: "Sticky Note"},
		}))
	})
}

func TestLoadNodeTypeFailureDetails(t *testing.T) {
	t.Run("invalid identifier", func(t *testing.T) {
		r := NewRegistry(loader.New())

		err := r.LoadNodeType("plain")
		var loadErr *domain.NodeLoadError
		require.ErrorAs(t, err, &loadErr)
	})

	t.Run("module not found lists all candidates", func(t *testing.T) {
		base := t.TempDir()
		r := NewRegistry(loader.New(), WithBaseDir(base))

		err := r.LoadNodeType("community.ghost")
		var notFound *domain.ModuleNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Len(t, notFound.Paths, len(communityCategories)+1)
		for _, path := range notFound.Paths {
			assert.Contains(t, err.Error(), path)
		}
	})
}
