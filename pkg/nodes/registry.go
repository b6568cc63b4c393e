// Package nodes resolves node type identifiers to their definitions.
//
// Types arrive in a registry one of two ways: injected directly by the
// host, or discovered on disk by walking a fixed set of candidate
// paths derived from the identifier and evaluating the definition
// module found there. Loads are idempotent; discovery for a given
// identifier runs at most once per registry.
package nodes

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/loader"
	"github.com/aretw0/scion/pkg/ports"
)

// Registry loads and serves node types.
type Registry struct {
	locator  ports.ModuleLocator
	baseDir  string
	roots    []string
	injected map[string]domain.NodeConstructor
	logger   *slog.Logger

	mu     sync.RWMutex
	loaded map[string]domain.NodeKind
	known  map[string]domain.KnownNodeType
}

// Option configures a Registry.
type Option func(*Registry)

// WithBaseDir sets the directory node namespaces resolve under.
func WithBaseDir(dir string) Option {
	return func(r *Registry) {
		r.baseDir = dir
	}
}

// WithSearchRoot appends extra directories probed for every namespace,
// after the namespace's own candidates.
func WithSearchRoot(roots ...string) Option {
	return func(r *Registry) {
		r.roots = append(r.roots, roots...)
	}
}

// WithInjected registers constructors that bypass module discovery
// entirely for their identifiers.
func WithInjected(constructors map[string]domain.NodeConstructor) Option {
	return func(r *Registry) {
		for identifier, ctor := range constructors {
			r.injected[identifier] = ctor
		}
	}
}

// WithLogger sets the registry's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a node type registry backed by the given module
// locator.
func NewRegistry(locator ports.ModuleLocator, opts ...Option) *Registry {
	r := &Registry{
		locator:  locator,
		injected: make(map[string]domain.NodeConstructor),
		logger:   logging.NewNop(),
		loaded:   make(map[string]domain.NodeKind),
		known:    make(map[string]domain.KnownNodeType),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.NodeTypeProvider = (*Registry)(nil)

// GetByName returns an already-loaded node type. It never triggers a
// load; unknown identifiers fail with a not-loaded error.
func (r *Registry) GetByName(identifier string) (domain.NodeKind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.loaded[identifier]
	if !ok {
		return nil, &domain.NotLoadedError{Identifier: identifier}
	}
	return kind, nil
}

// GetByNameAndVersion returns a concrete version of a loaded type.
// Version selection is delegated to the type itself: concrete types
// answer every version, containers pick a member.
func (r *Registry) GetByNameAndVersion(identifier string, version float64) (*domain.NodeType, error) {
	kind, err := r.GetByName(identifier)
	if err != nil {
		return nil, err
	}
	return kind.NodeForVersion(version)
}

// GetKnownTypes snapshots the loaded types: identifier to class name
// and winning source path.
func (r *Registry) GetKnownTypes() map[string]domain.KnownNodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := make(map[string]domain.KnownNodeType, len(r.known))
	for identifier, entry := range r.known {
		known[identifier] = entry
	}
	return known
}

// LoadNodeType makes a node type available, discovering its definition
// module when needed. Loading an already-loaded identifier is a no-op.
func (r *Registry) LoadNodeType(identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loaded[identifier]; ok {
		return nil
	}

	if ctor, ok := r.injected[identifier]; ok {
		return r.loadInjected(identifier, ctor)
	}
	return r.loadFromDisk(identifier)
}

// LoadNodesFromWorkflow loads the type of every node in the list,
// deduplicated in first-seen order. The first failing type aborts the
// whole operation.
func (r *Registry) LoadNodesFromWorkflow(workflowNodes []domain.WorkflowNode) error {
	seen := make(map[string]bool, len(workflowNodes))
	var unique []string
	for _, n := range workflowNodes {
		if n.Type == "" || seen[n.Type] {
			continue
		}
		seen[n.Type] = true
		unique = append(unique, n.Type)
	}

	for _, identifier := range unique {
		if err := r.LoadNodeType(identifier); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadInjected(identifier string, ctor domain.NodeConstructor) error {
	kind, err := ctor()
	if err != nil {
		return &domain.NodeLoadError{Identifier: identifier, Cause: err}
	}
	if kind == nil {
		return &domain.NodeLoadError{Identifier: identifier, Cause: fmt.Errorf("constructor returned no node type")}
	}

	r.loaded[identifier] = kind
	r.known[identifier] = domain.KnownNodeType{ClassName: classNameOf(identifier)}
	r.logger.Debug("node type injected", "type", identifier)
	return nil
}

func (r *Registry) loadFromDisk(identifier string) error {
	ns, name, err := SplitIdentifier(identifier)
	if err != nil {
		return &domain.NodeLoadError{Identifier: identifier, Cause: err}
	}
	class := Capitalize(name)

	mod, err := r.locator.LoadFromCandidates(Candidates(r.baseDir, r.roots, ns, name))
	if err != nil {
		return err
	}

	fn, ok := mod.Export(class)
	if !ok {
		fn, ok = mod.Default()
	}
	if !ok {
		fn, ok = mod.ExportFold(class)
	}
	if !ok {
		return &domain.ClassNotFoundError{Path: mod.Path(), Symbol: class}
	}

	raw, err := loader.Call(fn)
	if err != nil {
		return &domain.NodeLoadError{Identifier: identifier, Cause: err}
	}

	kind, err := decodeNodeKind(raw)
	if err != nil {
		return &domain.NodeLoadError{Identifier: identifier, Cause: err}
	}

	r.loaded[identifier] = kind
	r.known[identifier] = domain.KnownNodeType{ClassName: class, SourcePath: mod.Path()}
	r.logger.Debug("node type loaded", "type", identifier, "path", mod.Path())
	return nil
}

// classNameOf derives the class name of any identifier, dotted or not.
func classNameOf(identifier string) string {
	name := identifier
	if i := strings.LastIndex(identifier, "."); i >= 0 && i < len(identifier)-1 {
		name = identifier[i+1:]
	}
	return Capitalize(name)
}

// decodeNodeKind turns a raw descriptor into a node kind. Descriptors
// carrying a "versions" key become containers; everything else is a
// concrete single-version type.
func decodeNodeKind(raw map[string]any) (domain.NodeKind, error) {
	if _, versioned := raw["versions"]; versioned {
		return decodeVersioned(raw)
	}

	var desc domain.NodeDescription
	if err := decode(raw, &desc); err != nil {
		return nil, fmt.Errorf("decoding descriptor: %w", err)
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("descriptor has no name")
	}
	return &domain.NodeType{Description: desc}, nil
}

func decodeVersioned(raw map[string]any) (domain.NodeKind, error) {
	var desc domain.NodeDescription
	if err := decode(raw, &desc); err != nil {
		return nil, fmt.Errorf("decoding container descriptor: %w", err)
	}

	var container struct {
		DefaultVersion float64                   `mapstructure:"defaultVersion"`
		Versions       map[string]map[string]any `mapstructure:"versions"`
	}
	if err := decode(raw, &container); err != nil {
		return nil, fmt.Errorf("decoding version container: %w", err)
	}
	if len(container.Versions) == 0 {
		return nil, fmt.Errorf("version container has no versions")
	}

	versions := make(map[float64]*domain.NodeType, len(container.Versions))
	for key, rawVersion := range container.Versions {
		version, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version key %q: %w", key, err)
		}
		var versionDesc domain.NodeDescription
		if err := decode(rawVersion, &versionDesc); err != nil {
			return nil, fmt.Errorf("decoding version %q: %w", key, err)
		}
		versions[version] = &domain.NodeType{Description: versionDesc}
	}

	return &domain.VersionedNodeType{
		Description:    desc,
		DefaultVersion: container.DefaultVersion,
		Versions:       versions,
	}, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
