// Package credentials resolves credential types and materializes
// ready-to-use credential data.
//
// The Registry mirrors the node side: credential types load lazily
// from definition modules under fixed namespace paths, and an index of
// known types carries inheritance and usage metadata for types that
// were never loaded. The Materializer drives the full decryption
// pipeline on top of it.
package credentials

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/loader"
	"github.com/aretw0/scion/pkg/nodes"
	"github.com/aretw0/scion/pkg/ports"
)

// CredentialFileSuffix is the file naming convention for credential
// definition modules: <ClassName>.credentials.go.
const CredentialFileSuffix = ".credentials.go"

// Credential definitions live directly under the namespace, with the
// primary namespace probed first.
var credentialNamespaces = []string{"core", "community"}

// Registry loads and serves credential types.
type Registry struct {
	locator ports.ModuleLocator
	baseDir string
	logger  *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*domain.CredentialType
	known  map[string]domain.KnownCredential
}

// Option configures a Registry.
type Option func(*Registry)

// WithBaseDir sets the directory credential namespaces resolve under.
func WithBaseDir(dir string) Option {
	return func(r *Registry) {
		r.baseDir = dir
	}
}

// WithKnown seeds the known-type index.
func WithKnown(known map[string]domain.KnownCredential) Option {
	return func(r *Registry) {
		for name, entry := range known {
			r.known[name] = entry
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

// NewRegistry creates a credential type registry backed by the given
// module locator.
func NewRegistry(locator ports.ModuleLocator, opts ...Option) *Registry {
	r := &Registry{
		locator: locator,
		logger:  logging.NewNop(),
		loaded:  make(map[string]*domain.CredentialType),
		known:   make(map[string]domain.KnownCredential),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recognizes reports whether the type is loaded or present in the
// known-type index. It never triggers a load.
func (r *Registry) Recognizes(credType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.loaded[credType]; ok {
		return true
	}
	_, ok := r.known[credType]
	return ok
}

// GetByName returns a credential type, loading its definition module on
// first use. Types that cannot be resolved fail with an
// unknown-credential-type error; the underlying reason is logged, not
// returned.
func (r *Registry) GetByName(credType string) (*domain.CredentialType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ct, ok := r.loaded[credType]; ok {
		return ct, nil
	}

	class := nodes.Capitalize(credType)
	mod, err := r.locator.LoadFromCandidates(r.candidates(class))
	if err != nil {
		r.logger.Warn("credential type not resolvable", "type", credType, "error", err)
		return nil, &domain.UnknownCredentialTypeError{Type: credType}
	}

	fn, ok := mod.Export(class)
	if !ok {
		r.logger.Warn("credential type module has no matching export",
			"type", credType, "path", mod.Path(), "symbol", class)
		return nil, &domain.UnknownCredentialTypeError{Type: credType}
	}

	raw, err := loader.Call(fn)
	if err != nil {
		r.logger.Warn("credential type constructor failed", "type", credType, "error", err)
		return nil, &domain.UnknownCredentialTypeError{Type: credType}
	}

	var ct domain.CredentialType
	if err := decodeCredentialType(raw, &ct); err != nil {
		r.logger.Warn("credential type descriptor invalid", "type", credType, "error", err)
		return nil, &domain.UnknownCredentialTypeError{Type: credType}
	}
	if ct.Name == "" {
		ct.Name = credType
	}

	r.loaded[credType] = &ct

	// Loaded types feed the known-type index so inheritance walks see
	// them without loading again.
	entry := r.known[credType]
	entry.Extends = ct.Extends
	if len(ct.SupportedNodes) > 0 {
		entry.SupportedNodes = ct.SupportedNodes
	}
	r.known[credType] = entry

	r.logger.Debug("credential type loaded", "type", credType, "path", mod.Path())
	return &ct, nil
}

// GetKnownCredentials snapshots the known-type index: seeded entries,
// merged index files and every type loaded so far.
func (r *Registry) GetKnownCredentials() map[string]domain.KnownCredential {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := make(map[string]domain.KnownCredential, len(r.known))
	for name, entry := range r.known {
		known[name] = entry
	}
	return known
}

// GetSupportedNodes returns the node types known to consume a
// credential type. Unknown types yield an empty list, not an error.
func (r *Registry) GetSupportedNodes(credType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supported := r.known[credType].SupportedNodes
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// GetParentTypes returns the transitive inheritance chain of a
// credential type, depth-first in declaration order, excluding the
// type itself. The walk runs on the known-type index only; parents the
// index has never heard of end their branch silently. Revisiting any
// type fails with a circular-reference error naming the type the walk
// started from.
func (r *Registry) GetParentTypes(credType string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := map[string]bool{credType: true}
	parents := []string{}

	var walk func(name string) error
	walk = func(name string) error {
		for _, parent := range r.known[name].Extends {
			if visited[parent] {
				return &domain.CircularReferenceError{Type: credType}
			}
			visited[parent] = true
			parents = append(parents, parent)
			if err := walk(parent); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(credType); err != nil {
		return nil, err
	}
	return parents, nil
}

// LoadKnownIndex merges a YAML known-type index file into the
// registry. The file maps type names to their extends chain and
// supporting nodes:
//
//	googlePalmApi:
//	  supportedNodes: [community.googlePalm]
//	slackOAuth2Api:
//	  extends: [oAuth2Api]
func (r *Registry) LoadKnownIndex(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var index map[string]domain.KnownCredential
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return fmt.Errorf("parsing known credential index %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, entry := range index {
		current := r.known[name]
		if len(entry.Extends) > 0 {
			current.Extends = entry.Extends
		}
		if len(entry.SupportedNodes) > 0 {
			current.SupportedNodes = entry.SupportedNodes
		}
		r.known[name] = current
	}

	r.logger.Debug("known credential index merged", "path", path, "types", len(index))
	return nil
}

func (r *Registry) candidates(class string) []string {
	paths := make([]string, 0, len(credentialNamespaces))
	for _, ns := range credentialNamespaces {
		paths = append(paths, filepath.Join(r.baseDir, ns, "credentials", class+CredentialFileSuffix))
	}
	return paths
}

func decodeCredentialType(raw map[string]any, out *domain.CredentialType) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
