package scion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/adapters/memory"
	"github.com/aretw0/scion/pkg/cipher"
	"github.com/aretw0/scion/pkg/credentials"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/expr"
	"github.com/aretw0/scion/pkg/loader"
	"github.com/aretw0/scion/pkg/nodes"
	"github.com/aretw0/scion/pkg/ports"
	"github.com/aretw0/scion/pkg/schema"
)

// Version is the library version, set at build time.
var Version = "dev"

// Resolver is the high-level entry point for the Scion library. It
// wires the node type registry, the credential type registry and the
// credential materializer behind one construction site.
type Resolver struct {
	nodes       *nodes.Registry
	credentials *credentials.Registry
	helper      *credentials.Materializer

	locator       ports.ModuleLocator
	source        ports.CredentialSource
	cipher        ports.Cipher
	evaluator     ports.Evaluator
	overwrites    ports.OverwritePolicy
	logger        *slog.Logger
	searchRoots   []string
	injected      map[string]domain.NodeConstructor
	known         map[string]domain.KnownCredential
	knownIndex    string
	overwriteFile string
}

// Option defines a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithLocator injects a custom module locator, bypassing the default
// interpreter-backed loader.
func WithLocator(locator ports.ModuleLocator) Option {
	return func(r *Resolver) {
		r.locator = locator
	}
}

// WithSource sets the credential source. Defaults to an in-memory
// source.
func WithSource(source ports.CredentialSource) Option {
	return func(r *Resolver) {
		r.source = source
	}
}

// WithCipher sets the credential cipher. Defaults to the clear JSON
// codec, which is only suitable for tests and local development.
func WithCipher(c ports.Cipher) Option {
	return func(r *Resolver) {
		r.cipher = c
	}
}

// WithEncryptionKey switches the cipher to AES-GCM under the given
// passphrase. Old passphrases can be kept as decryption fallbacks for
// key rotation.
func WithEncryptionKey(key string, fallbacks ...string) Option {
	return func(r *Resolver) {
		r.cipher = cipher.NewAESGCM(key, cipher.WithFallbackKeys(fallbacks...))
	}
}

// WithEvaluator sets the expression evaluator used during credential
// materialization.
func WithEvaluator(evaluator ports.Evaluator) Option {
	return func(r *Resolver) {
		r.evaluator = evaluator
	}
}

// WithOverwrites sets the credential overwrite policy.
func WithOverwrites(policy ports.OverwritePolicy) Option {
	return func(r *Resolver) {
		r.overwrites = policy
	}
}

// WithOverwriteFile loads the overwrite policy from a YAML file at
// construction, replacing any policy set with WithOverwrites.
func WithOverwriteFile(path string) Option {
	return func(r *Resolver) {
		r.overwriteFile = path
	}
}

// WithInjectedNodes registers node constructors served without disk
// discovery.
func WithInjectedNodes(constructors map[string]domain.NodeConstructor) Option {
	return func(r *Resolver) {
		if r.injected == nil {
			r.injected = make(map[string]domain.NodeConstructor, len(constructors))
		}
		for identifier, ctor := range constructors {
			r.injected[identifier] = ctor
		}
	}
}

// WithSearchRoots adds extra directories probed during node type
// discovery, after the convention paths.
func WithSearchRoots(dirs ...string) Option {
	return func(r *Resolver) {
		r.searchRoots = append(r.searchRoots, dirs...)
	}
}

// WithKnownCredentials seeds the credential known-type index.
func WithKnownCredentials(known map[string]domain.KnownCredential) Option {
	return func(r *Resolver) {
		if r.known == nil {
			r.known = make(map[string]domain.KnownCredential, len(known))
		}
		for name, entry := range known {
			r.known[name] = entry
		}
	}
}

// WithKnownCredentialIndex loads a YAML known-type index file at
// construction.
func WithKnownCredentialIndex(path string) Option {
	return func(r *Resolver) {
		r.knownIndex = path
	}
}

// New initializes a Resolver over a definition base directory. The
// directory holds the namespace trees definition modules are
// discovered in; it may be empty when every node type is injected.
func New(baseDir string, opts ...Option) (*Resolver, error) {
	r := &Resolver{}

	// Apply options first so defaults only fill real gaps.
	for _, opt := range opts {
		opt(r)
	}

	if baseDir == "" && len(r.injected) == 0 {
		return nil, fmt.Errorf("baseDir is required when no node constructors are injected")
	}

	abs := baseDir
	if baseDir != "" {
		var err error
		abs, err = filepath.Abs(baseDir)
		if err != nil {
			return nil, fmt.Errorf("invalid base directory: %w", err)
		}
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if abs != "" {
		r.logger = r.logger.With("catalog", filepath.Base(abs))
	}

	if r.locator == nil {
		r.locator = loader.New(loader.WithLogger(r.logger))
	}
	if r.source == nil {
		r.source = memory.NewSource()
	}
	if r.cipher == nil {
		r.cipher = cipher.NewPlain()
	}
	if r.evaluator == nil {
		r.evaluator = expr.New()
	}
	if r.overwrites == nil {
		r.overwrites = credentials.Identity{}
	}
	if r.overwriteFile != "" {
		policy, err := credentials.LoadStaticOverwrites(r.overwriteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load credential overwrites: %w", err)
		}
		r.overwrites = policy
	}

	r.nodes = nodes.NewRegistry(r.locator,
		nodes.WithBaseDir(abs),
		nodes.WithSearchRoot(r.searchRoots...),
		nodes.WithInjected(r.injected),
		nodes.WithLogger(r.logger),
	)

	r.credentials = credentials.NewRegistry(r.locator,
		credentials.WithBaseDir(abs),
		credentials.WithKnown(r.known),
		credentials.WithLogger(r.logger),
	)
	if r.knownIndex != "" {
		if err := r.credentials.LoadKnownIndex(r.knownIndex); err != nil {
			return nil, err
		}
	}

	r.helper = credentials.NewMaterializer(r.credentials, r.source, r.cipher,
		credentials.WithEvaluator(r.evaluator),
		credentials.WithOverwrites(r.overwrites),
		credentials.WithMaterializerLogger(r.logger),
	)

	return r, nil
}

// Nodes returns the node type registry.
func (r *Resolver) Nodes() *nodes.Registry {
	return r.nodes
}

// Credentials returns the credential type registry.
func (r *Resolver) Credentials() *credentials.Registry {
	return r.credentials
}

// Helper returns the full credential helper surface, write operations
// included.
func (r *Resolver) Helper() ports.CredentialHelper {
	return r.helper
}

// LoadNodeType loads one node type by identifier.
func (r *Resolver) LoadNodeType(identifier string) error {
	return r.nodes.LoadNodeType(identifier)
}

// LoadNodesFromWorkflow loads every node type a workflow references.
func (r *Resolver) LoadNodesFromWorkflow(workflowNodes []domain.WorkflowNode) error {
	return r.nodes.LoadNodesFromWorkflow(workflowNodes)
}

// GetNodeType returns an already-loaded node type.
func (r *Resolver) GetNodeType(identifier string) (domain.NodeKind, error) {
	return r.nodes.GetByName(identifier)
}

// GetNodeTypeVersion returns a concrete version of a loaded node type.
// A non-positive version selects the type's default.
func (r *Resolver) GetNodeTypeVersion(identifier string, version float64) (*domain.NodeType, error) {
	return r.nodes.GetByNameAndVersion(identifier, version)
}

// GetKnownNodeTypes snapshots the node types loaded so far.
func (r *Resolver) GetKnownNodeTypes() map[string]domain.KnownNodeType {
	return r.nodes.GetKnownTypes()
}

// GetKnownCredentials snapshots the known credential-type index.
func (r *Resolver) GetKnownCredentials() map[string]domain.KnownCredential {
	return r.credentials.GetKnownCredentials()
}

// GetCredentialType returns a credential type, loading it on first
// use.
func (r *Resolver) GetCredentialType(credType string) (*domain.CredentialType, error) {
	return r.credentials.GetByName(credType)
}

// GetCredentialsProperties returns the merged property schema of a
// credential type, inheritance included.
func (r *Resolver) GetCredentialsProperties(credType string) ([]schema.Property, error) {
	return r.helper.GetCredentialsProperties(credType)
}

// GetParentTypes returns the inheritance chain of a credential type,
// nearest parent first.
func (r *Resolver) GetParentTypes(credType string) ([]string, error) {
	return r.helper.GetParentTypes(credType)
}

// GetDecrypted materializes ready-to-use credential data for a stored
// reference.
func (r *Resolver) GetDecrypted(ctx context.Context, ref domain.CredentialReference, credType string, mode domain.ExecutionMode, opts domain.DecryptOptions) (map[string]any, error) {
	return r.helper.GetDecrypted(ctx, ref, credType, mode, opts)
}
