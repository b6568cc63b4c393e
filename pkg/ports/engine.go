package ports

import (
	"context"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
)

// NodeTypeProvider is the node-type surface a workflow engine consumes.
type NodeTypeProvider interface {
	// GetByName returns an already-loaded node type.
	// Returns domain.NotLoadedError for identifiers never loaded.
	GetByName(identifier string) (domain.NodeKind, error)

	// GetByNameAndVersion returns a concrete version of a loaded type.
	// A non-positive version selects the type's default.
	GetByNameAndVersion(identifier string, version float64) (*domain.NodeType, error)

	// GetKnownTypes snapshots what has been loaded so far.
	GetKnownTypes() map[string]domain.KnownNodeType
}

// CredentialHelper is the credential surface a workflow engine consumes.
type CredentialHelper interface {
	// GetParentTypes returns the transitive inheritance chain of a
	// credential type, excluding the type itself.
	GetParentTypes(credType string) ([]string, error)

	// GetCredentials fetches the stored, still-encrypted record behind
	// a credential reference.
	GetCredentials(ctx context.Context, ref domain.CredentialReference, credType string) (*domain.CredentialRecord, error)

	// GetCredentialsProperties returns the merged property schema of a
	// credential type, inheritance included.
	GetCredentialsProperties(credType string) ([]schema.Property, error)

	// GetDecrypted materializes ready-to-use credential data.
	GetDecrypted(ctx context.Context, ref domain.CredentialReference, credType string, mode domain.ExecutionMode, opts domain.DecryptOptions) (map[string]any, error)

	// Authenticate injects resolved credential values into outgoing
	// request headers.
	Authenticate(ctx context.Context, credType string, data map[string]any, headers map[string]string) (map[string]string, error)

	// PreAuthentication gives a credential type the chance to complete
	// its data before first use.
	PreAuthentication(ctx context.Context, credType string, data map[string]any) (map[string]any, error)

	// UpdateCredentials re-encrypts and persists credential data.
	UpdateCredentials(ctx context.Context, ref domain.CredentialReference, credType string, data map[string]any) error

	// UpdateCredentialsOAuthTokenData replaces only the stored OAuth
	// token payload, leaving other fields untouched.
	UpdateCredentialsOAuthTokenData(ctx context.Context, ref domain.CredentialReference, credType string, token map[string]any) error
}
