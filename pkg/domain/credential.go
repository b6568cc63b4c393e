package domain

import "github.com/aretw0/scion/pkg/schema"

// OAuthTokenDataKey is the credential data key holding issued OAuth
// tokens. It survives overwrites and schema defaulting untouched.
const OAuthTokenDataKey = "oauthTokenData"

// Generic OAuth credential types. When one of these is used directly,
// with no inheritance chain of its own, the token payload property is
// appended to its schema implicitly.
const (
	CredentialTypeOAuth1 = "oAuth1Api"
	CredentialTypeOAuth2 = "oAuth2Api"
)

// CredentialType describes a credential: its identity, the types it
// extends and the properties users fill in.
type CredentialType struct {
	// Name is the type identifier, e.g. "googlePalmApi".
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	DisplayName string `json:"display_name" yaml:"display_name" mapstructure:"displayName"`

	// Extends lists parent credential types, in declaration order.
	Extends []string `json:"extends,omitempty" yaml:"extends,omitempty" mapstructure:"extends"`

	Properties []schema.Property `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`

	DocumentationURL string `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty" mapstructure:"documentationUrl"`

	// SupportedNodes lists node type identifiers known to consume this
	// credential. Usually supplied by the known-type index rather than
	// the descriptor itself.
	SupportedNodes []string `json:"supported_nodes,omitempty" yaml:"supported_nodes,omitempty" mapstructure:"supportedNodes"`
}

// KnownCredential is index-only knowledge about a credential type that
// has not necessarily been loaded yet.
type KnownCredential struct {
	Extends        []string `json:"extends,omitempty" yaml:"extends,omitempty"`
	SupportedNodes []string `json:"supported_nodes,omitempty" yaml:"supportedNodes,omitempty"`
}

// CredentialReference is the workflow-side pointer to a stored
// credential.
type CredentialReference struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// CredentialRecord is the stored form of a credential. Data is the
// encrypted payload; only a cipher can turn it back into fields.
type CredentialRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Data []byte `json:"data" yaml:"data"`
}

// DecryptOptions tunes credential materialization.
type DecryptOptions struct {
	// Raw returns the decrypted payload verbatim, skipping overwrites,
	// schema defaults and expression resolution.
	Raw bool
}
