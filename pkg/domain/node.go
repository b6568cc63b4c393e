package domain

import (
	"fmt"

	"github.com/aretw0/scion/pkg/schema"
)

// CredentialUse declares that a node type consumes a credential type.
type CredentialUse struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
}

// NodeDescription is the declarative surface of a node type: identity,
// wiring ports, credential uses and the parameter schema. It is what
// definition modules return and what hosts introspect.
type NodeDescription struct {
	// Name is the full type identifier, e.g. "core.httpRequest".
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name" mapstructure:"displayName"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Group       []string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`

	// Version is the concrete version this description implements.
	Version float64 `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`

	Inputs  []string `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`

	Credentials []CredentialUse   `json:"credentials,omitempty" yaml:"credentials,omitempty" mapstructure:"credentials"`
	Properties  []schema.Property `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`

	DocumentationURL string `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty" mapstructure:"documentationUrl"`
}

// NodeKind is a resolved node type. Concrete types return themselves for
// every version; versioned containers select one of their members.
type NodeKind interface {
	Describe() *NodeDescription
	NodeForVersion(version float64) (*NodeType, error)
}

// NodeConstructor builds a node kind without going through module
// discovery. Used to inject node types directly into a registry.
type NodeConstructor func() (NodeKind, error)

// KnownNodeType records how a loaded type was resolved. SourcePath is
// empty for injected types.
type KnownNodeType struct {
	ClassName  string `json:"class_name" yaml:"class_name"`
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// NodeType is a concrete, single-version node type.
type NodeType struct {
	Description NodeDescription `json:"description" yaml:"description" mapstructure:"description"`
}

// Describe returns the type's description.
func (n *NodeType) Describe() *NodeDescription { return &n.Description }

// NodeForVersion returns the type itself. A concrete type answers every
// version with its only implementation.
func (n *NodeType) NodeForVersion(float64) (*NodeType, error) { return n, nil }

// VersionedNodeType bundles several concrete versions of one type under
// a shared identity.
type VersionedNodeType struct {
	Description NodeDescription `json:"description" yaml:"description" mapstructure:"description"`

	// DefaultVersion is returned when no version is requested. Zero means
	// "the highest available".
	DefaultVersion float64 `json:"default_version,omitempty" yaml:"default_version,omitempty" mapstructure:"defaultVersion"`

	Versions map[float64]*NodeType `json:"versions" yaml:"versions"`
}

// Describe returns the container description, falling back to the
// default version's when the container carries none.
func (v *VersionedNodeType) Describe() *NodeDescription {
	if v.Description.Name == "" {
		if nt, err := v.NodeForVersion(0); err == nil {
			return nt.Describe()
		}
	}
	return &v.Description
}

// LatestVersion returns the highest version key, or zero when the
// container is empty.
func (v *VersionedNodeType) LatestVersion() float64 {
	var latest float64
	for ver := range v.Versions {
		if ver > latest {
			latest = ver
		}
	}
	return latest
}

// NodeForVersion selects a member version. A non-positive version asks
// for the default: DefaultVersion when set, the highest key otherwise.
func (v *VersionedNodeType) NodeForVersion(version float64) (*NodeType, error) {
	if version <= 0 {
		version = v.DefaultVersion
		if version <= 0 {
			version = v.LatestVersion()
		}
	}
	nt, ok := v.Versions[version]
	if !ok {
		return nil, fmt.Errorf("node type %q has no version %v", v.Describe().Name, version)
	}
	return nt, nil
}
