package dsl

import (
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
)

// NodeTypeBuilder provides a fluent API for configuring one node type
// description.
type NodeTypeBuilder struct {
	desc    domain.NodeDescription
	builder *Builder
}

// DisplayName sets the human-readable name shown in editors.
func (n *NodeTypeBuilder) DisplayName(name string) *NodeTypeBuilder {
	n.desc.DisplayName = name
	return n
}

// Description sets the long-form description.
func (n *NodeTypeBuilder) Description(text string) *NodeTypeBuilder {
	n.desc.Description = text
	return n
}

// Group assigns the type to catalog groups.
func (n *NodeTypeBuilder) Group(groups ...string) *NodeTypeBuilder {
	n.desc.Group = append(n.desc.Group, groups...)
	return n
}

// Version sets the concrete version of the description.
func (n *NodeTypeBuilder) Version(version float64) *NodeTypeBuilder {
	n.desc.Version = version
	return n
}

// Input appends wiring input ports.
func (n *NodeTypeBuilder) Input(ports ...string) *NodeTypeBuilder {
	n.desc.Inputs = append(n.desc.Inputs, ports...)
	return n
}

// Output appends wiring output ports.
func (n *NodeTypeBuilder) Output(ports ...string) *NodeTypeBuilder {
	n.desc.Outputs = append(n.desc.Outputs, ports...)
	return n
}

// Credential declares that the type consumes a credential type.
func (n *NodeTypeBuilder) Credential(name string, required bool) *NodeTypeBuilder {
	n.desc.Credentials = append(n.desc.Credentials, domain.CredentialUse{
		Name:     name,
		Required: required,
	})
	return n
}

// Property appends a parameter to the type's schema.
func (n *NodeTypeBuilder) Property(p schema.Property) *NodeTypeBuilder {
	n.desc.Properties = append(n.desc.Properties, p)
	return n
}

// Docs sets the documentation URL.
func (n *NodeTypeBuilder) Docs(url string) *NodeTypeBuilder {
	n.desc.DocumentationURL = url
	return n
}

// Describe returns the description built so far.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeTypeBuilder) Describe() domain.NodeDescription {
	return n.desc
}

// VersionedBuilder configures a node type with several versions under
// one identifier.
type VersionedBuilder struct {
	identifier     string
	defaultVersion float64
	versions       map[float64]*NodeTypeBuilder
	builder        *Builder
}

// Default selects the version served when callers do not ask for one.
// Without it, the highest version wins.
func (v *VersionedBuilder) Default(version float64) *VersionedBuilder {
	v.defaultVersion = version
	return v
}

// Version declares a member version and returns its builder.
// If the version was declared before, it returns the existing builder.
func (v *VersionedBuilder) Version(version float64) *NodeTypeBuilder {
	if nb, ok := v.versions[version]; ok {
		return nb
	}
	nb := &NodeTypeBuilder{
		desc: domain.NodeDescription{
			Name:    v.identifier,
			Version: version,
		},
		builder: v.builder,
	}
	v.versions[version] = nb
	return nb
}
