package dsl

import (
	"fmt"

	"github.com/aretw0/scion/pkg/domain"
)

// Builder manages node type construction.
type Builder struct {
	concrete  map[string]*NodeTypeBuilder
	versioned map[string]*VersionedBuilder
}

// New creates a new node type builder.
func New() *Builder {
	return &Builder{
		concrete:  make(map[string]*NodeTypeBuilder),
		versioned: make(map[string]*VersionedBuilder),
	}
}

// Node declares a concrete, single-version node type.
// If the identifier was declared before, it returns the existing builder.
func (b *Builder) Node(identifier string) *NodeTypeBuilder {
	if nb, ok := b.concrete[identifier]; ok {
		return nb
	}
	nb := &NodeTypeBuilder{
		desc: domain.NodeDescription{
			Name: identifier,
		},
		builder: b,
	}
	b.concrete[identifier] = nb
	return nb
}

// Versioned declares a node type that bundles several versions under a
// shared identifier.
// If the identifier was declared before, it returns the existing builder.
func (b *Builder) Versioned(identifier string) *VersionedBuilder {
	if vb, ok := b.versioned[identifier]; ok {
		return vb
	}
	vb := &VersionedBuilder{
		identifier: identifier,
		versions:   make(map[float64]*NodeTypeBuilder),
		builder:    b,
	}
	b.versioned[identifier] = vb
	return vb
}

// Build compiles the declared types into constructors ready for
// injection into a resolver.
func (b *Builder) Build() (map[string]domain.NodeConstructor, error) {
	constructors := make(map[string]domain.NodeConstructor, len(b.concrete)+len(b.versioned))

	for identifier, nb := range b.concrete {
		if _, dup := b.versioned[identifier]; dup {
			return nil, fmt.Errorf("node type %q declared both concrete and versioned", identifier)
		}
		desc := nb.desc
		constructors[identifier] = func() (domain.NodeKind, error) {
			nt := &domain.NodeType{Description: desc}
			return nt, nil
		}
	}

	for identifier, vb := range b.versioned {
		if len(vb.versions) == 0 {
			return nil, fmt.Errorf("versioned node type %q has no versions", identifier)
		}
		if vb.defaultVersion > 0 {
			if _, ok := vb.versions[vb.defaultVersion]; !ok {
				return nil, fmt.Errorf("versioned node type %q declares default version %v but has no such member", identifier, vb.defaultVersion)
			}
		}

		members := make(map[float64]domain.NodeDescription, len(vb.versions))
		for version, nb := range vb.versions {
			members[version] = nb.desc
		}
		defaultVersion := vb.defaultVersion

		constructors[identifier] = func() (domain.NodeKind, error) {
			versions := make(map[float64]*domain.NodeType, len(members))
			for version, desc := range members {
				versions[version] = &domain.NodeType{Description: desc}
			}
			return &domain.VersionedNodeType{
				DefaultVersion: defaultVersion,
				Versions:       versions,
			}, nil
		}
	}

	return constructors, nil
}
