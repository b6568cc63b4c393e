// Package validator checks a definition catalog end to end: every
// definition file must load and decode, and the credential inheritance
// graph must be sound.
package validator

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/scion/pkg/credentials"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/nodes"
)

// Catalog is the resolver surface the validation drives.
// *scion.Resolver implements it.
type Catalog interface {
	LoadNodeType(identifier string) error
	GetCredentialType(credType string) (*domain.CredentialType, error)
	GetParentTypes(credType string) ([]string, error)
	GetKnownCredentials() map[string]domain.KnownCredential
}

// Report counts what a validation run covered.
type Report struct {
	NodeTypes       int
	CredentialTypes int
}

// ValidateCatalog walks the definition tree under basePath and loads
// every node and credential definition through the catalog. Files that
// sit where discovery would never probe, definitions that fail to load
// and broken inheritance chains are all collected into one error.
func ValidateCatalog(catalog Catalog, basePath string) (Report, error) {
	var report Report
	var findings []string

	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(d.Name(), nodes.NodeFileSuffix):
			identifier, ok := nodeIdentifierFor(basePath, path)
			if !ok {
				findings = append(findings, fmt.Sprintf("Definition file outside catalog layout: '%s'", path))
				return nil
			}
			if err := catalog.LoadNodeType(identifier); err != nil {
				findings = append(findings, fmt.Sprintf("Node type '%s' failed to load: %v", identifier, err))
				return nil
			}
			report.NodeTypes++

		case strings.HasSuffix(d.Name(), credentials.CredentialFileSuffix):
			credType, ok := credentialTypeFor(basePath, path)
			if !ok {
				findings = append(findings, fmt.Sprintf("Definition file outside catalog layout: '%s'", path))
				return nil
			}
			if _, err := catalog.GetCredentialType(credType); err != nil {
				findings = append(findings, fmt.Sprintf("Credential type '%s' failed to load: %v", credType, err))
				return nil
			}
			report.CredentialTypes++
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walking catalog: %w", err)
	}

	// Inheritance checks run on the merged index, so parents declared
	// only in index files count too.
	known := catalog.GetKnownCredentials()
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := catalog.GetParentTypes(name); err != nil {
			findings = append(findings, fmt.Sprintf("Credential type '%s': %v", name, err))
			continue
		}
		for _, parent := range known[name].Extends {
			if _, ok := known[parent]; !ok {
				findings = append(findings, fmt.Sprintf("Credential type '%s' extends unknown type '%s'", name, parent))
			}
		}
	}

	if len(findings) > 0 {
		return report, fmt.Errorf("found %d errors:\n- %s", len(findings), strings.Join(findings, "\n- "))
	}
	return report, nil
}

// nodeIdentifierFor recovers the type identifier a definition file
// answers to, or reports that discovery would never probe its location.
// The expected layout is <ns>/nodes/<Class>/<Class>.node.go, with one
// optional category folder inside the community namespace.
func nodeIdentifierFor(basePath, path string) (string, bool) {
	segments, ok := layoutSegments(basePath, path)
	if !ok || len(segments) < 4 || segments[1] != "nodes" {
		return "", false
	}

	ns := segments[0]
	if ns == nodes.CommunityNamespace {
		if len(segments) > 5 {
			return "", false
		}
	} else if len(segments) != 4 {
		return "", false
	}

	class := strings.TrimSuffix(segments[len(segments)-1], nodes.NodeFileSuffix)
	dir := segments[len(segments)-2]
	if !strings.EqualFold(dir, class) {
		return "", false
	}

	return ns + "." + nodes.Decapitalize(class), true
}

// credentialTypeFor recovers the credential type name from a definition
// file path. The expected layout is <ns>/credentials/<Class>.credentials.go.
func credentialTypeFor(basePath, path string) (string, bool) {
	segments, ok := layoutSegments(basePath, path)
	if !ok || len(segments) != 3 || segments[1] != "credentials" {
		return "", false
	}

	class := strings.TrimSuffix(segments[2], credentials.CredentialFileSuffix)
	return nodes.Decapitalize(class), true
}

func layoutSegments(basePath, path string) ([]string, bool) {
	rel, err := filepath.Rel(basePath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, false
	}
	return strings.Split(filepath.ToSlash(rel), "/"), true
}
