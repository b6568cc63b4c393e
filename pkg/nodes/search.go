package nodes

import "path/filepath"

// Namespaces with fixed, well-known layouts.
const (
	// PrimaryNamespace is where the built-in node types live.
	PrimaryNamespace = "core"

	// CommunityNamespace subdivides its nodes into category folders.
	CommunityNamespace = "community"
)

// NodeFileSuffix is the file naming convention for node definition
// modules: <ClassName>.node.go.
const NodeFileSuffix = ".node.go"

// communityCategories is the closed set of category folders probed
// inside the community namespace, in priority order.
var communityCategories = []string{
	"agents",
	"chains",
	"embeddings",
	"loaders",
	"memory",
	"parsers",
	"retrievers",
	"stores",
	"tools",
	"transforms",
}

// Candidates builds the ordered list of file paths where the
// definition module for a node may live.
//
// Community types probe one path per category folder, then a final
// fallback with no category. Every other namespace probes the
// capitalized directory first and the original-case directory second.
// Caller-registered search roots are appended last, each contributing
// the same two directory casings.
func Candidates(baseDir string, searchRoots []string, ns, name string) []string {
	class := Capitalize(name)
	file := class + NodeFileSuffix

	var paths []string
	if ns == CommunityNamespace {
		for _, category := range communityCategories {
			paths = append(paths, filepath.Join(baseDir, ns, "nodes", category, class, file))
		}
		paths = append(paths, filepath.Join(baseDir, ns, "nodes", class, file))
	} else {
		paths = append(paths, filepath.Join(baseDir, ns, "nodes", class, file))
		if name != class {
			paths = append(paths, filepath.Join(baseDir, ns, "nodes", name, file))
		}
	}

	for _, root := range searchRoots {
		paths = append(paths, filepath.Join(root, class, file))
		if name != class {
			paths = append(paths, filepath.Join(root, name, file))
		}
	}
	return paths
}
