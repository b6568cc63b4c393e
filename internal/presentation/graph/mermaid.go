package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/scion/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of credential
// inheritance from a known-type index. Each type becomes a node and
// each extends entry an edge toward the parent.
// It applies semantic styling:
// - The highlighted type (usually the one queried): ((Circle))
// - Types with supported nodes: [[Subroutine]]
// - Default: [Rectangle]
func GenerateMermaid(known map[string]domain.KnownCredential, highlight string) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Deterministic output regardless of map order.
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := known[name]
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == highlight:
			opener, closer = "((", "))" // Circle
		case len(entry.SupportedNodes) > 0:
			opener, closer = "[[", "]]" // Subroutine
		}

		label := name
		if n := len(entry.SupportedNodes); n > 0 {
			label = fmt.Sprintf("%s <br/> %d node(s)", name, n)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, parent := range entry.Extends {
			safeParent := sanitizeMermaidID(parent)
			arrow := "-- \"extends\" -->"
			if _, ok := known[parent]; !ok {
				// Unresolvable parent, drawn as a dangling reference.
				arrow = "-. \"extends\" .->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeParent))
		}
	}

	if highlight != "" {
		sb.WriteString("\n    %% Highlight Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme.
		sb.WriteString("    classDef queried fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s queried;\n", sanitizeMermaidID(highlight)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
