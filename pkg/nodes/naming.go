package nodes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune of s, leaving the rest
// untouched. Definition files name their class after the capitalized
// node name, so "httpRequest" resolves as "HttpRequest".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}

// Decapitalize lower-cases the first rune of s, leaving the rest
// untouched. It recovers the node name from a definition class, so
// "HttpRequest" maps back to "httpRequest".
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	lower := unicode.ToLower(r)
	if lower == r {
		return s
	}
	return string(lower) + s[size:]
}

// SplitIdentifier splits a node type identifier into its package
// namespace and node name. The split happens at the last dot, so
// namespaces may themselves be dotted ("acme.beta.fetch" names node
// "fetch" in namespace "acme.beta").
func SplitIdentifier(identifier string) (ns, name string, err error) {
	i := strings.LastIndex(identifier, ".")
	if i < 0 {
		return "", "", fmt.Errorf("invalid node type identifier %q: missing namespace", identifier)
	}
	ns, name = identifier[:i], identifier[i+1:]
	if ns == "" || name == "" {
		return "", "", fmt.Errorf("invalid node type identifier %q", identifier)
	}
	return ns, name, nil
}
