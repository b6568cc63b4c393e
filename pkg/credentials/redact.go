package credentials

import (
	"regexp"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
)

// RedactedValue replaces sensitive values in redacted credential data.
const RedactedValue = "***"

// Redactor strips secret material from decrypted credential data before
// it leaves the process, e.g. when an API echoes a stored record back
// to a user.
//
// A value is masked when its property is declared with type "hidden",
// when its key holds issued OAuth tokens, or when its key matches one
// of the configured patterns. Pattern matching recurses into nested
// maps; property-driven masking applies to top-level fields only,
// which is where declared properties live.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the given key patterns. A zero-pattern redactor
// still masks hidden properties and OAuth token data. Invalid patterns
// panic, matching regexp.MustCompile.
func NewRedactor(patterns ...string) *Redactor {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return &Redactor{patterns: compiled}
}

// Redact returns a masked copy of data. The input map is not modified.
func (r *Redactor) Redact(props []schema.Property, data map[string]any) map[string]any {
	hidden := map[string]struct{}{domain.OAuthTokenDataKey: {}}
	for _, p := range props {
		if p.Type == "hidden" {
			hidden[p.Name] = struct{}{}
		}
	}

	out := copyTree(data)
	for k := range out {
		if _, ok := hidden[k]; ok {
			out[k] = RedactedValue
		}
	}
	maskMatchingKeys(out, r.patterns)
	return out
}

func copyTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = copyTree(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMatchingKeys(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = RedactedValue
				masked = true
				break
			}
		}
		if masked {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			maskMatchingKeys(sub, patterns)
		}
	}
}
