package credentials

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/scion/pkg/ports"
)

// Identity is the overwrite policy that changes nothing.
type Identity struct{}

var _ ports.OverwritePolicy = Identity{}

// Apply returns data untouched.
func (Identity) Apply(credType string, data map[string]any) map[string]any {
	return data
}

// StaticOverwrites fills deployment-configured values into credential
// data. Only fields the stored data leaves absent or empty are filled;
// user-entered values always win.
type StaticOverwrites struct {
	byType map[string]map[string]any
}

var _ ports.OverwritePolicy = (*StaticOverwrites)(nil)

// NewStaticOverwrites builds a policy from a type-to-fields map.
func NewStaticOverwrites(byType map[string]map[string]any) *StaticOverwrites {
	return &StaticOverwrites{byType: byType}
}

// LoadStaticOverwrites reads a YAML overwrite file:
//
//	slackOAuth2Api:
//	  clientId: deployment-client
//	  clientSecret: deployment-secret
func LoadStaticOverwrites(path string) (*StaticOverwrites, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var byType map[string]map[string]any
	if err := yaml.Unmarshal(raw, &byType); err != nil {
		return nil, fmt.Errorf("parsing credential overwrites %s: %w", path, err)
	}
	return NewStaticOverwrites(byType), nil
}

// Apply fills configured fields into data. The input comes back by the
// same reference when nothing applies.
func (s *StaticOverwrites) Apply(credType string, data map[string]any) map[string]any {
	fields := s.byType[credType]
	if len(fields) == 0 {
		return data
	}

	var out map[string]any
	for key, value := range fields {
		if current, ok := data[key]; ok && !isEmpty(current) {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(data)+len(fields))
			for k, v := range data {
				out[k] = v
			}
		}
		out[key] = value
	}
	if out == nil {
		return data
	}
	return out
}

func isEmpty(value any) bool {
	return value == nil || value == ""
}
