package schema

import "fmt"

// Option is one admissible value of an "options" property.
type Option struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Value any    `json:"value" yaml:"value" mapstructure:"value"`
}

// Property describes one field of a node or credential schema.
type Property struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty" mapstructure:"displayName"`

	// Type is a ParseType-compatible kind name. Empty means free-form.
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`

	Default     any      `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
}

// TypeOf resolves the property's validator. Properties without a type
// and properties with an unparseable type validate as free-form; option
// properties validate membership in the declared option list.
func (p Property) TypeOf() Type {
	if p.Type == "options" && len(p.Options) > 0 {
		allowed := make([]any, len(p.Options))
		for i, o := range p.Options {
			allowed[i] = o.Value
		}
		return Custom("options", func(value any) error {
			for _, v := range allowed {
				if v == value {
					return nil
				}
			}
			return fmt.Errorf("value %v is not one of the declared options", value)
		})
	}
	if p.Type == "" {
		return JSON()
	}
	t, err := ParseType(p.Type)
	if err != nil {
		return JSON()
	}
	return t
}

// MergeProperties lays overrides over base. A property whose name is
// already present replaces the original at its original position; new
// names append in order. Neither input slice is modified.
func MergeProperties(base, overrides []Property) []Property {
	merged := make([]Property, len(base), len(base)+len(overrides))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.Name] = i
	}

	for _, p := range overrides {
		if i, ok := index[p.Name]; ok {
			merged[i] = p
			continue
		}
		index[p.Name] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// FromProperties builds a field Schema out of a property list. Later
// same-named properties win, mirroring MergeProperties.
func FromProperties(props []Property) Schema {
	s := make(Schema, len(props))
	for _, p := range props {
		s[p.Name] = p.TypeOf()
	}
	return s
}
