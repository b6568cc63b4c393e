package schema

// ApplyDefaults returns a copy of data with the declared defaults
// filled in for absent fields and every present declared field
// validated against its property type. Fields not covered by any
// property pass through untouched.
//
// Missing required fields are not an error here; defaulting and
// requiredness are separate concerns (see Validate).
func ApplyDefaults(props []Property, data map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(data)+len(props))
	for k, v := range data {
		result[k] = v
	}

	fieldSchema := FromProperties(props)
	var present []string

	for _, p := range props {
		if _, ok := result[p.Name]; ok {
			present = append(present, p.Name)
			continue
		}
		if p.Default != nil {
			result[p.Name] = p.Default
		}
	}

	if err := ValidateFields(fieldSchema, result, present...); err != nil {
		return nil, err
	}
	return result, nil
}
