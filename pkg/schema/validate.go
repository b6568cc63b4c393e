package schema

// Schema is a map of field names to their expected types.
// Example: {"api_key": String(), "retries": Int(), "scopes": Slice(String())}
type Schema map[string]Type

// Validate checks if data conforms to the schema. Every schema field
// must be present and well-typed. Returns an error collecting all
// failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for fieldName, fieldType := range schema {
		value, exists := data[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Missing fields are treated as an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		// No fields to validate
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
				Value:  nil,
			})
			continue
		}

		value, fieldExists := data[fieldName]
		if !fieldExists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// ValidateData checks data against a property list: required properties
// must be present, and every present declared field must match its
// type. Extra fields pass through unchecked. Use this for user-supplied
// payloads where optional fields may simply be absent.
func ValidateData(props []Property, data map[string]any) error {
	fieldSchema := FromProperties(props)

	var errs []error
	var present []string

	for _, p := range props {
		if _, ok := data[p.Name]; ok {
			present = append(present, p.Name)
			continue
		}
		if p.Required {
			errs = append(errs, &ValidationError{
				Key:    p.Name,
				Reason: "required",
				Value:  nil,
			})
		}
	}

	if err := ValidateFields(fieldSchema, data, present...); err != nil {
		errs = append(errs, ValidationErrors(err)...)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
