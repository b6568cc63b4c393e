// Package schema provides the property schema system for node and
// credential descriptors.
//
// It defines a simple type system with built-in kinds (string, number,
// boolean, json, hidden, options, plus the int/float scalars) and
// support for slices and custom validators. Schemas map field names to
// types, enabling runtime validation of user-supplied data.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "api_key": schema.String(),
//	    "retries": schema.Int(),
//	    "scopes":  schema.Slice(schema.String()),
//	}
//
//	data := map[string]any{
//	    "api_key": "secret123",
//	    "retries": 3,
//	    "scopes":  []string{"read", "write"},
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    // Handle validation errors
//	}
//
// Descriptors declare ordered Property lists rather than bare maps.
// Property lists merge across inheritance chains (MergeProperties),
// produce field schemas (FromProperties), fill declared defaults
// (ApplyDefaults) and check user payloads (ValidateData):
//
//	props := []schema.Property{
//	    {Name: "host", Type: "string", Default: "localhost"},
//	    {Name: "port", Type: "number", Default: 6379},
//	    {Name: "token", Type: "string", Required: true},
//	}
//
//	filled, err := schema.ApplyDefaults(props, map[string]any{"token": "t"})
//
// Custom validators can be registered for domain-specific validation:
//
//	positiveInt := schema.Custom("positive_int", func(v any) error {
//	    i, ok := v.(int)
//	    if !ok {
//	        return fmt.Errorf("expected int")
//	    }
//	    if i <= 0 {
//	        return fmt.Errorf("must be positive")
//	    }
//	    return nil
//	})
//
// This package is designed to be library-agnostic, with zero external
// dependencies beyond the Go standard library.
package schema
