package ports

import "context"

// Evaluator resolves one embedded expression against a data object.
// Implementations decide the expression syntax; callers only promise
// that expression came from a credential field and that data is the
// full object the field belongs to.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
