// Package expr evaluates inline template expressions embedded in
// credential values.
package expr

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/scion/pkg/ports"
)

// TemplateEvaluator renders expressions with text/template. The object
// under resolution is the template's data, so a value can reference
// sibling fields: "{{ .user }}@{{ .host }}".
type TemplateEvaluator struct {
	funcs template.FuncMap
}

// Option configures a TemplateEvaluator.
type Option func(*TemplateEvaluator)

// WithFuncs adds functions callable from expressions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *TemplateEvaluator) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// New creates a template evaluator.
func New(opts ...Option) *TemplateEvaluator {
	e := &TemplateEvaluator{funcs: template.FuncMap{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Evaluator = (*TemplateEvaluator)(nil)

// Evaluate renders a single expression. Referencing a field the data
// does not contain is an error, not silent empty output.
func (e *TemplateEvaluator) Evaluate(ctx context.Context, expression string, data map[string]any) (any, error) {
	tmpl, err := template.New("expr").Option("missingkey=error").Funcs(e.funcs).Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parsing expression %q: %w", expression, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("evaluating expression %q: %w", expression, err)
	}
	return buf.String(), nil
}
