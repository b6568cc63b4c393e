package credentials

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/expr"
	"github.com/aretw0/scion/pkg/ports"
	"github.com/aretw0/scion/pkg/schema"
)

// Materializer turns stored credential references into ready-to-use
// data: fetch, decrypt, overwrite, default, resolve expressions.
type Materializer struct {
	registry  *Registry
	source    ports.CredentialSource
	cipher    ports.Cipher
	overwrite ports.OverwritePolicy
	evaluator ports.Evaluator
	logger    *slog.Logger
}

// MaterializerOption configures a Materializer.
type MaterializerOption func(*Materializer)

// WithEvaluator sets the expression evaluator.
func WithEvaluator(evaluator ports.Evaluator) MaterializerOption {
	return func(m *Materializer) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

// WithOverwrites sets the overwrite policy applied before defaulting.
func WithOverwrites(policy ports.OverwritePolicy) MaterializerOption {
	return func(m *Materializer) {
		if policy != nil {
			m.overwrite = policy
		}
	}
}

// WithMaterializerLogger sets the materializer's logger.
func WithMaterializerLogger(logger *slog.Logger) MaterializerOption {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMaterializer wires a materializer over a type registry, a
// credential source and a cipher. Without options it applies no
// overwrites and evaluates expressions with the template evaluator.
func NewMaterializer(registry *Registry, source ports.CredentialSource, cipher ports.Cipher, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		registry:  registry,
		source:    source,
		cipher:    cipher,
		overwrite: Identity{},
		evaluator: expr.New(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ ports.CredentialHelper = (*Materializer)(nil)

// GetParentTypes exposes the registry's inheritance walk.
func (m *Materializer) GetParentTypes(credType string) ([]string, error) {
	return m.registry.GetParentTypes(credType)
}

// GetCredentials fetches the stored record behind a reference. A
// reference without an ID never reaches the source.
func (m *Materializer) GetCredentials(ctx context.Context, ref domain.CredentialReference, credType string) (*domain.CredentialRecord, error) {
	if ref.ID == "" {
		return nil, &domain.MissingIDError{Name: ref.Name, Type: credType}
	}
	return m.source.GetCredentialData(ctx, ref.ID, credType)
}

// GetCredentialsProperties returns the merged property schema of a
// credential type. Parents contribute first, in declaration order, and
// the type's own properties override by name. A generic OAuth type
// used without parents gets the token payload property appended.
func (m *Materializer) GetCredentialsProperties(credType string) ([]schema.Property, error) {
	visited := make(map[string]bool)
	return m.propertiesOf(credType, credType, visited)
}

func (m *Materializer) propertiesOf(credType, start string, visited map[string]bool) ([]schema.Property, error) {
	if visited[credType] {
		return nil, &domain.CircularReferenceError{Type: start}
	}
	visited[credType] = true

	ct, err := m.registry.GetByName(credType)
	if err != nil {
		return nil, err
	}

	if len(ct.Extends) == 0 {
		props := slices.Clone(ct.Properties)
		if credType == domain.CredentialTypeOAuth1 || credType == domain.CredentialTypeOAuth2 {
			props = append(props, schema.Property{
				Name:        domain.OAuthTokenDataKey,
				DisplayName: "OAuth Token Data",
				Type:        "json",
			})
		}
		return props, nil
	}

	var merged []schema.Property
	for _, parent := range ct.Extends {
		parentProps, err := m.propertiesOf(parent, start, visited)
		if err != nil {
			return nil, err
		}
		merged = schema.MergeProperties(merged, parentProps)
	}
	return schema.MergeProperties(merged, ct.Properties), nil
}

// GetDecrypted materializes a credential. With opts.Raw the decrypted
// payload returns verbatim; otherwise overwrites, schema defaults and
// expression resolution run in that order. The stored OAuth token
// payload, when present, always survives from the original data.
func (m *Materializer) GetDecrypted(ctx context.Context, ref domain.CredentialReference, credType string, mode domain.ExecutionMode, opts domain.DecryptOptions) (map[string]any, error) {
	record, err := m.GetCredentials(ctx, ref, credType)
	if err != nil {
		return nil, err
	}

	decrypted, err := m.cipher.Decrypt(record.Data)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("materializing credential",
		"type", credType, "id", ref.ID, "mode", mode, "raw", opts.Raw)

	if opts.Raw {
		return decrypted, nil
	}
	return m.applyDefaultsAndOverwrites(ctx, credType, decrypted)
}

func (m *Materializer) applyDefaultsAndOverwrites(ctx context.Context, credType string, decrypted map[string]any) (map[string]any, error) {
	applied := m.overwrite.Apply(credType, decrypted)

	props, err := m.GetCredentialsProperties(credType)
	if err != nil {
		return nil, err
	}

	filled, err := schema.ApplyDefaults(props, applied)
	if err != nil {
		return nil, err
	}

	// Issued tokens bypass overwrites and defaulting entirely.
	if token, ok := decrypted[domain.OAuthTokenDataKey]; ok {
		filled[domain.OAuthTokenDataKey] = token
	}

	return m.resolveExpressions(ctx, filled)
}

// resolveExpressions walks the materialized object and evaluates every
// string containing an expression marker against the object itself.
func (m *Materializer) resolveExpressions(ctx context.Context, data map[string]any) (map[string]any, error) {
	resolved, err := m.resolveValue(ctx, data, data)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

func (m *Materializer) resolveValue(ctx context.Context, value any, root map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		if !strings.Contains(v, "{{") {
			return v, nil
		}
		return m.evaluator.Evaluate(ctx, v, root)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			resolved, err := m.resolveValue(ctx, item, root)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := m.resolveValue(ctx, item, root)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

// Authenticate injects resolved credential values into request
// headers. The generic scheme bearer-injects the first token-like
// field; an existing Authorization header is left alone.
func (m *Materializer) Authenticate(ctx context.Context, credType string, data map[string]any, headers map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	if _, ok := out["Authorization"]; ok {
		return out, nil
	}

	for _, key := range []string{"accessToken", "apiKey", "token"} {
		token, ok := data[key].(string)
		if !ok || token == "" {
			continue
		}
		out["Authorization"] = "Bearer " + token
		m.logger.Debug("credential authentication applied", "type", credType, "field", key)
		break
	}
	return out, nil
}

// PreAuthentication completes credential data before first use. The
// generic pipeline has nothing to fetch, so data passes through.
func (m *Materializer) PreAuthentication(ctx context.Context, credType string, data map[string]any) (map[string]any, error) {
	return data, nil
}

// UpdateCredentials re-encrypts data and stores it under the
// reference. Sources without write support fail with
// ports.ErrReadOnlySource.
func (m *Materializer) UpdateCredentials(ctx context.Context, ref domain.CredentialReference, credType string, data map[string]any) error {
	if ref.ID == "" {
		return &domain.MissingIDError{Name: ref.Name, Type: credType}
	}

	writer, ok := m.source.(ports.CredentialWriter)
	if !ok {
		return ports.ErrReadOnlySource
	}

	blob, err := m.cipher.Encrypt(data)
	if err != nil {
		return err
	}

	record := &domain.CredentialRecord{
		ID:   ref.ID,
		Name: ref.Name,
		Type: credType,
		Data: blob,
	}
	if err := writer.PutCredentialData(ctx, record); err != nil {
		return err
	}

	m.logger.Debug("credential updated", "type", credType, "id", ref.ID)
	return nil
}

// UpdateCredentialsOAuthTokenData replaces the stored OAuth token
// payload while keeping every other stored field as it is.
func (m *Materializer) UpdateCredentialsOAuthTokenData(ctx context.Context, ref domain.CredentialReference, credType string, token map[string]any) error {
	record, err := m.GetCredentials(ctx, ref, credType)
	if err != nil {
		return err
	}

	decrypted, err := m.cipher.Decrypt(record.Data)
	if err != nil {
		return err
	}

	decrypted[domain.OAuthTokenDataKey] = token
	return m.UpdateCredentials(ctx, ref, credType, decrypted)
}
