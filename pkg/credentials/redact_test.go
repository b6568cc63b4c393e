package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
)

func TestRedactMasksHiddenProperties(t *testing.T) {
	props := []schema.Property{
		{Name: "host", Type: "string"},
		{Name: "sessionToken", Type: "hidden"},
	}
	data := map[string]any{
		"host":         "api.example.com",
		"sessionToken": "tok-123",
	}

	out := NewRedactor().Redact(props, data)

	assert.Equal(t, "api.example.com", out["host"])
	assert.Equal(t, RedactedValue, out["sessionToken"])
	assert.Equal(t, "tok-123", data["sessionToken"], "input must stay untouched")
}

func TestRedactMasksOAuthTokenData(t *testing.T) {
	data := map[string]any{
		"clientId":               "abc",
		domain.OAuthTokenDataKey: map[string]any{"access_token": "tok"},
	}

	out := NewRedactor().Redact(nil, data)

	assert.Equal(t, RedactedValue, out[domain.OAuthTokenDataKey])
	assert.Equal(t, "abc", out["clientId"])
}

func TestRedactPatternKeysRecurse(t *testing.T) {
	data := map[string]any{
		"name": "prod",
		"connection": map[string]any{
			"host":     "db.internal",
			"password": "hunter2",
		},
	}

	out := NewRedactor("(?i)password|secret").Redact(nil, data)

	nested := out["connection"].(map[string]any)
	assert.Equal(t, RedactedValue, nested["password"])
	assert.Equal(t, "db.internal", nested["host"])

	original := data["connection"].(map[string]any)
	assert.Equal(t, "hunter2", original["password"], "input must stay untouched")
}
