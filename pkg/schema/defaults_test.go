package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	props := []Property{
		{Name: "host", Type: "string", Default: "localhost"},
		{Name: "port", Type: "number", Default: 6379},
		{Name: "token", Type: "string", Required: true},
		{Name: "mode", Type: "string"},
	}

	t.Run("fills absent defaults", func(t *testing.T) {
		out, err := ApplyDefaults(props, map[string]any{"token": "t"})
		require.NoError(t, err)

		assert.Equal(t, "localhost", out["host"])
		assert.Equal(t, 6379, out["port"])
		assert.Equal(t, "t", out["token"])
		_, ok := out["mode"]
		assert.False(t, ok, "properties without defaults stay absent")
	})

	t.Run("present values win over defaults", func(t *testing.T) {
		out, err := ApplyDefaults(props, map[string]any{"host": "db.internal", "token": "t"})
		require.NoError(t, err)
		assert.Equal(t, "db.internal", out["host"])
	})

	t.Run("missing required is not an error here", func(t *testing.T) {
		out, err := ApplyDefaults(props, map[string]any{})
		require.NoError(t, err)
		_, ok := out["token"]
		assert.False(t, ok)
	})

	t.Run("extra fields survive", func(t *testing.T) {
		out, err := ApplyDefaults(props, map[string]any{"token": "t", "oauthTokenData": map[string]any{"a": 1}})
		require.NoError(t, err)
		assert.Contains(t, out, "oauthTokenData")
	})

	t.Run("mistyped present field fails with the schema error", func(t *testing.T) {
		_, err := ApplyDefaults(props, map[string]any{"port": "not a number"})
		require.Error(t, err)

		errs := ValidationErrors(err)
		require.Len(t, errs, 1)
		validErr := errs[0].(*ValidationError)
		assert.Equal(t, "port", validErr.Key)
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		in := map[string]any{"token": "t"}
		_, err := ApplyDefaults(props, in)
		require.NoError(t, err)
		assert.Len(t, in, 1)
	})

	t.Run("nil data", func(t *testing.T) {
		out, err := ApplyDefaults(props, nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", out["host"])
	})
}
