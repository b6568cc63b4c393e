package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scion/pkg/domain"
)

// RunCredentialSourceContract runs a suite of tests to verify that a
// CredentialSource implementation adheres to the interface contract.
// Sources that also implement CredentialWriter get their write side
// verified too.
func RunCredentialSourceContract(t *testing.T, source CredentialSource) {
	ctx := context.Background()
	id := "contract-test-credential-" + time.Now().Format("20060102150405")

	writer, writable := source.(CredentialWriter)

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := source.GetCredentialData(ctx, "non-existent-"+id, "apiKey")
		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})

	if !writable {
		t.Logf("source %T is read-only, skipping write contract", source)
		return
	}

	t.Run("Put and Get", func(t *testing.T) {
		record := &domain.CredentialRecord{
			ID:   id,
			Name: "Contract Credential",
			Type: "apiKey",
			Data: []byte("sealed-payload"),
		}

		err := writer.PutCredentialData(ctx, record)
		require.NoError(t, err, "Put should not return error")

		loaded, err := source.GetCredentialData(ctx, id, "apiKey")
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, record.ID, loaded.ID)
		assert.Equal(t, record.Name, loaded.Name)
		assert.Equal(t, record.Type, loaded.Type)
		assert.Equal(t, record.Data, loaded.Data)
	})

	t.Run("Put Replaces", func(t *testing.T) {
		first := &domain.CredentialRecord{ID: id, Name: "v1", Type: "apiKey", Data: []byte("one")}
		second := &domain.CredentialRecord{ID: id, Name: "v2", Type: "apiKey", Data: []byte("two")}

		require.NoError(t, writer.PutCredentialData(ctx, first))
		require.NoError(t, writer.PutCredentialData(ctx, second))

		loaded, err := source.GetCredentialData(ctx, id, "apiKey")
		require.NoError(t, err)
		assert.Equal(t, "v2", loaded.Name)
		assert.Equal(t, []byte("two"), loaded.Data)
	})

	t.Run("Records Do Not Alias", func(t *testing.T) {
		record := &domain.CredentialRecord{ID: id + "-alias", Name: "Alias", Type: "apiKey", Data: []byte("original")}
		require.NoError(t, writer.PutCredentialData(ctx, record))

		loaded, err := source.GetCredentialData(ctx, record.ID, "apiKey")
		require.NoError(t, err)
		loaded.Data[0] = 'X'

		reloaded, err := source.GetCredentialData(ctx, record.ID, "apiKey")
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), reloaded.Data, "mutating a returned record must not affect the store")
	})
}
