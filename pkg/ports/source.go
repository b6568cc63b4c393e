package ports

import (
	"context"
	"errors"

	"github.com/aretw0/scion/pkg/domain"
)

// ErrReadOnlySource is returned by write operations on sources that
// cannot persist records.
var ErrReadOnlySource = errors.New("credential source is read-only")

// CredentialSource fetches stored credential records. Records come back
// still encrypted; decryption is the cipher's job.
type CredentialSource interface {
	// GetCredentialData retrieves the record with the given ID.
	// Returns domain.ErrCredentialNotFound if no such record exists.
	// credType is advisory: sources that index by type may use it to
	// scope the lookup.
	GetCredentialData(ctx context.Context, id, credType string) (*domain.CredentialRecord, error)
}

// CredentialWriter is the optional write side of a credential source.
// Sources that support persistence implement it alongside
// CredentialSource.
type CredentialWriter interface {
	// PutCredentialData stores a record, replacing any record with the
	// same ID.
	PutCredentialData(ctx context.Context, record *domain.CredentialRecord) error
}
