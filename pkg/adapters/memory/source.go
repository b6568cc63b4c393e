// Package memory provides an in-memory credential source, mainly for
// tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/ports"
)

// Source stores credential records in memory.
// Safe for concurrent use.
type Source struct {
	mu      sync.RWMutex
	records map[string]*domain.CredentialRecord
}

// NewSource creates an empty in-memory credential source.
func NewSource() *Source {
	return &Source{
		records: make(map[string]*domain.CredentialRecord),
	}
}

var (
	_ ports.CredentialSource = (*Source)(nil)
	_ ports.CredentialWriter = (*Source)(nil)
)

// GetCredentialData returns the record stored under id. A record of a
// different type than requested counts as not found.
func (s *Source) GetCredentialData(ctx context.Context, id, credType string) (*domain.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	if credType != "" && record.Type != credType {
		return nil, domain.ErrCredentialNotFound
	}

	return copyRecord(record), nil
}

// PutCredentialData stores a record, replacing any previous record
// under the same id.
func (s *Source) PutCredentialData(ctx context.Context, record *domain.CredentialRecord) error {
	stored := copyRecord(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[stored.ID] = stored
	return nil
}

// Delete removes a record. Deleting an unknown id is not an error.
func (s *Source) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// List returns the ids of all stored records.
func (s *Source) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// copyRecord isolates stored records from caller mutation.
func copyRecord(record *domain.CredentialRecord) *domain.CredentialRecord {
	copied := *record
	copied.Data = make([]byte, len(record.Data))
	copy(copied.Data, record.Data)
	return &copied
}
