// Package redis provides a Redis-backed credential source for
// deployments where workers share credential state.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/ports"
)

// Source implements a credential source on Redis. Records are stored
// as JSON under prefixed keys.
type Source struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Source)

// WithPrefix sets the key prefix for credential records.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiration on stored records. Zero means records
// never expire.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// New creates a Redis credential source with options.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis credential source from an existing
// client.
func NewFromClient(client *backend.Client, opts ...Option) *Source {
	source := &Source{
		client: client,
		prefix: "scion:credential:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(source)
	}

	return source
}

var (
	_ ports.CredentialSource = (*Source)(nil)
	_ ports.CredentialWriter = (*Source)(nil)
)

func (s *Source) key(id string) string {
	return s.prefix + id
}

// GetCredentialData retrieves a record. A record stored under a
// different type than requested counts as not found.
func (s *Source) GetCredentialData(ctx context.Context, id, credType string) (*domain.CredentialRecord, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var record domain.CredentialRecord
	if err := json.Unmarshal(val, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential record: %w", err)
	}
	if credType != "" && record.Type != credType {
		return nil, domain.ErrCredentialNotFound
	}

	return &record, nil
}

// PutCredentialData stores a record, replacing any previous record
// under the same id.
func (s *Source) PutCredentialData(ctx context.Context, record *domain.CredentialRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal credential record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(record.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes a record.
func (s *Source) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// List returns the ids of all stored records by scanning the key
// prefix.
func (s *Source) List(ctx context.Context) ([]string, error) {
	var ids []string

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	return ids, nil
}

// Close closes the redis client.
func (s *Source) Close() error {
	return s.client.Close()
}
