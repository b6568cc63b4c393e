// Package file provides a filesystem-backed credential source. Records
// are stored as one JSON file per credential under a base directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/ports"
)

// Source implements ports.CredentialSource on the local filesystem.
// Payloads stay encrypted on disk; the source never sees plaintext.
type Source struct {
	BasePath string
}

// New creates a new Source with the given base path.
// If basePath is empty, it defaults to ".scion/credentials".
func New(basePath string) *Source {
	if basePath == "" {
		basePath = filepath.Join(".scion", "credentials")
	}
	return &Source{BasePath: basePath}
}

var (
	_ ports.CredentialSource = (*Source)(nil)
	_ ports.CredentialWriter = (*Source)(nil)
)

// GetCredentialData reads the record stored under id. A record of a
// different type than requested counts as not found.
func (s *Source) GetCredentialData(ctx context.Context, id, credType string) (*domain.CredentialRecord, error) {
	path, err := s.recordPath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var record domain.CredentialRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential record: %w", err)
	}
	if credType != "" && record.Type != credType {
		return nil, domain.ErrCredentialNotFound
	}

	return &record, nil
}

// PutCredentialData persists a record atomically. It writes to a
// temporary file, syncs via fsync, and then renames it over the
// destination.
func (s *Source) PutCredentialData(ctx context.Context, record *domain.CredentialRecord) error {
	destPath, err := s.recordPath(record.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure credential directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential record: %w", err)
	}

	// Same directory as the destination, so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+record.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if the destination exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing credential file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Delete removes the record file. Deleting an unknown id is not an
// error.
func (s *Source) Delete(ctx context.Context, id string) error {
	path, err := s.recordPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// List returns the ids of all stored records.
func (s *Source) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list credential records: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, name[:len(name)-len(".json")])
	}
	return ids, nil
}

// recordPath validates the id and maps it to its file. Separators are
// rejected so ids cannot point outside the base directory.
func (s *Source) recordPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("credential id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("credential id %q must not contain path separators", id)
	}
	return filepath.Join(s.BasePath, id+".json"), nil
}
