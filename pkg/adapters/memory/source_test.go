package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/scion/pkg/adapters/memory"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/ports"
)

func TestSourceContract(t *testing.T) {
	ports.RunCredentialSourceContract(t, memory.NewSource())
}

func TestTypeMismatchIsNotFound(t *testing.T) {
	ctx := context.Background()
	source := memory.NewSource()

	record := &domain.CredentialRecord{ID: "cred-1", Name: "Slack", Type: "slackApi", Data: []byte("blob")}
	if err := source.PutCredentialData(ctx, record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := source.GetCredentialData(ctx, "cred-1", "githubApi"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Errorf("Expected ErrCredentialNotFound for mismatched type, got %v", err)
	}

	// An empty requested type matches any stored type.
	if _, err := source.GetCredentialData(ctx, "cred-1", ""); err != nil {
		t.Errorf("Expected untyped lookup to succeed, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	source := memory.NewSource()

	record := &domain.CredentialRecord{ID: "cred-1", Type: "apiKey", Data: []byte("blob")}
	if err := source.PutCredentialData(ctx, record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := source.Delete(ctx, "cred-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := source.GetCredentialData(ctx, "cred-1", "apiKey"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Errorf("Expected ErrCredentialNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := source.Delete(ctx, "cred-1"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	source := memory.NewSource()

	for _, id := range []string{"a", "b", "c"} {
		record := &domain.CredentialRecord{ID: id, Type: "apiKey", Data: []byte(id)}
		if err := source.PutCredentialData(ctx, record); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	ids, err := source.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 ids, got %d: %v", len(ids), ids)
	}
}
