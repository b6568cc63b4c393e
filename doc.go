/*
Package scion resolves workflow node types and materializes credentials
for workflow engines, loading both from single-file Go definition
modules evaluated at runtime.

It separates what a workflow references (type identifiers, credential
references) from how those things are produced (discovery on disk,
injected constructors, decryption pipelines), so an engine can stay
ignorant of where its node catalog actually lives.

# Concept

A node type identifier like "community.summarizer" names a class inside
a namespace. Scion maps the identifier to conventional file paths under
a base directory, evaluates the definition module it finds there with
an embedded interpreter, and registers the descriptor it exports.
Credential types resolve the same way, and materialize through a
pipeline of decryption, deployment overwrites, schema defaults and
expression resolution. This hexagonal layout allows every stage
(module locator, credential source, cipher, expression evaluator,
overwrite policy) to be swapped through an interface.

# Key Features

  - Lazy Loading: node and credential types load on first use, once,
    and stay cached for the process lifetime.
  - Versioned Types: a definition module may carry one descriptor or a
    container of versions with a default.
  - Credential Inheritance: credential types extend other types;
    schemas merge along the chain with cycle detection.
  - Pluggable Storage: credential records live behind a source port,
    with in-memory, file and Redis implementations included.
  - Key Rotation: the AES-GCM cipher accepts fallback passphrases so
    stored credentials survive key changes.

# Usage

Initialize a Resolver over a definition directory, load what a
workflow references, then materialize credentials on demand.

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/scion"
		"github.com/aretw0/scion/pkg/domain"
	)

	func main() {
		resolver, err := scion.New("./catalog",
			scion.WithEncryptionKey("my-secret-key"),
		)
		if err != nil {
			log.Fatal(err)
		}

		// Load every node type a workflow references.
		workflow := []domain.WorkflowNode{
			{Name: "Fetch", Type: "core.httpRequest", TypeVersion: 2},
			{Name: "Summarize", Type: "community.summarizer"},
		}
		if err := resolver.LoadNodesFromWorkflow(workflow); err != nil {
			log.Fatal(err)
		}

		nodeType, err := resolver.GetNodeTypeVersion("core.httpRequest", 2)
		if err != nil {
			log.Fatal(err)
		}
		log.Println("Loaded:", nodeType.Description.DisplayName)

		// Materialize a credential for execution.
		ref := domain.CredentialReference{ID: "cred-1", Name: "Service Account"}
		data, err := resolver.GetDecrypted(context.Background(), ref, "serviceApi",
			domain.ModeManual, domain.DecryptOptions{})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("Host:", data["host"])
	}
*/
package scion
