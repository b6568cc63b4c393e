/*
Package domain contains the core domain models for the Scion resolver.

It defines the entities shared by the node-type and credential-type
registries and the credential materialization pipeline. This package is
kept free of I/O and persistence concerns, following Hexagonal
Architecture principles; the only dependency is the property schema
value types.

# Key Entities

  - NodeKind: A resolved node type, concrete or versioned, able to pick
    a concrete version of itself.
  - NodeDescription: The declarative surface of a node type (identity,
    ports, credential uses, property schema).
  - CredentialType: A credential descriptor, including its inheritance
    chain and property schema.
  - CredentialReference / CredentialRecord: The workflow-side pointer to
    a stored credential and its encrypted stored form.
  - WorkflowNode: The minimal node shape a workflow hands to the
    registries for preloading.
*/
package domain
