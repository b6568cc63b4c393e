/*
Package ports defines the interfaces at the edges of the resolver.

Driven ports decouple the registries and the materializer from external
implementations, allowing them to work with various module loaders,
credential stores, ciphers and expression engines. Driving ports are
the surface a workflow engine consumes.

# Driven Interfaces

  - ModuleLocator: Locates and evaluates definition modules on disk.
  - CredentialSource: Fetches stored, still-encrypted credential records.
  - CredentialWriter: Optional write side of a source.
  - Cipher: Turns credential payloads into encrypted records and back.
  - Evaluator: Resolves embedded expressions against credential data.
  - OverwritePolicy: Deployment-level substitution of credential fields.

# Driving Interfaces

  - NodeTypeProvider: What an engine needs to resolve node types.
  - CredentialHelper: What an engine needs to materialize credentials.
*/
package ports
