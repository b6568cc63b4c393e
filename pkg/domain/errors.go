package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialNotFound is returned when a credential ID cannot be
// found in the backing source.
var ErrCredentialNotFound = errors.New("credential not found")

// ModuleNotFoundError is returned when no candidate path yields a
// loadable definition module. Paths holds every location tried, in
// order; Cause is the failure from the last attempt.
type ModuleNotFoundError struct {
	Paths []string
	Cause error
}

func (e *ModuleNotFoundError) Error() string {
	msg := fmt.Sprintf("definition module not found in any of %d locations: %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Cause)
	}
	return msg
}

func (e *ModuleNotFoundError) Unwrap() error { return e.Cause }

// ClassNotFoundError is returned when a module loads but exposes no
// usable export for the requested class.
type ClassNotFoundError struct {
	Path   string // module that was searched
	Symbol string // export name that was expected
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("export %q not found in %s", e.Symbol, e.Path)
}

// NodeLoadError wraps a failure while instantiating or decoding a node
// type that was otherwise located successfully.
type NodeLoadError struct {
	Identifier string
	Cause      error
}

func (e *NodeLoadError) Error() string {
	return fmt.Sprintf("loading node type %q: %v", e.Identifier, e.Cause)
}

func (e *NodeLoadError) Unwrap() error { return e.Cause }

// NotLoadedError is returned by lookups that require a prior load.
type NotLoadedError struct {
	Identifier string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("node type %q is not loaded", e.Identifier)
}

// UnknownCredentialTypeError is returned when a credential type is
// neither loaded, known, nor discoverable.
type UnknownCredentialTypeError struct {
	Type string
}

func (e *UnknownCredentialTypeError) Error() string {
	return fmt.Sprintf("unknown credential type %q", e.Type)
}

// CircularReferenceError is returned when a credential inheritance walk
// revisits a type. Type names the credential whose traversal started.
type CircularReferenceError struct {
	Type string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular extends chain detected while resolving credential type %q", e.Type)
}

// MissingIDError is returned when a credential reference carries no ID,
// before any storage lookup happens.
type MissingIDError struct {
	Name string
	Type string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("credential %q of type %q has no id", e.Name, e.Type)
}
