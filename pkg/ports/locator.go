package ports

import "github.com/aretw0/scion/pkg/loader"

// ModuleLocator finds and evaluates definition modules.
type ModuleLocator interface {
	// Load evaluates the definition file at path.
	Load(path string) (*loader.Module, error)

	// LoadFromCandidates tries each path strictly in order and returns
	// the first module that loads. The returned error must report every
	// attempted path when all of them fail.
	LoadFromCandidates(paths []string) (*loader.Module, error)
}
