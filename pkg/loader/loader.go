// Package loader evaluates definition modules with an embedded Go
// interpreter and hands out their exports.
//
// A definition module is a single .go file, conventionally package
// main with no main function. Each Load builds a fresh interpreter, so
// modules never observe each other and there is no process-wide module
// cache; callers that want caching hold on to the returned handle.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/domain"
)

// Loader reads and interprets definition files from disk.
type Loader struct {
	root   string
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRoot anchors relative module paths at dir.
func WithRoot(dir string) Option {
	return func(l *Loader) {
		l.root = dir
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

// Load evaluates the definition file at path. Any failure to locate,
// read or interpret the file is reported as a module-not-found error
// carrying the attempted path.
func (l *Loader) Load(path string) (*Module, error) {
	resolved := l.resolve(path)

	mod, err := l.load(resolved)
	if err != nil {
		return nil, &domain.ModuleNotFoundError{Paths: []string{resolved}, Cause: err}
	}
	return mod, nil
}

// LoadFromCandidates tries each path strictly in order and returns the
// first module that loads. When every candidate fails, the error lists
// all attempted paths and carries the last failure as its cause.
func (l *Loader) LoadFromCandidates(paths []string) (*Module, error) {
	if len(paths) == 0 {
		return nil, &domain.ModuleNotFoundError{Cause: fmt.Errorf("no candidate paths")}
	}

	attempted := make([]string, 0, len(paths))
	var lastErr error
	for _, path := range paths {
		resolved := l.resolve(path)
		attempted = append(attempted, resolved)

		mod, err := l.load(resolved)
		if err == nil {
			return mod, nil
		}
		lastErr = err
		l.logger.Debug("candidate rejected", "path", resolved, "error", err)
	}
	return nil, &domain.ModuleNotFoundError{Paths: attempted, Cause: lastErr}
}

func (l *Loader) load(path string) (*Module, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("seeding interpreter: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("interpreting: %w", err)
	}

	exports := make(map[string]reflect.Value)
	for name, value := range i.Symbols("main")["main"] {
		exports[name] = value
	}

	l.logger.Debug("module loaded", "path", path, "exports", len(exports))

	return &Module{
		path:    path,
		exports: exports,
		eval: func(name string) (reflect.Value, bool) {
			v, err := i.Eval(name)
			if err != nil || !v.IsValid() {
				return reflect.Value{}, false
			}
			return v, true
		},
	}, nil
}
