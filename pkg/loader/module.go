package loader

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// DefaultExportName is the conventional constructor name a definition
// module exposes when it does not name its class explicitly.
const DefaultExportName = "New"

// Module is a handle over one evaluated definition file. Exported
// package-level symbols of its main package are addressable by name.
type Module struct {
	path    string
	eval    func(string) (reflect.Value, bool)
	exports map[string]reflect.Value
}

// Path returns the file the module was loaded from.
func (m *Module) Path() string { return m.path }

// Export returns the exported symbol with the exact given name.
func (m *Module) Export(name string) (reflect.Value, bool) {
	if v, ok := m.exports[name]; ok {
		return v, true
	}
	// Files using a package name other than main don't surface through
	// the main export table; probe the interpreter directly.
	if m.eval != nil {
		if v, ok := m.eval(name); ok {
			m.exports[name] = v
			return v, true
		}
	}
	return reflect.Value{}, false
}

// Default returns the module's conventional constructor export.
func (m *Module) Default() (reflect.Value, bool) {
	return m.Export(DefaultExportName)
}

// ExportFold returns the first export matching name case-insensitively,
// scanning in sorted name order so collisions resolve deterministically.
func (m *Module) ExportFold(name string) (reflect.Value, bool) {
	for _, candidate := range m.ExportNames() {
		if strings.EqualFold(candidate, name) {
			return m.exports[candidate], true
		}
	}
	return reflect.Value{}, false
}

// ExportNames lists the module's exported symbols, sorted.
func (m *Module) ExportNames() []string {
	names := make([]string, 0, len(m.exports))
	for name := range m.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a zero-argument constructor export and normalizes its
// result. Constructors return map[string]any, optionally with a
// trailing error.
func Call(fn reflect.Value) (map[string]any, error) {
	if !fn.IsValid() {
		return nil, fmt.Errorf("export is not usable")
	}
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("export is not a function")
	}
	if fn.Type().NumIn() != 0 {
		return nil, fmt.Errorf("constructor must take no arguments")
	}

	results := fn.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("constructor must return (map[string]any[, error])")
	}
	if len(results) == 2 {
		if !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok && e != nil {
				return nil, e
			}
			return nil, fmt.Errorf("constructor returned a non-error second value")
		}
	}

	raw := results[0]
	if m, ok := raw.Interface().(map[string]any); ok {
		return m, nil
	}
	if raw.Kind() == reflect.Map {
		result := make(map[string]any, raw.Len())
		iter := raw.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				return nil, fmt.Errorf("constructor returned a map with non-string keys")
			}
			result[key] = iter.Value().Interface()
		}
		return result, nil
	}
	return nil, fmt.Errorf("constructor must return map[string]any, got %s", raw.Kind())
}
