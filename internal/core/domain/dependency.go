// Package domain contains the core domain models for shared dependencies, their build
// chunks and the import map that binds them together.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SharedDependency is a shared dependency as declared in the configuration.
type SharedDependency struct {
	// Name is the bare import specifier consumers use.
	Name string
	// Entry is a local path ("./src/react.ts") or a package specifier ("react").
	Entry string
	// Integrity is the per-entry integrity mode. Only meaningful when IntegritySet is true.
	Integrity IntegrityMode
	// IntegritySet reports whether the declaration carried an explicit integrity value.
	IntegritySet bool
}

// Bare returns a declaration for a bare string entry, where the name doubles as the entry.
func Bare(name string) SharedDependency {
	return SharedDependency{Name: name, Entry: name}
}

// NormalizedDependency is a shared dependency after normalization.
type NormalizedDependency struct {
	Name      string
	Entry     string
	LocalFile bool
	Integrity IntegrityMode
}

// IsLocalEntry reports whether entry points at a file relative to the project root.
func IsLocalEntry(entry string) bool {
	return strings.HasPrefix(entry, "./") || strings.HasPrefix(entry, "../")
}

// Normalize turns declarations into normalized inputs, one per declaration and in the same order.
// Declarations without an explicit integrity mode fall back to defaultIntegrity.
func Normalize(decls []SharedDependency, defaultIntegrity IntegrityMode) ([]NormalizedDependency, error) {
	out := make([]NormalizedDependency, 0, len(decls))
	for i, decl := range decls {
		if err := decl.Validate(); err != nil {
			return nil, zerr.With(err, "index", i)
		}

		integrity := defaultIntegrity
		if decl.IntegritySet {
			integrity = decl.Integrity
		}

		out = append(out, NormalizedDependency{
			Name:      decl.Name,
			Entry:     decl.Entry,
			LocalFile: IsLocalEntry(decl.Entry),
			Integrity: integrity,
		})
	}
	return out, nil
}

// Validate checks the declaration for configuration errors.
func (d SharedDependency) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return zerr.With(ErrInvalidSharedDependency, "reason", "missing name")
	}
	if strings.TrimSpace(d.Entry) == "" {
		return zerr.With(zerr.With(ErrInvalidSharedDependency, "reason", "missing entry"), "name", d.Name)
	}
	if d.IntegritySet && !d.Integrity.Valid() {
		return zerr.With(ErrInvalidIntegrity, "name", d.Name)
	}
	return nil
}
