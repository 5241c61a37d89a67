package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// BindingLookup gives read-only access to the binding registry.
type BindingLookup interface {
	// Binding returns the binding registered for a logical name.
	Binding(name string) (Binding, bool)
	// Bindings returns all bindings in insertion order.
	Bindings() []Binding
}

// ImportMapTransformer rewrites the imports object before it is serialized.
// It receives a copy of the imports and must not mutate the registry.
type ImportMapTransformer func(imports map[string]string, registry BindingLookup) map[string]string

// ServerOptions configures the dev server.
type ServerOptions struct {
	Host string
	Port int
}

// Options is the normalized configuration surface.
type Options struct {
	// Root is the absolute project root.
	Root string
	// OutDir is the build output directory, relative to Root.
	OutDir string
	// Input lists the HTML or script entries of the application, relative to Root.
	Input []string
	// Alias maps bare specifiers to replacement specifiers or paths.
	Alias map[string]string
	// SSR marks the build as a server-side rendering target.
	SSR bool

	// Shared lists the shared dependency declarations. Required.
	Shared []SharedDependency
	// SharedOutDir is the subdirectory for emitted shared chunks.
	SharedOutDir string
	// Integrity is the default per-entry integrity mode.
	Integrity IntegrityMode
	// Log enables verbose diagnostics.
	Log bool
	// InjectImportMapsToHTML controls HTML injection. Defaults to true.
	InjectImportMapsToHTML bool
	// ImportMapTransformer optionally rewrites the imports before serialization.
	ImportMapTransformer ImportMapTransformer
	// OutputAsFile is the import map file base name. Empty disables the file sink.
	OutputAsFile string

	Server ServerOptions
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	return Options{
		Root:                   ".",
		OutDir:                 DefaultOutDir,
		InjectImportMapsToHTML: true,
		Server: ServerOptions{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
	}
}

// Validate reports configuration errors before any build work begins.
func (o Options) Validate() error {
	if len(o.Shared) == 0 {
		return ErrNoSharedDependencies
	}
	for i, dep := range o.Shared {
		if err := dep.Validate(); err != nil {
			return zerr.With(err, "index", i)
		}
	}
	if !o.Integrity.Valid() {
		return zerr.With(ErrInvalidIntegrity, "value", string(o.Integrity))
	}
	if o.OutputAsFile != "" {
		clean := path.Clean(o.OutputAsFile)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return zerr.With(ErrInvalidOutputFile, "value", o.OutputAsFile)
		}
	}
	return nil
}

// ImportMapFileName returns the import map file name, or "" when the file sink is disabled.
func (o Options) ImportMapFileName() string {
	if o.OutputAsFile == "" {
		return ""
	}
	return strings.TrimSuffix(path.Clean(o.OutputAsFile), ".json") + ".json"
}
