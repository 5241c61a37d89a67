package ports

import (
	"context"
	"net/http"

	"go.trai.ch/importmaps/internal/core/domain"
)

// SignatureMode controls how closely an emitted chunk's exports must mirror its source module.
type SignatureMode string

const (
	// SignatureStrict requires the chunk to expose exactly the exports of the source module.
	SignatureStrict SignatureMode = "strict"
)

// ChunkRequest asks the host bundler to emit a module as its own chunk.
type ChunkRequest struct {
	// ID is the module id the chunk is built from.
	ID string
	// Name is the desired chunk name, relative to the assets directory.
	Name string
	// PreserveSignature controls the export shape of the chunk.
	PreserveSignature SignatureMode
}

// ResolvedID is the outcome of resolving a specifier through the host.
type ResolvedID struct {
	// ID is the absolute module id, possibly carrying a "?query" suffix.
	ID string
	// External reports whether the host leaves the module out of the bundle.
	External bool
}

// RequiredModule is one require() call recorded by the CommonJS interop layer.
type RequiredModule struct {
	// ResolvedID is the module id the call resolved to, empty when unresolved.
	ResolvedID string
}

// CommonJSMeta is the metadata the CommonJS interop layer records for a module.
type CommonJSMeta struct {
	IsCommonJS bool
	Requires   []RequiredModule
}

// ModuleInfo is the host's view of a module in the graph.
type ModuleInfo struct {
	ID string
	// HasDefaultExport reports whether the module itself exports a default binding.
	HasDefaultExport bool
	// Exports lists the module's export names when known.
	Exports []string
	// CommonJS is set when the module went through the CommonJS interop layer.
	CommonJS *CommonJSMeta
	// Entrypoint is the metadata attached when the id was resolved by the virtual chunk resolver.
	Entrypoint *domain.ChunkEntrypoint
}

// HasExport reports whether name is among the module's exports.
func (m *ModuleInfo) HasExport(name string) bool {
	for _, e := range m.Exports {
		if e == name {
			return true
		}
	}
	return false
}

// SideEffects tells the host how to treat a loaded module during dead-code elimination.
type SideEffects uint8

const (
	// SideEffectsDefault leaves the decision to the host.
	SideEffectsDefault SideEffects = iota
	// SideEffectsNoTreeshake keeps every statement of the module.
	SideEffectsNoTreeshake
)

// OutputChunk is a finalized chunk in the generated bundle.
type OutputChunk struct {
	// FileName is the hashed file name relative to the output directory.
	FileName string
	// Name is the chunk name requested at emission time.
	Name string
	// FacadeModuleID is the id of the module the chunk was emitted for.
	FacadeModuleID string
	// IsEntry reports whether the host treats the chunk as a page entry point.
	IsEntry bool
	// Code is the final chunk content.
	Code []byte
}

// OutputAsset is a finalized non-code file in the generated bundle.
type OutputAsset struct {
	FileName string
	Source   []byte
}

// Bundle is the final output of a build, in emission order.
type Bundle struct {
	Chunks []*OutputChunk
	Assets []*OutputAsset
}

// Asset returns the asset with the given file name.
func (b *Bundle) Asset(fileName string) (*OutputAsset, bool) {
	for _, a := range b.Assets {
		if a.FileName == fileName {
			return a, true
		}
	}
	return nil, false
}

// BuildContext exposes the host bundler capabilities available to pipeline hooks during a build.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type BuildContext interface {
	// Environment returns the name of the target environment ("client" or "ssr").
	Environment() string
	// Root returns the absolute project root.
	Root() string
	// EmitChunk requests a chunk and returns a reference to it.
	EmitChunk(req ChunkRequest) string
	// EmitAsset adds a file to the bundle.
	EmitAsset(fileName string, source []byte)
	// Resolve resolves a specifier. It returns nil, nil when the specifier cannot be resolved.
	Resolve(ctx context.Context, specifier, importer string) (*ResolvedID, error)
	// ModuleInfo introspects a module. It returns nil, nil when the module is unknown.
	ModuleInfo(ctx context.Context, id string) (*ModuleInfo, error)
}

// DevHost exposes the dev-server capabilities used to resolve shared dependencies live.
type DevHost interface {
	// Root returns the absolute project root.
	Root() string
	// Resolve resolves a specifier. It returns nil, nil when the specifier cannot be resolved.
	Resolve(ctx context.Context, specifier string) (*ResolvedID, error)
	// GraphVersion returns the current dependency-graph version token.
	GraphVersion() (string, error)
}

// Middleware wraps an HTTP handler.
type Middleware func(next http.Handler) http.Handler

// ServerHooks lets pipeline extensions install dev-server middleware.
type ServerHooks interface {
	// Use appends a middleware to the server's chain.
	Use(mw Middleware)
}
