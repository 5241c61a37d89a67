// Package store holds the shared dependency registry: the normalized inputs, the chunk
// entrypoints registered for a build and the bindings that make up the import map.
package store

import (
	"fmt"
	"path"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/importmaps/internal/core/domain"
)

// Store is the single owner of the dependency inputs and the binding registry.
// Every other component holds a reference to it and goes through its methods.
type Store struct {
	mu sync.RWMutex

	dependencies []domain.NormalizedDependency
	sharedOutDir string
	log          bool
	transformer  domain.ImportMapTransformer

	entrypoints []domain.ChunkEntrypoint
	// normalized maps a normalized name to the logical name that claimed it.
	normalized map[string]string
	// claimed maps a logical name to its normalized name.
	claimed map[string]string

	order    []string
	bindings map[string]domain.Binding
}

// New normalizes the shared dependency declarations of opts and returns an empty registry.
func New(opts domain.Options) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	deps, err := domain.Normalize(opts.Shared, opts.Integrity)
	if err != nil {
		return nil, err
	}

	return &Store{
		dependencies: deps,
		sharedOutDir: opts.SharedOutDir,
		log:          opts.Log,
		transformer:  opts.ImportMapTransformer,
		normalized:   make(map[string]string),
		claimed:      make(map[string]string),
		bindings:     make(map[string]domain.Binding),
	}, nil
}

// Dependencies returns the normalized inputs in declaration order.
func (s *Store) Dependencies() []domain.NormalizedDependency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.dependencies)
}

// Log reports whether verbose diagnostics are enabled.
func (s *Store) Log() bool {
	return s.log
}

// RegisterForBuild derives the chunk metadata for input and appends it to the entrypoint list.
// It does not deduplicate by name: registering the same input twice yields two entries.
func (s *Store) RegisterForBuild(input domain.NormalizedDependency) domain.ChunkEntrypoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalizedName := s.claimNormalizedName(input.Name)
	meta := domain.ChunkEntrypoint{
		OriginalName:   input.Name,
		NormalizedName: normalizedName,
		OutputPathHint: path.Join(s.sharedOutDir, normalizedName),
		SourceID:       input.Entry,
		LocalFile:      input.LocalFile,
		Integrity:      input.Integrity,
	}
	s.entrypoints = append(s.entrypoints, meta)
	return meta
}

// RegisterAll registers every normalized input for the build.
func (s *Store) RegisterAll() []domain.ChunkEntrypoint {
	out := make([]domain.ChunkEntrypoint, 0, len(s.dependencies))
	for _, dep := range s.Dependencies() {
		out = append(out, s.RegisterForBuild(dep))
	}
	return out
}

// claimNormalizedName keeps normalized names injective over distinct logical names.
// A logical name whose normalized form is already taken by another name gets a hash suffix.
func (s *Store) claimNormalizedName(name string) string {
	if existing, ok := s.claimed[name]; ok {
		return existing
	}

	candidate := domain.NormalizeDependencyName(name)
	for {
		owner, taken := s.normalized[candidate]
		if !taken || owner == name {
			break
		}
		candidate = fmt.Sprintf("%s-%08x", candidate, uint32(xxhash.Sum64String(name+"\x00"+candidate)))
	}

	s.normalized[candidate] = name
	s.claimed[name] = candidate
	return candidate
}

// Entrypoints returns the registered chunk entrypoints in registration order.
func (s *Store) Entrypoints() []domain.ChunkEntrypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entrypoints)
}

// FindEntrypoint returns the first entrypoint registered under normalizedName.
func (s *Store) FindEntrypoint(normalizedName string) (domain.ChunkEntrypoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ep := range s.entrypoints {
		if ep.NormalizedName == normalizedName {
			return ep, true
		}
	}
	return domain.ChunkEntrypoint{}, false
}

// ClearBindings empties the binding registry.
func (s *Store) ClearBindings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.bindings = make(map[string]domain.Binding)
}

// UpsertBinding inserts or overwrites the binding for b.Name. The first insertion fixes its position.
func (s *Store) UpsertBinding(b domain.Binding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[b.Name]; !ok {
		s.order = append(s.order, b.Name)
	}
	s.bindings[b.Name] = b
}

// Binding returns the binding for a logical name.
func (s *Store) Binding(name string) (domain.Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[name]
	return b, ok
}

// Bindings returns a snapshot of the registry in insertion order.
func (s *Store) Bindings() []domain.Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Binding, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.bindings[name])
	}
	return out
}

// RenderImportMap builds the import map from the current bindings.
// The transformer, if any, sees a copy of the imports and a read-only snapshot of the registry.
func (s *Store) RenderImportMap() domain.ImportMap {
	snapshot := snapshot(s.Bindings())

	var im domain.ImportMap
	if s.transformer == nil {
		for _, b := range snapshot {
			im.Imports.Set(b.Name, b.URL)
		}
	} else {
		imports := make(map[string]string, len(snapshot))
		for _, b := range snapshot {
			imports[b.Name] = b.URL
		}
		transformed := s.transformer(imports, snapshot)
		im.Imports = orderLike(snapshot, transformed)
	}

	for _, b := range snapshot {
		if b.Integrity != "" {
			im.Integrity.Set(b.URL, b.Integrity)
		}
	}
	return im
}

// orderLike keeps registry order for known names and appends new names sorted.
func orderLike(bindings snapshot, imports map[string]string) domain.Mapping {
	var m domain.Mapping
	for _, b := range bindings {
		if url, ok := imports[b.Name]; ok {
			m.Set(b.Name, url)
		}
	}
	extra := make([]string, 0)
	for name := range imports {
		if _, ok := m.Get(name); !ok {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		m.Set(name, imports[name])
	}
	return m
}

// snapshot is a frozen copy of the registry handed to transformers.
type snapshot []domain.Binding

var _ domain.BindingLookup = snapshot(nil)

func (s snapshot) Binding(name string) (domain.Binding, bool) {
	for _, b := range s {
		if b.Name == name {
			return b, true
		}
	}
	return domain.Binding{}, false
}

func (s snapshot) Bindings() []domain.Binding {
	return slices.Clone(s)
}
