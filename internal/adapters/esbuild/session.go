package esbuild

import (
	"context"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
)

var _ ports.BuildContext = (*session)(nil)

// session is the BuildContext of one esbuild run.
type session struct {
	root        string
	environment string
	alias       map[string]string

	mu       sync.Mutex
	build    *api.PluginBuild
	requests []ports.ChunkRequest
	assets   []*ports.OutputAsset
	bundle   *ports.Bundle
	meta     map[string]*domain.ChunkEntrypoint
	analyzed map[string]*ports.ModuleInfo
	hookErr  error
}

func newSession(root, environment string, alias map[string]string) *session {
	return &session{
		root:        root,
		environment: environment,
		alias:       alias,
		meta:        make(map[string]*domain.ChunkEntrypoint),
		analyzed:    make(map[string]*ports.ModuleInfo),
	}
}

func (s *session) Environment() string { return s.environment }

func (s *session) Root() string { return s.root }

func (s *session) EmitChunk(req ports.ChunkRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return req.ID
}

// EmitAsset adds to the bundle once it exists and queues the asset before that.
func (s *session) EmitAsset(fileName string, source []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset := &ports.OutputAsset{FileName: fileName, Source: source}
	if s.bundle != nil {
		s.bundle.Assets = append(s.bundle.Assets, asset)
		return
	}
	s.assets = append(s.assets, asset)
}

func (s *session) Resolve(ctx context.Context, specifier, importer string) (*ports.ResolvedID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	specifier, _ = domain.ApplyAlias(s.alias, specifier)

	s.mu.Lock()
	build := s.build
	s.mu.Unlock()

	if build == nil {
		return probe(s.root, specifier), nil
	}

	resolveDir := s.root
	if importer != "" && !strings.HasPrefix(importer, "\x00") {
		resolveDir = dirOf(importer)
	}
	result := build.Resolve(specifier, api.ResolveOptions{
		Kind:       api.ResolveJSImportStatement,
		ResolveDir: resolveDir,
		Importer:   importer,
		PluginData: probeMarker{},
	})
	if len(result.Errors) > 0 || result.Path == "" {
		return nil, nil
	}
	return &ports.ResolvedID{ID: result.Path + result.Suffix, External: result.External}, nil
}

// ModuleInfo answers from resolver metadata for virtual modules and from an analysis
// build for files. Analyses are cached for the session.
func (s *session) ModuleInfo(ctx context.Context, id string) (*ports.ModuleInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if meta, ok := s.meta[id]; ok {
		s.mu.Unlock()
		return &ports.ModuleInfo{ID: id, Entrypoint: meta}, nil
	}
	if info, ok := s.analyzed[id]; ok {
		s.mu.Unlock()
		return info, nil
	}
	s.mu.Unlock()

	if strings.HasPrefix(id, "\x00") {
		return nil, nil
	}

	info := analyze(s.root, domain.StripQuery(id))

	s.mu.Lock()
	s.analyzed[id] = info
	s.mu.Unlock()
	return info, nil
}

func (s *session) setBuild(build *api.PluginBuild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.build = build
}

func (s *session) setMeta(id string, meta *domain.ChunkEntrypoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[id] = meta
}

func (s *session) chunkRequests() []ports.ChunkRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ChunkRequest(nil), s.requests...)
}

// attach makes bundle the target of later assets and flushes the queued ones into it.
func (s *session) attach(bundle *ports.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bundle.Assets = append(bundle.Assets, s.assets...)
	s.assets = nil
	s.bundle = bundle
}

// fail records the first hook error so it survives esbuild's message flattening.
func (s *session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hookErr == nil {
		s.hookErr = err
	}
}

func (s *session) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hookErr
}
