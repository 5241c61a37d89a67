package virtual_test

import (
	"context"

	"go.trai.ch/importmaps/internal/core/ports"
)

// fakeHost is an in-memory ports.BuildContext.
type fakeHost struct {
	env      string
	root     string
	emitted  []ports.ChunkRequest
	assets   []*ports.OutputAsset
	resolved map[string]string
	modules  map[string]*ports.ModuleInfo
}

var _ ports.BuildContext = (*fakeHost)(nil)

func newFakeHost(root string) *fakeHost {
	return &fakeHost{
		env:      "client",
		root:     root,
		resolved: make(map[string]string),
		modules:  make(map[string]*ports.ModuleInfo),
	}
}

func (h *fakeHost) Environment() string { return h.env }

func (h *fakeHost) Root() string { return h.root }

func (h *fakeHost) EmitChunk(req ports.ChunkRequest) string {
	h.emitted = append(h.emitted, req)
	return req.ID
}

func (h *fakeHost) EmitAsset(fileName string, source []byte) {
	h.assets = append(h.assets, &ports.OutputAsset{FileName: fileName, Source: source})
}

func (h *fakeHost) Resolve(_ context.Context, specifier, _ string) (*ports.ResolvedID, error) {
	id, ok := h.resolved[specifier]
	if !ok {
		return nil, nil
	}
	return &ports.ResolvedID{ID: id}, nil
}

func (h *fakeHost) ModuleInfo(_ context.Context, id string) (*ports.ModuleInfo, error) {
	return h.modules[id], nil
}
