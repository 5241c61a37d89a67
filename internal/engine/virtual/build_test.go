package virtual_test

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/importmaps/internal/engine/virtual"
	"go.uber.org/mock/gomock"
)

func newVirtualizer(t *testing.T, s *store.Store) *virtual.Virtualizer {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return virtual.NewVirtualizer(s, logger)
}

func TestVirtualizer_BuildStart(t *testing.T) {
	s := newRegisteredStore(t,
		domain.Bare("@scope/pkg"),
		domain.SharedDependency{Name: "shared-lib", Entry: "./src/shared-lib.ts"},
	)
	v := newVirtualizer(t, s)
	host := newFakeHost("/project")

	require.NoError(t, v.BuildStart(context.Background(), host))

	require.Len(t, host.emitted, 2)
	assert.Equal(t, ports.ChunkRequest{
		ID:                domain.VirtualChunkID("@scope_pkg"),
		Name:              "@import-maps/@scope_pkg",
		PreserveSignature: ports.SignatureStrict,
	}, host.emitted[0])
	assert.Equal(t, ports.ChunkRequest{
		ID:                "/project/src/shared-lib.ts",
		Name:              "@import-maps/shared-lib",
		PreserveSignature: ports.SignatureStrict,
	}, host.emitted[1])
}

func TestVirtualizer_BuildStart_DuplicateLocalEmitsOnce(t *testing.T) {
	s := newRegisteredStore(t, domain.SharedDependency{Name: "shared-lib", Entry: "./src/shared-lib.ts"})
	s.RegisterForBuild(s.Dependencies()[0])
	require.Len(t, s.Entrypoints(), 2)

	v := newVirtualizer(t, s)
	host := newFakeHost("/project")

	require.NoError(t, v.BuildStart(context.Background(), host))
	assert.Len(t, host.emitted, 1)

	// A second build emits again.
	require.NoError(t, v.BuildStart(context.Background(), host))
	assert.Len(t, host.emitted, 2)
}

func TestVirtualizer_BuildStart_SkipsSSR(t *testing.T) {
	s := newRegisteredStore(t, domain.Bare("react"))
	v := newVirtualizer(t, s)
	host := newFakeHost("/project")
	host.env = domain.EnvironmentSSR

	require.NoError(t, v.BuildStart(context.Background(), host))
	assert.Empty(t, host.emitted)
}

func TestVirtualizer_ConfigResolvedRootFallback(t *testing.T) {
	s := newRegisteredStore(t, domain.SharedDependency{Name: "shared-lib", Entry: "./src/shared-lib.ts"})
	v := newVirtualizer(t, s)
	v.ConfigResolved(pipeline.ResolvedConfig{Root: "/configured"})

	host := newFakeHost("")
	require.NoError(t, v.BuildStart(context.Background(), host))

	require.Len(t, host.emitted, 1)
	assert.Equal(t, "/configured/src/shared-lib.ts", host.emitted[0].ID)
}

func generate(t *testing.T, integrity domain.IntegrityMode) (*store.Store, *ports.Bundle) {
	t.Helper()
	opts := domain.DefaultOptions()
	opts.SharedOutDir = "@import-maps"
	opts.Integrity = integrity
	opts.Shared = []domain.SharedDependency{domain.Bare("shared-lib")}
	s, err := store.New(opts)
	require.NoError(t, err)
	s.RegisterAll()

	v := newVirtualizer(t, s)
	host := newFakeHost("/project")
	require.NoError(t, v.BuildStart(context.Background(), host))

	bundle := &ports.Bundle{
		Chunks: []*ports.OutputChunk{
			{
				FileName:       "assets/index-Bx1.js",
				FacadeModuleID: "/project/index.html",
				IsEntry:        true,
				Code:           []byte(`import "shared-lib";`),
			},
			{
				FileName:       "assets/@import-maps/shared-lib-DjhkO2.js",
				FacadeModuleID: domain.VirtualChunkID("shared-lib"),
				IsEntry:        true,
				Code:           []byte("export const greet = () => 'hi';\n"),
			},
			{
				FileName: "assets/vendor-9f.js",
				Code:     []byte("var x;"),
			},
		},
	}
	require.NoError(t, v.GenerateBundle(context.Background(), host, bundle))
	return s, bundle
}

func TestVirtualizer_GenerateBundle_WithoutIntegrity(t *testing.T) {
	s, bundle := generate(t, domain.IntegrityDisabled)

	data, err := s.RenderImportMap().JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"imports":{"shared-lib":"./assets/@import-maps/shared-lib-DjhkO2.js"}}`, string(data))

	assert.True(t, bundle.Chunks[0].IsEntry)
	assert.False(t, bundle.Chunks[1].IsEntry)
}

func TestVirtualizer_GenerateBundle_WithIntegrity(t *testing.T) {
	s, bundle := generate(t, domain.IntegritySHA384)

	sum := sha512.Sum384(bundle.Chunks[1].Code)
	want := "sha384-" + base64.StdEncoding.EncodeToString(sum[:])

	im := s.RenderImportMap()
	digest, ok := im.Integrity.Get("./assets/@import-maps/shared-lib-DjhkO2.js")
	require.True(t, ok)
	assert.Equal(t, want, digest)
	assert.Equal(t, 1, im.Imports.Len())
}

func TestVirtualizer_GenerateBundle_ClearsStaleBindings(t *testing.T) {
	s := newRegisteredStore(t, domain.Bare("shared-lib"))
	s.UpsertBinding(domain.Binding{Name: "stale", URL: "/stale.js"})

	v := newVirtualizer(t, s)
	host := newFakeHost("/project")
	require.NoError(t, v.BuildStart(context.Background(), host))
	require.NoError(t, v.GenerateBundle(context.Background(), host, &ports.Bundle{}))

	assert.Empty(t, s.Bindings())
}
