package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/importmaps/internal/adapters/esbuild"
	"go.trai.ch/importmaps/internal/adapters/fs"
	"go.trai.ch/importmaps/internal/adapters/telemetry"
	"go.trai.ch/importmaps/internal/app"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type bundlerFunc func(ctx context.Context, p *pipeline.Pipeline, opts domain.Options) (*ports.Bundle, error)

func (f bundlerFunc) Build(ctx context.Context, p *pipeline.Pipeline, opts domain.Options) (*ports.Bundle, error) {
	return f(ctx, p, opts)
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func projectOptions(root string) domain.Options {
	opts := domain.DefaultOptions()
	opts.Root = root
	opts.Input = []string{"index.html"}
	opts.Shared = []domain.SharedDependency{domain.Bare("fake-lib")}
	opts.OutputAsFile = "import-map"
	return opts
}

func TestApp_Build(t *testing.T) {
	root := writeProject(t, map[string]string{
		"index.html": `<!DOCTYPE html><html><head></head><body>` +
			`<script type="module" src="/src/main.js"></script></body></html>`,
		"src/main.js":                        "import { x } from 'fake-lib';\nconsole.log(x);\n",
		"node_modules/fake-lib/package.json": `{"name":"fake-lib","module":"index.js"}`,
		"node_modules/fake-lib/index.js":     "export const x = 1;\n",
	})

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	loader.EXPECT().Load(".").Return(projectOptions(root), nil)

	a := app.New(
		loader,
		logger,
		esbuild.NewBuilder(fs.NewResolver(fs.NewWalker(), domain.DefaultOutDir)),
		fs.NewWriter(),
		mocks.NewMockWatcher(ctrl),
		telemetry.NewProvider(),
	)

	require.NoError(t, a.Build(context.Background(), app.BuildOptions{}))

	html, err := os.ReadFile(filepath.Join(root, "dist", "index.html"))
	require.NoError(t, err)
	assert.Regexp(t, `<script type="importmap">\{"imports":\{"fake-lib":"\./assets/fake-lib-[A-Z0-9]+\.js"\}\}</script>`,
		string(html))

	importMap, err := os.ReadFile(filepath.Join(root, "dist", "import-map.json"))
	require.NoError(t, err)
	assert.Contains(t, string(importMap), `"fake-lib": "./assets/fake-lib-`)
}

func TestApp_Build_OutDirOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	writer := mocks.NewMockOutputWriter(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	loader.EXPECT().Load("web/importmaps.yaml").Return(projectOptions("/project"), nil)
	bundle := &ports.Bundle{}
	writer.EXPECT().Write(filepath.Join("/project", "public"), bundle).Return(nil)

	bundler := bundlerFunc(func(_ context.Context, p *pipeline.Pipeline, opts domain.Options) (*ports.Bundle, error) {
		assert.Equal(t, pipeline.PhaseConfigResolved, p.Phase())
		assert.Equal(t, "public", opts.OutDir)
		return bundle, nil
	})

	a := app.New(loader, logger, bundler, writer, mocks.NewMockWatcher(ctrl), nil)
	err := a.Build(context.Background(), app.BuildOptions{Config: "web/importmaps.yaml", OutDir: "public"})
	require.NoError(t, err)
}

func TestApp_Build_Errors(t *testing.T) {
	tests := []struct {
		name    string
		load    error
		bundle  error
		write   error
		wantIs  error
		wantMsg string
	}{
		{
			name:    "configuration",
			load:    domain.ErrConfigNotFound,
			wantMsg: "failed to load configuration",
		},
		{
			name:    "bundler",
			bundle:  errors.New("boom"),
			wantIs:  domain.ErrBuildFailed,
			wantMsg: "boom",
		},
		{
			name:    "writer",
			write:   domain.ErrOutputWriteFailed,
			wantIs:  domain.ErrOutputWriteFailed,
			wantMsg: domain.ErrOutputWriteFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockConfigLoader(ctrl)
			logger := mocks.NewMockLogger(ctrl)
			writer := mocks.NewMockOutputWriter(ctrl)
			logger.EXPECT().Info(gomock.Any()).AnyTimes()

			if tt.load != nil {
				loader.EXPECT().Load(".").Return(domain.Options{}, tt.load)
			} else {
				loader.EXPECT().Load(".").Return(projectOptions("/project"), nil)
			}
			if tt.write != nil {
				writer.EXPECT().Write(gomock.Any(), gomock.Any()).Return(tt.write)
			}

			bundler := bundlerFunc(func(context.Context, *pipeline.Pipeline, domain.Options) (*ports.Bundle, error) {
				if tt.bundle != nil {
					return nil, tt.bundle
				}
				return &ports.Bundle{}, nil
			})

			a := app.New(loader, logger, bundler, writer, mocks.NewMockWatcher(ctrl), telemetry.NewProvider())
			err := a.Build(context.Background(), app.BuildOptions{})

			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestApp_Dev_StopsOnCancel(t *testing.T) {
	root := writeProject(t, map[string]string{
		"index.html":                     "<html><head></head><body></body></html>",
		"node_modules/fake-lib/index.js": "export const x = 1;\n",
	})

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	loader.EXPECT().Load(".").Return(projectOptions(root), nil)
	w.EXPECT().Start(gomock.Any(), []string{root, filepath.Join(root, "node_modules")}).Return(nil)
	w.EXPECT().Events().Return(func(func(ports.WatchEvent) bool) {})
	w.EXPECT().Stop().Return(nil)

	a := app.New(loader, logger, bundlerFunc(nil), mocks.NewMockOutputWriter(ctrl), w, telemetry.NewProvider())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Dev(ctx, app.DevOptions{Host: "127.0.0.1", Port: 0})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Dev did not return after cancellation")
	}
}
