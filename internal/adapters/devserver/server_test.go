package devserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/importmaps/internal/adapters/devserver"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/core/ports/mocks"
	"go.trai.ch/importmaps/internal/engine/dev"
	"go.trai.ch/importmaps/internal/engine/importmap"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.uber.org/mock/gomock"
)

type resolverFunc func(ctx context.Context, specifier string) (*ports.ResolvedID, error)

func (f resolverFunc) Resolve(ctx context.Context, specifier string) (*ports.ResolvedID, error) {
	return f(ctx, specifier)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"),
		`<!DOCTYPE html><html><head></head><body><script type="module" src="/src/main.ts"></script></body></html>`)
	writeFile(t, filepath.Join(root, "src", "main.ts"),
		"import { greet } from \"shared-lib\";\nimport { helper } from \"./util\";\nconsole.log(greet(helper()));\n")
	writeFile(t, filepath.Join(root, "src", "util.ts"),
		"export const helper = (): string => \"from-util\";\n")
	writeFile(t, filepath.Join(root, "node_modules", "shared-lib", "index.js"),
		"export const greet = (s) => s;\n")
	writeFile(t, filepath.Join(root, "style.css"), "body { margin: 0; }\n")
	return root
}

func newServer(t *testing.T, root string) *devserver.Server {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	versioner := mocks.NewMockGraphVersioner(ctrl)
	versioner.EXPECT().Version().Return("v1", nil).AnyTimes()

	opts := domain.DefaultOptions()
	opts.Root = root
	opts.Shared = []domain.SharedDependency{domain.Bare("shared-lib")}
	s, err := store.New(opts)
	require.NoError(t, err)

	resolver := resolverFunc(func(_ context.Context, specifier string) (*ports.ResolvedID, error) {
		if specifier != "shared-lib" {
			return nil, nil
		}
		return &ports.ResolvedID{ID: filepath.Join(root, "node_modules", "shared-lib", "index.js")}, nil
	})

	p := pipeline.New(pipeline.CommandServe, []pipeline.Extension{
		dev.NewResolver(s, logger).Extension(),
		importmap.InjectExtension(s),
		importmap.ModuleExtension(s),
	})
	require.NoError(t, p.ConfigResolved(pipeline.ResolvedConfig{Command: pipeline.CommandServe, Root: root}))

	compiler, err := devserver.NewCompiler(root, nil, []string{"shared-lib"}, devserver.DefaultCacheSize)
	require.NoError(t, err)

	host := devserver.NewHost(root, resolver, versioner)
	return devserver.NewServer(root, p, host, compiler, logger)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_ServesIndexWithImportMap(t *testing.T) {
	root := writeProject(t)
	h := newServer(t, root).Handler()

	rec := get(t, h, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(),
		`<script type="importmap">{"imports":{"shared-lib":"/node_modules/shared-lib/index.js"}}</script>`)
}

func TestServer_CompilesScripts(t *testing.T) {
	root := writeProject(t)
	h := newServer(t, root).Handler()

	rec := get(t, h, "/src/main.ts")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `"shared-lib"`)
	assert.Contains(t, body, "from-util")
	assert.NotContains(t, body, "export const greet")
}

func TestServer_ServesVirtualModule(t *testing.T) {
	root := writeProject(t)
	h := newServer(t, root).Handler()

	// The registry fills on the first document request.
	get(t, h, "/index.html")
	rec := get(t, h, devserver.VirtualPrefix+domain.VirtualImportMapID)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(),
		`export const importMap = {"imports":{"shared-lib":"/node_modules/shared-lib/index.js"}};`)
}

func TestServer_Files(t *testing.T) {
	root := writeProject(t)
	h := newServer(t, root).Handler()

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "static asset", target: "/style.css", status: http.StatusOK},
		{name: "missing file", target: "/missing.css", status: http.StatusNotFound},
		{name: "unknown virtual module", target: devserver.VirtualPrefix + "virtual:unknown", status: http.StatusNotFound},
		{name: "file outside root", target: domain.FSPrefix + "etc/passwd", status: http.StatusForbidden},
		{name: "package file", target: "/node_modules/shared-lib/index.js", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServer_MiddlewareOrder(t *testing.T) {
	root := writeProject(t)
	srv := newServer(t, root)

	var order []string
	tag := func(name string) ports.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	srv.Use(tag("first"))
	srv.Use(tag("second"))

	rec := get(t, srv.Handler(), "/style.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	root := writeProject(t)
	srv := newServer(t, root)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/style.css") //nolint:noctx // test request
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), "margin")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
