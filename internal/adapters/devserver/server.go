package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/ui/style"
	"go.trai.ch/zerr"
)

var _ ports.ServerHooks = (*Server)(nil)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var scriptExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
	".jsx": true,
	".ts":  true,
	".mts": true,
	".tsx": true,
}

// Server is the development HTTP server.
type Server struct {
	root     string
	pipeline *pipeline.Pipeline
	host     ports.DevHost
	compiler *Compiler
	logger   ports.Logger

	mu          sync.Mutex
	middlewares []ports.Middleware
}

// NewServer creates a server for the project at root.
func NewServer(
	root string,
	p *pipeline.Pipeline,
	host ports.DevHost,
	compiler *Compiler,
	logger ports.Logger,
) *Server {
	return &Server{
		root:     root,
		pipeline: p,
		host:     host,
		compiler: compiler,
		logger:   ports.Scoped(logger, pipeline.Name("development")),
	}
}

// Use appends a middleware. Middlewares run in registration order, the first one outermost.
func (s *Server) Use(mw ports.Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middlewares = append(s.middlewares, mw)
}

// Handler returns the server's HTTP handler including every registered middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(VirtualPrefix, s.serveVirtual)
	mux.HandleFunc("/", s.serveFile)

	s.mu.Lock()
	defer s.mu.Unlock()
	var h http.Handler = mux
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	return h
}

// ListenAndServe serves on host:port until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, host string, port int) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(fmt.Sprintf("Serving %s on %s",
		s.root, style.Bold("http://"+listener.Addr().String())))
	err := srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return zerr.Wrap(err, domain.ErrServerFailed.Error())
}

func (s *Server) serveVirtual(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, VirtualPrefix)
	ctx := r.Context()

	res, err := s.pipeline.ResolveID(ctx, nil, id, "")
	if err != nil {
		s.fail(w, err)
		return
	}
	if res == nil {
		http.NotFound(w, r)
		return
	}
	loaded, err := s.pipeline.Load(ctx, nil, res.ID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if loaded == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(loaded.Code))
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		urlPath = path.Join(urlPath, "index.html")
	}

	file := domain.URLToFile(urlPath, s.root)
	if !s.allowed(file) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	switch ext := filepath.Ext(file); {
	case ext == ".html":
		s.serveHTML(w, r, file, urlPath)
	case scriptExtensions[ext]:
		s.serveScript(w, file)
	default:
		http.ServeFile(w, r, file)
	}
}

func (s *Server) serveHTML(w http.ResponseWriter, r *http.Request, file, urlPath string) {
	doc, err := os.ReadFile(file) //nolint:gosec // Path is checked by allowed
	if err != nil {
		s.fail(w, err)
		return
	}
	out, err := s.pipeline.TransformHTML(r.Context(), doc, pipeline.HTMLContext{Path: urlPath, Dev: s.host})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(out)
}

func (s *Server) serveScript(w http.ResponseWriter, file string) {
	code, err := s.compiler.Compile(file)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(code)
}

// allowed limits served files to the project root and installed packages.
func (s *Server) allowed(file string) bool {
	rel, err := filepath.Rel(s.root, file)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	sep := string(filepath.Separator)
	return strings.Contains(file, sep+"node_modules"+sep)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error(err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
