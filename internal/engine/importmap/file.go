package importmap

import (
	"context"
	"net/http"

	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
)

// FileSink publishes the import map as a JSON file: an asset of the build and an
// endpoint of the dev server.
type FileSink struct {
	store    *store.Store
	fileName string
	logger   ports.Logger
}

// NewFileSink creates a sink writing fileName, which must carry the .json extension.
func NewFileSink(s *store.Store, fileName string, logger ports.Logger) *FileSink {
	return &FileSink{store: s, fileName: fileName, logger: logger}
}

// Extension returns the pipeline extension for the sink.
func (f *FileSink) Extension() pipeline.Extension {
	return pipeline.Extension{
		Name:  pipeline.Name("import-maps-as-file"),
		Apply: pipeline.ApplyBoth,
		ConfigureServer: func(server ports.ServerHooks) {
			server.Use(f.Middleware)
		},
		GenerateBundle: f.GenerateBundle,
	}
}

// GenerateBundle emits the indented import map as a bundle asset.
func (f *FileSink) GenerateBundle(_ context.Context, bctx ports.BuildContext, _ *ports.Bundle) error {
	data, err := f.store.RenderImportMap().IndentedJSON()
	if err != nil {
		return err
	}
	bctx.EmitAsset(f.fileName, data)
	return nil
}

// Middleware answers requests for the import map file and passes everything else on.
func (f *FileSink) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+f.fileName {
			next.ServeHTTP(w, r)
			return
		}

		data, err := f.store.RenderImportMap().JSON()
		if err != nil {
			f.logger.Error(err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})
}
