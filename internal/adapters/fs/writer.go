package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*Writer)(nil)

// Writer writes bundle files below an output directory.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write writes every chunk and asset of bundle below outDir.
func (w *Writer) Write(outDir string, bundle *ports.Bundle) error {
	for _, chunk := range bundle.Chunks {
		if err := w.writeFile(outDir, chunk.FileName, chunk.Code); err != nil {
			return err
		}
	}
	for _, asset := range bundle.Assets {
		if err := w.writeFile(outDir, asset.FileName, asset.Source); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFile(outDir, fileName string, data []byte) error {
	path := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(fileName, "/")))
	rel, err := filepath.Rel(outDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.With(domain.ErrOutputWriteFailed, "reason", "path escapes output directory"), "file", fileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // Build outputs are world readable
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", path)
	}
	return nil
}
