package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphVersioner = (*Versioner)(nil)

// manifestFiles are the files whose content decides which dependency versions resolve.
var manifestFiles = []string{
	"package.json",
	"package-lock.json",
	"npm-shrinkwrap.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lock",
	"bun.lockb",
	filepath.Join("node_modules", ".package-lock.json"),
	domain.ConfigFileName,
}

// Versioner derives the dependency-graph version from the project's manifest and lock files.
// The token is cached until Invalidate is called, and every invalidation bumps a generation
// counter folded into the next token.
type Versioner struct {
	root string

	mu         sync.Mutex
	token      string
	valid      bool
	generation uint64
}

// NewVersioner creates a versioner for the project at root.
func NewVersioner(root string) *Versioner {
	return &Versioner{root: root}
}

// Paths returns the absolute manifest paths a watcher should observe.
func (v *Versioner) Paths() []string {
	paths := make([]string, 0, len(manifestFiles))
	for _, name := range manifestFiles {
		paths = append(paths, filepath.Join(v.root, name))
	}
	return paths
}

// Version returns the current token.
func (v *Versioner) Version() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid {
		return v.token, nil
	}

	hasher := xxhash.New()
	for _, name := range manifestFiles {
		if err := hashManifest(hasher, filepath.Join(v.root, name), name); err != nil {
			return "", err
		}
	}
	_, _ = fmt.Fprintf(hasher, "generation=%d", v.generation)

	v.token = fmt.Sprintf("%016x", hasher.Sum64())
	v.valid = true
	return v.token, nil
}

// Invalidate forces the next Version call to recompute the token.
func (v *Versioner) Invalidate(_ []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.valid = false
	v.generation++
}

func hashManifest(hasher *xxhash.Digest, path, name string) error {
	f, err := os.Open(path) //nolint:gosec // Path is built from a fixed list below the project root
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphVersionFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	_, _ = hasher.WriteString(name)
	_, _ = hasher.Write([]byte{0})
	if _, err := io.Copy(hasher, f); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphVersionFailed.Error()), "path", path)
	}
	_, _ = hasher.Write([]byte{0})
	return nil
}
