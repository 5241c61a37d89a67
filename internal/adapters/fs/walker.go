// Package fs provides file system adapters: input discovery, the dependency-graph version
// and the bundle writer.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root whose name matches one of patterns,
// skipping VCS metadata, node_modules and directories matching ignores.
func (w *Walker) WalkFiles(root string, patterns, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && w.shouldSkipDir(path, d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !matchAny(patterns, d.Name()) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) shouldSkipDir(path, name string, ignores []string) bool {
	switch name {
	case ".git", ".jj", "node_modules":
		return true
	}
	for _, ignore := range ignores {
		if filepath.IsAbs(ignore) && ignore == path {
			return true
		}
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
