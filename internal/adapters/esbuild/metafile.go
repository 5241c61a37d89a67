package esbuild

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/zerr"
)

// metafile mirrors the parts of esbuild's metafile the adapter reads.
type metafile struct {
	Inputs  map[string]metaInput  `json:"inputs"`
	Outputs map[string]metaOutput `json:"outputs"`
}

type metaInput struct {
	Format  string       `json:"format"`
	Imports []metaImport `json:"imports"`
}

type metaImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external"`
}

type metaOutput struct {
	EntryPoint string   `json:"entryPoint"`
	Exports    []string `json:"exports"`
	CSSBundle  string   `json:"cssBundle"`
}

func parseMetafile(raw string) (*metafile, error) {
	var m metafile
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}
	return &m, nil
}

// metaPath converts an absolute file path to the key esbuild uses in the metafile.
func metaPath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// moduleIDFromMeta converts a metafile input key back to a module id.
func moduleIDFromMeta(root, key string) string {
	if rest, ok := strings.CutPrefix(key, Namespace+":"); ok {
		return "\x00" + rest
	}
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(root, filepath.FromSlash(key))
}
