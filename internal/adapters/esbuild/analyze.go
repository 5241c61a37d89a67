package esbuild

import (
	"path/filepath"
	"slices"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/ports"
)

// analyze bundles file alone, with every import external, and reports its export shape.
// It returns nil when esbuild cannot process the file.
func analyze(root, file string) *ports.ModuleInfo {
	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{file},
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Format:        api.FormatESModule,
		Platform:      api.PlatformBrowser,
		Outdir:        filepath.Join(root, ".importmaps-analyze"),
		AbsWorkingDir: root,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{externalizer()},
	})
	if len(result.Errors) > 0 {
		return nil
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return nil
	}

	info := &ports.ModuleInfo{ID: file}
	for _, out := range meta.Outputs {
		if out.EntryPoint == "" {
			continue
		}
		info.Exports = out.Exports
		info.HasDefaultExport = slices.Contains(out.Exports, "default")
	}

	input, ok := meta.Inputs[metaPath(root, file)]
	if !ok || input.Format != "cjs" {
		return info
	}

	cjs := &ports.CommonJSMeta{IsCommonJS: true}
	for _, imp := range input.Imports {
		if imp.Kind != "require-call" {
			continue
		}
		required := ports.RequiredModule{}
		if filepath.IsAbs(imp.Path) {
			required.ResolvedID = imp.Path
		}
		cjs.Requires = append(cjs.Requires, required)
	}
	info.CommonJS = cjs
	return info
}
