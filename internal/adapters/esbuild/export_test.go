package esbuild

import (
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
)

// ModuleIDFromMeta exports moduleIDFromMeta for testing.
func ModuleIDFromMeta(root, key string) string {
	return moduleIDFromMeta(root, key)
}

// Analyze exports analyze for testing.
func Analyze(root, file string) *ports.ModuleInfo {
	return analyze(root, file)
}

// RewritePage loads an HTML document and points its module scripts at the given outputs,
// keyed by absolute script path.
func RewritePage(path, root string, content []byte, js, css map[string]string) ([]byte, []string, error) {
	pg, err := loadPage(path, root, content)
	if err != nil {
		return nil, nil, err
	}
	outputs := make(map[string]entryOutput, len(js))
	for file, name := range js {
		outputs[file] = entryOutput{js: name, css: css[file]}
	}
	scripts := make([]string, 0, len(pg.scripts))
	for _, s := range pg.scripts {
		scripts = append(scripts, s.file)
	}
	out, err := pg.rewrite(outputs)
	return out, scripts, err
}

// ToResult exports toResult for testing.
func ToResult(res *pipeline.Resolution) api.OnResolveResult {
	return toResult(res)
}
