package virtual

import (
	"context"

	"go.trai.ch/importmaps/internal/core/ports"
)

// ModuleInspector answers module graph queries. ports.BuildContext satisfies it.
type ModuleInspector interface {
	ModuleInfo(ctx context.Context, id string) (*ports.ModuleInfo, error)
}

// DefaultExportDetector decides whether a resolved module exposes a default export.
type DefaultExportDetector interface {
	HasDefaultExport(ctx context.Context, modules ModuleInspector, id string) (bool, error)
}

// InteropDetector checks the module's own default export first and then looks through
// the CommonJS interop wrapper one level deep.
//
// The walk is a heuristic: a CommonJS module that requires another module with a default
// export, or one exposing the interop "__require" helper, is taken to have a default export.
// It stops at the first required module the host knows nothing about.
type InteropDetector struct{}

var _ DefaultExportDetector = InteropDetector{}

// HasDefaultExport implements DefaultExportDetector.
func (InteropDetector) HasDefaultExport(ctx context.Context, modules ModuleInspector, id string) (bool, error) {
	info, err := modules.ModuleInfo(ctx, id)
	if err != nil || info == nil {
		return false, err
	}
	if info.HasDefaultExport {
		return true, nil
	}
	if info.CommonJS == nil || !info.CommonJS.IsCommonJS {
		return false, nil
	}

	for _, req := range info.CommonJS.Requires {
		if req.ResolvedID == "" {
			continue
		}
		inner, err := modules.ModuleInfo(ctx, req.ResolvedID)
		if err != nil {
			return false, err
		}
		if inner == nil {
			break
		}
		if inner.HasDefaultExport || inner.HasExport("__require") {
			return true, nil
		}
	}
	return false, nil
}
