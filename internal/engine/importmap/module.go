package importmap

import (
	"context"
	"encoding/json"
	"fmt"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/zerr"
)

// ModuleCode is the source of the virtual:importmap module.
func ModuleCode(im domain.ImportMap) (string, error) {
	content, err := im.JSON()
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(string(content))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrImportMapMarshalFailed.Error())
	}
	return fmt.Sprintf(
		"export const importMapRaw = %s;\nexport const importMap = %s;\nexport default importMap;\n",
		raw, content,
	), nil
}

// ModuleExtension serves the import map as the virtual:importmap module.
func ModuleExtension(s *store.Store) pipeline.Extension {
	return pipeline.Extension{
		Name:  pipeline.Name("virtual-module-import-map"),
		Apply: pipeline.ApplyBoth,
		ResolveID: func(_ context.Context, _ ports.BuildContext, id, _ string) (*pipeline.Resolution, error) {
			if id != domain.VirtualImportMapID {
				return nil, nil
			}
			return &pipeline.Resolution{ID: domain.ResolvedVirtualImportMapID}, nil
		},
		Load: func(_ context.Context, _ ports.BuildContext, id string) (*pipeline.LoadResult, error) {
			if id != domain.ResolvedVirtualImportMapID {
				return nil, nil
			}
			code, err := ModuleCode(s.RenderImportMap())
			if err != nil {
				return nil, err
			}
			return &pipeline.LoadResult{Code: code}, nil
		},
	}
}
