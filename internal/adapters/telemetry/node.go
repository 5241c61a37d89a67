package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
)

// ProviderNodeID is the unique identifier for the tracer provider Graft node.
const ProviderNodeID graft.ID = "adapter.telemetry.provider"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Provider, error) {
			return NewProvider(), nil
		},
	})
}
