package index

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/shedtool/shed/internal/core/ports"
)

// ClientNodeID is the unique identifier for the registry client Graft node.
const ClientNodeID graft.ID = "adapter.index.client"

func init() {
	graft.Register(graft.Node[ports.PackageIndex]{
		ID:        ClientNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackageIndex, error) {
			return NewClient(), nil
		},
	})
}
