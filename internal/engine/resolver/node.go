package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/shedtool/shed/internal/adapters/index" //nolint:depguard // Wired in DI node
	"github.com/shedtool/shed/internal/core/ports"
)

// NodeID is the unique identifier for the Resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{index.ClientNodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			idx, err := graft.Dep[ports.PackageIndex](ctx)
			if err != nil {
				return nil, err
			}
			return New(idx), nil
		},
	})
}
