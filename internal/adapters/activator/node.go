package activator

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/shedtool/shed/internal/adapters/logger"
	"github.com/shedtool/shed/internal/core/ports"
)

// NodeID is the unique identifier for the shell activator Graft node.
const NodeID graft.ID = "adapter.activator"

func init() {
	graft.Register(graft.Node[ports.Activator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Activator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewShell(log), nil
		},
	})
}
