package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/shedtool/shed/internal/adapters/telemetry/progrock"
	"github.com/shedtool/shed/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			// Progress recording is opt-in; the default tracer is silent.
			if os.Getenv("SHED_TRACE") != "" {
				return progrock.New(), nil
			}
			return NewNoOpTracer(), nil
		},
	})
}
