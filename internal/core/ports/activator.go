package ports

import (
	"context"

	"github.com/shedtool/shed/internal/core/domain"
)

// Activator materializes a process environment from a descriptor and enters
// it. The descriptor is consumed as a whole: activation either produces the
// complete environment or fails without side effects.
//
//go:generate go run go.uber.org/mock/mockgen -source=activator.go -destination=mocks/mock_activator.go -package=mocks
type Activator interface {
	// Enter materializes the environment and runs an interactive shell in it,
	// blocking until the shell exits.
	Enter(ctx context.Context, desc *domain.EnvironmentDescriptor) error
}
