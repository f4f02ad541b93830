// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/shedtool/shed/internal/core/domain"
)

// PackageIndex is a read-only view of the external package universe.
//
// Implementations never mutate the universe; a resolution call treats the
// index as a snapshot.
//
//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type PackageIndex interface {
	// Lookup returns the available (version, artifact) candidates for a name.
	// It returns domain.ErrPackageNotFound when the name is absent.
	Lookup(ctx context.Context, name string) ([]domain.Candidate, error)
}
