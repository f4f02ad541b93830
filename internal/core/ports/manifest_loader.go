package ports

import "github.com/shedtool/shed/internal/core/domain"

// ManifestLoader defines the interface for loading the shell manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest from the given path and returns it un-normalized.
	Load(path string) (domain.Manifest, error)
}
