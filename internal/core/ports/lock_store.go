package ports

import "github.com/shedtool/shed/internal/core/domain"

// LockStore persists resolved descriptors as lockfiles.
//
//go:generate go run go.uber.org/mock/mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Read loads the lockfile at path. Returns domain.ErrLockReadFailed when
	// no lockfile exists.
	Read(path string) (domain.Lockfile, error)

	// Write persists the lockfile at path atomically.
	Write(path string, lock domain.Lockfile) error
}
