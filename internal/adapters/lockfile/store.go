// Package lockfile persists resolved environment descriptors as lockfiles.
package lockfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shedtool/shed/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.LockStore using a flat JSON file.
type Store struct{}

// NewStore creates a new lockfile Store.
func NewStore() *Store {
	return &Store{}
}

// Read loads the lockfile at path.
func (s *Store) Read(path string) (domain.Lockfile, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			missing := zerr.Wrap(domain.ErrLockReadFailed, "no lockfile at "+path)
			return domain.Lockfile{}, zerr.With(missing, "path", path)
		}
		return domain.Lockfile{}, zerr.Wrap(err, domain.ErrLockReadFailed.Error())
	}

	var lock domain.Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return domain.Lockfile{}, zerr.Wrap(err, domain.ErrLockParseFailed.Error())
	}

	return lock, nil
}

// Write persists the lockfile at path, atomically via a temp file rename.
func (s *Store) Write(path string, lock domain.Lockfile) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "shed-lock-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	return nil
}
