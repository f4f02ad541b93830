package domain

import "path/filepath"

const (
	// ShedDirName is the name of the internal metadata directory.
	ShedDirName = ".shed"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// IndexDirName is the name of the index lookup cache directory.
	IndexDirName = "index"

	// EnvDirName is the name of the materialized environment cache directory.
	EnvDirName = "environments"

	// ManifestFileName is the name of the manifest file.
	ManifestFileName = "shed.yaml"

	// LockFileName is the name of the lockfile.
	LockFileName = "shed.lock.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultIndexCachePath returns the default path for cached index lookups.
func DefaultIndexCachePath() string {
	return filepath.Join(ShedDirName, CacheDirName, IndexDirName)
}

// DefaultEnvCachePath returns the default path for cached environments.
func DefaultEnvCachePath() string {
	return filepath.Join(ShedDirName, CacheDirName, EnvDirName)
}

// DefaultLockPath returns the default path for the lockfile.
func DefaultLockPath() string {
	return LockFileName
}
