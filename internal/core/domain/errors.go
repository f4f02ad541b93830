package domain

import "go.trai.ch/zerr"

var (
	// ErrUnresolvedDependency is returned when a requested name has no usable
	// entry in the package index.
	ErrUnresolvedDependency = zerr.New("unresolved dependency")

	// ErrConflictingRequest is returned when the same name is requested in two
	// incompatible scopes or with two different version pins.
	ErrConflictingRequest = zerr.New("conflicting request")

	// ErrPackageNotFound is returned by an index when a name is absent.
	ErrPackageNotFound = zerr.New("package not found in index")

	// ErrInvalidRequest is returned when a dependency request is malformed
	// (e.g., an empty name or a trailing "@" without a version).
	ErrInvalidRequest = zerr.New("invalid dependency request")

	// ErrMissingRuntime is returned when the manifest declares no runtime.
	ErrMissingRuntime = zerr.New("manifest declares no runtime")

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when the manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest file")

	// ErrIndexRequestFailed is returned when a package index request fails.
	ErrIndexRequestFailed = zerr.New("failed to query package index")

	// ErrIndexParseFailed is returned when an index response cannot be parsed.
	ErrIndexParseFailed = zerr.New("failed to parse package index response")

	// ErrIndexCacheReadFailed is returned when reading from the index cache fails.
	ErrIndexCacheReadFailed = zerr.New("failed to read from index cache")

	// ErrIndexCacheWriteFailed is returned when writing to the index cache fails.
	ErrIndexCacheWriteFailed = zerr.New("failed to write to index cache")

	// ErrLockReadFailed is returned when the lockfile cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lockfile")

	// ErrLockParseFailed is returned when the lockfile cannot be parsed.
	ErrLockParseFailed = zerr.New("failed to parse lockfile")

	// ErrLockWriteFailed is returned when the lockfile cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lockfile")

	// ErrLockStale is returned when the lockfile does not match the manifest.
	ErrLockStale = zerr.New("lockfile is stale")

	// ErrActivationFailed is returned when entering the resolved environment fails.
	ErrActivationFailed = zerr.New("failed to activate environment")

	// ErrEnvCacheReadFailed is returned when reading a cached environment fails.
	ErrEnvCacheReadFailed = zerr.New("failed to read cached environment")
)
