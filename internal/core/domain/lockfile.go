package domain

// LockVersion is the current lockfile format version.
const LockVersion = 1

// Lockfile is a persisted resolution result. It binds a manifest fingerprint
// to the descriptor resolved from it, so the environment can be re-entered
// without consulting the index as long as the manifest is unchanged.
type Lockfile struct {
	// Version is the lockfile format version, allowing future schema migrations.
	Version int `json:"version"`

	// Fingerprint is the manifest fingerprint the descriptor was resolved from.
	Fingerprint string `json:"fingerprint"`

	// Descriptor is the resolved environment.
	Descriptor EnvironmentDescriptor `json:"descriptor"`
}
