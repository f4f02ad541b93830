package domain

// Artifact is the location of an installable unit inside the external
// package universe. The resolver treats it as an opaque reference; the
// environment builder knows how to fetch and realize it.
type Artifact struct {
	// Registry is the package universe the artifact lives in (e.g., "nixpkgs").
	Registry InternedString `json:"registry"`

	// Rev is the registry revision pinning the exact artifact contents.
	Rev InternedString `json:"rev"`

	// AttrPath is the attribute path of the package within the registry
	// (e.g., "python311Packages.requests").
	AttrPath InternedString `json:"attr_path"`
}

// Candidate is one installable (version, artifact) pair offered by the
// package index for a name.
type Candidate struct {
	Version  InternedString `json:"version"`
	Artifact Artifact       `json:"artifact"`
}

// ResolvedPackage is a fully resolved dependency: a name bound to one chosen
// version and its artifact. Immutable once produced.
type ResolvedPackage struct {
	Name     InternedString `json:"name"`
	Version  InternedString `json:"version"`
	Artifact Artifact       `json:"artifact"`
}
