package index

import "time"

// lookupResponse represents the registry response for a name lookup.
type lookupResponse struct {
	Name     string       `json:"name"`
	Summary  string       `json:"summary"`
	Releases []ReleaseDTO `json:"releases"`
}

// ReleaseDTO represents one installable release of a package.
type ReleaseDTO struct {
	Version  string `json:"version"`
	Registry string `json:"registry"`
	Rev      string `json:"rev"`
	AttrPath string `json:"attr_path"`
}

// cacheEntry represents a cached lookup result.
type cacheEntry struct {
	Name      string       `json:"name"`
	Releases  []ReleaseDTO `json:"releases"`
	Timestamp time.Time    `json:"timestamp"`
}
