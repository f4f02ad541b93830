package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EnvironmentDescriptor is the output of a resolution: a closed, reproducible
// set of installable units. Runtime, packages and tools are each sorted by
// name so field-for-field equality holds across calls with the same inputs.
//
// A descriptor is constructed once per resolution, treated as immutable and
// consumed exactly once by the shell activator. It is never partially applied.
type EnvironmentDescriptor struct {
	// Runtime is the resolved base interpreter.
	Runtime ResolvedPackage `json:"runtime"`

	// Packages are the resolved namespace-scoped dependencies, sorted by name.
	Packages []ResolvedPackage `json:"packages"`

	// Tools are the resolved standalone tools, sorted by name.
	Tools []ResolvedPackage `json:"tools"`
}

// EnvID creates a deterministic hash identifying the descriptor's contents.
// It is used as the cache key for materialized environments.
func (d *EnvironmentDescriptor) EnvID() string {
	var builder strings.Builder

	writeEntry := func(scope string, p ResolvedPackage) {
		builder.WriteString(scope)
		builder.WriteString(":")
		builder.WriteString(p.Name.String())
		builder.WriteString("@")
		builder.WriteString(p.Version.String())
		builder.WriteString("/")
		builder.WriteString(p.Artifact.Rev.String())
		builder.WriteString(";")
	}

	writeEntry("runtime", d.Runtime)
	for _, p := range d.Packages {
		writeEntry("pkg", p)
	}
	for _, p := range d.Tools {
		writeEntry("tool", p)
	}

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
