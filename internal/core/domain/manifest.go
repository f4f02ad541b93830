package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Request represents a user's intent to include a named dependency.
// This is the input representation before resolution (e.g., from shed.yaml).
type Request struct {
	// Name is the package name as requested by the user (e.g., "requests").
	Name InternedString

	// Pin is the requested version pin. Empty means "latest available".
	Pin InternedString
}

// ParseRequest parses a request spec of the form "name" or "name@version".
func ParseRequest(spec string) (Request, error) {
	name, pin, pinned := strings.Cut(spec, "@")
	if name == "" || (pinned && pin == "") {
		badSpec := zerr.Wrap(ErrInvalidRequest, fmt.Sprintf("bad spec %q", spec))
		return Request{}, zerr.With(badSpec, "spec", spec)
	}
	return Request{
		Name: NewInternedString(name),
		Pin:  NewInternedString(pin),
	}, nil
}

// Spec returns the canonical spec string for the request.
func (r Request) Spec() string {
	if r.Pin.String() == "" {
		return r.Name.String()
	}
	return r.Name.String() + "@" + r.Pin.String()
}

// Manifest is the declarative description of a development shell: a base
// runtime plus named packages installed inside the runtime's namespace and
// standalone tools installed alongside it.
type Manifest struct {
	// Runtime is the base interpreter request (e.g., "python3").
	Runtime Request

	// Packages are the requests resolved into the runtime's package namespace.
	Packages []Request

	// Tools are the requests resolved into the standalone tool scope.
	Tools []Request
}

// Normalize validates the manifest and returns a canonical copy: both request
// lists deduplicated and sorted by name.
//
// Validation failures are collected, not reported one at a time: the returned
// error joins one ErrConflictingRequest per offending name (same name pinned
// twice within a scope, or requested in both scopes) and ErrMissingRuntime
// when no runtime is declared.
func (m Manifest) Normalize() (Manifest, error) {
	var errs []error

	if m.Runtime.Name.String() == "" {
		errs = append(errs, ErrMissingRuntime)
	}

	packages, pkgErrs := dedupeRequests(m.Packages, "packages")
	errs = append(errs, pkgErrs...)

	tools, toolErrs := dedupeRequests(m.Tools, "tools")
	errs = append(errs, toolErrs...)

	// Cross-scope conflicts: the two installation scopes are disjoint, so the
	// same name may not be requested in both.
	inPackages := make(map[string]struct{}, len(packages))
	for _, req := range packages {
		inPackages[req.Name.String()] = struct{}{}
	}
	for _, req := range tools {
		if _, ok := inPackages[req.Name.String()]; ok {
			name := req.Name.String()
			conflictErr := zerr.Wrap(ErrConflictingRequest, fmt.Sprintf("%q requested as both package and standalone tool", name))
			conflictErr = zerr.With(conflictErr, "name", name)
			errs = append(errs, zerr.With(conflictErr, "scopes", "packages, tools"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Manifest{}, err
	}

	return Manifest{
		Runtime:  m.Runtime,
		Packages: packages,
		Tools:    tools,
	}, nil
}

// Fingerprint returns a stable hash of the manifest's requests, independent
// of the order names were declared in. It is embedded in the lockfile so a
// stale lock can be detected.
func (m Manifest) Fingerprint() string {
	packages, _ := dedupeRequests(m.Packages, "packages")
	tools, _ := dedupeRequests(m.Tools, "tools")

	h := xxhash.New()
	_, _ = h.WriteString("runtime=" + m.Runtime.Spec() + ";")
	for _, req := range packages {
		_, _ = h.WriteString("pkg=" + req.Spec() + ";")
	}
	for _, req := range tools {
		_, _ = h.WriteString("tool=" + req.Spec() + ";")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// dedupeRequests sorts requests by name and collapses duplicates. Two
// requests for the same name with different pins are a conflict.
func dedupeRequests(reqs []Request, scope string) ([]Request, []error) {
	var errs []error
	byName := make(map[string]Request, len(reqs))
	names := make([]string, 0, len(reqs))

	for _, req := range reqs {
		name := req.Name.String()
		prev, seen := byName[name]
		if !seen {
			byName[name] = req
			names = append(names, name)
			continue
		}
		if prev.Pin != req.Pin {
			conflictErr := zerr.Wrap(ErrConflictingRequest, fmt.Sprintf("%q pinned to both %q and %q in %s", name, prev.Pin.String(), req.Pin.String(), scope))
			conflictErr = zerr.With(conflictErr, "name", name)
			conflictErr = zerr.With(conflictErr, "scope", scope)
			errs = append(errs, zerr.With(conflictErr, "pins", prev.Pin.String()+", "+req.Pin.String()))
		}
	}

	slices.Sort(names)
	out := make([]Request, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out, errs
}
