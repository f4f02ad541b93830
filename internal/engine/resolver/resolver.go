// Package resolver implements the declarative environment resolver: it turns
// a manifest of named dependency requests into a fully specified, reproducible
// environment descriptor by querying a package index.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/shedtool/shed/internal/core/domain"
	"github.com/shedtool/shed/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scope names used in error attributes.
const (
	scopeRuntime  = "runtime"
	scopePackages = "packages"
	scopeTools    = "tools"
)

// Resolver resolves manifests against a package index.
type Resolver struct {
	index ports.PackageIndex
}

// New creates a new Resolver backed by the given index.
func New(index ports.PackageIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve deterministically resolves a manifest into an environment
// descriptor. It is a pure function of (manifest, index snapshot): the same
// inputs always yield a field-for-field identical descriptor, regardless of
// the order names were declared in.
//
// Index lookups run concurrently as a performance optimization; the output
// ordering guarantee holds on the assembled descriptor, not on evaluation
// order. All failures are collected across the whole pass and reported
// together; no partial descriptor is ever returned.
func (r *Resolver) Resolve(ctx context.Context, manifest domain.Manifest) (*domain.EnvironmentDescriptor, error) {
	norm, err := manifest.Normalize()
	if err != nil {
		return nil, err
	}

	runtimePkg := make([]domain.ResolvedPackage, 1)
	packages := make([]domain.ResolvedPackage, len(norm.Packages))
	tools := make([]domain.ResolvedPackage, len(norm.Tools))

	var (
		mu       sync.Mutex
		failures []failure
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	resolveInto := func(req domain.Request, scope string, slot *domain.ResolvedPackage) {
		g.Go(func() error {
			pkg, resolveErr := r.resolveRequest(groupCtx, req, scope)
			if resolveErr != nil {
				// Collect instead of failing the group: the caller should see
				// the complete set of unsatisfied names in one pass.
				mu.Lock()
				failures = append(failures, failure{scope: scope, name: req.Name.String(), err: resolveErr})
				mu.Unlock()
				return nil
			}
			*slot = pkg
			return nil
		})
	}

	resolveInto(norm.Runtime, scopeRuntime, &runtimePkg[0])
	for i, req := range norm.Packages {
		resolveInto(req, scopePackages, &packages[i])
	}
	for i, req := range norm.Tools {
		resolveInto(req, scopeTools, &tools[i])
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(failures) > 0 {
		return nil, joinFailures(failures)
	}

	// Normalize already sorted the request lists by name, so the resolved
	// slices are in descriptor order. Assert it anyway: the descriptor is the
	// reproducibility contract.
	slices.SortFunc(packages, comparePackages)
	slices.SortFunc(tools, comparePackages)

	return &domain.EnvironmentDescriptor{
		Runtime:  runtimePkg[0],
		Packages: packages,
		Tools:    tools,
	}, nil
}

// resolveRequest looks up one name and selects the best candidate: the
// highest available version satisfying the request's pin, or the highest
// available version when unpinned.
func (r *Resolver) resolveRequest(ctx context.Context, req domain.Request, scope string) (domain.ResolvedPackage, error) {
	name := req.Name.String()

	candidates, err := r.index.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrPackageNotFound) {
			return domain.ResolvedPackage{}, unresolvedErr(name, scope, req.Pin.String())
		}
		lookupErr := zerr.Wrap(err, domain.ErrIndexRequestFailed.Error())
		return domain.ResolvedPackage{}, zerr.With(lookupErr, "name", name)
	}

	best, found := selectCandidate(candidates, req.Pin.String())
	if !found {
		return domain.ResolvedPackage{}, unresolvedErr(name, scope, req.Pin.String())
	}

	return domain.ResolvedPackage{
		Name:     req.Name,
		Version:  best.Version,
		Artifact: best.Artifact,
	}, nil
}

// selectCandidate picks the highest version among candidates satisfying the
// pin. Ties on version are broken by registry revision so the choice stays
// deterministic even against a degenerate index.
func selectCandidate(candidates []domain.Candidate, pin string) (domain.Candidate, bool) {
	var (
		best  domain.Candidate
		found bool
	)
	for _, c := range candidates {
		if !domain.VersionSatisfies(c.Version.String(), pin) {
			continue
		}
		if !found {
			best, found = c, true
			continue
		}
		switch domain.CompareVersions(c.Version.String(), best.Version.String()) {
		case 1:
			best = c
		case 0:
			if strings.Compare(c.Artifact.Rev.String(), best.Artifact.Rev.String()) > 0 {
				best = c
			}
		}
	}
	return best, found
}

func comparePackages(a, b domain.ResolvedPackage) int {
	return strings.Compare(a.Name.String(), b.Name.String())
}

type failure struct {
	scope string
	name  string
	err   error
}

// joinFailures orders collected failures deterministically (by scope, then
// name) and joins them into a single error.
func joinFailures(failures []failure) error {
	slices.SortFunc(failures, func(a, b failure) int {
		if c := strings.Compare(a.scope, b.scope); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f.err
	}
	return errors.Join(errs...)
}

// unresolvedErr builds an ErrUnresolvedDependency for one request. The
// sentinel is wrapped, not copied, so errors.Is matches through the joined
// batch error; the failing name goes in the message because metadata is not
// part of the error text.
func unresolvedErr(name, scope, pin string) error {
	msg := fmt.Sprintf("%s %q", scope, name)
	if pin != "" {
		msg = fmt.Sprintf("%s %q (pin %s)", scope, name, pin)
	}

	err := zerr.With(zerr.Wrap(domain.ErrUnresolvedDependency, msg), "name", name)
	err = zerr.With(err, "scope", scope)
	if pin != "" {
		err = zerr.With(err, "pin", pin)
	}
	return err
}
