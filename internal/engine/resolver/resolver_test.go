package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shedtool/shed/internal/adapters/index"
	"github.com/shedtool/shed/internal/core/domain"
	"github.com/shedtool/shed/internal/core/ports/mocks"
	"github.com/shedtool/shed/internal/engine/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func candidate(version, rev, attrPath string) domain.Candidate {
	return domain.Candidate{
		Version: domain.NewInternedString(version),
		Artifact: domain.Artifact{
			Registry: domain.NewInternedString("nixpkgs"),
			Rev:      domain.NewInternedString(rev),
			AttrPath: domain.NewInternedString(attrPath),
		},
	}
}

func req(spec string) domain.Request {
	r, err := domain.ParseRequest(spec)
	if err != nil {
		panic(err)
	}
	return r
}

// pythonIndex is the index snapshot used across tests: a python3 runtime,
// five library packages and two standalone tools.
func pythonIndex() *index.Static {
	return index.NewStatic(map[string][]domain.Candidate{
		"python3": {
			candidate("3.10.14", "rev-old", "python310"),
			candidate("3.11.9", "rev-new", "python311"),
		},
		"requests": {
			candidate("2.31.0", "rev-old", "python311Packages.requests"),
			candidate("2.32.3", "rev-new", "python311Packages.requests"),
		},
		"pyproj":   {candidate("3.6.1", "rev-new", "python311Packages.pyproj")},
		"aiohttp":  {candidate("3.9.5", "rev-new", "python311Packages.aiohttp")},
		"aiofiles": {candidate("23.2.1", "rev-new", "python311Packages.aiofiles")},
		"pygame":   {candidate("2.5.2", "rev-new", "python311Packages.pygame")},
		"black":    {candidate("24.4.2", "rev-new", "black")},
		"ruff":     {candidate("0.4.8", "rev-new", "ruff")},
	})
}

func pythonManifest() domain.Manifest {
	return domain.Manifest{
		Runtime: req("python3"),
		Packages: []domain.Request{
			req("requests"), req("pyproj"), req("aiohttp"), req("aiofiles"), req("pygame"),
		},
		Tools: []domain.Request{req("black"), req("ruff")},
	}
}

func TestResolve_CompleteManifest(t *testing.T) {
	r := resolver.New(pythonIndex())

	desc, err := r.Resolve(context.Background(), pythonManifest())
	require.NoError(t, err)

	assert.Equal(t, "python3", desc.Runtime.Name.String())
	assert.Equal(t, "3.11.9", desc.Runtime.Version.String(), "latest version wins when unpinned")

	// Exactly the deduplicated input sets, no additions, no omissions.
	require.Len(t, desc.Packages, 5)
	require.Len(t, desc.Tools, 2)

	gotPackages := make([]string, 0, len(desc.Packages))
	for _, p := range desc.Packages {
		assert.NotEmpty(t, p.Version.String())
		assert.NotEmpty(t, p.Artifact.Rev.String())
		gotPackages = append(gotPackages, p.Name.String())
	}
	assert.Equal(t, []string{"aiofiles", "aiohttp", "pygame", "pyproj", "requests"}, gotPackages)

	assert.Equal(t, "black", desc.Tools[0].Name.String())
	assert.Equal(t, "ruff", desc.Tools[1].Name.String())
}

func TestResolve_Idempotent(t *testing.T) {
	r := resolver.New(pythonIndex())
	ctx := context.Background()

	first, err := r.Resolve(ctx, pythonManifest())
	require.NoError(t, err)

	second, err := r.Resolve(ctx, pythonManifest())
	require.NoError(t, err)

	assert.Equal(t, first, second, "same manifest and index snapshot must yield identical descriptors")
}

func TestResolve_OrderIndependent(t *testing.T) {
	r := resolver.New(pythonIndex())
	ctx := context.Background()

	permuted := domain.Manifest{
		Runtime: req("python3"),
		Packages: []domain.Request{
			req("pygame"), req("aiofiles"), req("requests"), req("aiohttp"), req("pyproj"),
		},
		Tools: []domain.Request{req("ruff"), req("black")},
	}

	a, err := r.Resolve(ctx, pythonManifest())
	require.NoError(t, err)

	b, err := r.Resolve(ctx, permuted)
	require.NoError(t, err)

	assert.Equal(t, a, b, "request order must not affect the descriptor")
}

func TestResolve_PinSelection(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime:  req("python3@3.10"),
		Packages: []domain.Request{req("requests@2.31.0")},
	}

	desc, err := r.Resolve(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, "3.10.14", desc.Runtime.Version.String(), "runtime pin is a version prefix")
	assert.Equal(t, "2.31.0", desc.Packages[0].Version.String())
}

func TestResolve_PinNotSatisfiable(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime:  req("python3"),
		Packages: []domain.Request{req("requests@9.9")},
	}

	_, err := r.Resolve(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrUnresolvedDependency)
	assert.Contains(t, err.Error(), "requests")
}

func TestResolve_ConflictingScopes(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime:  req("python3"),
		Packages: []domain.Request{req("black")},
		Tools:    []domain.Request{req("black")},
	}

	desc, err := r.Resolve(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrConflictingRequest)
	assert.Contains(t, err.Error(), "black")
	assert.Nil(t, desc, "no partial descriptor on failure")
}

func TestResolve_MissingDependenciesReportedTogether(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime: req("python3"),
		Packages: []domain.Request{
			req("pygame"), req("doesnotexist1"), req("doesnotexist2"),
		},
	}

	desc, err := r.Resolve(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrUnresolvedDependency)
	assert.Contains(t, err.Error(), "doesnotexist1")
	assert.Contains(t, err.Error(), "doesnotexist2")
	assert.NotContains(t, err.Error(), "pygame")
	assert.Nil(t, desc)
}

func TestResolve_MissingRuntime(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime:  req("python4"),
		Packages: []domain.Request{req("requests")},
	}

	_, err := r.Resolve(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrUnresolvedDependency)
	assert.Contains(t, err.Error(), "python4")
}

func TestResolve_NotFoundDistinctFromIndexFailure(t *testing.T) {
	r := resolver.New(pythonIndex())

	m := domain.Manifest{
		Runtime:  req("python3"),
		Packages: []domain.Request{req("doesnotexist")},
	}

	_, err := r.Resolve(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrUnresolvedDependency)
	assert.False(t, errors.Is(err, domain.ErrIndexRequestFailed),
		"a missing package must not be reported as an index failure")
}

func TestResolve_IndexErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockIndex := mocks.NewMockPackageIndex(ctrl)

	lookupErr := zerr.New("registry unreachable")
	mockIndex.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(nil, lookupErr).AnyTimes()

	r := resolver.New(mockIndex)

	m := domain.Manifest{Runtime: req("python3")}
	_, err := r.Resolve(context.Background(), m)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnresolvedDependency,
		"an index failure is not a missing dependency")
	assert.Contains(t, err.Error(), "registry unreachable")
}

func TestResolve_VersionTieBrokenByRev(t *testing.T) {
	idx := index.NewStatic(map[string][]domain.Candidate{
		"python3": {
			candidate("3.11.9", "rev-a", "python311"),
			candidate("3.11.9", "rev-b", "python311"),
		},
	})
	r := resolver.New(idx)

	desc, err := r.Resolve(context.Background(), domain.Manifest{Runtime: req("python3")})
	require.NoError(t, err)
	assert.Equal(t, "rev-b", desc.Runtime.Artifact.Rev.String())
}
