package index_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shedtool/shed/internal/adapters/index"
	"github.com/shedtool/shed/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Lookup(t *testing.T) {
	idx := index.NewStatic(map[string][]domain.Candidate{
		"black": {
			{
				Version: domain.NewInternedString("24.4.2"),
				Artifact: domain.Artifact{
					Registry: domain.NewInternedString("nixpkgs"),
					Rev:      domain.NewInternedString("rev-1"),
					AttrPath: domain.NewInternedString("black"),
				},
			},
		},
	})

	candidates, err := idx.Lookup(context.Background(), "black")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "24.4.2", candidates[0].Version.String())

	_, err = idx.Lookup(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestLoadStatic(t *testing.T) {
	snapshot := `{
  "python3": [
    {"version": "3.11.9", "registry": "nixpkgs", "rev": "rev-311", "attr_path": "python311"}
  ],
  "ruff": [
    {"version": "0.4.8", "registry": "nixpkgs", "rev": "rev-311", "attr_path": "ruff"}
  ]
}`
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), domain.FilePerm))

	idx, err := index.LoadStatic(path)
	require.NoError(t, err)

	candidates, err := idx.Lookup(context.Background(), "python3")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "python311", candidates[0].Artifact.AttrPath.String())
}

func TestLoadStatic_Errors(t *testing.T) {
	_, err := index.LoadStatic(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, domain.ErrIndexRequestFailed.Error())

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), domain.FilePerm))

	_, err = index.LoadStatic(path)
	require.ErrorContains(t, err, domain.ErrIndexParseFailed.Error())
}
