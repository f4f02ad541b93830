package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shedtool/shed/internal/adapters/manifest"
	"github.com/shedtool/shed/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeManifest(t, `
runtime: python3
packages:
  - requests
  - pyproj
  - aiohttp
  - aiofiles
  - pygame
standaloneTools:
  - black
  - ruff
`)

	loader := manifest.NewLoader()
	m, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "python3", m.Runtime.Name.String())
	assert.Empty(t, m.Runtime.Pin.String())
	require.Len(t, m.Packages, 5)
	require.Len(t, m.Tools, 2)
	assert.Equal(t, "requests", m.Packages[0].Name.String())
	assert.Equal(t, "black", m.Tools[0].Name.String())
}

func TestLoader_Load_Pins(t *testing.T) {
	path := writeManifest(t, `
runtime: python3@3.11
packages:
  - requests@2.32.3
standaloneTools:
  - black
`)

	loader := manifest.NewLoader()
	m, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3.11", m.Runtime.Pin.String())
	assert.Equal(t, "2.32.3", m.Packages[0].Pin.String())
	assert.Empty(t, m.Tools[0].Pin.String())
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := manifest.NewLoader()
	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, domain.ErrManifestReadFailed.Error())
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	path := writeManifest(t, "runtime: [unclosed")

	loader := manifest.NewLoader()
	_, err := loader.Load(path)
	require.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
}

func TestLoader_Load_RejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, `
runtime: python3
packages:
  - requests
standAloneTools:
  - black
`)

	loader := manifest.NewLoader()
	_, err := loader.Load(path)
	require.ErrorContains(t, err, domain.ErrManifestParseFailed.Error(),
		"a misspelled key must fail instead of being silently dropped")
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	path := writeManifest(t, "")

	loader := manifest.NewLoader()
	m, err := loader.Load(path)
	require.NoError(t, err)

	_, err = m.Normalize()
	require.ErrorIs(t, err, domain.ErrMissingRuntime)
}

func TestLoader_Load_CollectsBadSpecs(t *testing.T) {
	path := writeManifest(t, `
runtime: python3
packages:
  - "requests@"
standaloneTools:
  - "@1.0"
`)

	loader := manifest.NewLoader()
	_, err := loader.Load(path)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "requests@")
	assert.Contains(t, err.Error(), "@1.0")
}

func TestLoader_Load_NoRuntimeLeftForNormalize(t *testing.T) {
	path := writeManifest(t, `
packages:
  - requests
`)

	loader := manifest.NewLoader()
	m, err := loader.Load(path)
	require.NoError(t, err, "a missing runtime is a validation concern, not a parse error")

	_, err = m.Normalize()
	require.ErrorIs(t, err, domain.ErrMissingRuntime)
}
