// Package activator materializes resolved environment descriptors into
// interactive shells via the external environment builder.
package activator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shedtool/shed/internal/core/domain"
	"github.com/shedtool/shed/internal/core/ports"
	"go.trai.ch/zerr"
)

// Shell implements ports.Activator by asking the builder for the
// environment variables of the descriptor's closure and then spawning an
// interactive shell with them.
//
// Materialization happens exactly once, after the pure resolve step; the
// resolved variables are cached per EnvID so re-entering an unchanged
// environment touches neither the builder nor the network.
type Shell struct {
	logger   ports.Logger
	cacheDir string

	// runBuilder executes the environment builder and returns its stdout.
	// Overridable for testing.
	runBuilder func(ctx context.Context, exprPath string) ([]byte, error)

	// spawnShell starts the interactive shell with the given environment.
	// Overridable for testing.
	spawnShell func(ctx context.Context, env []string) error
}

// NewShell creates a new shell Activator with the default cache directory.
func NewShell(logger ports.Logger) *Shell {
	return NewShellWithCache(logger, domain.DefaultEnvCachePath())
}

// NewShellWithCache creates a shell Activator with a specific cache directory.
func NewShellWithCache(logger ports.Logger, cacheDir string) *Shell {
	return &Shell{
		logger:     logger,
		cacheDir:   cacheDir,
		runBuilder: runBuilder,
		spawnShell: spawnShell,
	}
}

// Enter materializes the descriptor and runs an interactive shell in it.
func (s *Shell) Enter(ctx context.Context, desc *domain.EnvironmentDescriptor) error {
	env, err := s.materialize(ctx, desc)
	if err != nil {
		return err
	}
	return s.spawnShell(ctx, env)
}

// materialize turns the descriptor into a sorted "KEY=VALUE" environment,
// consulting the per-EnvID cache first.
func (s *Shell) materialize(ctx context.Context, desc *domain.EnvironmentDescriptor) ([]string, error) {
	envID := desc.EnvID()

	cachePath := filepath.Join(s.cacheDir, envID+".json")
	if cached, err := loadEnvFromCache(cachePath); err == nil {
		return cached, nil
	}

	expr := generateShellExpr(desc)
	exprPath, cleanup, err := createExprTempFile(expr)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	output, err := s.runBuilder(ctx, exprPath)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrActivationFailed.Error())
	}

	env, err := parseDevEnv(output)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrActivationFailed.Error())
	}

	env = append(env, "SHED_ENV="+envID)
	slices.Sort(env)

	if err := saveEnvToCache(cachePath, env); err != nil {
		s.logger.Warn("failed to cache materialized environment")
	}

	return env, nil
}

// generateShellExpr generates the builder expression for the descriptor.
// Packages are grouped by registry revision so each pinned universe is
// imported once.
func generateShellExpr(desc *domain.EnvironmentDescriptor) string {
	all := make([]domain.ResolvedPackage, 0, 1+len(desc.Packages)+len(desc.Tools))
	all = append(all, desc.Runtime)
	all = append(all, desc.Packages...)
	all = append(all, desc.Tools...)

	revs := make([]string, 0, len(all))
	revToIdx := make(map[string]int)
	for _, pkg := range all {
		rev := pkg.Artifact.Rev.String()
		if _, ok := revToIdx[rev]; !ok {
			revToIdx[rev] = len(revs)
			revs = append(revs, rev)
		}
	}

	var builder strings.Builder
	builder.WriteString("let\n")
	for i, rev := range revs {
		fmt.Fprintf(&builder, "flake_%d = builtins.getFlake \"github:NixOS/nixpkgs/%s\";\n", i, rev)
		fmt.Fprintf(&builder, "pkgs_%d = flake_%d.legacyPackages.${builtins.currentSystem};\n", i, i)
	}
	builder.WriteString("in\n")
	builder.WriteString("pkgs_0.mkShell {\n")
	builder.WriteString("buildInputs = [\n")
	for _, pkg := range all {
		idx := revToIdx[pkg.Artifact.Rev.String()]
		fmt.Fprintf(&builder, "pkgs_%d.%s\n", idx, pkg.Artifact.AttrPath.String())
	}
	builder.WriteString("];\n")
	builder.WriteString("}\n")

	return builder.String()
}

// createExprTempFile writes the builder expression to a temporary file.
func createExprTempFile(expr string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "shed-env-*.nix")
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to create temp expression file")
	}

	path = tmpFile.Name()
	cleanup = func() {
		_ = os.Remove(path)
	}

	if _, writeErr := tmpFile.WriteString(expr); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, zerr.Wrap(writeErr, "failed to write expression file")
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, zerr.Wrap(closeErr, "failed to close expression file")
	}

	return path, cleanup, nil
}

// runBuilder executes the environment builder for the given expression file.
func runBuilder(ctx context.Context, exprPath string) ([]byte, error) {
	//nolint:gosec // exprPath is a trusted temp file created by us
	cmd := exec.CommandContext(ctx, "nix", "print-dev-env",
		"--extra-experimental-features", "nix-command flakes",
		"--json", "--file", exprPath)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			return nil, zerr.With(zerr.Wrap(err, "environment builder failed"), "stderr", stderr)
		}
		return nil, zerr.Wrap(err, "environment builder failed")
	}
	return output, nil
}

// spawnShell execs the user's shell with the materialized environment
// overlaid on the current process environment.
func spawnShell(ctx context.Context, env []string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell) //nolint:gosec // user's own shell
	cmd.Env = mergeEnv(os.Environ(), env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// A non-zero shell exit is the user's business, not an activation
		// failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrActivationFailed.Error())
	}
	return nil
}

// mergeEnv overlays the materialized variables on the base environment.
// PATH entries are prepended rather than replaced, so host tooling stays
// reachable from inside the shell.
func mergeEnv(base, overlay []string) []string {
	merged := make(map[string]string, len(base)+len(overlay))
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		merged[key] = value
	}
	for _, kv := range overlay {
		key, value, _ := strings.Cut(kv, "=")
		if key == "PATH" && merged[key] != "" {
			merged[key] = value + string(os.PathListSeparator) + merged[key]
			continue
		}
		merged[key] = value
	}

	out := make([]string, 0, len(merged))
	for key, value := range merged {
		out = append(out, key+"="+value)
	}
	slices.Sort(out)
	return out
}

// devEnvOutput represents the JSON structure emitted by the builder.
type devEnvOutput struct {
	Variables map[string]devEnvVariable `json:"variables"`
}

type devEnvVariable struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// parseDevEnv parses the builder's JSON output and extracts exported
// environment variables.
func parseDevEnv(jsonData []byte) ([]string, error) {
	var output devEnvOutput
	if err := json.Unmarshal(jsonData, &output); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal builder output")
	}

	env := make([]string, 0, len(output.Variables))
	for key, variable := range output.Variables {
		if !shouldIncludeVar(key) {
			continue
		}

		var valueStr string
		switch v := variable.Value.(type) {
		case string:
			valueStr = v
		case []any:
			parts := make([]string, len(v))
			for i, part := range v {
				if s, ok := part.(string); ok {
					parts[i] = s
				}
			}
			valueStr = strings.Join(parts, ":")
		default:
			continue
		}

		env = append(env, key+"="+valueStr)
	}

	slices.Sort(env)
	return env, nil
}

// shouldIncludeVar determines if an environment variable from the builder
// should be carried into the shell. Build-related variables are kept;
// interactive shell variables stay with the host.
func shouldIncludeVar(key string) bool {
	include := []string{
		"PATH",
		"PYTHONPATH",
		"PYTHONHOME",
		"LD_LIBRARY_PATH",
		"PKG_CONFIG_PATH",
		"NIX_",
	}
	for _, prefix := range include {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// loadEnvFromCache attempts to load a cached materialized environment.
func loadEnvFromCache(path string) ([]string, error) {
	//nolint:gosec // Path is constructed from trusted cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrEnvCacheReadFailed
		}
		return nil, zerr.Wrap(err, domain.ErrEnvCacheReadFailed.Error())
	}

	var env []string
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(err, domain.ErrEnvCacheReadFailed.Error())
	}

	return env, nil
}

// saveEnvToCache saves a materialized environment to the cache.
func saveEnvToCache(path string, env []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	//nolint:gosec // Path is constructed from trusted cache directory
	return os.WriteFile(path, data, domain.FilePerm)
}
