package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/shedtool/shed/internal/core/domain"
	"go.trai.ch/zerr"
)

// Static implements ports.PackageIndex from an in-memory snapshot. It backs
// the --index flag for offline resolution and is the index of choice in
// tests.
type Static struct {
	entries map[string][]domain.Candidate
}

// NewStatic creates a Static index from a name -> candidates mapping.
func NewStatic(entries map[string][]domain.Candidate) *Static {
	snapshot := make(map[string][]domain.Candidate, len(entries))
	for name, candidates := range entries {
		snapshot[name] = slices.Clone(candidates)
	}
	return &Static{entries: snapshot}
}

// LoadStatic creates a Static index from a JSON snapshot file mapping names
// to release lists, in the same wire shape as registry responses.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		readErr := zerr.Wrap(err, domain.ErrIndexRequestFailed.Error())
		return nil, zerr.With(readErr, "path", path)
	}

	var snapshot map[string][]ReleaseDTO
	if err := json.Unmarshal(data, &snapshot); err != nil {
		parseErr := zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
		return nil, zerr.With(parseErr, "path", path)
	}

	entries := make(map[string][]domain.Candidate, len(snapshot))
	for name, releases := range snapshot {
		entries[name] = toCandidates(releases)
	}
	return &Static{entries: entries}, nil
}

// Lookup returns the candidates for a name from the snapshot.
func (s *Static) Lookup(_ context.Context, name string) ([]domain.Candidate, error) {
	candidates, ok := s.entries[name]
	if !ok || len(candidates) == 0 {
		notFound := zerr.Wrap(domain.ErrPackageNotFound, fmt.Sprintf("package %q", name))
		return nil, zerr.With(notFound, "name", name)
	}
	return slices.Clone(candidates), nil
}
