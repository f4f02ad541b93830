// Package manifest provides the YAML manifest loader for shed.
package manifest

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/shedtool/shed/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ManifestLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new manifest Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a manifest file from the given path.
// The manifest is returned un-normalized; validation and deduplication happen
// in the resolver so all failures are reported together.
func (l *Loader) Load(path string) (domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		readErr := zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
		return domain.Manifest{}, zerr.With(readErr, "path", path)
	}

	// Strict decoding rejects unknown keys so a misspelled field fails loudly
	// instead of being silently dropped. An empty file decodes to io.EOF and is
	// treated as an empty manifest; Normalize reports the missing runtime.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file Shedfile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		parseErr := zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
		return domain.Manifest{}, zerr.With(parseErr, "path", path)
	}

	return file.toManifest()
}

// toManifest converts the file representation to the domain manifest,
// parsing "name@version" pin specs. Malformed specs are collected so the
// caller sees every bad entry in one pass.
func (f Shedfile) toManifest() (domain.Manifest, error) {
	var errs []error

	// An absent runtime is left for Normalize to report, so it surfaces
	// alongside any other manifest problems.
	var runtime domain.Request
	if f.Runtime != "" {
		var err error
		runtime, err = domain.ParseRequest(f.Runtime)
		if err != nil {
			errs = append(errs, err)
		}
	}

	packages, err := parseRequests(f.Packages)
	if err != nil {
		errs = append(errs, err)
	}

	tools, err := parseRequests(f.Tools)
	if err != nil {
		errs = append(errs, err)
	}

	if err := joinErrs(errs); err != nil {
		return domain.Manifest{}, err
	}

	return domain.Manifest{
		Runtime:  runtime,
		Packages: packages,
		Tools:    tools,
	}, nil
}

func parseRequests(specs []string) ([]domain.Request, error) {
	var errs []error
	reqs := make([]domain.Request, 0, len(specs))
	for _, spec := range specs {
		req, err := domain.ParseRequest(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, joinErrs(errs)
}
