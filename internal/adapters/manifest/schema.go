package manifest

import "errors"

// Shedfile represents the structure of the shed.yaml manifest file.
//
// Entries in packages and tools accept an optional "@version" pin suffix;
// a bare name selects the latest available version.
type Shedfile struct {
	Runtime  string   `yaml:"runtime"`
	Packages []string `yaml:"packages"`
	Tools    []string `yaml:"standaloneTools"`
}

func joinErrs(errs []error) error {
	return errors.Join(errs...)
}
