// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package variants provides parsing for pin files: the mapping from
// package name to version constraint that resolves {{ pin("...") }}
// directives in recipes. Pin files are authored on disk as JSONC
// (JSON extended with comments and trailing commas), so a pin can
// carry a note about why it exists.
//
// A pin file is a flat object:
//
//	{
//	    // epics-base rebuilds are coordinated across the facility
//	    "epics-base": "==7.0.8",
//	    "ophyd": ">=1.6.1",
//	}
package variants

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/beamforge/beamforge/lib/depspec"
)

// Pins is a package name → constraint string mapping. Values are
// raw constraint sets under the dependency spec grammar.
type Pins map[string]string

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Pins mapping.
func Parse(data []byte) (Pins, error) {
	stripped := jsonc.ToJSON(data)

	var pins Pins
	if err := json.Unmarshal(stripped, &pins); err != nil {
		return nil, fmt.Errorf("parsing pin file: %w", err)
	}

	return pins, nil
}

// ReadFile reads a JSONC pin file from disk and parses it. Returns a
// descriptive error if the file cannot be read or the JSON is
// malformed.
func ReadFile(path string) (Pins, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	pins, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pins, nil
}

// Validate checks every pin entry: the key must be a valid package
// name and the value a parseable, non-contradictory constraint set.
// Returns a list of human-readable issue descriptions in sorted key
// order.
func (p Pins) Validate() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []string
	for _, name := range names {
		spec, err := depspec.Parse(name + " " + p[name])
		if err != nil {
			issues = append(issues, fmt.Sprintf("pin %q: %v", name, err))
			continue
		}
		if len(spec.Constraints) == 0 {
			issues = append(issues, fmt.Sprintf("pin %q: missing a version constraint", name))
			continue
		}
		if contradiction := spec.Constraints.Contradiction(); contradiction != "" {
			issues = append(issues, fmt.Sprintf("pin %q: %s", name, contradiction))
		}
	}
	return issues
}
