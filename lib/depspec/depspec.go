// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package depspec implements the dependency spec grammar used in
// package recipes: a package name followed by an optional
// comma-separated version constraint list, e.g.
//
//	ophyd >=1.5.0,<2.0a0
//	pyepics
//	numpy =1.26
//
// Versions order under the conda-flavored rules implemented in
// [Version]; constraint sets are conjunctions screened for static
// contradictions by [Set.Contradiction]. Full dependency resolution
// against a package index is out of scope — that belongs to the
// packaging ecosystem's resolver.
package depspec

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches valid package names: lowercase alphanumerics
// with interior dots, hyphens, and underscores. Anchored to the full
// string.
var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Spec is one parsed dependency declaration.
type Spec struct {
	// Name is the package name, always lowercase.
	Name string

	// Constraints is the version constraint conjunction. Empty for an
	// unconstrained dependency.
	Constraints Set

	// Raw is the original declaration text, preserved for error
	// messages and round-trip rendering.
	Raw string
}

// Parse parses a single dependency declaration: a package name,
// optionally followed by whitespace and a constraint list. The
// alternative "name==1.2" spelling without whitespace is also
// accepted.
func Parse(raw string) (Spec, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Spec{}, fmt.Errorf("empty dependency spec")
	}

	name := trimmed
	constraintText := ""
	if index := strings.IndexAny(trimmed, " \t"); index >= 0 {
		name = trimmed[:index]
		constraintText = strings.TrimSpace(trimmed[index+1:])
	} else if index := strings.IndexAny(trimmed, "<>=!"); index >= 0 {
		name = trimmed[:index]
		constraintText = trimmed[index:]
	}

	name = strings.ToLower(name)
	if !namePattern.MatchString(name) {
		return Spec{}, fmt.Errorf("invalid package name %q", name)
	}

	constraints, err := ParseSet(constraintText)
	if err != nil {
		return Spec{}, fmt.Errorf("dependency %q: %w", trimmed, err)
	}

	return Spec{Name: name, Constraints: constraints, Raw: trimmed}, nil
}

// String returns the canonical "name constraints" spelling.
func (s Spec) String() string {
	if len(s.Constraints) == 0 {
		return s.Name
	}
	return s.Name + " " + s.Constraints.String()
}

// ParseList parses each entry of a dependency list. Entries that fail
// to parse are reported in the returned issue list (prefixed with
// their position); entries that parse are returned in order. A nil
// issue slice means every entry parsed.
func ParseList(entries []string) ([]Spec, []string) {
	var specs []Spec
	var issues []string

	for index, entry := range entries {
		spec, err := Parse(entry)
		if err != nil {
			issues = append(issues, fmt.Sprintf("[%d]: %v", index, err))
			continue
		}
		specs = append(specs, spec)
	}

	return specs, issues
}

// Duplicates returns the names declared more than once in the given
// specs, in first-occurrence order.
func Duplicates(specs []Spec) []string {
	seen := make(map[string]int, len(specs))
	var duplicates []string
	for _, spec := range specs {
		seen[spec.Name]++
		if seen[spec.Name] == 2 {
			duplicates = append(duplicates, spec.Name)
		}
	}
	return duplicates
}
