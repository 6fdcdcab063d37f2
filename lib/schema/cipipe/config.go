// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package cipipe

import (
	"fmt"
	"regexp"
	"strings"
)

// Known environment keys consumed by the shared pipeline. The shared
// pipeline reads these at job execution time; beamforge validates
// their local grammar and can resolve the block to a flat map.
const (
	// KeyDocsFolder is the directory of the Markdown documentation
	// sources, relative to the repository root.
	KeyDocsFolder = "DOCS_FOLDER"

	// KeyDocsVersioned enables per-version documentation output
	// directories ("true"/"false").
	KeyDocsVersioned = "DOCS_VERSIONED"

	// KeyDocsRequirements lists the requirement files the docs build
	// installs before running, space-separated.
	KeyDocsRequirements = "DOCS_REQUIREMENTS"

	// KeyLintTarget is the path the lint job checks.
	KeyLintTarget = "LINT_TARGET"

	// KeyPackage is the package name built and uploaded by the
	// packaging jobs.
	KeyPackage = "CONDA_PACKAGE"

	// KeyRecipeFolder is the path of the recipe directory relative to
	// the repository root.
	KeyRecipeFolder = "CONDA_RECIPE_FOLDER"

	// KeyCondaExtras lists extra packages installed into the test
	// environment, space-separated.
	KeyCondaExtras = "CONDA_EXTRAS"

	// KeyCondaRequirements is the test-requirements file installed
	// before the package test job runs.
	KeyCondaRequirements = "CONDA_REQUIREMENTS"

	// KeyPipExtras lists pip extras enabled for the pip test job,
	// space-separated.
	KeyPipExtras = "PIP_EXTRAS"
)

// versionPinPattern matches the shared-pipeline version pin: "~>"
// followed by major[.minor] ("~> 1.0"). The pin selects the newest
// shared-pipeline release with a compatible major version.
var versionPinPattern = regexp.MustCompile(`^~>\s*\d+(\.\d+)?$`)

// envNamePattern matches environment variable names.
var envNamePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Config is a complete CI pipeline configuration. It declares no jobs
// of its own — the job graph comes from the imported shared pipeline;
// this file only parameterizes it.
type Config struct {
	// Version is the shared-pipeline compatibility pin ("~> 1.0").
	Version string `yaml:"version"`

	// Env is the global environment block, in file order.
	Env []EnvEntry `yaml:"env"`

	// Jobs is the job policy block.
	Jobs JobsPolicy `yaml:"jobs"`

	// Imports reference the externally maintained shared pipeline
	// files that supply the job graph.
	Imports []ImportRef `yaml:"import"`
}

// EnvEntry is one entry in the global environment block: either a
// plain NAME=value assignment or a sealed value ("secure" set, Name
// and Value empty until opened).
type EnvEntry struct {
	// Name and Value hold a plain assignment.
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value,omitempty"`

	// Secure holds a base64 age ciphertext produced by
	// "beamforge secret seal". The plaintext is itself a NAME=value
	// assignment, opened only at job execution time.
	Secure string `yaml:"secure,omitempty"`
}

// IsSecure reports whether the entry is a sealed value.
func (e EnvEntry) IsSecure() bool { return e.Secure != "" }

// Validate checks one env entry's local grammar.
func (e EnvEntry) Validate() error {
	if e.IsSecure() {
		if e.Name != "" || e.Value != "" {
			return fmt.Errorf("secure entry must not also carry a plain assignment")
		}
		return nil
	}
	if e.Name == "" {
		return fmt.Errorf("env entry has neither a name nor a secure value")
	}
	if !envNamePattern.MatchString(e.Name) {
		return fmt.Errorf("invalid env name %q", e.Name)
	}
	return nil
}

// JobsPolicy is the declarative job policy consumed by the external
// orchestrator. Beamforge never executes jobs; it only validates the
// references.
type JobsPolicy struct {
	// AllowFailures names jobs permitted to fail without failing the
	// pipeline. All other job failures are fatal under the external
	// orchestrator's default policy.
	AllowFailures []JobRef `yaml:"allow_failures,omitempty"`
}

// JobRef names a job defined by the imported shared pipeline.
type JobRef struct {
	Name string `yaml:"name"`
}

// ImportRef references a shared pipeline file in an external
// repository: "owner/repo:path/to/pipeline.yml@ref". The ref suffix
// is optional and defaults to the repository's default branch.
type ImportRef struct {
	// Source is the owner/repo of the shared-pipeline repository.
	Source string `yaml:"source"`

	// Path is the pipeline file path within that repository.
	Path string `yaml:"path"`

	// Ref is the optional branch, tag, or commit.
	Ref string `yaml:"ref,omitempty"`
}

// ParseImportRef parses the compact "source:path@ref" spelling used
// in configuration files.
func ParseImportRef(raw string) (ImportRef, error) {
	trimmed := strings.TrimSpace(raw)
	colon := strings.IndexByte(trimmed, ':')
	if colon <= 0 {
		return ImportRef{}, fmt.Errorf("import %q: missing source (want owner/repo:path[@ref])", raw)
	}

	ref := ImportRef{Source: trimmed[:colon]}
	rest := trimmed[colon+1:]
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		ref.Ref = rest[at+1:]
		rest = rest[:at]
	}
	ref.Path = rest

	if err := ref.Validate(); err != nil {
		return ImportRef{}, err
	}
	return ref, nil
}

// String returns the compact spelling.
func (r ImportRef) String() string {
	s := r.Source + ":" + r.Path
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// Validate checks the structural fields of an import reference.
func (r ImportRef) Validate() error {
	if r.Source == "" {
		return fmt.Errorf("import has no source")
	}
	if !strings.Contains(r.Source, "/") {
		return fmt.Errorf("import source %q is not owner/repo", r.Source)
	}
	if r.Path == "" {
		return fmt.Errorf("import %q has no path", r.Source)
	}
	return nil
}

// ValidVersionPin reports whether the version pin has the "~> N[.M]"
// form.
func ValidVersionPin(pin string) bool {
	return versionPinPattern.MatchString(strings.TrimSpace(pin))
}
