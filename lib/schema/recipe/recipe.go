// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

// Recipe is a complete package build recipe. The zero value is not a
// valid recipe — Package.Name is required at minimum. Structural
// validation lives in lib/recipedef.
type Recipe struct {
	Package      Package      `yaml:"package"`
	Source       Source       `yaml:"source,omitempty"`
	Build        Build        `yaml:"build,omitempty"`
	Requirements Requirements `yaml:"requirements,omitempty"`
	Test         Test         `yaml:"test,omitempty"`
	About        About        `yaml:"about,omitempty"`
}

// Package identifies the package being built.
type Package struct {
	// Name is the package name under the depspec name grammar.
	Name string `yaml:"name"`

	// Version is the package version. Typically a directive such as
	// {{ script("python setup.py --version") }}, resolved at
	// recipe-evaluation time; must evaluate to a non-empty string.
	Version string `yaml:"version"`
}

// Source locates the sources the build consumes.
type Source struct {
	// Path is the source directory relative to the recipe folder.
	// For an in-repo recipe folder this is usually "..".
	Path string `yaml:"path"`
}

// Build holds the build settings.
type Build struct {
	// Number distinguishes rebuilds of the same version. Starts at 0
	// and increments for recipe-only changes.
	Number int `yaml:"number"`

	// Noarch marks the produced artifact platform-independent. The
	// only supported value is "python"; empty means arch-specific.
	Noarch string `yaml:"noarch,omitempty"`

	// Script is the build command. Empty means the packaging tool's
	// default for the source layout.
	Script string `yaml:"script,omitempty"`
}

// Requirements carries the three dependency categories as raw spec
// strings ("name [constraints]"), in file order.
type Requirements struct {
	// Build lists build-time dependencies.
	Build []string `yaml:"build,omitempty"`

	// Run lists run-time dependencies installed with the package.
	Run []string `yaml:"run,omitempty"`

	// RunConstrained lists version constraints enforced only when the
	// named package is present, without making it a dependency.
	RunConstrained []string `yaml:"run_constrained,omitempty"`
}

// Test is the post-build smoke test executed in a fresh environment
// with the built package installed.
type Test struct {
	// Imports lists module names that must import cleanly.
	Imports []string `yaml:"imports,omitempty"`

	// Requires is an optional requirements file installed into the
	// test environment first.
	Requires string `yaml:"requires,omitempty"`
}

// About is static package metadata, read once during package build.
type About struct {
	// Home is the project homepage URL.
	Home string `yaml:"home,omitempty"`

	// License is an SPDX license identifier.
	License string `yaml:"license,omitempty"`

	// Summary is a one-line description.
	Summary string `yaml:"summary,omitempty"`
}
