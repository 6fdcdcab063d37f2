// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipedef

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beamforge/beamforge/lib/depspec"
	"github.com/beamforge/beamforge/lib/schema/recipe"
)

// modulePattern matches importable module names for the post-build
// smoke test: dotted identifiers.
var modulePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// licensePattern is a loose SPDX identifier shape: terms joined by
// spaces, hyphens, dots, and plus signs ("BSD-3-Clause",
// "Apache-2.0", "LicenseRef-SLAC").
var licensePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*( (AND|OR|WITH) [A-Za-z0-9][A-Za-z0-9.+-]*)*$`)

// Validate checks a recipe for structural issues. Returns a list of
// human-readable issue descriptions. An empty list means the recipe
// is valid.
//
// Validate accepts unexpanded {{ ... }} directives in string fields —
// a recipe is validated both before expansion (authoring time) and
// after (evaluation time). Dependency entries that still carry a
// directive are skipped by the spec-grammar checks.
//
// Structural checks include:
//   - Package name matches the depspec name grammar
//   - Package version is non-empty
//   - Build number is non-negative
//   - Noarch, when set, is "python"
//   - Every dependency entry parses under the spec grammar
//   - No package is declared twice within a category
//   - No constraint set is self-contradictory
//   - run_constrained entries actually carry a constraint
//   - Test imports are valid module names (at least one when a test
//     block is present)
//   - About.Home looks like a URL, About.License like an SPDX
//     identifier
func Validate(r *recipe.Recipe) []string {
	var issues []string

	if r.Package.Name == "" {
		issues = append(issues, "package.name is required")
	} else if !hasDirective(r.Package.Name) {
		if _, err := depspec.Parse(r.Package.Name); err != nil {
			issues = append(issues, fmt.Sprintf("package.name: %v", err))
		}
	}

	if r.Package.Version == "" {
		issues = append(issues, "package.version is required (a literal or a {{ script(\"...\") }} directive)")
	}

	if r.Build.Number < 0 {
		issues = append(issues, fmt.Sprintf("build.number must be >= 0, got %d", r.Build.Number))
	}
	switch r.Build.Noarch {
	case "", "python":
		// Valid.
	default:
		issues = append(issues, fmt.Sprintf("build.noarch must be \"python\" or unset, got %q", r.Build.Noarch))
	}

	issues = append(issues, validateDependencyList("requirements.build", r.Requirements.Build, false)...)
	issues = append(issues, validateDependencyList("requirements.run", r.Requirements.Run, false)...)
	issues = append(issues, validateDependencyList("requirements.run_constrained", r.Requirements.RunConstrained, true)...)

	hasTestBlock := len(r.Test.Imports) > 0 || r.Test.Requires != ""
	if hasTestBlock && len(r.Test.Imports) == 0 {
		issues = append(issues, "test.imports is required when a test block is present")
	}
	for index, module := range r.Test.Imports {
		if hasDirective(module) {
			continue
		}
		if !modulePattern.MatchString(module) {
			issues = append(issues, fmt.Sprintf("test.imports[%d]: %q is not a module name", index, module))
		}
	}

	if r.About.Home != "" && !hasDirective(r.About.Home) &&
		!strings.HasPrefix(r.About.Home, "http://") && !strings.HasPrefix(r.About.Home, "https://") {
		issues = append(issues, fmt.Sprintf("about.home: %q is not a URL", r.About.Home))
	}
	if r.About.License != "" && !hasDirective(r.About.License) && !licensePattern.MatchString(r.About.License) {
		issues = append(issues, fmt.Sprintf("about.license: %q is not an SPDX identifier", r.About.License))
	}

	return issues
}

// validateDependencyList checks one dependency category. When
// constraintRequired is set (run_constrained), entries without a
// version constraint are flagged — an unconstrained entry there
// would silently do nothing.
func validateDependencyList(prefix string, entries []string, constraintRequired bool) []string {
	var issues []string
	var specs []depspec.Spec

	for index, entry := range entries {
		if hasDirective(entry) {
			continue
		}
		spec, err := depspec.Parse(entry)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s[%d]: %v", prefix, index, err))
			continue
		}
		specs = append(specs, spec)

		if constraintRequired && len(spec.Constraints) == 0 {
			issues = append(issues, fmt.Sprintf(
				"%s[%d] %q: a run_constrained entry without a constraint has no effect",
				prefix, index, spec.Name,
			))
		}
		if contradiction := spec.Constraints.Contradiction(); contradiction != "" {
			issues = append(issues, fmt.Sprintf("%s[%d] %q: %s", prefix, index, spec.Name, contradiction))
		}
	}

	for _, name := range depspec.Duplicates(specs) {
		issues = append(issues, fmt.Sprintf("%s: package %q is declared more than once", prefix, name))
	}

	return issues
}

// hasDirective reports whether a field still carries an unexpanded
// {{ ... }} directive.
func hasDirective(value string) bool {
	return directivePattern.MatchString(value)
}
