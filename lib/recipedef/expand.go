// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipedef

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/beamforge/beamforge/lib/schema/recipe"
)

// directivePattern matches one {{ ... }} directive. The inner
// expression is trimmed before dispatch.
var directivePattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// callPattern matches the function-call directive forms
// script("...") and pin("...").
var callPattern = regexp.MustCompile(`^(script|pin)\(\s*"([^"]*)"\s*\)$`)

// ExpandContext supplies the three directive sources. The zero value
// expands nothing: every directive becomes an error, which is the
// right behavior for contexts (like bare validation) that should not
// run scripts.
type ExpandContext struct {
	// Env resolves {{ env.NAME }} directives. Usually the resolved
	// env block of the pipeline configuration.
	Env map[string]string

	// Pins resolves {{ pin("name") }} directives to a constraint
	// string, usually from a variants file.
	Pins map[string]string

	// Dir is the working directory for {{ script("...") }} commands:
	// the repository root, so version scripts see the checkout.
	Dir string
}

// Expand returns a copy of the recipe with every {{ ... }} directive
// resolved. Fields are expanded in place; a directive that cannot be
// resolved (unknown env name, missing pin, failing or empty-output
// script) is an error, not a silent empty string.
//
// ctx bounds script execution — version-extraction scripts run
// attacker-free but not hang-free.
func Expand(ctx context.Context, r *recipe.Recipe, expand ExpandContext) (*recipe.Recipe, error) {
	result := *r
	result.Requirements = recipe.Requirements{
		Build:          append([]string(nil), r.Requirements.Build...),
		Run:            append([]string(nil), r.Requirements.Run...),
		RunConstrained: append([]string(nil), r.Requirements.RunConstrained...),
	}
	result.Test.Imports = append([]string(nil), r.Test.Imports...)

	fields := []*string{
		&result.Package.Name,
		&result.Package.Version,
		&result.Source.Path,
		&result.Build.Script,
		&result.Test.Requires,
		&result.About.Home,
		&result.About.License,
		&result.About.Summary,
	}
	for _, list := range [][]string{
		result.Requirements.Build,
		result.Requirements.Run,
		result.Requirements.RunConstrained,
		result.Test.Imports,
	} {
		for i := range list {
			fields = append(fields, &list[i])
		}
	}

	for _, field := range fields {
		expanded, err := expandString(ctx, *field, expand)
		if err != nil {
			return nil, err
		}
		*field = expanded
	}

	return &result, nil
}

// expandString resolves every directive in a single string field.
func expandString(ctx context.Context, value string, expand ExpandContext) (string, error) {
	var firstError error

	expanded := directivePattern.ReplaceAllStringFunc(value, func(match string) string {
		if firstError != nil {
			return match
		}
		inner := strings.TrimSpace(directivePattern.FindStringSubmatch(match)[1])

		resolved, err := evalDirective(ctx, inner, expand)
		if err != nil {
			firstError = fmt.Errorf("directive %q: %w", match, err)
			return match
		}
		return resolved
	})

	if firstError != nil {
		return "", firstError
	}
	return expanded, nil
}

// evalDirective dispatches one trimmed directive expression.
func evalDirective(ctx context.Context, expression string, expand ExpandContext) (string, error) {
	if name, ok := strings.CutPrefix(expression, "env."); ok {
		value, exists := expand.Env[name]
		if !exists {
			return "", fmt.Errorf("env name %q is not set", name)
		}
		return value, nil
	}

	call := callPattern.FindStringSubmatch(expression)
	if call == nil {
		return "", fmt.Errorf("unsupported expression (want env.NAME, script(\"...\"), or pin(\"...\"))")
	}

	switch call[1] {
	case "pin":
		constraint, exists := expand.Pins[call[2]]
		if !exists {
			return "", fmt.Errorf("no pin for package %q", call[2])
		}
		return call[2] + " " + constraint, nil
	case "script":
		return runScript(ctx, call[2], expand.Dir)
	default:
		return "", fmt.Errorf("unknown function %q", call[1])
	}
}

// runScript executes a directive's command and returns its trimmed
// stdout. Empty output is an error: the version-extraction contract
// requires a non-empty string at recipe-evaluation time.
func runScript(ctx context.Context, command, dir string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("empty script command")
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("running %q: %w", command, err)
	}

	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return "", fmt.Errorf("script %q produced no output", command)
	}
	return trimmed, nil
}

// ExtractVersion evaluates the recipe's version field against the
// given expansion context and returns the resulting version string.
// This is the recipe-evaluation-time version resolution: typically
// the version field is a single {{ script("...") }} directive that
// asks the build script for the checkout's version.
func ExtractVersion(ctx context.Context, r *recipe.Recipe, expand ExpandContext) (string, error) {
	version, err := expandString(ctx, r.Package.Version, expand)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(version) == "" {
		return "", fmt.Errorf("package version resolved to an empty string")
	}
	return version, nil
}
