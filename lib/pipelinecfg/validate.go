// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinecfg

import (
	"fmt"

	"github.com/beamforge/beamforge/lib/schema/cipipe"
)

// Validate checks a pipeline configuration for structural issues.
// Returns a list of human-readable issue descriptions. An empty list
// means the configuration is valid.
//
// Structural checks include:
//   - The version pin is present and has the "~> N[.M]" form
//   - Each env entry has a valid name or is a well-formed sealed value
//   - Env names are unique across the block (including a plain entry
//     shadowing another plain entry)
//   - At least one shared pipeline is imported, and every import
//     reference is structurally valid
//   - allow_failures entries carry a job name
//
// Whether an allow_failures name exists in the imported shared
// pipeline is an external contract: it can only be checked against a
// job manifest for that pipeline, via ValidateJobs.
func Validate(config *cipipe.Config) []string {
	var issues []string

	if config.Version == "" {
		issues = append(issues, "version pin is required (e.g. \"~> 1.0\")")
	} else if !cipipe.ValidVersionPin(config.Version) {
		issues = append(issues, fmt.Sprintf("invalid version pin %q (want \"~> N[.M]\")", config.Version))
	}

	seen := make(map[string]int, len(config.Env))
	for index, entry := range config.Env {
		prefix := fmt.Sprintf("env[%d]", index)
		if err := entry.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", prefix, err))
			continue
		}
		if entry.IsSecure() {
			continue
		}
		if firstIndex, exists := seen[entry.Name]; exists {
			issues = append(issues, fmt.Sprintf(
				"%s %q: duplicate env name (first set at env[%d])",
				prefix, entry.Name, firstIndex,
			))
		} else {
			seen[entry.Name] = index
		}
	}

	for index, ref := range config.Jobs.AllowFailures {
		if ref.Name == "" {
			issues = append(issues, fmt.Sprintf("jobs.allow_failures[%d]: name is required", index))
		}
	}

	if len(config.Imports) == 0 {
		issues = append(issues, "at least one shared pipeline import is required")
	}
	for index, ref := range config.Imports {
		if err := ref.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("import[%d]: %v", index, err))
		}
	}

	return issues
}

// ValidateJobs checks the allow_failures references against the job
// names defined by the imported shared pipeline. jobNames comes from
// a job manifest for that pipeline — callers that don't have one
// should skip this check rather than pass an empty list.
func ValidateJobs(config *cipipe.Config, jobNames []string) []string {
	known := make(map[string]bool, len(jobNames))
	for _, name := range jobNames {
		known[name] = true
	}

	var issues []string
	for index, ref := range config.Jobs.AllowFailures {
		if ref.Name == "" {
			continue
		}
		if !known[ref.Name] {
			issues = append(issues, fmt.Sprintf(
				"jobs.allow_failures[%d] %q: no such job in the imported pipeline",
				index, ref.Name,
			))
		}
	}
	return issues
}
