// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package recipedef provides parsing, directive expansion,
// validation, and rendering for package build recipes. Recipes are
// authored as YAML (recipe.yaml in the recipe folder named by the
// pipeline configuration's CONDA_RECIPE_FOLDER key) and consumed by
// the external packaging tool after beamforge has expanded their
// {{ ... }} directives.
//
// The typical flow:
//
//  1. ReadFile or Parse: YAML bytes → recipe.Recipe
//  2. Expand: resolve {{ env.NAME }}, {{ script("...") }}, and
//     {{ pin("...") }} directives against an expansion context
//  3. Validate: structural checks (name grammar, build number,
//     dependency specs, smoke-test imports)
//  4. Render: canonical YAML for write-back (round-trip identity
//     over the structured record)
package recipedef

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beamforge/beamforge/lib/schema/recipe"
)

// Parse unmarshals a recipe from YAML. Unknown fields are rejected —
// a typoed "run_constrained" would otherwise silently drop every
// constraint in it.
func Parse(data []byte) (*recipe.Recipe, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var parsed recipe.Recipe
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}

	return &parsed, nil
}

// ReadFile reads a recipe file from disk and parses it. Returns a
// descriptive error if the file cannot be read or the YAML is
// malformed.
func ReadFile(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return parsed, nil
}

// Render serializes a recipe to canonical YAML. The output parses
// back to a deeply equal Recipe.
func Render(r *recipe.Recipe) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return nil, fmt.Errorf("rendering recipe: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("rendering recipe: %w", err)
	}
	return buffer.Bytes(), nil
}
