// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"github.com/beamforge/beamforge/cmd/beamforge/cli"
)

// Command returns the "recipe" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "recipe",
		Summary: "Work with package build recipes",
		Description: `Work with conda-style package build recipes.

A recipe declares the package (name plus a version, usually extracted
from the source tree by a script directive), the source location, the
build settings (build number, noarch), the dependency lists (build,
run, run_constrained), an import smoke test, and the about block.

Recipes carry directives in double braces that are resolved at render
time:

  {{ script("python setup.py --version") }}   run a command, take stdout
  {{ env.NAME }}                              a pipeline env value
  {{ pin("ophyd") }}                          a pinned constraint

"validate" checks a recipe as written, skipping unexpanded directive
fields. "render" expands the directives first, producing the fully
concrete recipe the validation and the solver cache operate on.`,
		Subcommands: []*cli.Command{
			validateCommand(),
			renderCommand(),
			showCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Validate a recipe as written",
				Command:     "beamforge recipe validate conda-recipe/recipe.yaml",
			},
			{
				Description: "Render a recipe with directives expanded",
				Command:     "beamforge recipe render conda-recipe/recipe.yaml --variants variants.jsonc",
			},
			{
				Description: "Extract the package version",
				Command:     "beamforge recipe version conda-recipe/recipe.yaml --source .",
			},
		},
	}
}
