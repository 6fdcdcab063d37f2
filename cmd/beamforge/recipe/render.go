// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/pipelinecfg"
	"github.com/beamforge/beamforge/lib/recipedef"
	recipeschema "github.com/beamforge/beamforge/lib/schema/recipe"
	"github.com/beamforge/beamforge/lib/secret"
	"github.com/beamforge/beamforge/lib/solvecache"
	"github.com/beamforge/beamforge/lib/variants"
	"github.com/spf13/pflag"
)

// renderCommand returns the "render" subcommand.
func renderCommand() *cli.Command {
	var variantsFile string
	var pipelineFile string
	var keyFile string
	var sourceDir string
	var cachePath string
	var check bool
	var asJSON bool

	return &cli.Command{
		Name:    "render",
		Summary: "Expand a recipe's directives and print the result",
		Description: `Render a recipe: resolve every {{ ... }} directive and print the
fully concrete recipe.

  {{ script("...") }}  runs in the source directory (--source,
                       default: the recipe file's directory) and
                       takes the command's trimmed stdout
  {{ env.NAME }}       resolves against the pipeline env block
                       (--pipeline, sealed entries opened with
                       --key-file)
  {{ pin("name") }}    resolves against the variants file
                       (--variants) to "name constraint"

A directive that cannot be resolved is an error: an unknown env
name, a missing pin, a failing script, or a script with empty
output all abort the render.

With --check the rendered recipe is also validated, and the result
is cached in a solver-result database keyed by a digest of the
rendered bytes (--cache). An unchanged recipe hits the cache and
skips re-validation.`,
		Usage: "beamforge recipe render <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("render", pflag.ContinueOnError)
			flagSet.StringVar(&variantsFile, "variants", "",
				"variants file supplying {{ pin(...) }} constraints")
			flagSet.StringVar(&pipelineFile, "pipeline", "",
				"pipeline configuration supplying {{ env.NAME }} values")
			flagSet.StringVar(&keyFile, "key-file", "",
				"age identity file for sealed pipeline env entries")
			flagSet.StringVar(&sourceDir, "source", "",
				"working directory for {{ script(...) }} commands")
			flagSet.StringVar(&cachePath, "cache", "",
				"solver-result cache database (with --check)")
			flagSet.BoolVar(&check, "check", false,
				"validate the rendered recipe")
			flagSet.BoolVar(&asJSON, "json", false, "print as indented JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Render with pins from a variants file",
				Command:     "beamforge recipe render conda-recipe/recipe.yaml --variants variants.jsonc",
			},
			{
				Description: "Render and validate, caching the result",
				Command:     "beamforge recipe render conda-recipe/recipe.yaml --check --cache ~/.cache/beamforge/solve.db",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge recipe render <file>")
			}
			path := args[0]

			parsed, err := recipedef.ReadFile(path)
			if err != nil {
				return err
			}

			expand, err := buildExpandContext(path, sourceDir, variantsFile, pipelineFile, keyFile)
			if err != nil {
				return err
			}

			ctx := context.Background()
			expanded, err := recipedef.Expand(ctx, parsed, expand)
			if err != nil {
				return err
			}

			rendered, err := recipedef.Render(expanded)
			if err != nil {
				return err
			}

			if check {
				if err := checkRendered(ctx, path, expanded, rendered, cachePath); err != nil {
					return err
				}
			}

			if asJSON {
				return cli.WriteJSON(expanded)
			}
			_, err = os.Stdout.Write(rendered)
			return err
		},
	}
}

// buildExpandContext assembles the directive sources from the optional
// variants and pipeline files. recipePath anchors the default script
// working directory.
func buildExpandContext(recipePath, sourceDir, variantsFile, pipelineFile, keyFile string) (recipedef.ExpandContext, error) {
	expand := recipedef.ExpandContext{
		Dir: sourceDir,
	}
	if expand.Dir == "" {
		expand.Dir = filepath.Dir(recipePath)
	}

	if variantsFile != "" {
		pins, err := variants.ReadFile(variantsFile)
		if err != nil {
			return expand, fmt.Errorf("reading variants: %w", err)
		}
		expand.Pins = pins
	}

	if pipelineFile != "" {
		config, err := pipelinecfg.ReadFile(pipelineFile)
		if err != nil {
			return expand, fmt.Errorf("reading pipeline configuration: %w", err)
		}

		var privateKey *secret.Buffer
		if keyFile != "" {
			privateKey, err = secret.ReadFromPath(keyFile)
			if err != nil {
				return expand, fmt.Errorf("reading key file: %w", err)
			}
			defer privateKey.Close()
		}

		env, err := pipelinecfg.ResolveEnv(config, privateKey)
		if err != nil {
			return expand, err
		}
		expand.Env = env
	}

	return expand, nil
}

// checkRendered validates the expanded recipe, consulting the
// solver-result cache when a path is configured.
func checkRendered(ctx context.Context, path string, expanded *recipeschema.Recipe, rendered []byte, cachePath string) error {
	var issues []string
	cached := false

	if cachePath != "" {
		cache, err := solvecache.Open(cachePath, nil)
		if err != nil {
			return fmt.Errorf("opening solve cache: %w", err)
		}
		defer cache.Close()

		digest := solvecache.Digest(rendered)
		result, found, err := cache.Get(ctx, digest)
		if err != nil {
			return err
		}
		if found {
			issues = result.Issues
			cached = true
		} else {
			issues = recipedef.Validate(expanded)
			if err := cache.Put(ctx, digest, issues); err != nil {
				return err
			}
		}
	} else {
		issues = recipedef.Validate(expanded)
	}

	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		suffix := ""
		if cached {
			suffix = " (cached)"
		}
		return fmt.Errorf("%s: %d validation issue(s) found%s", path, len(issues), suffix)
	}
	return nil
}
