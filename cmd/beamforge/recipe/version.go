// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"context"
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/recipedef"
	"github.com/spf13/pflag"
)

// versionCommand returns the "version" subcommand.
func versionCommand() *cli.Command {
	var sourceDir string

	return &cli.Command{
		Name:    "version",
		Summary: "Extract the package version from a recipe",
		Description: `Resolve a recipe's package version and print it. A literal version
is printed as-is; a {{ script("...") }} directive runs the command in
the source directory (--source, default: the recipe file's directory)
and prints its trimmed stdout.

This is the value CI tags releases with, so a failing or empty-output
version script is an error rather than an empty line.`,
		Usage: "beamforge recipe version <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.StringVar(&sourceDir, "source", "",
				"working directory for the version script")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Extract the version from a source checkout",
				Command:     "beamforge recipe version conda-recipe/recipe.yaml --source .",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge recipe version <file>")
			}
			path := args[0]

			parsed, err := recipedef.ReadFile(path)
			if err != nil {
				return err
			}

			expand, err := buildExpandContext(path, sourceDir, "", "", "")
			if err != nil {
				return err
			}

			version, err := recipedef.ExtractVersion(context.Background(), parsed, expand)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, version)
			return nil
		},
	}
}
