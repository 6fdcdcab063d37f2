// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete Beamforge CLI command tree.
// Each subcommand group lives in its own package under cmd/beamforge;
// this package only assembles them.
package commands

import (
	"fmt"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	docscmd "github.com/beamforge/beamforge/cmd/beamforge/docs"
	packcmd "github.com/beamforge/beamforge/cmd/beamforge/pack"
	pipelinecmd "github.com/beamforge/beamforge/cmd/beamforge/pipeline"
	recipecmd "github.com/beamforge/beamforge/cmd/beamforge/recipe"
	secretcmd "github.com/beamforge/beamforge/cmd/beamforge/secret"
	"github.com/beamforge/beamforge/lib/version"
)

// Root builds and returns the complete Beamforge CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "beamforge",
		Description: `Beamforge: CI pipeline and package recipe tooling.

Validate pipeline configuration, render and check conda-style build
recipes, seal pipeline secrets, store built archives, and build the
documentation site.`,
		Subcommands: []*cli.Command{
			pipelinecmd.Command(),
			recipecmd.Command(),
			secretcmd.Command(),
			packcmd.Command(),
			docscmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("beamforge %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Validate the pipeline configuration",
				Command:     "beamforge pipeline validate ci.yml",
			},
			{
				Description: "Render a recipe and check it",
				Command:     "beamforge recipe render conda-recipe/recipe.yaml --check",
			},
			{
				Description: "Seal a secret for the env block",
				Command:     "echo -n 'GH_TOKEN=abc123' | beamforge secret seal age1ql3z... --yaml",
			},
		},
	}
}
