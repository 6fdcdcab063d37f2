// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/beamforge/beamforge/cmd/beamforge/cli"
)

// Command returns the "pipeline" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "pipeline",
		Summary: "Work with CI pipeline configuration",
		Description: `Work with the repository's CI pipeline configuration file.

The configuration declares no jobs of its own. It pins a shared
pipeline version ("~> 1.0"), sets the global environment block
(plain NAME=value assignments plus sealed secrets), marks jobs that
are allowed to fail, and imports the shared pipeline that supplies
the actual job graph:

  import:
    - lcls-ops/shared-pipelines:python/library.yml@v1

All commands here are purely local: they read and check the file
without contacting the CI service. Sealed environment entries stay
sealed unless an age identity is supplied with --key-file.`,
		Subcommands: []*cli.Command{
			validateCommand(),
			showCommand(),
			envCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Validate the pipeline configuration",
				Command:     "beamforge pipeline validate ci.yml",
			},
			{
				Description: "Print the parsed configuration as JSON",
				Command:     "beamforge pipeline show ci.yml",
			},
			{
				Description: "Print the resolved environment block, opening sealed entries",
				Command:     "beamforge pipeline env ci.yml --key-file ~/.config/beamforge/secrets.key",
			},
		},
	}
}
