// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package docs

import (
	"github.com/beamforge/beamforge/cmd/beamforge/cli"
)

// Command returns the "docs" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "docs",
		Summary: "Build project documentation",
		Description: `Build the project's Markdown documentation into a static HTML
site, with fenced code blocks syntax-highlighted.

The docs job in the pipeline configuration drives this through the
env block: DOCS_FOLDER names the source tree, and DOCS_VERSIONED
selects whether output lands under a per-version directory so
several released versions stay published side by side.`,
		Subcommands: []*cli.Command{
			buildCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Build the docs tree",
				Command:     "beamforge docs build docs/ --output public/",
			},
			{
				Description: "Build versioned docs the way the CI docs job does",
				Command:     "beamforge docs build docs/ --output public/ --pipeline ci.yml --doc-version 7.4.3",
			},
		},
	}
}
