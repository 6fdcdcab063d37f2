// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package docs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/docbuild"
	"github.com/beamforge/beamforge/lib/pipelinecfg"
	"github.com/beamforge/beamforge/lib/schema/cipipe"
	"github.com/spf13/pflag"
)

// buildCommand returns the "build" subcommand.
func buildCommand() *cli.Command {
	var outputDir string
	var pipelineFile string
	var docVersion string
	var versioned bool

	return &cli.Command{
		Name:    "build",
		Summary: "Render the Markdown docs tree to HTML",
		Description: `Render every Markdown file under the source directory to HTML in
the output directory, preserving the directory layout and copying
non-Markdown assets through. Fenced code blocks are highlighted.

With --pipeline, the source directory and versioning mode come from
the configuration's env block: DOCS_FOLDER names the source tree and
DOCS_VERSIONED ("true"/"false") selects per-version output. Explicit
flags and arguments override the env block.

Versioned output lands under <output>/<version>, so publishing a
new release leaves earlier versions in place.`,
		Usage: "beamforge docs build [source-dir] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
			flagSet.StringVar(&outputDir, "output", "public",
				"output directory for the rendered site")
			flagSet.StringVar(&pipelineFile, "pipeline", "",
				"pipeline configuration supplying DOCS_FOLDER and DOCS_VERSIONED")
			flagSet.StringVar(&docVersion, "doc-version", "",
				"version label for versioned output and page titles")
			flagSet.BoolVar(&versioned, "versioned", false,
				"place output under a per-version directory")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: beamforge docs build [source-dir]")
			}

			sourceDir := ""
			if len(args) == 1 {
				sourceDir = args[0]
			}

			if pipelineFile != "" {
				config, err := pipelinecfg.ReadFile(pipelineFile)
				if err != nil {
					return err
				}
				if sourceDir == "" {
					if folder, ok := pipelinecfg.Lookup(config, cipipe.KeyDocsFolder); ok {
						sourceDir = folder
					}
				}
				if !versioned {
					if raw, ok := pipelinecfg.Lookup(config, cipipe.KeyDocsVersioned); ok {
						parsed, err := strconv.ParseBool(raw)
						if err != nil {
							return fmt.Errorf("%s %q: %w", cipipe.KeyDocsVersioned, raw, err)
						}
						versioned = parsed
					}
				}
			}
			if sourceDir == "" {
				return fmt.Errorf("source directory required: pass it as an argument or set DOCS_FOLDER in the pipeline env")
			}

			result, err := docbuild.Build(docbuild.Config{
				SourceDir: sourceDir,
				OutputDir: outputDir,
				Version:   docVersion,
				Versioned: versioned,
				Logger:    cli.NewCommandLogger(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%d page(s) written to %s\n", result.Pages, result.OutputDir)
			return nil
		},
	}
}
