// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/pipelinecfg"
	"github.com/spf13/pflag"
)

// validateCommand returns the "validate" subcommand.
func validateCommand() *cli.Command {
	var jobNames []string

	return &cli.Command{
		Name:    "validate",
		Summary: "Validate a pipeline configuration file",
		Description: `Validate a pipeline configuration file. Checks that the YAML is
well-formed and that the content conforms to the configuration
grammar: the version pin has the "~> major.minor" shape, env entries
are either plain assignments or sealed values (never both), env names
are unique, allow-failure entries name a job, and every import parses
as "owner/repo:path@ref".

Sealed values are checked for ciphertext shape only; opening them
requires a key and is the job of "beamforge pipeline env".

With --job, additionally checks that every allow-failure entry names
one of the given jobs. The job list comes from the shared pipeline,
which this command does not fetch — pass the names you know.`,
		Usage: "beamforge pipeline validate <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("validate", pflag.ContinueOnError)
			flagSet.StringSliceVar(&jobNames, "job", nil,
				"known job name (repeatable); allow-failure entries must match")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Validate the configuration",
				Command:     "beamforge pipeline validate ci.yml",
			},
			{
				Description: "Also check allow-failure entries against known jobs",
				Command:     "beamforge pipeline validate ci.yml --job build --job docs",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pipeline validate <file>")
			}

			path := args[0]
			config, err := pipelinecfg.ReadFile(path)
			if err != nil {
				return err
			}

			issues := pipelinecfg.Validate(config)
			if len(jobNames) > 0 {
				issues = append(issues, pipelinecfg.ValidateJobs(config, jobNames)...)
			}
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(os.Stderr, "  - %s\n", issue)
				}
				return fmt.Errorf("%s: %d validation issue(s) found", path, len(issues))
			}

			fmt.Fprintf(os.Stdout, "%s: valid\n", path)
			return nil
		},
	}
}
