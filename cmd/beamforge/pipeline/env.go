// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"os"
	"sort"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/pipelinecfg"
	"github.com/beamforge/beamforge/lib/secret"
	"github.com/spf13/pflag"
)

// envCommand returns the "env" subcommand.
func envCommand() *cli.Command {
	var keyFile string
	var asJSON bool

	return &cli.Command{
		Name:    "env",
		Summary: "Print the resolved environment block",
		Description: `Resolve the global environment block of a pipeline configuration
to a flat NAME=value listing, sorted by name.

Sealed entries are opened with the age identity given by --key-file.
Without a key, sealed entries are skipped: on a maintainer's
workstation the plain entries (docs flags, lint selections, conda
channels) are usually what matters, and the CI side holds the key.

The opened plaintext of a sealed entry is itself a NAME=value
assignment. Printing it exposes the secret — redirect with care.`,
		Usage: "beamforge pipeline env <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("env", pflag.ContinueOnError)
			flagSet.StringVar(&keyFile, "key-file", "",
				"age identity file for opening sealed entries")
			flagSet.BoolVar(&asJSON, "json", false, "print as indented JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Print the plain entries only",
				Command:     "beamforge pipeline env ci.yml",
			},
			{
				Description: "Open sealed entries too",
				Command:     "beamforge pipeline env ci.yml --key-file ~/.config/beamforge/secrets.key",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pipeline env <file>")
			}

			config, err := pipelinecfg.ReadFile(args[0])
			if err != nil {
				return err
			}

			var privateKey *secret.Buffer
			if keyFile != "" {
				privateKey, err = secret.ReadFromPath(keyFile)
				if err != nil {
					return fmt.Errorf("reading key file: %w", err)
				}
				defer privateKey.Close()
			}

			resolved, err := pipelinecfg.ResolveEnv(config, privateKey)
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(resolved)
			}

			names := make([]string, 0, len(resolved))
			for name := range resolved {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(os.Stdout, "%s=%s\n", name, resolved[name])
			}
			return nil
		},
	}
}
