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

// showCommand returns the "show" subcommand.
func showCommand() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:    "show",
		Summary: "Print the parsed pipeline configuration",
		Description: `Parse a pipeline configuration file and print it back out. The
default output is the canonical YAML rendering with stable field
order, which is useful for normalizing a hand-edited file. With
--json the parsed structure is printed as indented JSON instead,
which is the form other tooling consumes. Sealed values are printed
as-is in both forms; they are ciphertext.`,
		Usage: "beamforge pipeline show <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.BoolVar(&asJSON, "json", false, "print as indented JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pipeline show <file>")
			}

			config, err := pipelinecfg.ReadFile(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(config)
			}

			rendered, err := pipelinecfg.Render(config)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(rendered)
			return err
		},
	}
}
