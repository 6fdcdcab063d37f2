// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/recipedef"
	"github.com/spf13/pflag"
)

// showCommand returns the "show" subcommand.
func showCommand() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:    "show",
		Summary: "Print the parsed recipe",
		Description: `Parse a recipe file and print it back out in canonical form, with
directives left unexpanded. Useful for normalizing a hand-edited
file. With --json the parsed structure is printed as indented JSON.`,
		Usage: "beamforge recipe show <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.BoolVar(&asJSON, "json", false, "print as indented JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge recipe show <file>")
			}

			parsed, err := recipedef.ReadFile(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(parsed)
			}

			rendered, err := recipedef.Render(parsed)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(rendered)
			return err
		},
	}
}
