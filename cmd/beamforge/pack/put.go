// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"os"
	"strings"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/recipedef"
	"github.com/spf13/pflag"
)

// putCommand returns the "put" subcommand.
func putCommand() *cli.Command {
	var storeRoot string
	var configPath string
	var name string
	var version string
	var recipePath string
	var asJSON bool

	return &cli.Command{
		Name:    "put",
		Summary: "Store a built package archive",
		Description: `Chunk, compress, and store a built package archive, printing the
resulting index record. Storing the same bytes twice is a no-op that
returns the same hash; a rebuild with mostly unchanged content
shares its unchanged chunks with the earlier build.

The package identity (name and version) is recorded in the index.
It can be given explicitly with --name and --version, or taken from
a rendered recipe with --recipe. A recipe whose version is still an
unexpanded directive is rejected — render it first.`,
		Usage: "beamforge pack put <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("put", pflag.ContinueOnError)
			flagSet.StringVar(&storeRoot, "store", "", "store root directory")
			flagSet.StringVar(&configPath, "config", "", "configuration file (default: BEAMFORGE_CONFIG)")
			flagSet.StringVar(&name, "name", "", "package name")
			flagSet.StringVar(&version, "version", "", "package version")
			flagSet.StringVar(&recipePath, "recipe", "",
				"rendered recipe supplying the package identity")
			flagSet.BoolVar(&asJSON, "json", false, "print the index record as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pack put <archive>")
			}

			if recipePath != "" {
				parsed, err := recipedef.ReadFile(recipePath)
				if err != nil {
					return err
				}
				if issues := recipedef.Validate(parsed); len(issues) > 0 {
					return fmt.Errorf("%s: recipe has %d validation issue(s); render and fix it first",
						recipePath, len(issues))
				}
				name = parsed.Package.Name
				version = parsed.Package.Version
				if strings.Contains(version, "{{") {
					return fmt.Errorf("%s: version is an unexpanded directive; render the recipe first",
						recipePath)
				}
			}
			if name == "" || version == "" {
				return fmt.Errorf("package identity required: --name and --version, or --recipe")
			}

			store, err := openStore(storeRoot, configPath)
			if err != nil {
				return err
			}

			archive, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer archive.Close()

			record, err := store.Put(archive, name, version)
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(record)
			}
			fmt.Fprintf(os.Stdout, "%s %s %s stored as %s (%d bytes, %d on disk, %d chunks)\n",
				record.Ref, record.Name, record.Version, record.ArchiveHash,
				record.Size, record.CompressedSize, len(record.Chunks))
			return nil
		},
	}
}
