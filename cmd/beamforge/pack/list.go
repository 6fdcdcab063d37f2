// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/spf13/pflag"
)

// listCommand returns the "list" subcommand.
func listCommand() *cli.Command {
	var storeRoot string
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List stored archives",
		Description: `List every archive in the store, sorted by package name, version,
and hash. The table shows the short reference, package identity,
sizes, and store time; --json prints the full index records.`,
		Usage: "beamforge pack list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&storeRoot, "store", "", "store root directory")
			flagSet.StringVar(&configPath, "config", "", "configuration file (default: BEAMFORGE_CONFIG)")
			flagSet.BoolVar(&asJSON, "json", false, "print full index records as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("usage: beamforge pack list")
			}

			store, err := openStore(storeRoot, configPath)
			if err != nil {
				return err
			}
			records, err := store.List()
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(records)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "REF\tNAME\tVERSION\tSIZE\tON DISK\tSTORED")
			for _, record := range records {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\t%s\n",
					record.Ref, record.Name, record.Version,
					record.Size, record.CompressedSize,
					time.Unix(record.StoredAt, 0).UTC().Format(time.RFC3339))
			}
			return writer.Flush()
		},
	}
}
