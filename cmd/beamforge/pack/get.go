// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/spf13/pflag"
)

// getCommand returns the "get" subcommand.
func getCommand() *cli.Command {
	var storeRoot string
	var configPath string
	var outputPath string

	return &cli.Command{
		Name:    "get",
		Summary: "Reassemble a stored archive",
		Description: `Reassemble a stored archive from its chunks and write it out. Every
chunk is verified against its recorded hash during the read, so a
successful get is also an integrity check of the bytes it returned.

The archive is addressed by full hash or pkg-... reference. Output
goes to --output, or stdout when writing to a pipe.`,
		Usage: "beamforge pack get <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("get", pflag.ContinueOnError)
			flagSet.StringVar(&storeRoot, "store", "", "store root directory")
			flagSet.StringVar(&configPath, "config", "", "configuration file (default: BEAMFORGE_CONFIG)")
			flagSet.StringVar(&outputPath, "output", "", "output file (default: stdout)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Write an archive to a file",
				Command:     "beamforge pack get pkg-3f8a2c91d04e --output pcdsdevices-7.4.3.tar.bz2",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pack get <archive>")
			}

			store, err := openStore(storeRoot, configPath)
			if err != nil {
				return err
			}
			archiveHash, err := resolveArchive(store, args[0])
			if err != nil {
				return err
			}

			output := os.Stdout
			if outputPath != "" {
				output, err = os.Create(outputPath)
				if err != nil {
					return err
				}
				defer output.Close()
			}

			written, err := store.Get(archiveHash, output)
			if err != nil {
				return err
			}
			if outputPath != "" {
				fmt.Fprintf(os.Stderr, "%s: %d bytes\n", outputPath, written)
			}
			return nil
		},
	}
}
