// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	libpack "github.com/beamforge/beamforge/lib/pack"
	"github.com/spf13/pflag"
)

// verifyCommand returns the "verify" subcommand.
func verifyCommand() *cli.Command {
	var storeRoot string
	var configPath string
	var all bool

	return &cli.Command{
		Name:    "verify",
		Summary: "Verify stored archives against their indexes",
		Description: `Re-read an archive's chunks, check each against its recorded hash,
and recompute the archive hash from the chunk hashes. Any mismatch —
a corrupted chunk file, a truncated write, a tampered index — is
reported.

With --all, every archive in the store is verified; the command
exits non-zero if any archive fails, after reporting all of them.`,
		Usage: "beamforge pack verify <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.StringVar(&storeRoot, "store", "", "store root directory")
			flagSet.StringVar(&configPath, "config", "", "configuration file (default: BEAMFORGE_CONFIG)")
			flagSet.BoolVar(&all, "all", false, "verify every archive in the store")
			return flagSet
		},
		Run: func(args []string) error {
			store, err := openStore(storeRoot, configPath)
			if err != nil {
				return err
			}

			if all {
				if len(args) != 0 {
					return fmt.Errorf("--all takes no archive argument")
				}
				records, err := store.List()
				if err != nil {
					return err
				}
				failures := 0
				for _, record := range records {
					archiveHash, err := libpack.ParseHash(record.ArchiveHash)
					if err != nil {
						fmt.Fprintf(os.Stderr, "%s: bad index hash: %v\n", record.Ref, err)
						failures++
						continue
					}
					if err := store.Verify(archiveHash); err != nil {
						fmt.Fprintf(os.Stderr, "%s: %v\n", record.Ref, err)
						failures++
						continue
					}
					fmt.Fprintf(os.Stdout, "%s: ok\n", record.Ref)
				}
				if failures > 0 {
					fmt.Fprintf(os.Stderr, "%d of %d archive(s) failed verification\n",
						failures, len(records))
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge pack verify <archive>")
			}
			archiveHash, err := resolveArchive(store, args[0])
			if err != nil {
				return err
			}
			if err := store.Verify(archiveHash); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s: ok\n", args[0])
			return nil
		},
	}
}
