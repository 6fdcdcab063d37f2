// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/sealed"
	libsecret "github.com/beamforge/beamforge/lib/secret"
	"github.com/spf13/pflag"
)

// openCommand returns the "open" subcommand.
func openCommand() *cli.Command {
	var keyFile string

	return &cli.Command{
		Name:    "open",
		Summary: "Open a sealed value",
		Description: `Open a sealed value with an age identity and print the plaintext
NAME=value assignment. The ciphertext is read from stdin, or passed
as the single argument.

This prints a secret to stdout. It exists for debugging sealed
entries on a machine that legitimately holds the key — the normal
consumer is "beamforge pipeline env --key-file".`,
		Usage: "beamforge secret open [ciphertext] --key-file <file>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("open", pflag.ContinueOnError)
			flagSet.StringVar(&keyFile, "key-file", "",
				"age identity file (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if keyFile == "" {
				return fmt.Errorf("--key-file is required")
			}

			var ciphertext string
			switch len(args) {
			case 0:
				data, err := io.ReadAll(io.LimitReader(os.Stdin, maxPlaintextSize))
				if err != nil {
					return fmt.Errorf("reading ciphertext from stdin: %w", err)
				}
				ciphertext = strings.TrimSpace(string(data))
			case 1:
				ciphertext = args[0]
			default:
				return fmt.Errorf("usage: beamforge secret open [ciphertext] --key-file <file>")
			}
			if ciphertext == "" {
				return fmt.Errorf("empty ciphertext")
			}

			privateKey, err := libsecret.ReadFromPath(keyFile)
			if err != nil {
				return fmt.Errorf("reading key file: %w", err)
			}
			defer privateKey.Close()

			plaintext, err := sealed.Open(ciphertext, privateKey)
			if err != nil {
				return err
			}
			defer plaintext.Close()

			fmt.Fprintln(os.Stdout, plaintext.String())
			return nil
		},
	}
}
