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
	"github.com/spf13/pflag"
)

// maxPlaintextSize bounds the stdin read. Sealed values are single
// NAME=value assignments; anything larger is a mistake.
const maxPlaintextSize = 64 * 1024

// sealCommand returns the "seal" subcommand.
func sealCommand() *cli.Command {
	var asYAML bool

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a NAME=value assignment for the pipeline env block",
		Description: `Seal a secret for the pipeline env block. The plaintext is read
from stdin and must be a single NAME=value assignment; the recipient
public keys (age1...) are given as arguments. Any one of the
corresponding private keys can open the result.

Reading from stdin keeps the plaintext out of shell history and
process listings. The output is the base64 ciphertext; with --yaml
it is wrapped as a ready-to-paste env entry:

  - secure: "YWdlLWVuY3J5cHRpb24u..."`,
		Usage: "beamforge secret seal <public-key>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			flagSet.BoolVar(&asYAML, "yaml", false,
				"print as a pipeline env entry")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Seal a deploy token",
				Command:     "echo -n 'GH_TOKEN=abc123' | beamforge secret seal age1ql3z... --yaml",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: beamforge secret seal <public-key>...")
			}
			for _, publicKey := range args {
				if err := sealed.ParsePublicKey(publicKey); err != nil {
					return fmt.Errorf("recipient %q: %w", publicKey, err)
				}
			}

			plaintext, err := io.ReadAll(io.LimitReader(os.Stdin, maxPlaintextSize+1))
			if err != nil {
				return fmt.Errorf("reading plaintext from stdin: %w", err)
			}
			if len(plaintext) > maxPlaintextSize {
				return fmt.Errorf("plaintext exceeds %d bytes; sealed values hold a single NAME=value assignment", maxPlaintextSize)
			}

			assignment := strings.TrimRight(string(plaintext), "\n")
			name, _, found := strings.Cut(assignment, "=")
			if !found || name == "" {
				return fmt.Errorf("plaintext must be a NAME=value assignment")
			}

			ciphertext, err := sealed.Seal([]byte(assignment), args)
			if err != nil {
				return err
			}

			if asYAML {
				fmt.Fprintf(os.Stdout, "- secure: %q\n", ciphertext)
				return nil
			}
			fmt.Fprintln(os.Stdout, ciphertext)
			return nil
		},
	}
}
