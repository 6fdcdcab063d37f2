// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"github.com/beamforge/beamforge/cmd/beamforge/cli"
)

// Command returns the "secret" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "secret",
		Summary: "Seal and open pipeline secrets",
		Description: `Seal and open the secure entries of the pipeline env block.

A sealed entry carries an age ciphertext of a NAME=value assignment.
Anyone with the repository's public key can seal a new secret; only
the CI side, holding the private key, can open it. The plaintext
never appears in the configuration file or the repository history.

Workflow:

  1. "keygen" once per repository: writes the private key to the CI
     side and prints the public key for the README.
  2. "seal" whenever a secret changes: produces the secure: entry to
     paste into the pipeline configuration.
  3. "open" for debugging on a machine that holds the key.`,
		Subcommands: []*cli.Command{
			keygenCommand(),
			sealCommand(),
			openCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Generate a repository keypair",
				Command:     "beamforge secret keygen --output ~/.config/beamforge/secrets.key",
			},
			{
				Description: "Seal a token for the pipeline env block",
				Command:     "echo -n 'GH_TOKEN=abc123' | beamforge secret seal age1ql3z...",
			},
			{
				Description: "Open a sealed value",
				Command:     "beamforge secret open --key-file ~/.config/beamforge/secrets.key < sealed.txt",
			},
		},
	}
}
