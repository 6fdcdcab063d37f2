// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/config"
	"github.com/beamforge/beamforge/lib/sealed"
	"github.com/spf13/pflag"
)

// keygenCommand returns the "keygen" subcommand.
func keygenCommand() *cli.Command {
	var outputPath string
	var configPath string
	var force bool

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a new sealing keypair",
		Description: `Generate a new age x25519 keypair. The private key is written to
the output file (mode 0600, parent directories created) and the
public key is printed to stdout for distribution — it belongs next
to the sealing instructions in the repository README.

The output path defaults to the secrets key file of the loaded
configuration (BEAMFORGE_CONFIG). Production configurations disable
key generation; rotating a production key is a deliberate act, so
the command refuses rather than silently overwriting.

An existing key file is never overwritten without --force: a lost
private key means every sealed value in the pipeline configuration
must be re-sealed.`,
		Usage: "beamforge secret keygen [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVar(&outputPath, "output", "",
				"private key file to write (default: config secrets key file)")
			flagSet.StringVar(&configPath, "config", "",
				"configuration file (default: BEAMFORGE_CONFIG)")
			flagSet.BoolVar(&force, "force", false,
				"overwrite an existing key file")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("usage: beamforge secret keygen [flags]")
			}

			if outputPath == "" {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return fmt.Errorf("no --output given and no configuration: %w", err)
				}
				if !cfg.Secrets.AllowKeygen {
					return fmt.Errorf("key generation is disabled in the %s configuration",
						cfg.Environment)
				}
				outputPath = cfg.Secrets.KeyFile
			}

			if !force {
				if _, err := os.Stat(outputPath); err == nil {
					return fmt.Errorf("%s already exists; pass --force to overwrite "+
						"(existing sealed values will need re-sealing)", outputPath)
				}
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Close()

			if err := os.MkdirAll(filepath.Dir(outputPath), 0o700); err != nil {
				return fmt.Errorf("creating key directory: %w", err)
			}
			if err := os.WriteFile(outputPath, keypair.PrivateKey.Bytes(), 0o600); err != nil {
				return fmt.Errorf("writing private key: %w", err)
			}

			fmt.Fprintf(os.Stderr, "private key written to %s\n", outputPath)
			fmt.Fprintln(os.Stdout, keypair.PublicKey)
			return nil
		},
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}
