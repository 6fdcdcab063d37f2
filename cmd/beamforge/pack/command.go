// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"strings"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/config"
	"github.com/beamforge/beamforge/lib/pack"
	"github.com/beamforge/beamforge/lib/packstore"
)

// Command returns the "pack" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "pack",
		Summary: "Manage the content-addressed package store",
		Description: `Manage the local content-addressed store of built package archives.

Archives are chunked, compressed, and stored under their content
hash; an index record per archive lists the chunks. Rebuilds of a
package share unchanged chunks with earlier builds. Every read
verifies the chunk hashes, so on-disk corruption surfaces as an
error rather than a bad archive.

Archives are addressed either by their full 64-hex-character hash
or by the short pkg-... reference shown in listings.

The store root comes from the loaded configuration
(BEAMFORGE_CONFIG), or --store on each command.`,
		Subcommands: []*cli.Command{
			putCommand(),
			getCommand(),
			listCommand(),
			verifyCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Store a built archive",
				Command:     "beamforge pack put dist/pcdsdevices-7.4.3.tar.bz2 --name pcdsdevices --version 7.4.3",
			},
			{
				Description: "List stored archives",
				Command:     "beamforge pack list",
			},
			{
				Description: "Verify an archive against its index",
				Command:     "beamforge pack verify pkg-3f8a2c91d04e",
			},
		},
	}
}

// openStore opens the package store at storeRoot, falling back to the
// configured store path when the flag is empty. configPath overrides
// BEAMFORGE_CONFIG.
func openStore(storeRoot, configPath string) (*packstore.Store, error) {
	if storeRoot == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("no --store given and no configuration: %w", err)
		}
		storeRoot = cfg.Paths.Store
	}
	return packstore.NewStore(storeRoot)
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// resolveArchive turns a CLI archive argument — a full hex hash or a
// short pkg-... reference — into the archive hash.
func resolveArchive(store *packstore.Store, arg string) (pack.Hash, error) {
	if strings.HasPrefix(arg, "pkg-") {
		records, err := store.List()
		if err != nil {
			return pack.Hash{}, err
		}
		for _, record := range records {
			if record.Ref == arg {
				return pack.ParseHash(record.ArchiveHash)
			}
		}
		return pack.Hash{}, fmt.Errorf("no archive with reference %s", arg)
	}
	return pack.ParseHash(arg)
}
