// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinecfg

import (
	"fmt"
	"strings"

	"github.com/beamforge/beamforge/lib/schema/cipipe"
	"github.com/beamforge/beamforge/lib/sealed"
	"github.com/beamforge/beamforge/lib/secret"
)

// ResolveEnv flattens the env block to a name → value map. Sealed
// entries are opened with the given private key; when privateKey is
// nil they are skipped (the CI side holds the key, a maintainer's
// workstation usually doesn't).
//
// The opened plaintext of a sealed entry must itself be a NAME=value
// assignment. Later entries never override earlier ones — Validate
// reports duplicates instead, matching the uniqueness invariant of
// the env block.
func ResolveEnv(config *cipipe.Config, privateKey *secret.Buffer) (map[string]string, error) {
	resolved := make(map[string]string, len(config.Env))

	for index, entry := range config.Env {
		if entry.IsSecure() {
			if privateKey == nil {
				continue
			}
			plaintext, err := sealed.Open(entry.Secure, privateKey)
			if err != nil {
				return nil, fmt.Errorf("env[%d]: opening sealed value: %w", index, err)
			}
			assignment := plaintext.String()
			plaintext.Close()

			name, value, found := strings.Cut(assignment, "=")
			if !found || name == "" {
				return nil, fmt.Errorf("env[%d]: sealed value is not a NAME=value assignment", index)
			}
			if _, exists := resolved[name]; !exists {
				resolved[name] = value
			}
			continue
		}

		if _, exists := resolved[entry.Name]; !exists {
			resolved[entry.Name] = entry.Value
		}
	}

	return resolved, nil
}

// Lookup returns the value of a known env key and whether it was
// present as a plain entry. Sealed entries are not consulted.
func Lookup(config *cipipe.Config, name string) (string, bool) {
	for _, entry := range config.Env {
		if !entry.IsSecure() && entry.Name == name {
			return entry.Value, true
		}
	}
	return "", false
}
