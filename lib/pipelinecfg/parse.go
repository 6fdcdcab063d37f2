// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipelinecfg provides parsing, validation, and rendering for
// CI pipeline configuration files. A pipeline configuration declares
// no jobs of its own: it pins a shared-pipeline version, parameterizes
// the shared job graph through a global environment block, marks jobs
// that may fail, and imports the externally maintained pipeline file
// that supplies the actual jobs.
//
// The typical flow:
//
//  1. ReadFile or Parse: YAML bytes → cipipe.Config
//  2. Validate: structural checks (version pin, env grammar,
//     duplicate keys, import references)
//  3. ResolveEnv: flatten the env block to a map, opening sealed
//     entries when a private key is available
//  4. Render: canonical YAML for write-back (round-trip identity
//     over the structured record)
package pipelinecfg

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beamforge/beamforge/lib/schema/cipipe"
)

// Parse unmarshals a pipeline configuration from YAML. Duplicate
// mapping keys are rejected by the YAML decoder; duplicate env names
// (which are a sequence, not a mapping) are reported by Validate.
func Parse(data []byte) (*cipipe.Config, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parsing pipeline config: %w", err)
	}
	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, fmt.Errorf("parsing pipeline config: empty document")
	}

	root := document.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing pipeline config: top level is not a mapping")
	}

	config := &cipipe.Config{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		value := root.Content[i+1]

		switch key.Value {
		case "version":
			if err := value.Decode(&config.Version); err != nil {
				return nil, fmt.Errorf("line %d: version: %w", value.Line, err)
			}
		case "env":
			entries, err := parseEnvBlock(value)
			if err != nil {
				return nil, err
			}
			config.Env = entries
		case "jobs":
			if err := value.Decode(&config.Jobs); err != nil {
				return nil, fmt.Errorf("line %d: jobs: %w", value.Line, err)
			}
		case "import":
			imports, err := parseImports(value)
			if err != nil {
				return nil, err
			}
			config.Imports = imports
		default:
			return nil, fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}
	}

	return config, nil
}

// parseEnvBlock parses the env sequence. Each entry is either a
// scalar "NAME=value" assignment (the "=value" part optional) or a
// {secure: "..."} mapping.
func parseEnvBlock(node *yaml.Node) ([]cipipe.EnvEntry, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: env must be a sequence", node.Line)
	}

	entries := make([]cipipe.EnvEntry, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			entries = append(entries, parseAssignment(item.Value))
		case yaml.MappingNode:
			var entry cipipe.EnvEntry
			if err := item.Decode(&entry); err != nil {
				return nil, fmt.Errorf("line %d: env entry: %w", item.Line, err)
			}
			entries = append(entries, entry)
		default:
			return nil, fmt.Errorf("line %d: env entry must be a string or a secure mapping", item.Line)
		}
	}
	return entries, nil
}

// parseAssignment splits a "NAME=value" scalar. A bare name with no
// "=" yields an empty value (the name still validates).
func parseAssignment(raw string) cipipe.EnvEntry {
	if index := strings.IndexByte(raw, '='); index >= 0 {
		return cipipe.EnvEntry{Name: raw[:index], Value: raw[index+1:]}
	}
	return cipipe.EnvEntry{Name: raw}
}

// parseImports parses the import sequence of compact
// "source:path[@ref]" references.
func parseImports(node *yaml.Node) ([]cipipe.ImportRef, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: import must be a sequence", node.Line)
	}

	imports := make([]cipipe.ImportRef, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: import entry must be a string", item.Line)
		}
		ref, err := cipipe.ParseImportRef(item.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		imports = append(imports, ref)
	}
	return imports, nil
}

// ReadFile reads a pipeline configuration from disk and parses it.
// Returns a descriptive error if the file cannot be read or the YAML
// is malformed.
func ReadFile(path string) (*cipipe.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}
