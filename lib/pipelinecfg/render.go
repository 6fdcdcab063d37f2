// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pipelinecfg

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/beamforge/beamforge/lib/schema/cipipe"
)

// Render serializes a pipeline configuration to canonical YAML. The
// output parses back to a deeply equal Config: plain env entries
// render as "NAME=value" scalars, sealed entries as secure mappings,
// imports in their compact "source:path[@ref]" spelling. Keys appear
// in the fixed version/env/jobs/import order regardless of the order
// the source file used.
func Render(config *cipipe.Config) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendKey(root, "version", scalarNode(config.Version))

	if len(config.Env) > 0 {
		env := &yaml.Node{Kind: yaml.SequenceNode}
		for _, entry := range config.Env {
			if entry.IsSecure() {
				secure := &yaml.Node{Kind: yaml.MappingNode}
				appendKey(secure, "secure", scalarNode(entry.Secure))
				env.Content = append(env.Content, secure)
				continue
			}
			assignment := entry.Name
			if entry.Value != "" {
				assignment += "=" + entry.Value
			}
			env.Content = append(env.Content, scalarNode(assignment))
		}
		appendKey(root, "env", env)
	}

	if len(config.Jobs.AllowFailures) > 0 {
		allowed := &yaml.Node{Kind: yaml.SequenceNode}
		for _, ref := range config.Jobs.AllowFailures {
			job := &yaml.Node{Kind: yaml.MappingNode}
			appendKey(job, "name", scalarNode(ref.Name))
			allowed.Content = append(allowed.Content, job)
		}
		jobs := &yaml.Node{Kind: yaml.MappingNode}
		appendKey(jobs, "allow_failures", allowed)
		appendKey(root, "jobs", jobs)
	}

	if len(config.Imports) > 0 {
		imports := &yaml.Node{Kind: yaml.SequenceNode}
		for _, ref := range config.Imports {
			imports.Content = append(imports.Content, scalarNode(ref.String()))
		}
		appendKey(root, "import", imports)
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("rendering pipeline config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("rendering pipeline config: %w", err)
	}
	return buffer.Bytes(), nil
}

func appendKey(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
