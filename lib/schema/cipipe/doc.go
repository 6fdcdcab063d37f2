// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cipipe defines the typed model of a CI pipeline
// configuration file: the version pin, the global environment block
// (plain assignments and sealed secrets), the job failure-allowance
// policy, and the import references to externally maintained shared
// pipeline definitions.
//
// Parsing and validation of the on-disk YAML form live in
// lib/pipelinecfg; this package holds the structures and the
// per-entry grammar that both the parser and its consumers share.
package cipipe
