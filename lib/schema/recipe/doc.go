// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package recipe defines the typed model of a package build recipe:
// package metadata, source location, build settings (build number,
// noarch flag, script), the three dependency categories
// (build/run/run_constrained), the post-build import smoke test, and
// the about block.
//
// Recipe fields may contain {{ ... }} directives that are expanded at
// recipe-evaluation time; parsing, directive expansion, and
// validation live in lib/recipedef. Dependency entries are raw spec
// strings parsed by lib/depspec.
package recipe
