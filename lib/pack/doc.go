// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package pack defines content addressing for built package archives:
// BLAKE3 keyed hashing with domain separation, Merkle trees over
// chunk hashes, and the canonical hash and reference string formats.
// The store built on top of these hashes lives in lib/packstore.
package pack
