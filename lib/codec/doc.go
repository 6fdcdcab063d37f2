// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the canonical CBOR encoding used for
// beamforge's durable binary records: package store indexes and
// dependency-screen cache entries.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same logical record always produces identical bytes, which is
// what makes content-addressed storage of index records possible —
// the digest of an index is stable across processes and releases.
//
// Decoding accepts standard CBOR and silently ignores unknown fields
// for forward compatibility.
package codec
