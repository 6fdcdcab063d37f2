// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for pipeline
// secret values. It wraps filippo.io/age for the specific operations
// beamforge needs: generate x25519 keypairs, seal a value to multiple
// recipients, and open a sealed value with a private key.
//
// Ciphertext is base64-encoded so that it can be embedded directly in
// the "secure:" entries of a pipeline configuration's global env block.
// Callers pass plaintext []byte to [Seal] and receive a base64 string;
// [Open] accepts a base64 string and returns plaintext. Private keys
// and opened plaintext are returned as [secret.Buffer] values backed by
// mmap memory outside the Go heap (locked against swap, excluded from
// core dumps, zeroed on Close).
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair in a secret.Buffer
//   - [Seal] -- encrypt a value to age public key recipients
//   - [Open] -- decrypt a sealed value with a secret.Buffer key
//   - [ParsePublicKey] / [ParsePrivateKey] -- key validation
//
// Used by "beamforge secret seal" (maintainers sealing upload tokens
// into ci.yml) and by the CI side when the sealed value is opened at
// job execution time.
//
// Depends on lib/secret for secure memory allocation.
package sealed
