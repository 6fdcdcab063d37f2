// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest. All pack hashes (chunk, archive)
// are this size.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// hashes in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// Domain separation keys. These are fixed constants — changing them
// invalidates all existing hashes in that domain. The byte values
// are the ASCII encoding of the domain name, zero-padded to 32 bytes,
// so the keys stay inspectable in hex dumps and debuggers.
var (
	chunkDomainKey = domainKey{
		'b', 'e', 'a', 'm', 'f', 'o', 'r', 'g', 'e', '.', 'p', 'a', 'c', 'k', '.',
		'c', 'h', 'u', 'n', 'k', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	archiveDomainKey = domainKey{
		'b', 'e', 'a', 'm', 'f', 'o', 'r', 'g', 'e', '.', 'p', 'a', 'c', 'k', '.',
		'a', 'r', 'c', 'h', 'i', 'v', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// HashChunk computes the chunk-domain BLAKE3 keyed hash of the given
// data. This is the hash stored in archive chunk indexes and used for
// deduplication. Chunk hashes are always computed on uncompressed
// bytes so dedup works across compression algorithm changes.
func HashChunk(data []byte) Hash {
	return keyedHash(chunkDomainKey, data)
}

// HashArchive computes the archive-domain BLAKE3 keyed hash from the
// Merkle root of the archive's chunk hashes. For single-chunk
// archives, pass the single chunk hash. All package references are
// derived from archive-domain hashes.
func HashArchive(merkleRoot Hash) Hash {
	return keyedHash(archiveDomainKey, merkleRoot[:])
}

// MerkleRoot computes a binary Merkle tree over the given chunk
// hashes and returns the root. The tree is constructed bottom-up:
// adjacent pairs are concatenated and hashed with the chunk domain
// key. If a level has an odd number of nodes, the last node is
// promoted to the next level without hashing (it is NOT duplicated —
// duplicating would mean two different inputs produce the same root
// when one is a prefix of the other).
//
// Panics if hashes is empty.
func MerkleRoot(hashes []Hash) Hash {
	if len(hashes) == 0 {
		panic("pack.MerkleRoot: empty hash list")
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	// A single keyed hasher is reused via Reset() for each pair.
	// Reset() preserves the key; it returns the hasher to its initial
	// keyed state.
	hasher, err := blake3.NewKeyed(chunkDomainKey[:])
	if err != nil {
		panic("pack: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var combined [64]byte
	hashPair := func(left, right Hash) Hash {
		copy(combined[:32], left[:])
		copy(combined[32:], right[:])
		hasher.Reset()
		hasher.Write(combined[:])
		var result Hash
		copy(result[:], hasher.Sum(nil))
		return result
	}

	// Work on a copy to avoid mutating the caller's slice.
	level := make([]Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		nextLength := (len(level) + 1) / 2
		next := make([]Hash, nextLength)

		for i := 0; i < len(level)-1; i += 2 {
			next[i/2] = hashPair(level[i], level[i+1])
		}

		// Odd node: promote without hashing.
		if len(level)%2 == 1 {
			next[nextLength-1] = level[len(level)-1]
		}

		level = next
	}

	return level[0]
}

// FormatHash returns the hex-encoded string representation of a hash.
// This is the canonical format used in index records, logs, and CLI
// output.
func FormatHash(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing pack hash: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("pack hash is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// FormatRef returns the short package reference for an archive-domain
// hash: the "pkg-" prefix followed by the first 12 hex characters.
func FormatRef(archiveHash Hash) string {
	return "pkg-" + hex.EncodeToString(archiveHash[:6])
}

// keyedHash computes BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("pack: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
