// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package packstore implements the local content-addressed store for
// built package archives. Archives are split into fixed-size chunks,
// compressed, and stored under their chunk-domain BLAKE3 hash, so
// identical chunks across rebuilds are stored once. Each archive has
// a CBOR index record mapping its archive hash to the ordered chunk
// list plus package metadata.
//
// Directory layout under the store root:
//
//	chunks/<first 2 hex>/<chunk hash>   compressed chunk data
//	index/<archive hash>.cbor           archive index records
//	tmp/                                staging for atomic writes
package packstore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/beamforge/beamforge/lib/codec"
	"github.com/beamforge/beamforge/lib/pack"
)

// Directory names within the store root.
const (
	chunkDir = "chunks"
	indexDir = "index"
	tmpDir   = "tmp"
)

// ChunkSize is the fixed chunk size in bytes (4 MiB). Package
// archives are rebuilt wholesale, so content-defined chunking buys
// little — dedup across rebuilds comes from unchanged leading chunks
// and the noarch payload being mostly stable.
const ChunkSize = 4 * 1024 * 1024

// Store manages the local package archive directory. It is safe for
// concurrent reads; the caller serializes writes of the same archive.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory. The
// directory structure is created if it does not exist.
func NewStore(root string) (*Store, error) {
	for _, dir := range []string{
		root,
		filepath.Join(root, chunkDir),
		filepath.Join(root, indexDir),
		filepath.Join(root, tmpDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

// ChunkRecord describes one stored chunk of an archive, in archive
// order.
type ChunkRecord struct {
	// Hash is the hex chunk-domain hash of the uncompressed bytes.
	Hash string `cbor:"hash"`

	// Size is the uncompressed chunk size in bytes.
	Size int64 `cbor:"size"`

	// CompressedSize is the on-disk size in bytes.
	CompressedSize int64 `cbor:"compressed_size"`

	// Compression is the algorithm the chunk was stored with.
	Compression CompressionTag `cbor:"compression"`
}

// IndexRecord is the per-archive index, stored as CBOR under the
// archive hash.
type IndexRecord struct {
	// ArchiveHash is the hex archive-domain hash (the archive
	// identity).
	ArchiveHash string `cbor:"archive_hash"`

	// Ref is the short package reference (pkg-<12 hex chars>).
	Ref string `cbor:"ref"`

	// Name and Version are the package identity from the recipe at
	// store time.
	Name    string `cbor:"name"`
	Version string `cbor:"version"`

	// Size is the total uncompressed archive size in bytes.
	Size int64 `cbor:"size"`

	// CompressedSize is the total on-disk chunk size in bytes.
	CompressedSize int64 `cbor:"compressed_size"`

	// StoredAt is the store time as Unix seconds.
	StoredAt int64 `cbor:"stored_at"`

	// Chunks lists the archive's chunks in order.
	Chunks []ChunkRecord `cbor:"chunks"`
}

// Put ingests an archive from r, chunks it, compresses it, and
// writes chunks plus the index record to disk. Chunks already
// present (from a previous rebuild) are not rewritten. Returns the
// archive's index record.
func (s *Store) Put(r io.Reader, name, version string) (*IndexRecord, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("cannot store an empty archive")
	}

	// Probe the first chunk once; all chunks of an archive use the
	// same selected algorithm (with per-chunk incompressible
	// fallback).
	probe := content
	if len(probe) > ChunkSize {
		probe = probe[:ChunkSize]
	}
	compression := SelectCompression(probe)

	record := &IndexRecord{
		Name:     name,
		Version:  version,
		Size:     int64(len(content)),
		StoredAt: time.Now().Unix(),
	}

	var chunkHashes []pack.Hash
	for offset := 0; offset < len(content); offset += ChunkSize {
		end := offset + ChunkSize
		if end > len(content) {
			end = len(content)
		}
		chunk := content[offset:end]

		chunkHash := pack.HashChunk(chunk)
		chunkHashes = append(chunkHashes, chunkHash)

		stored, actualTag, err := compressWithFallback(chunk, compression)
		if err != nil {
			return nil, fmt.Errorf("compressing chunk %d: %w", len(chunkHashes)-1, err)
		}

		if err := s.writeChunk(chunkHash, stored); err != nil {
			return nil, err
		}

		record.Chunks = append(record.Chunks, ChunkRecord{
			Hash:           pack.FormatHash(chunkHash),
			Size:           int64(len(chunk)),
			CompressedSize: int64(len(stored)),
			Compression:    actualTag,
		})
		record.CompressedSize += int64(len(stored))
	}

	archiveHash := pack.HashArchive(pack.MerkleRoot(chunkHashes))
	record.ArchiveHash = pack.FormatHash(archiveHash)
	record.Ref = pack.FormatRef(archiveHash)

	if err := s.writeIndex(archiveHash, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get reassembles the archive identified by archiveHash and writes
// the uncompressed bytes to w. Every chunk is verified against its
// recorded hash during reassembly. Returns the number of bytes
// written.
func (s *Store) Get(archiveHash pack.Hash, w io.Writer) (int64, error) {
	record, err := s.Stat(archiveHash)
	if err != nil {
		return 0, err
	}

	var written int64
	for index, chunkRecord := range record.Chunks {
		chunk, err := s.readChunk(chunkRecord)
		if err != nil {
			return written, fmt.Errorf("chunk %d of %s: %w", index, record.Ref, err)
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("writing archive: %w", err)
		}
	}
	return written, nil
}

// Stat reads the index record for an archive without touching its
// chunks.
func (s *Store) Stat(archiveHash pack.Hash) (*IndexRecord, error) {
	data, err := os.ReadFile(s.indexPath(archiveHash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("archive %s is not in the store", pack.FormatRef(archiveHash))
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var record IndexRecord
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding index for %s: %w", pack.FormatRef(archiveHash), err)
	}
	return &record, nil
}

// Exists reports whether an archive's index record is present.
func (s *Store) Exists(archiveHash pack.Hash) bool {
	_, err := os.Stat(s.indexPath(archiveHash))
	return err == nil
}

// List returns the index records of every stored archive, sorted by
// name then version then archive hash.
func (s *Store) List() ([]*IndexRecord, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, indexDir))
	if err != nil {
		return nil, fmt.Errorf("listing index: %w", err)
	}

	var records []*IndexRecord
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cbor" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, indexDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading index %s: %w", entry.Name(), err)
		}
		var record IndexRecord
		if err := codec.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decoding index %s: %w", entry.Name(), err)
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		if records[i].Version != records[j].Version {
			return records[i].Version < records[j].Version
		}
		return records[i].ArchiveHash < records[j].ArchiveHash
	})
	return records, nil
}

// Verify checks an archive end to end: every chunk decompresses to
// bytes matching its recorded hash and size, and the chunk hashes
// recombine to the archive hash. Returns nil when the archive is
// intact.
func (s *Store) Verify(archiveHash pack.Hash) error {
	record, err := s.Stat(archiveHash)
	if err != nil {
		return err
	}

	var chunkHashes []pack.Hash
	for index, chunkRecord := range record.Chunks {
		chunk, err := s.readChunk(chunkRecord)
		if err != nil {
			return fmt.Errorf("chunk %d of %s: %w", index, record.Ref, err)
		}
		chunkHashes = append(chunkHashes, pack.HashChunk(chunk))
	}
	if len(chunkHashes) == 0 {
		return fmt.Errorf("archive %s has no chunks", record.Ref)
	}

	computed := pack.HashArchive(pack.MerkleRoot(chunkHashes))
	if pack.FormatHash(computed) != record.ArchiveHash {
		return fmt.Errorf("archive %s: computed hash %s does not match index",
			record.Ref, pack.FormatHash(computed))
	}
	return nil
}

// readChunk reads one chunk from disk, decompresses it, and verifies
// its hash against the record.
func (s *Store) readChunk(record ChunkRecord) ([]byte, error) {
	chunkHash, err := pack.ParseHash(record.Hash)
	if err != nil {
		return nil, err
	}

	stored, err := os.ReadFile(s.chunkPath(chunkHash))
	if err != nil {
		return nil, fmt.Errorf("reading chunk: %w", err)
	}

	chunk, err := DecompressChunk(stored, record.Compression, int(record.Size))
	if err != nil {
		return nil, err
	}
	if pack.HashChunk(chunk) != chunkHash {
		return nil, fmt.Errorf("chunk hash mismatch (corrupt chunk %s)", record.Hash)
	}
	return chunk, nil
}

// writeChunk writes one compressed chunk atomically. Existing chunks
// are left alone: content addressing means a present file is already
// correct.
func (s *Store) writeChunk(chunkHash pack.Hash, stored []byte) error {
	path := s.chunkPath(chunkHash)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chunk directory: %w", err)
	}
	return s.writeAtomic(path, stored)
}

// writeIndex encodes and writes an archive's index record atomically.
func (s *Store) writeIndex(archiveHash pack.Hash, record *IndexRecord) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return s.writeAtomic(s.indexPath(archiveHash), data)
}

// writeAtomic writes data to path via a temp file and rename, so a
// crash never leaves a partial file at the final path.
func (s *Store) writeAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Join(s.root, tmpDir), "put-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := io.Copy(temp, bytes.NewReader(data)); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("moving %s into place: %w", path, err)
	}
	return nil
}

// chunkPath returns the on-disk path for a chunk hash, fanned out by
// the first two hex characters.
func (s *Store) chunkPath(chunkHash pack.Hash) string {
	hexHash := pack.FormatHash(chunkHash)
	return filepath.Join(s.root, chunkDir, hexHash[:2], hexHash)
}

// indexPath returns the on-disk path for an archive's index record.
func (s *Store) indexPath(archiveHash pack.Hash) string {
	return filepath.Join(s.root, indexDir, pack.FormatHash(archiveHash)+".cbor")
}
