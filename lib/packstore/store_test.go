// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package packstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/beamforge/beamforge/lib/pack"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	archive := compressibleData(3*ChunkSize + 1234)

	record, err := store.Put(bytes.NewReader(archive), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if record.Name != "pcdsdevices" || record.Version != "7.4.3" {
		t.Errorf("record identity = %s %s", record.Name, record.Version)
	}
	if record.Size != int64(len(archive)) {
		t.Errorf("record.Size = %d, want %d", record.Size, len(archive))
	}
	if len(record.Chunks) != 4 {
		t.Errorf("len(record.Chunks) = %d, want 4", len(record.Chunks))
	}
	if record.CompressedSize >= record.Size {
		t.Errorf("compressible archive did not shrink: %d >= %d", record.CompressedSize, record.Size)
	}

	archiveHash, err := pack.ParseHash(record.ArchiveHash)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if record.Ref != pack.FormatRef(archiveHash) {
		t.Errorf("record.Ref = %q, want %q", record.Ref, pack.FormatRef(archiveHash))
	}

	var out bytes.Buffer
	written, err := store.Get(archiveHash, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if written != int64(len(archive)) {
		t.Errorf("Get wrote %d bytes, want %d", written, len(archive))
	}
	if !bytes.Equal(out.Bytes(), archive) {
		t.Error("Get returned different bytes than Put stored")
	}
}

func TestPutIsDeterministic(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	archive := compressibleData(2 * ChunkSize)

	first, err := store.Put(bytes.NewReader(archive), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	second, err := store.Put(bytes.NewReader(archive), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put (again): %v", err)
	}

	if first.ArchiveHash != second.ArchiveHash {
		t.Errorf("same bytes produced different archive hashes: %s vs %s",
			first.ArchiveHash, second.ArchiveHash)
	}
}

func TestPutEmptyArchive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Put(bytes.NewReader(nil), "pcdsdevices", "7.4.3"); err == nil {
		t.Error("expected an error for an empty archive")
	}
}

func TestStatAndExists(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	record, err := store.Put(bytes.NewReader(compressibleData(1024)), "lightpath", "1.0.4")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	archiveHash, _ := pack.ParseHash(record.ArchiveHash)
	if !store.Exists(archiveHash) {
		t.Error("Exists = false for a stored archive")
	}

	stat, err := store.Stat(archiveHash)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if stat.Name != "lightpath" || stat.Version != "1.0.4" {
		t.Errorf("Stat identity = %s %s", stat.Name, stat.Version)
	}

	missing := pack.HashChunk([]byte("never stored"))
	if store.Exists(missing) {
		t.Error("Exists = true for a missing archive")
	}
	if _, err := store.Stat(missing); err == nil {
		t.Error("expected an error from Stat for a missing archive")
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, entry := range []struct{ name, version string }{
		{"pcdsdevices", "7.4.3"},
		{"lightpath", "1.0.4"},
		{"pcdsdevices", "7.4.2"},
	} {
		archive := compressibleData(2048)
		archive = append(archive, []byte(entry.name+entry.version)...)
		if _, err := store.Put(bytes.NewReader(archive), entry.name, entry.version); err != nil {
			t.Fatalf("Put %s: %v", entry.name, err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	// Sorted by name, then version.
	if records[0].Name != "lightpath" {
		t.Errorf("records[0].Name = %q", records[0].Name)
	}
	if records[1].Version != "7.4.2" || records[2].Version != "7.4.3" {
		t.Errorf("pcdsdevices versions out of order: %s, %s",
			records[1].Version, records[2].Version)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	record, err := store.Put(bytes.NewReader(compressibleData(2*ChunkSize)), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	archiveHash, _ := pack.ParseHash(record.ArchiveHash)

	if err := store.Verify(archiveHash); err != nil {
		t.Errorf("Verify of an intact archive: %v", err)
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	record, err := store.Put(bytes.NewReader(compressibleData(2*ChunkSize)), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	archiveHash, _ := pack.ParseHash(record.ArchiveHash)

	// Flip bytes in the first chunk file.
	chunkHash, _ := pack.ParseHash(record.Chunks[0].Hash)
	path := store.chunkPath(chunkHash)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)/2] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.Verify(archiveHash); err == nil {
		t.Error("Verify did not detect a corrupted chunk")
	}
	if _, err := store.Get(archiveHash, &bytes.Buffer{}); err == nil {
		t.Error("Get did not detect a corrupted chunk")
	}
}

func TestChunkDedup(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	// Two archives sharing their first chunk.
	shared := compressibleData(ChunkSize)
	first := append(append([]byte(nil), shared...), compressibleData(1024)...)
	second := append(append([]byte(nil), shared...), []byte("different tail")...)

	if _, err := store.Put(bytes.NewReader(first), "pcdsdevices", "7.4.2"); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if _, err := store.Put(bytes.NewReader(second), "pcdsdevices", "7.4.3"); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	// 2 archives x 2 chunks each, 1 shared: 3 chunk files on disk.
	count := 0
	err := filepath.WalkDir(filepath.Join(store.root, chunkDir), func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("chunk file count = %d, want 3 (shared chunk stored once)", count)
	}
}
