// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beamforge/beamforge/lib/packstore"
)

// storeWithArchive stores a small archive and returns the store root
// and the archive's index record.
func storeWithArchive(t *testing.T) (string, *packstore.IndexRecord) {
	t.Helper()

	storeRoot := filepath.Join(t.TempDir(), "store")
	store, err := packstore.NewStore(storeRoot)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	content := bytes.Repeat([]byte("beamline device archive "), 1024)
	record, err := store.Put(bytes.NewReader(content), "pcdsdevices", "7.4.3")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	return storeRoot, record
}

func TestPutStoresArchive(t *testing.T) {
	directory := t.TempDir()
	storeRoot := filepath.Join(directory, "store")

	archivePath := filepath.Join(directory, "pcdsdevices-7.4.3.tar.bz2")
	err := os.WriteFile(archivePath, bytes.Repeat([]byte("content "), 512), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := putCommand()
	err = cmd.Execute([]string{archivePath,
		"--store", storeRoot, "--name", "pcdsdevices", "--version", "7.4.3"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	store, err := packstore.NewStore(storeRoot)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("store holds %d archives, want 1", len(records))
	}
	if records[0].Name != "pcdsdevices" || records[0].Version != "7.4.3" {
		t.Errorf("stored identity = %s %s", records[0].Name, records[0].Version)
	}
}

func TestPutRequiresIdentity(t *testing.T) {
	directory := t.TempDir()
	archivePath := filepath.Join(directory, "archive.tar")
	if err := os.WriteFile(archivePath, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := putCommand()
	err := cmd.Execute([]string{archivePath, "--store", filepath.Join(directory, "store")})
	if err == nil {
		t.Fatal("expected error for missing package identity")
	}
	if !strings.Contains(err.Error(), "--name") {
		t.Errorf("error %q should mention the identity flags", err.Error())
	}
}

func TestGetWritesArchive(t *testing.T) {
	storeRoot, record := storeWithArchive(t)
	outputPath := filepath.Join(t.TempDir(), "out.tar")

	cmd := getCommand()
	err := cmd.Execute([]string{record.ArchiveHash,
		"--store", storeRoot, "--output", outputPath})
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if info.Size() != record.Size {
		t.Errorf("output size = %d, want %d", info.Size(), record.Size)
	}
}

func TestGetByReference(t *testing.T) {
	storeRoot, record := storeWithArchive(t)
	outputPath := filepath.Join(t.TempDir(), "out.tar")

	cmd := getCommand()
	err := cmd.Execute([]string{record.Ref,
		"--store", storeRoot, "--output", outputPath})
	if err != nil {
		t.Fatalf("get by reference: %v", err)
	}
}

func TestGetUnknownReference(t *testing.T) {
	storeRoot, _ := storeWithArchive(t)

	cmd := getCommand()
	err := cmd.Execute([]string{"pkg-000000000000", "--store", storeRoot})
	if err == nil {
		t.Fatal("expected error for unknown reference")
	}
}

func TestVerifyCleanArchive(t *testing.T) {
	storeRoot, record := storeWithArchive(t)

	cmd := verifyCommand()
	if err := cmd.Execute([]string{record.Ref, "--store", storeRoot}); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyAllDetectsCorruption(t *testing.T) {
	storeRoot, _ := storeWithArchive(t)

	// Flip a byte in one stored chunk.
	var chunkFile string
	err := filepath.WalkDir(filepath.Join(storeRoot, "chunks"),
		func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && chunkFile == "" {
				chunkFile = path
			}
			return nil
		})
	if err != nil {
		t.Fatalf("WalkDir: %v", err)
	}
	if chunkFile == "" {
		t.Fatal("no chunk files in store")
	}
	data, err := os.ReadFile(chunkFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[len(data)/2] ^= 0xff
	if err := os.WriteFile(chunkFile, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := verifyCommand()
	err = cmd.Execute([]string{"--store", storeRoot, "--all"})
	if err == nil {
		t.Fatal("expected failure for corrupted chunk")
	}
	if coder, ok := err.(interface{ ExitCode() int }); !ok || coder.ExitCode() != 1 {
		t.Errorf("error %v should carry exit code 1", err)
	}
}
