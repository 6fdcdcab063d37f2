// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package docbuild

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSourceTree(t *testing.T) string {
	t.Helper()

	source := t.TempDir()
	pages := map[string]string{
		"index.md":         "# Device Classes\n\nBeamline device documentation.\n",
		"guides/motors.md": "# Motors\n\n```python\nfrom pcdsdevices.epics_motor import IMS\nmotor = IMS(\"XPP:USR:MMS:01\", name=\"motor\")\n```\n",
		"style.css":        "main { max-width: 50rem; }\n",
	}
	for name, content := range pages {
		path := filepath.Join(source, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return source
}

func TestBuild(t *testing.T) {
	t.Parallel()

	source := writeSourceTree(t)
	output := t.TempDir()

	result, err := Build(Config{
		SourceDir: source,
		OutputDir: output,
		Version:   "7.4.3",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Pages != 2 {
		t.Errorf("result.Pages = %d, want 2", result.Pages)
	}
	if result.OutputDir != output {
		t.Errorf("result.OutputDir = %q, want %q", result.OutputDir, output)
	}

	index, err := os.ReadFile(filepath.Join(output, "index.html"))
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	page := string(index)
	if !strings.Contains(page, "<title>Device Classes — 7.4.3</title>") {
		t.Errorf("index.html title missing or wrong:\n%s", page)
	}
	if !strings.Contains(page, "Beamline device documentation") {
		t.Error("index.html is missing the page body")
	}

	motors, err := os.ReadFile(filepath.Join(output, "guides", "motors.html"))
	if err != nil {
		t.Fatalf("reading guides/motors.html: %v", err)
	}
	// Chroma output wraps highlighted code in styled spans.
	if !strings.Contains(string(motors), "<span") || !strings.Contains(string(motors), "IMS") {
		t.Error("motors.html code block is not syntax highlighted")
	}

	// Non-markdown assets are copied through.
	css, err := os.ReadFile(filepath.Join(output, "style.css"))
	if err != nil {
		t.Fatalf("reading style.css: %v", err)
	}
	if !strings.Contains(string(css), "max-width") {
		t.Error("style.css was not copied through")
	}
}

func TestBuildVersioned(t *testing.T) {
	t.Parallel()

	source := writeSourceTree(t)
	output := t.TempDir()

	result, err := Build(Config{
		SourceDir: source,
		OutputDir: output,
		Version:   "7.4.3",
		Versioned: true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.OutputDir != filepath.Join(output, "7.4.3") {
		t.Errorf("result.OutputDir = %q", result.OutputDir)
	}

	if _, err := os.Stat(filepath.Join(output, "7.4.3", "index.html")); err != nil {
		t.Errorf("versioned index.html missing: %v", err)
	}

	// A second build for another version coexists with the first.
	if _, err := Build(Config{
		SourceDir: source,
		OutputDir: output,
		Version:   "7.5.0",
		Versioned: true,
	}); err != nil {
		t.Fatalf("Build 7.5.0: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "7.4.3", "index.html")); err != nil {
		t.Error("second versioned build removed the first version's output")
	}
	if _, err := os.Stat(filepath.Join(output, "7.5.0", "index.html")); err != nil {
		t.Errorf("second versioned build wrote nothing: %v", err)
	}
}

func TestBuildConfigErrors(t *testing.T) {
	t.Parallel()

	if _, err := Build(Config{OutputDir: t.TempDir()}); err == nil {
		t.Error("expected an error for a missing SourceDir")
	}
	if _, err := Build(Config{SourceDir: t.TempDir()}); err == nil {
		t.Error("expected an error for a missing OutputDir")
	}
	if _, err := Build(Config{
		SourceDir: t.TempDir(),
		OutputDir: t.TempDir(),
		Versioned: true,
	}); err == nil {
		t.Error("expected an error for versioned output without a version")
	}
}

func TestPageTitleFallback(t *testing.T) {
	t.Parallel()

	if got := pageTitle([]byte("no heading here\n"), "/docs/notes.md"); got != "notes" {
		t.Errorf("pageTitle = %q, want %q", got, "notes")
	}
	if got := pageTitle([]byte("# Heading\n\nbody\n"), "/docs/notes.md"); got != "Heading" {
		t.Errorf("pageTitle = %q, want %q", got, "Heading")
	}
}
