// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipedef

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beamforge/beamforge/lib/schema/recipe"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := filepath.Join(dir, "version.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 7.4.3\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	original := &recipe.Recipe{
		Package: recipe.Package{
			Name:    "pcdsdevices",
			Version: `{{ script("./version.sh") }}`,
		},
		Build: recipe.Build{
			Script: `{{ env.PYTHON }} -m pip install . --no-deps -vv`,
		},
		Requirements: recipe.Requirements{
			Run: []string{`{{ pin("ophyd") }}`, "lightpath"},
		},
	}

	expanded, err := Expand(context.Background(), original, ExpandContext{
		Env:  map[string]string{"PYTHON": "python3"},
		Pins: map[string]string{"ophyd": ">=1.6.1"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if expanded.Package.Version != "7.4.3" {
		t.Errorf("version = %q, want 7.4.3", expanded.Package.Version)
	}
	if expanded.Build.Script != "python3 -m pip install . --no-deps -vv" {
		t.Errorf("build.script = %q", expanded.Build.Script)
	}
	if expanded.Requirements.Run[0] != "ophyd >=1.6.1" {
		t.Errorf("run[0] = %q, want %q", expanded.Requirements.Run[0], "ophyd >=1.6.1")
	}
	if expanded.Requirements.Run[1] != "lightpath" {
		t.Errorf("run[1] = %q, want it untouched", expanded.Requirements.Run[1])
	}

	// The input recipe is not mutated.
	if original.Package.Version == expanded.Package.Version {
		t.Error("Expand mutated its input")
	}
	if original.Requirements.Run[0] != `{{ pin("ophyd") }}` {
		t.Errorf("Expand mutated the input dependency list: %q", original.Requirements.Run[0])
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"unknown env name", `{{ env.MISSING }}`, `env name "MISSING" is not set`},
		{"missing pin", `{{ pin("ophyd") }}`, `no pin for package "ophyd"`},
		{"failing script", `{{ script("exit 3") }}`, "running"},
		{"empty output", `{{ script("true") }}`, "produced no output"},
		{"empty command", `{{ script("") }}`, "empty script command"},
		{"unsupported expression", `{{ frobnicate() }}`, "unsupported expression"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			r := &recipe.Recipe{Package: recipe.Package{Name: "x", Version: test.version}}
			_, err := Expand(context.Background(), r, ExpandContext{})
			if err == nil {
				t.Fatalf("expected an error for %s", test.version)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not contain %q", err, test.want)
			}
		})
	}
}

func TestExtractVersion(t *testing.T) {
	t.Parallel()

	r := &recipe.Recipe{Package: recipe.Package{
		Name:    "pcdsdevices",
		Version: `{{ script("echo 7.4.3") }}`,
	}}

	version, err := ExtractVersion(context.Background(), r, ExpandContext{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("ExtractVersion: %v", err)
	}
	if version != "7.4.3" {
		t.Errorf("version = %q, want 7.4.3", version)
	}
}

func TestExtractVersion_Literal(t *testing.T) {
	t.Parallel()

	r := &recipe.Recipe{Package: recipe.Package{Name: "pcdsdevices", Version: "7.4.3"}}

	version, err := ExtractVersion(context.Background(), r, ExpandContext{})
	if err != nil {
		t.Fatalf("ExtractVersion: %v", err)
	}
	if version != "7.4.3" {
		t.Errorf("version = %q, want 7.4.3", version)
	}
}

func TestExtractVersion_Empty(t *testing.T) {
	t.Parallel()

	r := &recipe.Recipe{Package: recipe.Package{Name: "pcdsdevices", Version: "   "}}
	if _, err := ExtractVersion(context.Background(), r, ExpandContext{}); err == nil {
		t.Error("expected an error for an empty version")
	}
}

func TestExpand_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recipe.Recipe{Package: recipe.Package{
		Name:    "x",
		Version: `{{ script("sleep 30; echo never") }}`,
	}}
	if _, err := Expand(ctx, r, ExpandContext{}); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
