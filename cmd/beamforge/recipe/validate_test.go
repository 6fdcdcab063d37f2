// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestValidateValidRecipe(t *testing.T) {
	t.Parallel()

	path := writeRecipe(t, `package:
  name: pcdsdevices
  version: '{{ script("python setup.py --version") }}'
source:
  path: ..
build:
  number: 0
  noarch: python
requirements:
  run:
    - ophyd >=1.6.1
    - pcdsutils >=0.5.0
test:
  imports:
    - pcdsdevices
about:
  home: https://github.com/pcdshub/pcdsdevices
  license: BSD-3-Clause
  summary: Device classes for the LCLS beamlines
`)

	cmd := validateCommand()
	if err := cmd.Run([]string{path}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateReportsIssues(t *testing.T) {
	t.Parallel()

	// Contradictory run constraint and a negative build number.
	path := writeRecipe(t, `package:
  name: pcdsdevices
  version: 7.4.3
build:
  number: -1
requirements:
  run:
    - ophyd ==1.6.1,==1.7.0
`)

	cmd := validateCommand()
	err := cmd.Run([]string{path})
	if err == nil {
		t.Fatal("expected error for invalid recipe")
	}
	if !strings.Contains(err.Error(), "validation issue") {
		t.Errorf("error %q should mention validation issues", err.Error())
	}
}

func TestValidateUnknownField(t *testing.T) {
	t.Parallel()

	path := writeRecipe(t, `package:
  name: pcdsdevices
  version: 7.4.3
requirements:
  run_constained:
    - pyepics >=3.4.2
`)

	cmd := validateCommand()
	if err := cmd.Run([]string{path}); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateNoArgs(t *testing.T) {
	t.Parallel()

	cmd := validateCommand()
	err := cmd.Run([]string{})
	if err == nil {
		t.Fatal("expected error for no args")
	}
	if !strings.Contains(err.Error(), "usage") {
		t.Errorf("error %q should contain usage hint", err.Error())
	}
}
