// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package depspec

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw             string
		wantName        string
		wantConstraints string
	}{
		{"pyepics", "pyepics", ""},
		{"ophyd >=1.5.0,<2.0a0", "ophyd", ">=1.5.0,<2.0a0"},
		{"numpy =1.26", "numpy", "=1.26"},
		{"python >=3.9", "python", ">=3.9"},
		{"pcdsutils==0.12.0", "pcdsutils", "==0.12.0"},
		{"PyQt5 >=5.12", "pyqt5", ">=5.12"},
		{"prettytable", "prettytable", ""},
		{"lightpath >=1.0.2", "lightpath", ">=1.0.2"},
	}

	for _, test := range tests {
		spec, err := Parse(test.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", test.raw, err)
		}
		if spec.Name != test.wantName {
			t.Errorf("Parse(%q).Name = %q, want %q", test.raw, spec.Name, test.wantName)
		}
		if got := spec.Constraints.String(); got != test.wantConstraints {
			t.Errorf("Parse(%q).Constraints = %q, want %q", test.raw, got, test.wantConstraints)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  ", "-leading", "name >=x..y", "UPPER only$", "name >=1.0 extra junk"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q): expected error", raw)
		}
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	specs, issues := ParseList([]string{
		"python >=3.9",
		"ophyd >=1.5.0",
		"not a valid spec at all",
		"pyepics",
	})

	if len(specs) != 3 {
		t.Errorf("expected 3 parsed specs, got %d", len(specs))
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if !strings.HasPrefix(issues[0], "[2]:") {
		t.Errorf("issue should carry the entry index: %q", issues[0])
	}
}

func TestDuplicates(t *testing.T) {
	t.Parallel()

	specs, issues := ParseList([]string{
		"python >=3.9",
		"numpy",
		"python",
		"numpy =1.26",
		"ophyd",
	})
	if issues != nil {
		t.Fatalf("unexpected issues: %v", issues)
	}

	duplicates := Duplicates(specs)
	if len(duplicates) != 2 || duplicates[0] != "python" || duplicates[1] != "numpy" {
		t.Errorf("Duplicates = %v, want [python numpy]", duplicates)
	}
}
