// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package cipipe

import (
	"testing"
)

func TestParseImportRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    ImportRef
		wantErr bool
	}{
		{
			raw:  "pcdshub/ci-helpers:shared/python-tester.yml",
			want: ImportRef{Source: "pcdshub/ci-helpers", Path: "shared/python-tester.yml"},
		},
		{
			raw:  "pcdshub/ci-helpers:shared/python-tester.yml@v2.1",
			want: ImportRef{Source: "pcdshub/ci-helpers", Path: "shared/python-tester.yml", Ref: "v2.1"},
		},
		{raw: "no-colon-here", wantErr: true},
		{raw: ":path-only.yml", wantErr: true},
		{raw: "not-owner-repo:file.yml", wantErr: true},
		{raw: "owner/repo:", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseImportRef(test.raw)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseImportRef(%q): expected error", test.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseImportRef(%q): %v", test.raw, err)
		}
		if got != test.want {
			t.Errorf("ParseImportRef(%q) = %+v, want %+v", test.raw, got, test.want)
		}
		if reparsed, err := ParseImportRef(got.String()); err != nil || reparsed != got {
			t.Errorf("String round trip failed for %q: %+v, %v", test.raw, reparsed, err)
		}
	}
}

func TestEnvEntry_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   EnvEntry
		wantErr bool
	}{
		{"plain assignment", EnvEntry{Name: "CONDA_PACKAGE", Value: "pcds-devices"}, false},
		{"empty value is fine", EnvEntry{Name: "PIP_EXTRAS"}, false},
		{"secure entry", EnvEntry{Secure: "YWdlLWVuY3J5cHRlZA=="}, false},
		{"secure plus plain", EnvEntry{Secure: "x", Name: "TOKEN"}, true},
		{"missing name", EnvEntry{Value: "orphan"}, true},
		{"lowercase name", EnvEntry{Name: "docs_versioned"}, true},
		{"leading digit", EnvEntry{Name: "1BAD"}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.entry.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestValidVersionPin(t *testing.T) {
	t.Parallel()

	valid := []string{"~> 1.0", "~>1.0", "~> 2", "  ~> 1.4  "}
	invalid := []string{"", "1.0", "~ 1.0", "~> one", "~> 1.0.0"}

	for _, pin := range valid {
		if !ValidVersionPin(pin) {
			t.Errorf("ValidVersionPin(%q) = false, want true", pin)
		}
	}
	for _, pin := range invalid {
		if ValidVersionPin(pin) {
			t.Errorf("ValidVersionPin(%q) = true, want false", pin)
		}
	}
}
