// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"fmt"
	"os"

	"github.com/beamforge/beamforge/cmd/beamforge/cli"
	"github.com/beamforge/beamforge/lib/recipedef"
)

// validateCommand returns the "validate" subcommand.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Summary: "Validate a recipe file as written",
		Description: `Validate a recipe file without expanding directives. Checks the
package name grammar, the build number and noarch values, every
dependency spec (grammar, duplicates, contradictory constraints),
that run_constrained entries actually carry constraints, the import
smoke-test module names, and the about block.

Fields still holding an unexpanded {{ ... }} directive are skipped;
rendering resolves them first. Use "beamforge recipe render" to
validate the fully expanded form.`,
		Usage: "beamforge recipe validate <file>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: beamforge recipe validate <file>")
			}

			path := args[0]
			parsed, err := recipedef.ReadFile(path)
			if err != nil {
				return err
			}

			issues := recipedef.Validate(parsed)
			if len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(os.Stderr, "  - %s\n", issue)
				}
				return fmt.Errorf("%s: %d validation issue(s) found", path, len(issues))
			}

			fmt.Fprintf(os.Stdout, "%s: valid\n", path)
			return nil
		},
	}
}
