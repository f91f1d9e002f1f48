// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/release"
)

// Environment check findings, as emitted by the inspection command and
// mapped to operator-facing descriptions.
var findingDescriptions = map[string]string{
	"root-not-directory":     "deploy root exists but is not a directory",
	"upcoming-exists":        "an upcoming symlink already exists (abandoned deploy? run cleanup)",
	"current-not-symlink":    "current exists but is not a symlink",
	"releases-not-directory": "releases exists but is not a directory",
}

// checkCommand builds the single inspection command run on every host.
// Each inspection prints a finding token on violation; a clean host
// prints nothing. The trailing "true" keeps the exit status zero so a
// finding is data, not a command failure. The -L tests exist because
// test -e follows symlinks and would miss a dangling upcoming link.
func checkCommand(layout release.Layout) string {
	root := release.ShellQuote(layout.Root)
	upcoming := release.ShellQuote(layout.UpcomingLink())
	current := release.ShellQuote(layout.CurrentLink())
	releasesDir := release.ShellQuote(layout.ReleasesDir())
	inspections := []string{
		fmt.Sprintf("test -e %s -a ! -d %s && echo root-not-directory", root, root),
		fmt.Sprintf("{ test -e %s || test -L %s; } && echo upcoming-exists", upcoming, upcoming),
		fmt.Sprintf("test -e %s -a ! -L %s && echo current-not-symlink", current, current),
		fmt.Sprintf("test -e %s -a ! -d %s && echo releases-not-directory", releasesDir, releasesDir),
		"true",
	}
	return strings.Join(inspections, "; ")
}

// CheckEnvironment inspects the deployment root on every host and
// fails with an [*UnsafeStateError] when any host's layout violates
// the deployment invariants. It runs before any mutation in both the
// deploy and rollback sequences, and standalone as "convoy doctor".
func CheckEnvironment(ctx context.Context, runner executor.Runner, layout release.Layout) error {
	results, err := executor.RunChecked(ctx, runner, checkCommand(layout))
	if err != nil {
		return err
	}

	var findings []Finding
	for _, result := range results {
		for _, line := range strings.Split(result.Stdout, "\n") {
			token := strings.TrimSpace(line)
			if token == "" {
				continue
			}
			description, known := findingDescriptions[token]
			if !known {
				description = fmt.Sprintf("unrecognized check output %q", token)
			}
			findings = append(findings, Finding{Host: result.Host, Problem: description})
		}
	}
	if len(findings) > 0 {
		return &UnsafeStateError{Findings: findings}
	}
	return nil
}
