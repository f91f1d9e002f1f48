// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Local is a single-host Runner that executes commands on the local
// machine via "sh -c". It serves deployments whose target is the
// machine convoy runs on, and end-to-end tests that exercise the full
// deploy pipeline against a temp directory.
type Local struct {
	host string
}

// NewLocal returns a Local runner. The host label appears in results
// and log output; "localhost" is conventional.
func NewLocal(host string) *Local {
	return &Local{host: host}
}

// Hosts returns the single local host label.
func (l *Local) Hosts() []string {
	return []string{l.host}
}

// Run executes the command with "sh -c" and captures its output.
func (l *Local) Run(ctx context.Context, command string) ([]Result, error) {
	var stdout, stderr bytes.Buffer
	process := exec.CommandContext(ctx, "sh", "-c", command)
	process.Stdout = &stdout
	process.Stderr = &stderr

	exitCode := 0
	if err := process.Run(); err != nil {
		exitError, ok := err.(*exec.ExitError)
		if !ok {
			return nil, fmt.Errorf("sh -c %q: %w", command, err)
		}
		exitCode = exitError.ExitCode()
	}
	return []Result{{
		Host:     l.host,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}}, nil
}

// CopyTree mirrors localDir into remoteDir with a local rsync. The
// trailing slash on the source makes rsync copy directory contents
// rather than the directory itself.
func (l *Local) CopyTree(ctx context.Context, localDir, remoteDir string, options CopyOptions) error {
	args := []string{"-a"}
	if options.DeleteExtraneous {
		args = append(args, "--delete")
	}
	args = append(args, strings.TrimSuffix(localDir, "/")+"/", remoteDir)

	var stderr bytes.Buffer
	process := exec.CommandContext(ctx, "rsync", args...)
	process.Stderr = &stderr
	if err := process.Run(); err != nil {
		return fmt.Errorf("rsync %s -> %s: %w (stderr: %s)",
			localDir, remoteDir, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
