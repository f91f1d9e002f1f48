// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for workspace
// inspection. Convoy names every release after the workspace revision
// it was staged from, and refuses to stage from a workspace with
// uncommitted changes. All commands target a specific directory via
// the -C flag, which is automatically injected by all Workspace
// methods.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrDirtyWorkspace reports that the workspace has uncommitted changes.
// Staging from a dirty tree would produce a release that no commit
// describes, so the deploy refuses to proceed.
var ErrDirtyWorkspace = errors.New("workspace has uncommitted changes")

// Workspace represents a git working tree at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory — callers must always specify which workspace they
// mean.
type Workspace struct {
	dir string
}

// NewWorkspace returns a Workspace targeting the given directory.
func NewWorkspace(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// run executes a git command targeting this workspace and returns
// stdout. Stderr is captured separately and included in error messages
// on failure.
func (w *Workspace) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", w.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), w.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Revision returns the short SHA of HEAD.
func (w *Workspace) Revision(ctx context.Context) (string, error) {
	output, err := w.run(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Dirty reports whether the workspace has uncommitted changes,
// including untracked files.
func (w *Workspace) Dirty(ctx context.Context) (bool, error) {
	output, err := w.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// CleanRevision returns the short SHA of HEAD after verifying the
// workspace has no uncommitted changes. Returns [ErrDirtyWorkspace]
// (wrapped with the workspace directory) when it does.
func (w *Workspace) CleanRevision(ctx context.Context) (string, error) {
	dirty, err := w.Dirty(ctx)
	if err != nil {
		return "", err
	}
	if dirty {
		return "", fmt.Errorf("%s: %w", w.dir, ErrDirtyWorkspace)
	}
	return w.Revision(ctx)
}
