// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initWorkspace creates a git working tree with one commit and returns
// its path.
func initWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		command := exec.Command("git", append([]string{"-C", dir}, args...)...)
		command.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@test.local",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@test.local",
		)
		if output, err := command.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, output)
		}
	}

	run("init")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("test\n"), 0644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	run("add", "README")
	run("commit", "-m", "initial")

	return dir
}

func TestWorkspace_Revision(t *testing.T) {
	t.Parallel()

	workspace := NewWorkspace(initWorkspace(t))

	revision, err := workspace.Revision(context.Background())
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if len(revision) < 7 {
		t.Errorf("Revision() = %q, want a short SHA of at least 7 characters", revision)
	}
}

func TestWorkspace_Dirty(t *testing.T) {
	t.Parallel()

	dir := initWorkspace(t)
	workspace := NewWorkspace(dir)

	dirty, err := workspace.Dirty(context.Background())
	if err != nil {
		t.Fatalf("Dirty: %v", err)
	}
	if dirty {
		t.Error("Dirty() = true for a freshly committed tree, want false")
	}

	if err := os.WriteFile(filepath.Join(dir, "scratch"), []byte("wip\n"), 0644); err != nil {
		t.Fatalf("write scratch: %v", err)
	}

	dirty, err = workspace.Dirty(context.Background())
	if err != nil {
		t.Fatalf("Dirty after write: %v", err)
	}
	if !dirty {
		t.Error("Dirty() = false with an untracked file present, want true")
	}
}

func TestWorkspace_CleanRevision_RefusesDirtyTree(t *testing.T) {
	t.Parallel()

	dir := initWorkspace(t)
	workspace := NewWorkspace(dir)

	if err := os.WriteFile(filepath.Join(dir, "scratch"), []byte("wip\n"), 0644); err != nil {
		t.Fatalf("write scratch: %v", err)
	}

	_, err := workspace.CleanRevision(context.Background())
	if !errors.Is(err, ErrDirtyWorkspace) {
		t.Errorf("CleanRevision error = %v, want ErrDirtyWorkspace", err)
	}
}

func TestWorkspace_CleanRevision(t *testing.T) {
	t.Parallel()

	workspace := NewWorkspace(initWorkspace(t))

	revision, err := workspace.CleanRevision(context.Background())
	if err != nil {
		t.Fatalf("CleanRevision: %v", err)
	}
	if revision == "" {
		t.Error("CleanRevision() returned an empty revision")
	}
}

func TestWorkspace_Revision_NonexistentDirectory(t *testing.T) {
	t.Parallel()

	workspace := NewWorkspace("/tmp/nonexistent-convoy-workspace-abcxyz")

	_, err := workspace.Revision(context.Background())
	if err == nil {
		t.Fatal("expected error for nonexistent directory")
	}
}
