// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/release"
)

// makeRoot creates a deployment root with an empty releases directory
// and returns its path with a local-fleet store over it.
func makeRoot(t *testing.T) (string, *release.Store) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "app dir")
	if err := os.MkdirAll(filepath.Join(root, "releases"), 0755); err != nil {
		t.Fatalf("create releases dir: %v", err)
	}
	return root, release.NewStore(executor.NewLocal("localhost"), root)
}

// makeRelease creates an empty release directory under root.
func makeRelease(t *testing.T, root, name string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, "releases", name), 0755); err != nil {
		t.Fatalf("create release %s: %v", name, err)
	}
}

// setLink points the named symlink (current or upcoming) at a release.
func setLink(t *testing.T, root, link, name string) {
	t.Helper()
	path := filepath.Join(root, link)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.Fatalf("remove old %s: %v", link, err)
	}
	if err := os.Symlink("releases/"+name, path); err != nil {
		t.Fatalf("link %s -> %s: %v", link, name, err)
	}
}

// discardLogger returns a logger for tests that do not assert on logs.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
