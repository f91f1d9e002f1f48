// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/convoy-deploy/convoy/lib/executor"
)

const (
	releaseA = "20260314090000-aaa000"
	releaseB = "20260314100000-bbb111"
	releaseC = "20260314110000-ccc222"
)

func TestPublish_PromotesUpcoming(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)
	makeRelease(t, root, releaseB)
	setLink(t, root, "current", releaseA)
	setLink(t, root, "upcoming", releaseB)

	published, err := Publish(context.Background(), runner, store, discardLogger())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published != releaseB {
		t.Errorf("Publish() = %q, want %q", published, releaseB)
	}

	target, err := os.Readlink(filepath.Join(root, "current"))
	if err != nil {
		t.Fatalf("readlink current: %v", err)
	}
	if target != "releases/"+releaseB {
		t.Errorf("current -> %q, want releases/%s", target, releaseB)
	}
	if _, err := os.Lstat(filepath.Join(root, "upcoming")); !os.IsNotExist(err) {
		t.Errorf("upcoming survived publish: %v", err)
	}
}

func TestPublish_FirstPublishWithoutCurrent(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)
	setLink(t, root, "upcoming", releaseA)

	published, err := Publish(context.Background(), runner, store, discardLogger())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published != releaseA {
		t.Errorf("Publish() = %q, want %q", published, releaseA)
	}
	if target, err := os.Readlink(filepath.Join(root, "current")); err != nil || target != "releases/"+releaseA {
		t.Errorf("current -> %q (%v), want releases/%s", target, err, releaseA)
	}
}

func TestPublish_NothingStaged(t *testing.T) {
	t.Parallel()

	_, store := makeRoot(t)
	runner := executor.NewLocal("localhost")

	_, err := Publish(context.Background(), runner, store, discardLogger())
	if !errors.Is(err, ErrNothingStaged) {
		t.Errorf("Publish error = %v, want ErrNothingStaged", err)
	}
}

func TestPrepareRollback_TargetsImmediatelyPrecedingRelease(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	for _, name := range []string{releaseA, releaseB, releaseC} {
		makeRelease(t, root, name)
	}
	setLink(t, root, "current", releaseC)

	target, err := PrepareRollback(context.Background(), runner, store, discardLogger())
	if err != nil {
		t.Fatalf("PrepareRollback: %v", err)
	}
	if target != releaseB {
		t.Errorf("PrepareRollback() = %q, want the immediately preceding %q", target, releaseB)
	}

	link, err := os.Readlink(filepath.Join(root, "upcoming"))
	if err != nil {
		t.Fatalf("readlink upcoming: %v", err)
	}
	if link != "releases/"+releaseB {
		t.Errorf("upcoming -> %q, want releases/%s", link, releaseB)
	}
}

func TestPrepareRollback_NoCurrentRelease(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)

	_, err := PrepareRollback(context.Background(), runner, store, discardLogger())
	if !errors.Is(err, ErrNoCurrentRelease) {
		t.Errorf("PrepareRollback error = %v, want ErrNoCurrentRelease", err)
	}
}

func TestPrepareRollback_SingleRelease(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)
	setLink(t, root, "current", releaseA)

	_, err := PrepareRollback(context.Background(), runner, store, discardLogger())
	if !errors.Is(err, ErrNoRollbackTarget) {
		t.Errorf("PrepareRollback error = %v, want ErrNoRollbackTarget", err)
	}
}

func TestPrepareRollback_CurrentIsOldest(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)
	makeRelease(t, root, releaseB)
	setLink(t, root, "current", releaseA)

	_, err := PrepareRollback(context.Background(), runner, store, discardLogger())
	if !errors.Is(err, ErrNoRollbackTarget) {
		t.Errorf("PrepareRollback error = %v, want ErrNoRollbackTarget", err)
	}
}

func TestPrepareRollback_CurrentNotInCatalog(t *testing.T) {
	t.Parallel()

	root, store := makeRoot(t)
	runner := executor.NewLocal("localhost")
	makeRelease(t, root, releaseA)
	makeRelease(t, root, releaseB)
	// current points at a release that is gone from the catalog.
	if err := os.Symlink("releases/20260301000000-gone99", filepath.Join(root, "current")); err != nil {
		t.Fatalf("create dangling current: %v", err)
	}

	_, err := PrepareRollback(context.Background(), runner, store, discardLogger())
	if !errors.Is(err, ErrNoRollbackTarget) {
		t.Errorf("PrepareRollback error = %v, want ErrNoRollbackTarget", err)
	}
}
