// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/release"
)

// Publish promotes the upcoming release to current and returns its
// name. The swap is a single rename of the upcoming symlink onto
// current, so current is never observably absent mid-transition and
// the upcoming link disappears in the same operation. Fresh deploys
// and rollbacks publish identically.
func Publish(ctx context.Context, runner executor.Runner, store *release.Store, logger *slog.Logger) (string, error) {
	upcoming, err := store.Upcoming(ctx)
	if err != nil {
		return "", err
	}
	if upcoming == "" {
		return "", ErrNothingStaged
	}

	layout := store.Layout()
	swap := fmt.Sprintf("mv -fT %s %s",
		release.ShellQuote(layout.UpcomingLink()), release.ShellQuote(layout.CurrentLink()))
	if _, err := executor.RunChecked(ctx, runner, swap); err != nil {
		return "", fmt.Errorf("promoting %s to current: %w", upcoming, err)
	}

	logger.Info("published release", "release", upcoming)
	return upcoming, nil
}

// PrepareRollback stages the release immediately preceding the current
// one as upcoming, without creating a directory or copying content,
// and returns its name. The subsequent [Publish] completes the
// rollback.
//
// Fails with [ErrNoCurrentRelease] when nothing is published and
// [ErrNoRollbackTarget] when no older release exists to return to.
func PrepareRollback(ctx context.Context, runner executor.Runner, store *release.Store, logger *slog.Logger) (string, error) {
	current, err := store.Current(ctx)
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", ErrNoCurrentRelease
	}

	names, err := store.List(ctx)
	if err != nil {
		return "", err
	}
	if len(names) < 2 {
		return "", ErrNoRollbackTarget
	}

	// Rollback always targets the release immediately preceding
	// current in chronological order, never an arbitrary older one.
	currentIndex := -1
	for i, name := range names {
		if name == current {
			currentIndex = i
			break
		}
	}
	if currentIndex <= 0 {
		return "", ErrNoRollbackTarget
	}
	target := names[currentIndex-1]

	layout := store.Layout()
	link := fmt.Sprintf("ln -s %s %s",
		release.ShellQuote(layout.LinkTarget(target)), release.ShellQuote(layout.UpcomingLink()))
	if _, err := executor.RunChecked(ctx, runner, link); err != nil {
		return "", fmt.Errorf("staging rollback to %s: %w", target, err)
	}

	logger.Info("staged rollback", "from", current, "to", target)
	return target, nil
}
