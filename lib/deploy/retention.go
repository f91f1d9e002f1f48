// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/release"
)

// Cleanup enforces the retention policy: at most keepReleases
// historical releases stay on disk in addition to the currently
// published one. It first sweeps any stale upcoming release left by an
// abandoned deploy; that sweep is best-effort, because a broken
// staging attempt must not block pruning.
//
// The prune set is the oldest releases beyond the retained quota.
// Regardless of chronological position, neither the sweep nor the
// prune may ever delete the currently published release: current must
// always resolve to a directory that exists.
func Cleanup(ctx context.Context, runner executor.Runner, store *release.Store, keepReleases int, logger *slog.Logger) error {
	layout := store.Layout()

	current, err := store.Current(ctx)
	if err != nil {
		return err
	}

	// Best-effort sweep of an abandoned staging attempt.
	upcoming, err := store.Upcoming(ctx)
	switch {
	case err != nil:
		logger.Warn("skipping stale upcoming sweep", "error", err)
	case upcoming == "":
	case upcoming == current:
		// An upcoming link pointing at the published release must not
		// take the release directory down with it. Drop the link only.
		unlink := fmt.Sprintf("rm -f %s", release.ShellQuote(layout.UpcomingLink()))
		if _, err := executor.RunChecked(ctx, runner, unlink); err != nil {
			logger.Warn("could not remove upcoming symlink", "release", upcoming, "error", err)
		} else {
			logger.Warn("upcoming pointed at the published release; removed the link only", "release", upcoming)
		}
	default:
		sweep := fmt.Sprintf("rm -rf %s && rm -f %s",
			release.ShellQuote(layout.ReleasePath(upcoming)), release.ShellQuote(layout.UpcomingLink()))
		if _, err := executor.RunChecked(ctx, runner, sweep); err != nil {
			logger.Warn("could not sweep stale upcoming release", "release", upcoming, "error", err)
		} else {
			logger.Info("swept stale upcoming release", "release", upcoming)
		}
	}

	names, err := store.List(ctx)
	if err != nil {
		return err
	}

	// The +1 reserves the published release: it is always kept in
	// addition to keepReleases historical ones.
	excess := len(names) - keepReleases - 1
	if excess <= 0 {
		logger.Info("nothing to prune", "releases", len(names), "keep", keepReleases)
		return nil
	}
	pruneSet := names[:excess]

	for _, name := range pruneSet {
		if name == current {
			return fmt.Errorf("retention would delete the published release %s; refusing to prune", current)
		}
	}

	paths := make([]string, len(pruneSet))
	for i, name := range pruneSet {
		paths[i] = release.ShellQuote(layout.ReleasePath(name))
	}
	remove := "rm -rf " + strings.Join(paths, " ")
	if _, err := executor.RunChecked(ctx, runner, remove); err != nil {
		return fmt.Errorf("pruning %d releases: %w", len(pruneSet), err)
	}

	logger.Info("pruned releases", "count", len(pruneSet), "oldest", pruneSet[0], "newest", pruneSet[len(pruneSet)-1])
	return nil
}
