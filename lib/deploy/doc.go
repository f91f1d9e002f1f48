// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package deploy implements the release lifecycle: staging, publish,
// rollback, retention, and the environment sanity check, composed into
// the step sequences the CLI runs.
//
// The lifecycle operates on the releases-directory-plus-symlink layout
// described in lib/release. A deploy stages a new timestamped release
// (seeded from the current one so uploads only carry deltas), points
// the "upcoming" symlink at it, and promotes it by renaming "upcoming"
// onto "current" in one atomic operation. A rollback re-stages the
// previous release as upcoming and promotes it the same way; it never
// creates or copies anything.
//
// Failure discipline: every fleet-wide read is consistency-checked
// (lib/fleet), every fatal error aborts the whole sequence, and no
// already-applied filesystem change is reverted automatically. The
// one exception is the stale-upcoming sweep inside [Cleanup], which
// logs failures and continues. The system prefers a visible partial
// failure over silent repair.
//
// Key exports:
//
//   - [Pipeline] -- composite deploy/rollback/cleanup/setup operations
//   - [Stage], [Publish], [PrepareRollback], [Cleanup],
//     [CheckEnvironment] -- the individual lifecycle operations
//   - [UnsafeStateError], [ErrNoCurrentRelease], [ErrNoRollbackTarget],
//     [ErrNothingStaged] -- the precondition failures
package deploy
