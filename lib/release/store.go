// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package release names releases and reads the fleet's release
// catalog. A release is one immutable, timestamp-named directory under
// <root>/releases; the "current" and "upcoming" symlinks act as
// swappable pointers into that catalog.
//
// Every read goes through the fleet consistency checker: the [Store]
// never answers from a single host, and any disagreement among hosts
// surfaces as a [fleet.DivergenceError] before the caller can act on
// the value. The lifecycle state (no release, staged, published) is
// inferred here, in one place, rather than from scattered symlink
// existence checks.
package release

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/fleet"
)

// State is the fleet-wide release lifecycle state.
type State int

const (
	// StateNoRelease means nothing has ever been published and no
	// staging is in flight.
	StateNoRelease State = iota

	// StateStaged means an "upcoming" release awaits promotion. The
	// previous "current" may or may not exist.
	StateStaged

	// StatePublished means "current" points at a release and no
	// staging is in flight.
	StatePublished
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateNoRelease:
		return "no-release"
	case StateStaged:
		return "staged"
	case StatePublished:
		return "published"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store reads the release catalog from every host of a fleet.
type Store struct {
	runner executor.Runner
	layout Layout
}

// NewStore returns a Store over the given fleet and deployment root.
func NewStore(runner executor.Runner, root string) *Store {
	return &Store{runner: runner, layout: Layout{Root: root}}
}

// Layout returns the store's path layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// List returns all release names, fleet-consistency-checked and sorted
// ascending. Lexicographic order already matches creation order; the
// sort is a correctness guard, not a reordering. Entries that do not
// look like release names are ignored.
func (s *Store) List(ctx context.Context) ([]string, error) {
	command := fmt.Sprintf("ls -1 %s", ShellQuote(s.layout.ReleasesDir()))
	output, err := fleet.Agree(ctx, s.runner, command)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || !ValidName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Current resolves the "current" symlink on every host and returns the
// published release name, or "" when no release is published. Absence
// must be unanimous: a fleet where some hosts have a current release
// and others do not is divergent.
func (s *Store) Current(ctx context.Context) (string, error) {
	return s.readLink(ctx, s.layout.CurrentLink())
}

// Upcoming resolves the "upcoming" symlink on every host and returns
// the staged release name, or "" when no staging is in flight.
func (s *Store) Upcoming(ctx context.Context) (string, error) {
	return s.readLink(ctx, s.layout.UpcomingLink())
}

// ReleaseState derives the fleet-wide lifecycle state from the two
// pointer symlinks. An upcoming link wins over current: its presence
// means a publish is in flight (or was abandoned).
func (s *Store) ReleaseState(ctx context.Context) (State, error) {
	upcoming, err := s.Upcoming(ctx)
	if err != nil {
		return StateNoRelease, err
	}
	if upcoming != "" {
		return StateStaged, nil
	}
	current, err := s.Current(ctx)
	if err != nil {
		return StateNoRelease, err
	}
	if current != "" {
		return StatePublished, nil
	}
	return StateNoRelease, nil
}

// readLink reads a symlink target fleet-wide and maps it to a release
// name. The "|| true" keeps readlink's exit status zero when the link
// is absent, so absence is comparable across hosts instead of failing
// the command.
func (s *Store) readLink(ctx context.Context, linkPath string) (string, error) {
	command := fmt.Sprintf("readlink %s || true", ShellQuote(linkPath))
	target, err := fleet.Agree(ctx, s.runner, command)
	if err != nil {
		return "", err
	}
	if target == "" {
		return "", nil
	}
	return path.Base(target), nil
}
