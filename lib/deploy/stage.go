// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sync"

	"github.com/convoy-deploy/convoy/lib/clock"
	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/release"
)

// StageParams carries everything the staging engine needs to
// materialize one new release.
type StageParams struct {
	// Runner executes on the fleet.
	Runner executor.Runner

	// Store reads the release catalog of the same fleet.
	Store *release.Store

	// Clock provides the creation time embedded in the release name.
	Clock clock.Clock

	// Workspace is the local source tree.
	Workspace string

	// Sources are workspace subdirectories uploaded into the release,
	// by relative path.
	Sources []string

	// Revision is the workspace revision, already verified clean.
	Revision string

	// Logger receives progress events.
	Logger *slog.Logger
}

// Stage materializes a new release and points the upcoming symlink at
// it, returning the new release name. The release directory is seeded
// from the current release when one exists, so the subsequent uploads
// only transfer deltas; uploads for independent source directories run
// concurrently.
//
// Any failure is fatal and leaves the partial release directory behind
// without an upcoming link; the next cleanup or a human removes it.
// Nothing is rolled back automatically.
func Stage(ctx context.Context, params StageParams) (string, error) {
	layout := params.Store.Layout()
	name := release.Name(params.Clock.Now(), params.Revision)
	releasePath := layout.ReleasePath(name)

	// Create the release directory, plus parents for any nested
	// source so rsync has somewhere to land.
	directories := []string{releasePath}
	for _, source := range params.Sources {
		if parent := path.Dir(source); parent != "." {
			directories = append(directories, path.Join(releasePath, parent))
		}
	}
	command := "mkdir -p"
	for _, directory := range directories {
		command += " " + release.ShellQuote(directory)
	}
	if _, err := executor.RunChecked(ctx, params.Runner, command); err != nil {
		return "", fmt.Errorf("creating release directory: %w", err)
	}

	// Seed from the current release so unchanged artifacts survive
	// without re-upload. "/." copies directory contents including
	// hidden entries.
	current, err := params.Store.Current(ctx)
	if err != nil {
		return "", err
	}
	if current != "" {
		seed := fmt.Sprintf("cp -a %s/. %s/",
			release.ShellQuote(layout.ReleasePath(current)), release.ShellQuote(releasePath))
		if _, err := executor.RunChecked(ctx, params.Runner, seed); err != nil {
			return "", fmt.Errorf("seeding from release %s: %w", current, err)
		}
		params.Logger.Info("seeded release", "release", name, "from", current)
	} else {
		params.Logger.Info("no previous release to seed from", "release", name)
	}

	// Upload the configured sources. They target disjoint relative
	// paths, so the copies run concurrently.
	uploadErrs := make([]error, len(params.Sources))
	var pendingUploads sync.WaitGroup
	for i, source := range params.Sources {
		pendingUploads.Add(1)
		go func() {
			defer pendingUploads.Done()
			uploadErrs[i] = params.Runner.CopyTree(ctx,
				filepath.Join(params.Workspace, source),
				path.Join(releasePath, source),
				executor.CopyOptions{DeleteExtraneous: true})
		}()
	}
	pendingUploads.Wait()
	for i, err := range uploadErrs {
		if err != nil {
			return "", fmt.Errorf("uploading %s: %w", params.Sources[i], err)
		}
	}

	// Point upcoming at the new release. ln -s fails if a link
	// already exists; the environment check ruled that out before
	// anything was mutated.
	link := fmt.Sprintf("ln -s %s %s",
		release.ShellQuote(layout.LinkTarget(name)), release.ShellQuote(layout.UpcomingLink()))
	if _, err := executor.RunChecked(ctx, params.Runner, link); err != nil {
		return "", fmt.Errorf("staging upcoming symlink: %w", err)
	}

	params.Logger.Info("staged release", "release", name, "revision", params.Revision)
	return name, nil
}
