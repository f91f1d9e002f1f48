// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/convoy-deploy/convoy/cmd/convoy/cli"
	"github.com/convoy-deploy/convoy/lib/clock"
	"github.com/convoy-deploy/convoy/lib/config"
	libdeploy "github.com/convoy-deploy/convoy/lib/deploy"
	"github.com/convoy-deploy/convoy/lib/executor"
)

func testCheckPipeline(t *testing.T, root string) *libdeploy.Pipeline {
	t.Helper()
	cfg := &config.Config{
		DeployTo:     root,
		Workspace:    t.TempDir(),
		Sources:      []string{"public"},
		KeepReleases: 3,
	}
	logger := slog.New(slog.DiscardHandler)
	return libdeploy.New(cfg, executor.NewLocal("localhost"), clock.Real(), logger)
}

func TestRunCheck_CleanFleetReportsState(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "app")
	name := "20260314090000-abc123"
	if err := os.MkdirAll(filepath.Join(root, "releases", name), 0755); err != nil {
		t.Fatalf("create release: %v", err)
	}
	if err := os.Symlink("releases/"+name, filepath.Join(root, "current")); err != nil {
		t.Fatalf("create current: %v", err)
	}

	var out, errOut bytes.Buffer
	if err := runCheck(context.Background(), testCheckPipeline(t, root), &out, &errOut); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if !strings.Contains(out.String(), "fleet is clean (published)") {
		t.Errorf("output = %q, want the clean verdict with the lifecycle state", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected findings output: %q", errOut.String())
	}
}

func TestRunCheck_FindingsExitNonZero(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "app")
	if err := os.MkdirAll(filepath.Join(root, "releases"), 0755); err != nil {
		t.Fatalf("create root: %v", err)
	}
	if err := os.Symlink("releases/gone", filepath.Join(root, "upcoming")); err != nil {
		t.Fatalf("create upcoming: %v", err)
	}

	var out, errOut bytes.Buffer
	err := runCheck(context.Background(), testCheckPipeline(t, root), &out, &errOut)

	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("runCheck error = %v, want *cli.ExitError with code 1", err)
	}
	if !strings.Contains(errOut.String(), "localhost") || !strings.Contains(errOut.String(), "upcoming") {
		t.Errorf("findings output = %q, want host-qualified upcoming finding", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("unexpected clean verdict: %q", out.String())
	}
}
