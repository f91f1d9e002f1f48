// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/convoy-deploy/convoy/lib/clock"
	"github.com/convoy-deploy/convoy/lib/config"
	"github.com/convoy-deploy/convoy/lib/executor"
	"github.com/convoy-deploy/convoy/lib/git"
	"github.com/convoy-deploy/convoy/lib/release"
)

// Pipeline ties a deploy configuration to a fleet and exposes the
// composite operations the CLI invokes. Each operation is a sequence
// of named steps; the first failing step aborts the whole sequence.
type Pipeline struct {
	config    *config.Config
	runner    executor.Runner
	store     *release.Store
	workspace *git.Workspace
	clock     clock.Clock
	logger    *slog.Logger
}

// New builds a Pipeline. The runner decides the transport (ssh fleet
// or local machine); the store and workspace derive from the config.
func New(cfg *config.Config, runner executor.Runner, clk clock.Clock, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		config:    cfg,
		runner:    runner,
		store:     release.NewStore(runner, cfg.DeployTo),
		workspace: git.NewWorkspace(cfg.Workspace),
		clock:     clk,
		logger:    logger,
	}
}

// Store returns the pipeline's release store.
func (p *Pipeline) Store() *release.Store {
	return p.store
}

// Deploy runs the full deploy sequence: environment check, revision
// resolution, staging, publish, restart commands, cleanup.
func (p *Pipeline) Deploy(ctx context.Context) error {
	var revision string
	steps := []Step{
		{"check-environment", func(ctx context.Context) error {
			return CheckEnvironment(ctx, p.runner, p.store.Layout())
		}},
		{"resolve-revision", func(ctx context.Context) error {
			resolved, err := p.workspace.CleanRevision(ctx)
			if err != nil {
				return err
			}
			revision = resolved
			p.logger.Info("resolved workspace revision", "revision", revision)
			return nil
		}},
		{"stage-release", func(ctx context.Context) error {
			_, err := Stage(ctx, StageParams{
				Runner:    p.runner,
				Store:     p.store,
				Clock:     p.clock,
				Workspace: p.config.Workspace,
				Sources:   p.config.Sources,
				Revision:  revision,
				Logger:    p.logger,
			})
			return err
		}},
		{"publish", func(ctx context.Context) error {
			_, err := Publish(ctx, p.runner, p.store, p.logger)
			return err
		}},
		{"restart", p.restart},
		{"cleanup", func(ctx context.Context) error {
			return Cleanup(ctx, p.runner, p.store, p.config.KeepReleases, p.logger)
		}},
	}
	return RunSteps(ctx, p.logger, steps)
}

// Rollback runs the rollback sequence: environment check, rollback
// preparation, publish, restart commands.
func (p *Pipeline) Rollback(ctx context.Context) error {
	steps := []Step{
		{"check-environment", func(ctx context.Context) error {
			return CheckEnvironment(ctx, p.runner, p.store.Layout())
		}},
		{"rollback-prepare", func(ctx context.Context) error {
			_, err := PrepareRollback(ctx, p.runner, p.store, p.logger)
			return err
		}},
		{"publish", func(ctx context.Context) error {
			_, err := Publish(ctx, p.runner, p.store, p.logger)
			return err
		}},
		{"restart", p.restart},
	}
	return RunSteps(ctx, p.logger, steps)
}

// Cleanup runs the retention manager standalone.
func (p *Pipeline) Cleanup(ctx context.Context) error {
	return Cleanup(ctx, p.runner, p.store, p.config.KeepReleases, p.logger)
}

// Check runs the environment sanity check standalone.
func (p *Pipeline) Check(ctx context.Context) error {
	return CheckEnvironment(ctx, p.runner, p.store.Layout())
}

// Setup creates the deployment root layout on every host.
func (p *Pipeline) Setup(ctx context.Context) error {
	command := fmt.Sprintf("mkdir -p %s", release.ShellQuote(p.store.Layout().ReleasesDir()))
	if _, err := executor.RunChecked(ctx, p.runner, command); err != nil {
		return fmt.Errorf("creating deployment root: %w", err)
	}
	p.logger.Info("deployment root ready", "root", p.store.Layout().Root)
	return nil
}

// restart runs each configured restart command fleet-wide, in order.
func (p *Pipeline) restart(ctx context.Context) error {
	if len(p.config.Restart) == 0 {
		p.logger.Info("no restart commands configured")
		return nil
	}
	for _, command := range p.config.Restart {
		p.logger.Info("running restart command", "command", command)
		if _, err := executor.RunChecked(ctx, p.runner, command); err != nil {
			return err
		}
	}
	return nil
}
