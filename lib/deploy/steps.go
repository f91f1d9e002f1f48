// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one independently failable stage of a composite operation.
type Step struct {
	// Name identifies the step in logs and error messages.
	Name string

	// Run executes the step.
	Run func(ctx context.Context) error
}

// RunSteps executes steps in order, logging each, and aborts on the
// first failure. No step is retried and nothing already executed is
// compensated: partial state stays visible for inspection rather than
// being silently repaired.
func RunSteps(ctx context.Context, logger *slog.Logger, steps []Step) error {
	for _, step := range steps {
		logger.Info("running step", "step", step.Name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}
	return nil
}
