// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall-clock reads for testability. Release
// names embed a UTC timestamp, so any code that names a release
// accepts a Clock instead of calling time.Now directly: production
// code injects [Real], tests inject [Fake] with a pinned time.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
