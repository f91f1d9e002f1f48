// Copyright 2026 The Convoy Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"path"
	"strings"
)

// Layout maps the deployment root to the paths of the release
// directory scheme. The on-disk shape is fixed:
//
//	<root>/
//	  releases/<name>/...
//	  current  -> releases/<name>   (absent until first publish)
//	  upcoming -> releases/<name>   (present only mid-deploy)
//
// Symlink targets are relative to the root so the whole tree can be
// moved or mounted elsewhere without breaking the pointers.
type Layout struct {
	// Root is the deployment root directory on every host.
	Root string
}

// ReleasesDir returns the directory holding all release directories.
func (l Layout) ReleasesDir() string {
	return path.Join(l.Root, "releases")
}

// ReleasePath returns the absolute path of a named release.
func (l Layout) ReleasePath(name string) string {
	return path.Join(l.Root, "releases", name)
}

// CurrentLink returns the path of the "current" symlink.
func (l Layout) CurrentLink() string {
	return path.Join(l.Root, "current")
}

// UpcomingLink returns the path of the "upcoming" symlink.
func (l Layout) UpcomingLink() string {
	return path.Join(l.Root, "upcoming")
}

// LinkTarget returns the root-relative symlink target for a release.
func (l Layout) LinkTarget(name string) string {
	return path.Join("releases", name)
}

// ShellQuote returns p single-quoted for interpolation into an sh
// command line, so roots containing spaces or shell metacharacters
// survive. A single quote inside p closes the quoted span, emits an
// escaped quote, and reopens it. Every layout path that ends up in a
// command string goes through this; paths passed as exec arguments
// (rsync destinations) must not.
func ShellQuote(p string) string {
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}
