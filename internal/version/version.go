// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// Dev is reported when no build information was injected.
var Dev = Info{Version: "dev", GitCommit: "unknown", BuildTime: "unknown"}

// OrDev returns i, or Dev when i carries no version.
func (i Info) OrDev() Info {
	if i.Version == "" {
		return Dev
	}
	return i
}

// String formats i for the -version flag.
func (i Info) String() string {
	i = i.OrDev()
	return fmt.Sprintf("tournexus %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
