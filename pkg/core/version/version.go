// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     version
// Description: Build and language version information
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"

	"github.com/msto63/forsure/foundation/forsure"
)

// Set at build time with -ldflags "-X github.com/msto63/forsure/pkg/core/version.Version=..."
var (
	Version   = "0.2.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Language  string `json:"language" yaml:"language"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the version information of this build
func Get() Info {
	return Info{
		Version:   Version,
		Language:  forsure.Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary such as "forsure v0.2.0 (development)"
func (i Info) String() string {
	return fmt.Sprintf("forsure v%s (%s)", i.Version, i.GitCommit)
}
