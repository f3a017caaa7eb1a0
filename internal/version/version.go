package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/rig/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/rig/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/rig/internal/version.Date={{.Date}}
)

// String returns the one-line version banner printed by `rig version`
func String() string {
	return fmt.Sprintf("rig %s (commit %s, built %s)", Version, Commit, Date)
}
