// Package version holds build information for insomnia-documenter.
package version

// Build information set via ldflags, e.g.
//
//	go build -ldflags "-X github.com/tessro/insomnia-documenter/internal/version.Version=v1.2.0"
var (
	// Version is the semantic version.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)
