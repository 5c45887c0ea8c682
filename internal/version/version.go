// Package version holds the shiplog version information.
// This is a separate package to avoid import cycles - it has no dependencies
// and can be safely imported from any package.
package version

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns the full version line shown by --version.
func String() string {
	return Version + " (commit " + Commit + ", built " + BuildDate + ")"
}
