// Package version holds the build version of tally.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X github.com/example/tally/internal/version.Version=...".
var Version = "0.3.0"

// String returns the version string for display.
func String() string {
	return Version
}
