// Package version provides version information for the runner gateway.
// The Version variable is set at build time via ldflags.
package version

// Version is the current version of the runner gateway.
// Set at build time via: -ldflags "-X github.com/movaengine/runner/internal/version.Version=v1.0.0"
// Defaults to "dev" for development builds.
var Version = "dev"
