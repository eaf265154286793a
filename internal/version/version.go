// Package version carries build-time identification, stamped via
// -ldflags by the release build.
package version

var (
	// Version is the semantic version of this build.
	Version = "0.1.0"

	// Commit is the git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)
