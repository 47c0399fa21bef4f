// Package buildinfo holds the version stamped into flexdock binaries.
//
// The variables are overwritten at link time:
//
//	go build -ldflags "-X github.com/matzehuels/flexdock/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/flexdock/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/flexdock/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the abbreviated git revision.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// String returns the build information as three lines.
func String() string {
	return fmt.Sprintf("flexdock %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// UserAgent is sent by the HTTP server in the Server header.
func UserAgent() string {
	return "flexdock/" + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
