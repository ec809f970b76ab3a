// Package buildinfo exposes version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/dagviewer/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/dagviewer/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information as a multi-line block.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// UserAgent identifies the service in health output.
func UserAgent() string {
	return "dagviewer/" + Version
}
