// Package buildinfo reports the version the floatplace binary was built
// from.
//
// The variables are stamped with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/floatplace/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/floatplace/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/floatplace/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/floatplace
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the build information as reported by the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
