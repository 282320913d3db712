// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Product is the name reported in version strings and request headers.
const Product = "wrapped-runner"

// These variables are set at build time via ldflags.
var (
	// Version is the semantic version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String returns a multi-line report, one field per line.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Product, i.Version)
	fmt.Fprintf(&b, "  commit:   %s\n", i.Commit)
	fmt.Fprintf(&b, "  built:    %s\n", i.Date)
	fmt.Fprintf(&b, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&b, "  platform: %s/%s", i.OS, i.Arch)
	return b.String()
}

// Short returns a short version string.
func (i Info) Short() string {
	return i.Version
}

// UserAgent identifies this build to the run server.
func (i Info) UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", Product, i.Version, i.OS, i.Arch)
}
