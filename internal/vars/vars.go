// Package vars holds build information set with -ldflags.
package vars

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, overridden at link time:
//
//	-X github.com/woozymasta/fleet-scenario-tool/internal/vars.Version=v1.2.3
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	URL       = "https://github.com/woozymasta/fleet-scenario-tool"
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	URL       string `json:"url"`
}

// Get returns build information, falling back to module build info for
// binaries built with go install.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		URL:       URL,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		}
	}

	return info
}

// Print writes build information to stdout.
func Print() {
	info := Get()
	fmt.Printf("version:    %s\n", info.Version)
	fmt.Printf("commit:     %s\n", info.Commit)
	fmt.Printf("built:      %s\n", info.BuildTime)
	fmt.Printf("go version: %s\n", info.GoVersion)
	fmt.Printf("platform:   %s\n", info.Platform)
	fmt.Printf("url:        %s\n", info.URL)
}
