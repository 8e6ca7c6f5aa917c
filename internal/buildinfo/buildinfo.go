// Package buildinfo carries the values stamped in with -ldflags at release time.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// ModuleVersion falls back to the version recorded by `go install` when no
// release version was stamped in.
func ModuleVersion() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

func String() string {
	return fmt.Sprintf("wallclock %s (commit=%s, date=%s, %s)", ModuleVersion(), Commit, Date, runtime.Version())
}
