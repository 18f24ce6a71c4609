// Package buildinfo carries version metadata stamped at release time.
package buildinfo

// Set via -ldflags by the release build; empty for dev builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
