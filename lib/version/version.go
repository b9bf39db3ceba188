// Package version holds the version of the krokify binary. It is
// overridden at build time with -ldflags on releases.
package version

var Version = "v0.1.2"
