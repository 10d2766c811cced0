// Package version exposes the build version stamped in at link time.
package version

// Version is set via -ldflags at build time. The default marks a
// from-source build.
var Version = "dev" //nolint:gochecknoglobals // Set by the linker.

// GetVersion returns the version string for this binary.
func GetVersion() string {
	return Version
}
