// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// Sonata is the canonical application identifier used for filesystem paths and CLI branding.
	Sonata = "sonata"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Engine is the default playback engine executable.
	Engine = "mpv"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
