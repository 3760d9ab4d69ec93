// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// KDPlayer is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	KDPlayer = "kdplayer"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent sent when fetching manifests and artwork.
	UserAgent = "kdplayer/" + Version + " (+https://github.com/qkd/kdplayer)"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
