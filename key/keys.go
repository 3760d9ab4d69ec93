// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Player Backend - these keys select and tune the external playback device.
const (
	PlayerBackend            = "player.backend"
	PlayerMpvPath            = "player.mpv_path"
	PlayerPositionIntervalMs = "player.position_interval_ms"
)

// Network - these keys bound manifest and artwork retrieval.
const (
	NetworkFetchTimeoutSeconds = "network.fetch_timeout_seconds"
	NetworkMaxBodyBytes        = "network.max_body_bytes"
	NetworkUserAgent           = "network.user_agent"
)

// Artwork and Events.
const (
	ArtworkJPEGQuality = "artwork.jpeg_quality"
	ArtworkViewer      = "artwork.viewer"
	EventsBuffer       = "events.buffer"
)

// History Tracking - these keys configure the persistence of recently played sources.
const (
	HistorySave  = "history.save"
	HistoryLimit = "history.limit"
)

// CLI Execution Environment.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)
