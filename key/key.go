// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Engine Process - these keys control how the playback engine is spawned and supervised.
const (
	EngineBinary            = "engine.binary"
	EngineVolume            = "engine.volume"
	EngineAudioBuffer       = "engine.audio_buffer"
	EngineReadaheadSecs     = "engine.readahead_secs"
	EngineReadaheadBytes    = "engine.readahead_bytes"
	EngineGapless           = "engine.gapless"
	EngineSocketWaitRetries = "engine.socket_wait_retries"
	EngineSocketWaitDelay   = "engine.socket_wait_delay"
	EngineShutdownTimeout   = "engine.shutdown_timeout"
	EngineLoadGrace         = "engine.load_grace"
)

// IPC Channel - these keys bound every socket operation against the engine.
const (
	IPCConnectTimeout = "ipc.connect_timeout"
	IPCReadTimeout    = "ipc.read_timeout"
)

// Playback Interface - these keys tune the polling loop and transport step sizes.
const (
	PlayerTick       = "player.tick"
	PlayerSeekStep   = "player.seek_step"
	PlayerVolumeStep = "player.volume_step"
)

// History Tracking - these keys configure the record of recently played tracks.
const (
	HistorySave = "history.save"
)

// Desktop Integration - these keys manage the MPRIS media-key bridge.
const (
	MPRISEnable = "mpris.enable"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
