// Package engine drives an external mpv process over its JSON IPC socket.
package engine

import (
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/config"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/key"
	"github.com/sonata-cli/sonata/where"
	"github.com/spf13/viper"
)

// Options configures the engine process and the IPC channel.
type Options struct {
	Binary     string
	SocketPath string

	// Volume is the initial engine volume, 0..100.
	Volume int

	// AudioBuffer is the audio output buffer in seconds.
	AudioBuffer    int
	ReadaheadSecs  int
	ReadaheadBytes string
	Gapless        bool

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	SocketWaitRetries int
	SocketWaitDelay   time.Duration
	ShutdownTimeout   time.Duration

	// LoadGrace bounds how long an idle report is ignored after loadfile.
	LoadGrace time.Duration
}

// DefaultOptions returns built-in defaults with a per-process socket path.
func DefaultOptions() Options {
	return Options{
		Binary:            constant.Engine,
		SocketPath:        where.Socket(os.Getpid()),
		Volume:            70,
		AudioBuffer:       2,
		ReadaheadSecs:     20,
		ReadaheadBytes:    "64MiB",
		Gapless:           true,
		ConnectTimeout:    2 * time.Second,
		ReadTimeout:       2 * time.Second,
		SocketWaitRetries: 50,
		SocketWaitDelay:   100 * time.Millisecond,
		ShutdownTimeout:   3 * time.Second,
		LoadGrace:         3 * time.Second,
	}
}

// OptionsFromConfig reads Options from the active viper configuration.
func OptionsFromConfig() Options {
	return Options{
		Binary:            viper.GetString(key.EngineBinary),
		SocketPath:        where.Socket(os.Getpid()),
		Volume:            lo.Clamp(viper.GetInt(key.EngineVolume), 0, 100),
		AudioBuffer:       viper.GetInt(key.EngineAudioBuffer),
		ReadaheadSecs:     viper.GetInt(key.EngineReadaheadSecs),
		ReadaheadBytes:    viper.GetString(key.EngineReadaheadBytes),
		Gapless:           viper.GetBool(key.EngineGapless),
		ConnectTimeout:    config.Millis(key.IPCConnectTimeout),
		ReadTimeout:       config.Millis(key.IPCReadTimeout),
		SocketWaitRetries: viper.GetInt(key.EngineSocketWaitRetries),
		SocketWaitDelay:   config.Millis(key.EngineSocketWaitDelay),
		ShutdownTimeout:   config.Millis(key.EngineShutdownTimeout),
		LoadGrace:         config.Millis(key.EngineLoadGrace),
	}
}
