// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/constant"
	"github.com/sonata-cli/sonata/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "SONATA_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honoring SONATA_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Sonata))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Sonata))
}

// Logs resolves the directory holding dated log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the recently-played registry file.
func History() string {
	return filepath.Join(Cache(), "history.json")
}

// Temp resolves the directory for transient runtime artifacts such as IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Sonata))
}

// Socket resolves the engine IPC socket path for the given process id.
// Keying on the pid keeps concurrent instances from sharing a socket.
func Socket(pid int) string {
	return filepath.Join(Temp(), fmt.Sprintf("%s-%d.sock", constant.Sonata, pid))
}
