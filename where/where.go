// Package where resolves the per-platform directories kdplayer reads from and writes to.
package where

import (
	"os"
	"path/filepath"

	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "KDPLAYER_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honouring KDPLAYER_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.KDPlayer))
}

// Cache resolves the cache directory, falling back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.KDPlayer))
}

// Logs resolves the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the recent-sessions file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Artwork resolves the directory `kdplayer artwork` writes snapshots to by default.
func Artwork() string {
	return ensureDir(filepath.Join(Cache(), "artwork"))
}

// Temp resolves a scratch directory for IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.KDPlayer))
}
