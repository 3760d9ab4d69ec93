// Package player drives external playback engines as session devices.
// The only backend is mpv, controlled over its JSON-IPC socket.
package player

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/session"
	"github.com/spf13/viper"
)

// Player is a session device backed by an external process.
type Player interface {
	session.Observable

	// Close terminates the engine and releases its resources.
	Close() error

	// Wait returns a channel that is closed when the engine exits.
	Wait() <-chan struct{}
}

const BackendMPV = "mpv"

// Backends lists the accepted values of player.backend.
var Backends = []string{BackendMPV}

// New returns the backend named by player.backend. The engine process is
// started lazily by the first Load.
func New() (Player, error) {
	switch backend := viper.GetString(key.PlayerBackend); backend {
	case BackendMPV, "":
		if runtime.GOOS == constant.Windows {
			return nil, errors.New("mpv backend needs unix domain sockets, which are not supported on windows")
		}

		path := viper.GetString(key.PlayerMpvPath)
		if path == "" {
			path = "mpv"
		}
		return NewMPV(path), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q, available: %v", backend, Backends)
	}
}
