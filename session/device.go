package session

import (
	"github.com/qkd/kdplayer/metadata"
	"github.com/samber/mo"
)

// Device is the external player the machine drives. Positions and
// durations are in milliseconds.
//
// Implementations must deliver Listener callbacks from their own
// goroutines and never synchronously from inside a Device method, since
// the machine holds its lock while calling the device.
type Device interface {
	Load(sources []string) error
	Prepare() error
	SetPlayWhenReady(play bool) error
	Stop() error
	SeekTo(ms int64) error
	Position() (int64, error)
	// Duration reports ok=false for live streams.
	Duration() (ms int64, ok bool, err error)
}

// Listener receives the device's transition points.
type Listener interface {
	OnIdle()
	OnBuffering()
	OnReady(playWhenReady bool)
	OnEnded()
	OnSeekComplete()
	OnMetadata(raw string, art mo.Option[metadata.Artwork])
}

// Observable is a Device that reports to a Listener.
type Observable interface {
	Device
	SetListener(l Listener)
}
