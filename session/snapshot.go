package session

import (
	"github.com/qkd/kdplayer/metadata"
	"github.com/samber/mo"
)

// Snapshot is a copy of the active session.
type Snapshot struct {
	ID            uint64
	Title         string
	Sources       []string
	State         State
	Duration      mo.Option[int64]
	DurationKnown bool
	Position      int64
	SeekInFlight  bool
	PlayWhenReady bool
	Metadata      mo.Option[metadata.Normalized]
}

// Active reports whether a session has been loaded.
func (s Snapshot) Active() bool {
	return s.ID != 0
}
