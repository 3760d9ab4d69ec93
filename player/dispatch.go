package player

import (
	"github.com/qkd/kdplayer/metadata"
	"github.com/qkd/kdplayer/session"
	"github.com/samber/mo"
)

type callbackKind int

const (
	onIdle callbackKind = iota
	onBuffering
	onReady
	onEnded
	onSeekComplete
	onMetadata
)

// callback is one Listener invocation produced by an mpv event.
type callback struct {
	kind callbackKind
	play bool
	raw  string
	art  mo.Option[metadata.Artwork]
}

func (c callback) deliver(l session.Listener) {
	switch c.kind {
	case onIdle:
		l.OnIdle()
	case onBuffering:
		l.OnBuffering()
	case onReady:
		l.OnReady(c.play)
	case onEnded:
		l.OnEnded()
	case onSeekComplete:
		l.OnSeekComplete()
	case onMetadata:
		l.OnMetadata(c.raw, c.art)
	}
}

// tracker mirrors the mpv properties needed to turn raw events into
// transition points. It is not safe for concurrent use.
type tracker struct {
	loaded    bool
	started   bool
	seeking   bool
	paused    bool
	buffering bool
	eof       bool
	idle      mo.Option[bool]
	position  int64
	duration  mo.Option[int64]
	failures  int
}

func newTracker() *tracker {
	return &tracker{
		paused:   true,
		idle:     mo.None[bool](),
		duration: mo.None[int64](),
	}
}

func (t *tracker) ready() []callback {
	if !t.started || t.buffering || t.eof {
		return nil
	}
	return []callback{{kind: onReady, play: !t.paused}}
}

// dispatch folds msg into the tracker and returns the callbacks to deliver.
func (t *tracker) dispatch(msg ipcMessage) []callback {
	switch msg.Event {
	case "file-loaded":
		t.loaded, t.started, t.eof = true, false, false
		t.failures = 0
		t.position = 0
		t.duration = mo.None[int64]()
		return nil

	case "playback-restart":
		if !t.started {
			t.started = true
			cbs := t.ready()
			// a seek sent before the first restart is folded into it
			if t.seeking {
				t.seeking = false
				cbs = append(cbs, callback{kind: onSeekComplete})
			}
			return cbs
		}
		t.seeking = false
		return []callback{{kind: onSeekComplete}}

	case "end-file":
		t.loaded, t.started, t.seeking = false, false, false
		if msg.Reason == "error" {
			t.failures++
		}
		return nil

	case "property-change":
		return t.property(msg)
	}

	return nil
}

func (t *tracker) property(msg ipcMessage) []callback {
	switch msg.Name {
	case "pause":
		if b, ok := decodeBool(msg.Data); ok && b != t.paused {
			t.paused = b
			return t.ready()
		}

	case "paused-for-cache":
		b, ok := decodeBool(msg.Data)
		if !ok || b == t.buffering {
			return nil
		}
		t.buffering = b
		if b {
			return []callback{{kind: onBuffering}}
		}
		return t.ready()

	case "eof-reached":
		b, _ := decodeBool(msg.Data)
		wasEOF := t.eof
		t.eof = b
		if b && !wasEOF && t.loaded {
			return []callback{{kind: onEnded}}
		}
		if !b && wasEOF {
			return t.ready()
		}

	case "idle-active":
		b, ok := decodeBool(msg.Data)
		if !ok {
			return nil
		}
		prev, known := t.idle.Get()
		t.idle = mo.Some(b)
		// the first report is the initial value, not a transition
		if b && known && !prev {
			t.loaded, t.started, t.eof = false, false, false
			return []callback{{kind: onIdle}}
		}

	case "time-pos":
		if ms, ok := decodeMillis(msg.Data); ok {
			t.position = ms
		}

	case "duration":
		if ms, ok := decodeMillis(msg.Data); ok && ms > 0 {
			t.duration = mo.Some(ms)
		} else {
			t.duration = mo.None[int64]()
		}

	case "metadata":
		title, art := metadata.FromCommonKeys(metadata.ItemsFromTags(decodeTags(msg.Data)))
		if title == "" {
			return nil
		}
		return []callback{{kind: onMetadata, raw: title, art: art}}
	}

	return nil
}
