// Package session owns the single active playback session and turns device
// callbacks into deduplicated bridge events.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/qkd/kdplayer/artwork"
	"github.com/qkd/kdplayer/bridge"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/metadata"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const defaultInterval = 10 * time.Millisecond

// Ticket orders session loads. Only the most recently issued ticket may load.
type Ticket uint64

// Machine serializes device callbacks, explicit commands and position
// sampling behind one mutex.
type Machine struct {
	device   Device
	events   *bridge.Bridge
	artwork  *artwork.Resolver
	interval time.Duration

	mu        sync.Mutex
	tickets   uint64
	sessions  uint64
	cur       Snapshot
	published mo.Option[bool]
	stopTick  chan struct{}
}

var _ Listener = (*Machine)(nil)

// New wires a machine. The device must be told to report to it, see
// Listener. The position interval comes from player.position_interval_ms.
func New(device Device, events *bridge.Bridge, art *artwork.Resolver) *Machine {
	interval := time.Duration(viper.GetInt(key.PlayerPositionIntervalMs)) * time.Millisecond
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Machine{
		device:    device,
		events:    events,
		artwork:   art,
		interval:  interval,
		cur:       emptySnapshot(),
		published: mo.None[bool](),
	}
}

func emptySnapshot() Snapshot {
	return Snapshot{
		State:    Idle,
		Duration: mo.None[int64](),
		Metadata: mo.None[metadata.Normalized](),
	}
}

func (m *Machine) Events() *bridge.Bridge {
	return m.events
}

func (m *Machine) Artwork() *artwork.Resolver {
	return m.artwork
}

// Snapshot returns a copy of the active session.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.cur
	s.Sources = append([]string(nil), m.cur.Sources...)
	return s
}

// Begin issues a ticket for a load that is about to resolve its sources.
// Issuing a ticket supersedes every earlier one.
func (m *Machine) Begin() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickets++
	return Ticket(m.tickets)
}

// Load replaces the active session. It fails with ErrSuperseded when a
// newer ticket exists.
func (m *Machine) Load(t Ticket, title string, sources []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(t) != m.tickets {
		return ErrSuperseded
	}
	if len(sources) == 0 {
		return fmt.Errorf("load %q: no sources", title)
	}

	m.stopTicker()
	m.artwork.Reset()

	if m.published.OrEmpty() {
		m.events.State.Publish(false)
	}
	m.published = mo.None[bool]()

	m.sessions++
	m.cur = emptySnapshot()
	m.cur.ID = m.sessions
	m.cur.Title = title
	m.cur.Sources = append([]string(nil), sources...)
	m.cur.State = Loading

	m.events.Position.Publish(0)
	m.events.Duration.Publish(0)

	log.WithFields(map[string]any{"session": m.cur.ID, "title": title}).Infof("loading %d sources", len(sources))

	if err := m.device.Load(m.cur.Sources); err != nil {
		m.cur.State = Idle
		return fmt.Errorf("load %q: %w", title, err)
	}

	return nil
}

// Play sets the intent to playing. The state follows once the device is ready.
func (m *Machine) Play() error {
	return m.setIntent(true)
}

// Pause sets the intent to paused.
func (m *Machine) Pause() error {
	return m.setIntent(false)
}

func (m *Machine) setIntent(play bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return ErrNoSession
	}

	m.cur.PlayWhenReady = play
	if err := m.device.SetPlayWhenReady(play); err != nil {
		return fmt.Errorf("set play when ready: %w", err)
	}

	if m.cur.State == Playing || m.cur.State == Paused {
		m.transition(lo.Ternary(play, Playing, Paused))
	}

	return nil
}

// Stop halts the device. The session waits in Loading until the device is
// ready again.
func (m *Machine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return ErrNoSession
	}

	m.cur.PlayWhenReady = false
	m.cur.SeekInFlight = false
	m.transition(Loading)

	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}

	return nil
}

// Close stops ticking, invalidates outstanding tickets and closes the bridge.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTicker()
	m.tickets++
	m.artwork.Reset()
	m.events.Close()
}

// transition moves to s, keeps the ticker in step and publishes
// StateChanged when the playing flag differs from the last published one.
// Must be called with mu held.
func (m *Machine) transition(s State) {
	prev := m.cur.State
	m.cur.State = s

	if s == Playing {
		m.startTicker()
	} else {
		m.stopTicker()
	}

	if prev != s {
		log.WithField("session", m.cur.ID).Debugf("%s -> %s", prev, s)
	}

	playing := s.Playing()
	if last, ok := m.published.Get(); ok && last == playing {
		return
	}

	// a dropped value is not remembered, so the next transition retries it
	if m.events.State.Publish(playing) {
		m.published = mo.Some(playing)
	}
}

func (m *Machine) OnIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return
	}

	m.cur.DurationKnown = false
	m.cur.Duration = mo.None[int64]()
	m.cur.SeekInFlight = false
	m.transition(Loading)

	if err := m.device.Prepare(); err != nil {
		log.WithField("session", m.cur.ID).Errorf("prepare: %v", err)
	}
}

func (m *Machine) OnBuffering() {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.WithField("session", m.cur.ID).Debugf("buffering in state %s", m.cur.State)
}

func (m *Machine) OnReady(playWhenReady bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return
	}

	if !m.cur.DurationKnown {
		m.captureDuration()
	}

	// a seek issued while loading completes with the first ready
	if m.cur.SeekInFlight {
		m.cur.SeekInFlight = false
		m.publishPosition()
	}

	m.cur.PlayWhenReady = playWhenReady
	m.transition(lo.Ternary(playWhenReady, Playing, Paused))
}

// captureDuration runs once per prepared source. Live streams have no
// duration; they are marked known so the device is not asked again.
func (m *Machine) captureDuration() {
	ms, ok, err := m.device.Duration()
	if err != nil {
		log.WithField("session", m.cur.ID).Warnf("duration: %v", err)
		return
	}

	m.cur.DurationKnown = true
	if !ok || ms <= 0 {
		return
	}

	m.cur.Duration = mo.Some(ms)
	m.events.Duration.Publish(ms)
}

func (m *Machine) OnEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return
	}

	m.cur.State = Ended
	m.cur.PlayWhenReady = false
	m.cur.SeekInFlight = false
	m.cur.Position = 0

	if err := m.device.SetPlayWhenReady(false); err != nil {
		log.WithField("session", m.cur.ID).Warnf("pause at end: %v", err)
	}
	if err := m.device.SeekTo(0); err != nil {
		log.WithField("session", m.cur.ID).Warnf("rewind at end: %v", err)
	}

	m.events.Position.Publish(0)
	m.transition(Paused)
}

func (m *Machine) OnMetadata(raw string, art mo.Option[metadata.Artwork]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return
	}

	n := metadata.Normalize(raw, art)
	if prev, ok := m.cur.Metadata.Get(); ok && prev.Equal(n) {
		return
	}

	m.cur.Metadata = mo.Some(n)
	m.events.Metadata.Publish(n)

	if ref, ok := n.Artwork.Get(); ok {
		m.artwork.Resolve(ref)
	} else {
		m.artwork.Reset()
	}
}
