package session

import (
	"fmt"

	"github.com/qkd/kdplayer/log"
)

// Seek asks the device to move to ms. While a seek is outstanding further
// requests fail with ErrCommandConflict and are not queued.
func (m *Machine) Seek(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.Active() {
		return ErrNoSession
	}
	if m.cur.SeekInFlight {
		return ErrCommandConflict
	}

	target := m.clamp(ms)
	m.cur.SeekInFlight = true

	if err := m.device.SeekTo(target); err != nil {
		m.cur.SeekInFlight = false
		return fmt.Errorf("seek to %d: %w", target, err)
	}

	log.WithField("session", m.cur.ID).Debugf("seeking to %d", target)
	return nil
}

func (m *Machine) OnSeekComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cur.SeekInFlight {
		return
	}
	m.cur.SeekInFlight = false
	m.publishPosition()
}

// publishPosition samples the device once and publishes unconditionally.
// Must be called with mu held.
func (m *Machine) publishPosition() {
	pos, err := m.device.Position()
	if err != nil {
		log.WithField("session", m.cur.ID).Warnf("position after seek: %v", err)
		return
	}

	m.cur.Position = m.clamp(pos)
	m.events.Position.Publish(m.cur.Position)
}
