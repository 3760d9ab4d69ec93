package session

import "time"

// startTicker must be called with mu held.
func (m *Machine) startTicker() {
	if m.stopTick != nil {
		return
	}

	stop := make(chan struct{})
	m.stopTick = stop
	go m.tick(stop, m.cur.ID)
}

// stopTicker never waits for the ticking goroutine, which may itself be
// blocked on mu. Must be called with mu held.
func (m *Machine) stopTicker() {
	if m.stopTick == nil {
		return
	}

	close(m.stopTick)
	m.stopTick = nil
}

func (m *Machine) tick(stop <-chan struct{}, id uint64) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.sample(stop, id)
		}
	}
}

func (m *Machine) sample(stop <-chan struct{}, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-stop:
		return
	default:
	}

	if m.cur.ID != id || m.cur.State != Playing || m.cur.SeekInFlight {
		return
	}

	pos, err := m.device.Position()
	if err != nil {
		return
	}

	pos = m.clamp(pos)
	if pos == m.cur.Position {
		return
	}

	m.cur.Position = pos
	m.events.Position.Publish(pos)
}

// clamp bounds ms to [0, duration] when the duration is known.
func (m *Machine) clamp(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	if d, ok := m.cur.Duration.Get(); ok && ms > d {
		return d
	}
	return ms
}
