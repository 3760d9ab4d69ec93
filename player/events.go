package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	"github.com/qkd/kdplayer/log"
)

// observed are the properties mpv reports on the event connection.
// observe_property only applies to the connection it was sent on.
var observed = []string{
	"pause",
	"paused-for-cache",
	"eof-reached",
	"idle-active",
	"time-pos",
	"duration",
	"metadata",
}

// EventListener keeps one connection open and hands every mpv event to handle.
type EventListener struct {
	socketPath string
	handle     func(ipcMessage)

	mu     sync.Mutex
	conn   net.Conn
	done   chan struct{}
	closed bool
}

func NewEventListener(socketPath string, handle func(ipcMessage)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		handle:     handle,
		done:       make(chan struct{}),
	}
}

// Start connects, subscribes to the observed properties and starts reading.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, []any{"observe_property", i + 1, name}, requestIDs.Add(1)); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.closed = true
	if el.conn != nil {
		_ = el.conn.Close()
	}
}

// Done is closed once the read loop has returned.
func (el *EventListener) Done() <-chan struct{} {
	return el.done
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer close(el.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			log.Debugf("skipping unparseable mpv line: %v", err)
			continue
		}

		// replies to observe_property
		if msg.Event == "" {
			continue
		}

		el.handle(msg)
	}

	el.mu.Lock()
	closed := el.closed
	el.mu.Unlock()

	if err := scanner.Err(); err != nil && !closed && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

func decodeBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// decodeMillis converts a seconds property to milliseconds. null and
// non-numbers report ok=false.
func decodeMillis(raw json.RawMessage) (int64, bool) {
	var seconds *float64
	if err := json.Unmarshal(raw, &seconds); err != nil || seconds == nil {
		return 0, false
	}
	if math.IsNaN(*seconds) || *seconds < 0 {
		return 0, false
	}
	return int64(math.Round(*seconds * 1000)), true
}

func decodeTags(raw json.RawMessage) map[string]string {
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	tags := make(map[string]string, len(values))
	for k, v := range values {
		tags[k] = fmt.Sprint(v)
	}
	return tags
}
