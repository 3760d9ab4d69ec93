package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/session"
	"github.com/qkd/kdplayer/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond

	// reloads after failed loads before Prepare gives up
	maxReloads = 3
)

var errNotStarted = errors.New("mpv is not running")

// MPV is an audio-only mpv process driven over JSON-IPC. It implements
// session.Device; Listener callbacks come from the event read loop.
type MPV struct {
	path       string
	socketPath string
	cmd        *exec.Cmd
	events     *EventListener

	exitedMu sync.Mutex
	exited   chan struct{}

	mu sync.Mutex // serializes IPC requests

	stateMu  sync.Mutex
	state    *tracker
	listener session.Listener
	sources  []string
}

var _ Player = (*MPV)(nil)

// NewMPV returns a device for the mpv executable at path. Nothing is
// started until the first Load.
func NewMPV(path string) *MPV {
	exited := make(chan struct{})
	close(exited)

	return &MPV{
		path:   path,
		exited: exited,
		state:  newTracker(),
	}
}

func (m *MPV) SetListener(l session.Listener) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.listener = l
}

// args builds the command line. Only what the device depends on is
// forced; the user's mpv.conf applies to everything else.
func (m *MPV) args() []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--idle=yes",
		"--no-video",
		"--keep-open=yes",
		"--pause=yes",
	}
}

func (m *MPV) running() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) start() error {
	if m.running() {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))

	m.cmd = exec.Command(m.path, m.args()...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exitedMu.Lock()
	m.exited = exited
	m.exitedMu.Unlock()
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.stateMu.Lock()
	m.state = newTracker()
	m.stateMu.Unlock()

	m.events = NewEventListener(m.socketPath, m.handle)
	if err := m.events.Start(); err != nil {
		_ = m.Close()
		return err
	}

	log.Infof("mpv started with pid %d", m.cmd.Process.Pid)
	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handle runs on the event read loop. Callbacks are computed under stateMu
// and delivered after releasing it, so the listener may call back into
// the device.
func (m *MPV) handle(msg ipcMessage) {
	m.stateMu.Lock()
	callbacks := m.state.dispatch(msg)
	listener := m.listener
	m.stateMu.Unlock()

	if listener == nil {
		return
	}
	for _, c := range callbacks {
		c.deliver(listener)
	}
}

// Load replaces the playlist with sources, paused.
func (m *MPV) Load(sources []string) error {
	safe := make([]string, 0, len(sources))
	for _, s := range sources {
		target, err := sanitizeMediaTarget(s)
		if err != nil {
			return fmt.Errorf("invalid media target: %w", err)
		}
		safe = append(safe, target)
	}
	if len(safe) == 0 {
		return errors.New("no sources")
	}

	if err := m.start(); err != nil {
		return err
	}

	m.stateMu.Lock()
	m.sources = safe
	m.state.failures = 0
	m.stateMu.Unlock()

	return m.loadfiles(safe)
}

func (m *MPV) loadfiles(sources []string) error {
	if err := m.set("pause", true); err != nil {
		return err
	}

	for i, s := range sources {
		mode := "append"
		if i == 0 {
			mode = "replace"
		}
		if _, err := m.sendCommand("loadfile", s, mode); err != nil {
			return fmt.Errorf("loadfile %s: %w", s, err)
		}
	}
	return nil
}

// Prepare reloads the last sources after mpv went idle. It gives up after
// repeated load failures.
func (m *MPV) Prepare() error {
	m.stateMu.Lock()
	sources := m.sources
	failures := m.state.failures
	m.stateMu.Unlock()

	if len(sources) == 0 {
		return nil
	}
	if failures >= maxReloads {
		return fmt.Errorf("giving up after %d failed loads", failures)
	}
	if !m.running() {
		return errNotStarted
	}

	return m.loadfiles(sources)
}

func (m *MPV) SetPlayWhenReady(play bool) error {
	if !m.running() {
		return errNotStarted
	}
	return m.set("pause", !play)
}

func (m *MPV) Stop() error {
	if !m.running() {
		return nil
	}
	_, err := m.sendCommand("stop")
	return err
}

func (m *MPV) SeekTo(ms int64) error {
	if !m.running() {
		return errNotStarted
	}
	m.setSeeking(true)
	if _, err := m.sendCommand("seek", float64(ms)/1000, "absolute"); err != nil {
		m.setSeeking(false)
		return err
	}
	return nil
}

// setSeeking is marked before the command goes out since playback-restart
// arrives on the event connection and may beat the reply.
func (m *MPV) setSeeking(b bool) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state.seeking = b
}

// Position is the last time-pos mpv reported.
func (m *MPV) Position() (int64, error) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state.position, nil
}

// Duration asks mpv directly since the observed value may lag behind the
// first playback-restart. Live streams report ok=false.
func (m *MPV) Duration() (int64, bool, error) {
	if !m.running() {
		return 0, false, errNotStarted
	}

	data, err := m.sendCommand("get_property", "duration")
	if errors.Is(err, errPropertyUnavailable) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	ms, ok := decodeMillis(data)
	if !ok || ms == 0 {
		return 0, false, nil
	}
	return ms, true, nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	m.exitedMu.Lock()
	defer m.exitedMu.Unlock()
	return m.exited
}

// Close shuts down the mpv process and removes its socket.
func (m *MPV) Close() error {
	if m.cmd == nil {
		return nil
	}

	if m.events != nil {
		m.events.Stop()
	}

	if m.running() {
		_, _ = m.sendCommand("quit")

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = terminate(m.cmd)
			select {
			case <-m.exited:
			case <-time.After(time.Second):
				_ = killProcess(m.cmd)
			}
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv.
// Manifests come from the network, so entries must not smuggle in flags.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
