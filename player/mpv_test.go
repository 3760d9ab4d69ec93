package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/metadata"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func prop(name string, data any) ipcMessage {
	raw, _ := json.Marshal(data)
	return ipcMessage{Event: "property-change", Name: name, Data: raw}
}

func event(name string) ipcMessage {
	return ipcMessage{Event: name}
}

func kinds(cs []callback) []callbackKind {
	out := make([]callbackKind, len(cs))
	for i, c := range cs {
		out[i] = c.kind
	}
	return out
}

func TestDispatch(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		tr := newTracker()

		Convey("The initial idle report is not a transition", func() {
			So(tr.dispatch(prop("idle-active", true)), ShouldBeEmpty)
			So(tr.dispatch(prop("idle-active", false)), ShouldBeEmpty)
			So(kinds(tr.dispatch(prop("idle-active", true))), ShouldResemble, []callbackKind{onIdle})
		})

		Convey("When a file loads and starts", func() {
			So(tr.dispatch(event("file-loaded")), ShouldBeEmpty)
			ready := tr.dispatch(event("playback-restart"))

			Convey("The first restart reports ready with the pause state", func() {
				So(kinds(ready), ShouldResemble, []callbackKind{onReady})
				So(ready[0].play, ShouldBeFalse)
			})

			Convey("Later restarts complete seeks", func() {
				So(kinds(tr.dispatch(event("playback-restart"))), ShouldResemble, []callbackKind{onSeekComplete})
			})

			Convey("Unpausing reports ready to play", func() {
				cs := tr.dispatch(prop("pause", false))
				So(kinds(cs), ShouldResemble, []callbackKind{onReady})
				So(cs[0].play, ShouldBeTrue)

				So(tr.dispatch(prop("pause", false)), ShouldBeEmpty)
			})

			Convey("Cache stalls report buffering then ready", func() {
				So(kinds(tr.dispatch(prop("paused-for-cache", true))), ShouldResemble, []callbackKind{onBuffering})
				So(tr.dispatch(prop("pause", false)), ShouldBeEmpty)
				So(kinds(tr.dispatch(prop("paused-for-cache", false))), ShouldResemble, []callbackKind{onReady})
			})

			Convey("EOF reports ended once", func() {
				So(kinds(tr.dispatch(prop("eof-reached", true))), ShouldResemble, []callbackKind{onEnded})
				So(tr.dispatch(prop("pause", true)), ShouldBeEmpty)
				So(tr.dispatch(prop("eof-reached", true)), ShouldBeEmpty)

				Convey("and rewinding makes it ready again", func() {
					So(kinds(tr.dispatch(prop("eof-reached", false))), ShouldResemble, []callbackKind{onReady})
				})
			})

			Convey("Positions and durations are tracked in milliseconds", func() {
				tr.dispatch(prop("time-pos", 12.3456))
				tr.dispatch(prop("duration", 180.0))
				So(tr.position, ShouldEqual, 12346)
				So(tr.duration.MustGet(), ShouldEqual, 180000)

				tr.dispatch(prop("duration", nil))
				So(tr.duration.IsPresent(), ShouldBeFalse)
			})
		})

		Convey("When a seek is sent before the first restart", func() {
			So(tr.dispatch(event("file-loaded")), ShouldBeEmpty)
			tr.seeking = true

			Convey("The restart reports ready and completes the seek", func() {
				So(kinds(tr.dispatch(event("playback-restart"))), ShouldResemble, []callbackKind{onReady, onSeekComplete})
				So(tr.seeking, ShouldBeFalse)
			})

			Convey("Later restarts are plain seek completions", func() {
				tr.dispatch(event("playback-restart"))
				So(kinds(tr.dispatch(event("playback-restart"))), ShouldResemble, []callbackKind{onSeekComplete})
			})

			Convey("A source ending drops the pending seek", func() {
				tr.dispatch(event("end-file"))
				So(tr.seeking, ShouldBeFalse)
			})
		})

		Convey("Stream titles become metadata", func() {
			cs := tr.dispatch(prop("metadata", map[string]any{"icy-title": "Artist - Song", "icy-name": "Radio"}))
			So(kinds(cs), ShouldResemble, []callbackKind{onMetadata})
			So(cs[0].raw, ShouldEqual, "Artist - Song")
			So(cs[0].art.IsPresent(), ShouldBeFalse)

			So(tr.dispatch(prop("metadata", map[string]any{"icy-name": "Radio"})), ShouldBeEmpty)
		})

		Convey("Failed loads are counted", func() {
			tr.dispatch(ipcMessage{Event: "end-file", Reason: "error"})
			tr.dispatch(ipcMessage{Event: "end-file", Reason: "error"})
			So(tr.failures, ShouldEqual, 2)
			tr.dispatch(event("file-loaded"))
			So(tr.failures, ShouldEqual, 0)
		})
	})
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) OnIdle() { r.add("idle") }
func (r *recorder) OnBuffering() { r.add("buffering") }
func (r *recorder) OnReady(play bool) { r.add(fmt.Sprintf("ready:%v", play)) }
func (r *recorder) OnEnded() { r.add("ended") }
func (r *recorder) OnSeekComplete() { r.add("seek") }
func (r *recorder) OnMetadata(raw string, _ mo.Option[metadata.Artwork]) {
	r.add("metadata:" + raw)
}

func TestCallbackDelivery(t *testing.T) {
	Convey("Callbacks map onto the listener", t, func() {
		r := &recorder{}
		for _, c := range []callback{
			{kind: onIdle},
			{kind: onBuffering},
			{kind: onReady, play: true},
			{kind: onEnded},
			{kind: onSeekComplete},
			{kind: onMetadata, raw: "A - B"},
		} {
			c.deliver(r)
		}
		So(r.snapshot(), ShouldResemble, []string{"idle", "buffering", "ready:true", "ended", "seek", "metadata:A - B"})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Given media targets", t, func() {
		for _, ok := range []string{"http://a/1", "https://a/1", "file:///music/a.mp3", " /music/a.mp3 "} {
			_, err := sanitizeMediaTarget(ok)
			So(err, ShouldBeNil)
		}
		for _, bad := range []string{"", "--script=x.lua", "http://a/\n1", "rtmp://a/1"} {
			_, err := sanitizeMediaTarget(bad)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestArgs(t *testing.T) {
	Convey("mpv is launched idle, audio only and paused", t, func() {
		m := NewMPV("mpv")
		m.socketPath = "/tmp/x.sock"
		So(m.args(), ShouldContain, "--input-ipc-server=/tmp/x.sock")
		So(m.args(), ShouldContain, "--idle=yes")
		So(m.args(), ShouldContain, "--no-video")
		So(m.args(), ShouldContain, "--keep-open=yes")
		So(m.args(), ShouldContain, "--pause=yes")
	})
}

func TestNew(t *testing.T) {
	Convey("Unknown backends are rejected", t, func() {
		viper.Set(key.PlayerBackend, "vlc")
		defer viper.Set(key.PlayerBackend, nil)

		_, err := New()
		So(err, ShouldNotBeNil)
	})
}

// fakeMPV serves a unix socket; serve is called per connection.
func fakeMPV(t *testing.T, serve func(conn net.Conn)) string {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serve(conn)
		}
	}()
	return path
}

func TestIPC(t *testing.T) {
	Convey("Given a fake mpv socket", t, func() {
		path := fakeMPV(t, func(conn net.Conn) {
			defer conn.Close()
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				var cmd ipcCommand
				_ = json.Unmarshal(scanner.Bytes(), &cmd)

				// an unrelated broadcast arrives before the reply
				_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))

				reply := map[string]any{"request_id": cmd.RequestID, "error": "success"}
				switch cmd.Command[1] {
				case "duration":
					reply["data"] = 61.5
				case "metadata":
					reply["error"] = "property unavailable"
				}
				raw, _ := json.Marshal(reply)
				_, _ = conn.Write(append(raw, '\n'))
			}
		})

		Convey("Replies are matched by request id", func() {
			data, err := doSendCommand(path, []any{"get_property", "duration"})
			So(err, ShouldBeNil)
			ms, ok := decodeMillis(data)
			So(ok, ShouldBeTrue)
			So(ms, ShouldEqual, 61500)
		})

		Convey("Unavailable properties are recognized", func() {
			_, err := doSendCommand(path, []any{"get_property", "metadata"})
			So(errors.Is(err, errPropertyUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given nothing listening", t, func() {
		_, err := doSendCommand(filepath.Join(t.TempDir(), "none.sock"), []any{"get_property", "pid"})
		So(err, ShouldNotBeNil)
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given a fake mpv emitting events", t, func() {
		observedNames := make(chan string, len(observed))
		path := fakeMPV(t, func(conn net.Conn) {
			defer conn.Close()
			scanner := bufio.NewScanner(conn)
			for i := 0; i < len(observed) && scanner.Scan(); i++ {
				var cmd ipcCommand
				_ = json.Unmarshal(scanner.Bytes(), &cmd)
				observedNames <- fmt.Sprint(cmd.Command[2])
				_, _ = fmt.Fprintf(conn, `{"request_id":%d,"error":"success"}`+"\n", cmd.RequestID)
			}
			_, _ = conn.Write([]byte(`{"event":"file-loaded"}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"pause","data":false}` + "\n"))
			_, _ = conn.Write([]byte("not json\n"))
			_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			time.Sleep(100 * time.Millisecond)
		})

		var (
			mu   sync.Mutex
			seen []string
		)
		el := NewEventListener(path, func(msg ipcMessage) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, msg.Event+":"+msg.Name)
		})
		So(el.Start(), ShouldBeNil)

		Convey("Properties are observed on the same connection and events arrive in order", func() {
			select {
			case <-el.Done():
			case <-time.After(2 * time.Second):
				t.Fatal("listener did not finish")
			}

			names := make([]string, 0, len(observed))
			for len(names) < len(observed) {
				names = append(names, <-observedNames)
			}
			So(names, ShouldResemble, observed)

			mu.Lock()
			defer mu.Unlock()
			So(seen, ShouldResemble, []string{"file-loaded:", "property-change:pause", "playback-restart:"})
		})
	})
}
