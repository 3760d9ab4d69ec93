package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/qkd/kdplayer/bridge"
	"github.com/qkd/kdplayer/color"
	"github.com/qkd/kdplayer/control"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/history"
	"github.com/qkd/kdplayer/icon"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/player"
	"github.com/qkd/kdplayer/session"
	"github.com/qkd/kdplayer/style"
	"github.com/qkd/kdplayer/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("title", "t", "", "Title shown for the session")
	playCmd.Flags().BoolP("json", "j", false, "Print events as JSON lines (default when stdout is not a terminal)")
	playCmd.Flags().BoolP("recent", "r", false, "Pick a station from the recent history")
	playCmd.Flags().Bool("paused", false, "Load the stream without starting playback")
	playCmd.Flags().String("default-artwork", "", "Image file used when the stream carries no artwork")
}

var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Play a stream or playlist and print its events",
	Long: `Play a stream or a .pls/.m3u playlist through mpv and print the normalized events.

While playing, these commands are read from stdin:
  p, play       start playback
  pause         pause playback
  t, toggle     toggle between playing and paused
  s, stop       stop playback
  seek <sec>    seek to an absolute position
  a, artwork    save the current artwork
  q, quit       quit`,
	Example: `  kdplayer play https://somafm.com/groovesalad.pls -t "Groove Salad"
  kdplayer play --recent
  kdplayer play http://radio.example/live.mp3 --json | jq .`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			title      = lo.Must(cmd.Flags().GetString("title"))
			recent     = lo.Must(cmd.Flags().GetBool("recent"))
			asJson     = lo.Must(cmd.Flags().GetBool("json")) || !util.IsTerminal()
			paused     = lo.Must(cmd.Flags().GetBool("paused"))
			defaultArt = lo.Must(cmd.Flags().GetString("default-artwork"))
			url        string
		)

		if len(args) == 1 {
			url = args[0]
		}

		if recent || url == "" {
			entry, err := pickRecent()
			handleErr(err)
			url = entry.URL
			if title == "" {
				title = entry.Title
			}
		}

		if title == "" {
			title = url
		}

		checkDependencies()

		handleErr(runPlay(cmd.Context(), playOptions{
			title:      title,
			url:        url,
			json:       asJson,
			paused:     paused,
			defaultArt: defaultArt,
			out:        cmd.OutOrStdout(),
			in:         os.Stdin,
		}))
	},
}

type playOptions struct {
	title, url string
	json       bool
	paused     bool
	defaultArt string
	out        io.Writer
	in         io.Reader
}

func runPlay(parent context.Context, opts playOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	p, err := player.New()
	if err != nil {
		return err
	}
	defer p.Close()

	c := control.New(p, nil)
	defer c.Close()

	if opts.defaultArt != "" {
		data, err := filesystem.API().ReadFile(opts.defaultArt)
		if err != nil {
			return err
		}
		if err := c.SetDefaultArtwork(data); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := c.Events().Merge(ctx)

	if err := c.Set(ctx, opts.title, opts.url); err != nil {
		return err
	}
	if !opts.paused {
		if err := c.Play(); err != nil {
			return err
		}
	}

	printer := newEventPrinter(opts.out, opts.json)
	go readControls(ctx, opts.in, c, printer, stop)

	for {
		select {
		case <-ctx.Done():
			printer.finish()
			log.Infof("session ended: %+v", c.Snapshot())
			return nil
		case <-p.Wait():
			printer.finish()
			return errors.New("mpv exited")
		case e, ok := <-events:
			if !ok {
				return nil
			}
			printer.print(e)
		}
	}
}

type controlAction int

const (
	actionNone controlAction = iota
	actionPlay
	actionPause
	actionToggle
	actionStop
	actionSeek
	actionArtwork
	actionQuit
)

// controlCommand is one parsed stdin line. Millis is set for actionSeek.
type controlCommand struct {
	action controlAction
	millis float64
}

// parseControl maps a stdin line to a command. Blank lines yield actionNone.
func parseControl(line string) (controlCommand, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return controlCommand{}, nil
	}

	switch fields[0] {
	case "p", "play":
		return controlCommand{action: actionPlay}, nil
	case "pause":
		return controlCommand{action: actionPause}, nil
	case "t", "toggle":
		return controlCommand{action: actionToggle}, nil
	case "s", "stop":
		return controlCommand{action: actionStop}, nil
	case "seek":
		if len(fields) != 2 {
			return controlCommand{}, errors.New("usage: seek <seconds>")
		}
		seconds, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return controlCommand{}, fmt.Errorf("invalid seek position %q", fields[1])
		}
		return controlCommand{action: actionSeek, millis: seconds * 1000}, nil
	case "a", "artwork":
		return controlCommand{action: actionArtwork}, nil
	case "q", "quit", "exit":
		return controlCommand{action: actionQuit}, nil
	default:
		return controlCommand{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// readControls applies line commands until input ends or quit is read.
func readControls(ctx context.Context, in io.Reader, c *control.Controller, printer *eventPrinter, quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		command, err := parseControl(scanner.Text())
		if err == nil {
			err = applyControl(c, command, printer)
		}
		if command.action == actionQuit {
			quit()
			return
		}

		if err != nil {
			printer.notice(fmt.Sprintf("%s %v", icon.Get(icon.Fail), err))
		}
	}
}

func applyControl(c *control.Controller, command controlCommand, printer *eventPrinter) error {
	switch command.action {
	case actionPlay:
		return c.Play()
	case actionPause:
		return c.Pause()
	case actionToggle:
		if c.Snapshot().State == session.Playing {
			return c.Pause()
		}
		return c.Play()
	case actionStop:
		return c.Stop()
	case actionSeek:
		return c.SetSeekTo(command.millis)
	case actionArtwork:
		data, ok := c.GetArtwork()
		if !ok {
			return errors.New("no artwork resolved yet")
		}
		path, err := saveArtwork(data, c.Snapshot().Title)
		if err != nil {
			return err
		}
		printer.notice(fmt.Sprintf("%s saved artwork to %s", icon.Get(icon.Image), path))
	}
	return nil
}

func pickRecent() (*history.Entry, error) {
	recent, err := history.Recent()
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, errors.New("no url given and the history is empty")
	}

	options := lo.Map(recent, func(e *history.Entry, _ int) string {
		return fmt.Sprintf("%s %s", e.String(), style.Faint("("+util.Quantify(e.Plays, "play", "plays")+")"))
	})

	var index int
	if err := survey.AskOne(&survey.Select{
		Message: "Recent stations",
		Options: options,
	}, &index); err != nil {
		return nil, err
	}

	return recent[index], nil
}

// eventPrinter renders events either as JSON lines or as styled terminal
// lines, where positions overwrite a single status line.
type eventPrinter struct {
	out      io.Writer
	json     *json.Encoder
	width    int
	duration int64
	status   bool
}

func newEventPrinter(out io.Writer, asJson bool) *eventPrinter {
	p := &eventPrinter{out: out, width: util.TerminalWidth(80)}
	if asJson {
		p.json = json.NewEncoder(out)
	}
	return p
}

func (p *eventPrinter) print(e bridge.Event) {
	if p.json != nil {
		if err := p.json.Encode(e); err != nil {
			log.Warnf("encode event: %v", err)
		}
		return
	}

	switch e.Name {
	case bridge.StateChanged:
		if *e.Playing {
			p.line(style.Fg(color.Green)(icon.Get(icon.Play) + " playing"))
		} else {
			p.line(style.Fg(color.Yellow)(icon.Get(icon.Pause) + " paused"))
		}
	case bridge.MetadataChanged:
		text := style.Bold(e.Metadata[0])
		if e.Metadata[1] != "" {
			text += style.Faint(" - ") + e.Metadata[1]
		}
		if e.Metadata[2] != "" {
			text += " " + style.Faint(e.Metadata[2])
		}
		p.line(util.Truncate(style.Fg(color.Purple)(icon.Get(icon.Music))+" "+text, p.width))
	case bridge.DurationChanged:
		p.duration = *e.Millis
		if p.duration > 0 {
			p.line(fmt.Sprintf("%s %s", style.Fg(color.Blue)(icon.Get(icon.Clock)), formatMillis(p.duration)))
		}
	case bridge.PositionChanged:
		status := fmt.Sprintf("%s %s", style.Fg(color.Orange)(icon.Get(icon.Clock)), formatMillis(*e.Millis))
		if p.duration > 0 {
			status += style.Faint(" / " + formatMillis(p.duration))
		}
		fmt.Fprint(p.out, "\r\x1b[2K"+status)
		p.status = true
	}
}

// notice prints outside of the event stream.
func (p *eventPrinter) notice(msg string) {
	if p.json != nil {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	p.line(msg)
}

func (p *eventPrinter) line(s string) {
	if p.status {
		fmt.Fprint(p.out, "\r\x1b[2K")
		p.status = false
	}
	fmt.Fprintln(p.out, s)
}

func (p *eventPrinter) finish() {
	if p.status {
		fmt.Fprintln(p.out)
		p.status = false
	}
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
