// Package control is the command surface consumers drive playback through.
package control

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/qkd/kdplayer/artwork"
	"github.com/qkd/kdplayer/bridge"
	"github.com/qkd/kdplayer/history"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/network"
	"github.com/qkd/kdplayer/playlist"
	"github.com/qkd/kdplayer/session"
	"github.com/spf13/viper"
)

// Controller owns the session machine and the playlist resolver for one device.
type Controller struct {
	machine  *session.Machine
	playlist *playlist.Resolver
}

// New attaches a controller to device. Manifests and artwork are fetched
// with fetcher; nil means network.NewFetcher.
func New(device session.Observable, fetcher network.Fetcher) *Controller {
	if fetcher == nil {
		fetcher = network.NewFetcher()
	}

	machine := session.New(device, bridge.New(0), artwork.NewResolver(fetcher))
	device.SetListener(machine)

	return &Controller{
		machine:  machine,
		playlist: playlist.NewResolver(fetcher),
	}
}

// Set resolves url and loads the result as the new session. A newer Set
// that finishes first wins; the older one returns nil without loading.
func (c *Controller) Set(ctx context.Context, title, url string) error {
	ticket := c.machine.Begin()

	sources, err := c.playlist.Resolve(ctx, url)
	if err != nil {
		log.WithField("url", url).Error(err)
		return err
	}

	err = c.machine.Load(ticket, title, sources)
	if errors.Is(err, session.ErrSuperseded) {
		log.WithField("url", url).Debug("dropping superseded playlist")
		return nil
	}
	if err != nil {
		log.WithField("url", url).Error(err)
		return err
	}

	if viper.GetBool(key.HistorySave) {
		if err := history.Remember(title, url, sources); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	return nil
}

func (c *Controller) Play() error {
	return c.machine.Play()
}

func (c *Controller) Pause() error {
	return c.machine.Pause()
}

func (c *Controller) Stop() error {
	return c.machine.Stop()
}

// SetSeekTo seeks to ms, rounded to the nearest millisecond. A seek issued
// while another is outstanding is dropped.
func (c *Controller) SetSeekTo(ms float64) error {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("seek: invalid position %v", ms)
	}

	err := c.machine.Seek(int64(math.Round(ms)))
	if errors.Is(err, session.ErrCommandConflict) {
		log.Debugf("seek to %.0f ignored: %v", ms, err)
		return nil
	}
	return err
}

// SetDefaultArtwork installs the out-of-band cover. Bad bytes return an
// *artwork.DecodeError and leave the previous default in place.
func (c *Controller) SetDefaultArtwork(image []byte) error {
	return c.machine.Artwork().SetDefault(image)
}

// GetArtwork is a JPEG snapshot of the resolved metadata artwork.
func (c *Controller) GetArtwork() ([]byte, bool) {
	return c.machine.Artwork().Encoded()
}

func (c *Controller) Events() *bridge.Bridge {
	return c.machine.Events()
}

func (c *Controller) Snapshot() session.Snapshot {
	return c.machine.Snapshot()
}

// Close ends the session and waits for background artwork fetches.
func (c *Controller) Close() {
	c.machine.Close()
	c.machine.Artwork().Wait()
}
