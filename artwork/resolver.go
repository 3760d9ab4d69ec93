package artwork

import (
	"context"
	"sync"
	"time"

	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/metadata"
	"github.com/qkd/kdplayer/network"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Resolver holds at most one metadata image plus an out-of-band default.
//
// Every Resolve, Reset and SetDefault starts a new generation and cancels
// the fetch of the previous one. A fetch that completes for an old
// generation is dropped.
type Resolver struct {
	fetcher network.Fetcher
	timeout time.Duration
	quality int

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    mo.Option[*Image]
	fallback   mo.Option[*Image]

	inflight sync.WaitGroup
}

// NewResolver reads its fetch timeout and JPEG quality from config.
// A nil fetcher uses network.NewFetcher.
func NewResolver(fetcher network.Fetcher) *Resolver {
	if fetcher == nil {
		fetcher = network.NewFetcher()
	}

	timeout := time.Duration(viper.GetInt(key.NetworkFetchTimeoutSeconds)) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	quality := viper.GetInt(key.ArtworkJPEGQuality)
	if quality == 0 {
		quality = DefaultQuality
	}

	return &Resolver{
		fetcher:  fetcher,
		timeout:  timeout,
		quality:  quality,
		current:  mo.None[*Image](),
		fallback: mo.None[*Image](),
	}
}

// Resolve replaces the current image with the one behind ref. Inline bytes
// are decoded on the spot; URLs are fetched in the background.
func (r *Resolver) Resolve(ref metadata.Artwork) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := r.advance()

	if ref.Inline() {
		img, err := Decode(ref.Data)
		if err != nil {
			log.Warnf("inline artwork: %v", err)
			return
		}
		r.current = mo.Some(img)
		return
	}

	if ref.URL == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	r.cancel = cancel

	r.inflight.Add(1)
	go r.fetch(ctx, cancel, gen, ref.URL)
}

func (r *Resolver) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, url string) {
	defer r.inflight.Done()
	defer cancel()

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		log.WithField("url", url).Warnf("artwork fetch: %v", err)
		return
	}

	img, err := Decode(data)
	if err != nil {
		log.WithField("url", url).Warnf("artwork: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		log.WithField("url", url).Debugf("discarding artwork of generation %d", gen)
		return
	}

	r.current = mo.Some(img)
}

// advance must be called with mu held.
func (r *Resolver) advance() uint64 {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	r.current = mo.None[*Image]()
	return r.generation
}

// Reset drops the current image and any fetch in progress.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
}

// SetDefault installs the out-of-band image. It also clears the metadata
// image, which the next metadata event will resolve again.
func (r *Resolver) SetDefault(data []byte) error {
	img, err := Decode(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance()
	r.fallback = mo.Some(img)
	return nil
}

func (r *Resolver) Default() mo.Option[*Image] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallback
}

// Current is the resolved metadata image, if any.
func (r *Resolver) Current() mo.Option[*Image] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Encoded returns Current as JPEG.
func (r *Resolver) Encoded() ([]byte, bool) {
	img, ok := r.Current().Get()
	if !ok {
		return nil, false
	}

	data, err := EncodeJPEG(img, r.quality)
	if err != nil {
		log.Errorf("artwork snapshot: %v", err)
		return nil, false
	}

	return data, true
}

// Wait blocks until every background fetch has returned.
func (r *Resolver) Wait() {
	r.inflight.Wait()
}
