package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/qkd/kdplayer/constant"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/key"
	"github.com/spf13/viper"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxBytes = 10 << 20
)

// ErrTooLarge is wrapped by FetchError when a body exceeds the size limit.
var ErrTooLarge = errors.New("body exceeds size limit")

// FetchError reports a manifest or artwork that could not be retrieved.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the full body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, rawURL string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return f(ctx, rawURL)
}

// HTTPFetcher fetches http(s) URLs through Client and file URLs through the
// filesystem backend. Zero fields fall back to the configured values.
type HTTPFetcher struct {
	Client    *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// NewFetcher returns a fetcher tuned from the network.* config keys.
func NewFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:    Client,
		Timeout:   time.Duration(viper.GetInt(key.NetworkFetchTimeoutSeconds)) * time.Second,
		MaxBytes:  viper.GetInt64(key.NetworkMaxBodyBytes),
		UserAgent: viper.GetString(key.NetworkUserAgent),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, u)
	case "file":
		return f.fetchFile(ctx, u)
	default:
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent())

	client := f.Client
	if client == nil {
		client = Client
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: u.String(), Status: resp.StatusCode}
	}

	return f.readLimited(u.String(), resp.Body)
}

func (f *HTTPFetcher) fetchFile(ctx context.Context, u *url.URL) ([]byte, error) {
	file, err := filesystem.API().Open(u.Path)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer file.Close()

	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}

	return f.readLimited(u.String(), file)
}

func (f *HTTPFetcher) readLimited(rawURL string, r io.Reader) ([]byte, error) {
	limit := f.maxBytes()
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &FetchError{URL: rawURL, Err: ErrTooLarge}
	}
	return body, nil
}

func (f *HTTPFetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return defaultTimeout
}

func (f *HTTPFetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return defaultMaxBytes
}

func (f *HTTPFetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return constant.UserAgent
}
