// Package playlist turns a user supplied stream URL into an ordered list of playable sources.
//
// Only two manifest formats are recognized, selected by the extension of the URL:
// .pls (every "=http" line contributes an entry) and .m3u (the whole trimmed body is one entry).
// Anything else is passed through untouched.
package playlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/qkd/kdplayer/log"
	"github.com/qkd/kdplayer/network"
	"github.com/samber/lo"
)

const (
	FormatPLS = "pls"
	FormatM3U = "m3u"
)

type Resolver struct {
	fetcher network.Fetcher
}

// NewResolver returns a resolver that downloads manifests with fetcher.
// A nil fetcher uses network.NewFetcher.
func NewResolver(fetcher network.Fetcher) *Resolver {
	if fetcher == nil {
		fetcher = network.NewFetcher()
	}
	return &Resolver{fetcher: fetcher}
}

// Extension returns the case-sensitive text after the last dot of url,
// or url itself when it has no dot.
func Extension(url string) string {
	if i := strings.LastIndex(url, "."); i >= 0 {
		return url[i+1:]
	}
	return url
}

// Resolve returns the playable sources behind url, in manifest order.
func (r *Resolver) Resolve(ctx context.Context, url string) ([]string, error) {
	format := Extension(url)

	var parse func(string) []string
	switch format {
	case FormatPLS:
		parse = ParsePLS
	case FormatM3U:
		parse = ParseM3U
	default:
		return []string{url}, nil
	}

	body, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist: %w", err)
	}

	sources := parse(string(body))
	if len(sources) == 0 {
		return nil, &ParseError{URL: url, Format: format}
	}

	log.WithField("url", url).Debugf("resolved %d %s sources", len(sources), format)
	return sources, nil
}

// ParsePLS returns the value of every line containing "=http", taken after the first '='.
func ParsePLS(body string) []string {
	return lo.FilterMap(splitLines(body), func(line string, _ int) (string, bool) {
		if !strings.Contains(line, "=http") {
			return "", false
		}
		_, value, _ := strings.Cut(line, "=")
		return value, true
	})
}

// ParseM3U treats the whole trimmed body as a single source.
func ParseM3U(body string) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	return []string{body}
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.Split(body, "\n")
}
