// Package network provides the shared HTTP client and the fetcher used for playlist manifests and artwork.
package network

import (
	"net"
	"net/http"
	"time"

	"github.com/qkd/kdplayer/log"
	"golang.org/x/net/http2"
)

// Client is shared by every fetch. It has no overall Timeout; each Fetch
// bounds itself with a context deadline instead.
var Client = &http.Client{
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		log.Warnf("http2 unavailable, falling back to http/1.1: %v", err)
		return t
	}
	// Artwork hosts behind CDNs keep idle h2 connections open for a long time;
	// ping them so a dead connection does not eat the fetch deadline.
	h2.ReadIdleTimeout = 30 * time.Second
	h2.PingTimeout = 5 * time.Second

	return t
}
