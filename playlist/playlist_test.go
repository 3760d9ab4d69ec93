package playlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qkd/kdplayer/network"
	. "github.com/smartystreets/goconvey/convey"
)

type countingFetcher struct {
	body  string
	err   error
	calls int
}

func (f *countingFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return []byte(f.body), f.err
}

func TestExtension(t *testing.T) {
	Convey("Extension is the text after the last dot", t, func() {
		So(Extension("http://x/a.pls"), ShouldEqual, "pls")
		So(Extension("http://x/a.PLS"), ShouldEqual, "PLS")
		So(Extension("http://x/a.m3u?x=y"), ShouldEqual, "m3u?x=y")
		So(Extension("nodot"), ShouldEqual, "nodot")
	})
}

func TestParsePLS(t *testing.T) {
	Convey("Given a pls manifest", t, func() {
		body := "[playlist]\r\nNumberOfEntries=2\r\nFile1=http://a/1\r\nTitle1=One\nFile2=http://b/2?x=1\rLength1=-1\n"

		Convey("Only =http lines are kept, in file order", func() {
			So(ParsePLS(body), ShouldResemble, []string{"http://a/1", "http://b/2?x=1"})
		})

		Convey("An https entry is kept as well", func() {
			So(ParsePLS("File1=https://secure/stream"), ShouldResemble, []string{"https://secure/stream"})
		})

		Convey("A manifest without entries yields nothing", func() {
			So(ParsePLS("[playlist]\nNumberOfEntries=0\n"), ShouldBeEmpty)
		})
	})
}

func TestParseM3U(t *testing.T) {
	Convey("The trimmed m3u body is one source", t, func() {
		So(ParseM3U("  http://c/3\n\n"), ShouldResemble, []string{"http://c/3"})
		So(ParseM3U(" \n"), ShouldBeEmpty)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a resolver", t, func() {
		Convey("Unknown extensions pass through without a fetch", func() {
			fetcher := &countingFetcher{}
			sources, err := NewResolver(fetcher).Resolve(ctx, "http://x/stream.mp3")
			So(err, ShouldBeNil)
			So(sources, ShouldResemble, []string{"http://x/stream.mp3"})
			So(fetcher.calls, ShouldEqual, 0)
		})

		Convey("A pls manifest is fetched and parsed", func() {
			fetcher := &countingFetcher{body: "File1=http://a/1\nFile2=http://b/2\n"}
			sources, err := NewResolver(fetcher).Resolve(ctx, "http://x/radio.pls")
			So(err, ShouldBeNil)
			So(sources, ShouldResemble, []string{"http://a/1", "http://b/2"})
		})

		Convey("An empty pls is a ParseError", func() {
			_, err := NewResolver(&countingFetcher{body: "[playlist]\n"}).Resolve(ctx, "http://x/radio.pls")
			var parseErr *ParseError
			So(errors.As(err, &parseErr), ShouldBeTrue)
			So(parseErr.Format, ShouldEqual, FormatPLS)
			So(errors.Is(err, ErrNoPlayableSource), ShouldBeTrue)
		})

		Convey("Fetch failures are FetchErrors", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			defer srv.Close()

			_, err := NewResolver(&network.HTTPFetcher{Client: srv.Client()}).Resolve(ctx, srv.URL+"/radio.m3u")
			var fetchErr *network.FetchError
			So(errors.As(err, &fetchErr), ShouldBeTrue)
			So(fetchErr.Status, ShouldEqual, http.StatusNotFound)
		})

		Convey("An m3u served over http resolves to its body", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("http://c/3\n"))
			}))
			defer srv.Close()

			sources, err := NewResolver(&network.HTTPFetcher{Client: srv.Client()}).Resolve(ctx, srv.URL+"/radio.m3u")
			So(err, ShouldBeNil)
			So(sources, ShouldResemble, []string{"http://c/3"})
		})
	})
}
