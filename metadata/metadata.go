// Package metadata converts raw stream titles and container tags into the
// canonical title, subtitle and artwork triple published to consumers.
package metadata

import (
	"strings"

	"github.com/samber/mo"
)

// Separator splits "title - subtitle" stream titles.
const Separator = " - "

// Artwork references an image either by URL or by inline bytes.
// Exactly one of the fields is set.
type Artwork struct {
	URL  string
	Data []byte
}

// Inline reports whether the image bytes are already present.
func (a Artwork) Inline() bool {
	return len(a.Data) > 0
}

// Ref is the string form of the reference. Inline images have none.
func (a Artwork) Ref() string {
	if a.Inline() {
		return ""
	}
	return a.URL
}

// Normalized is immutable once built; the next metadata event replaces it.
type Normalized struct {
	Title    string
	Subtitle string
	Artwork  mo.Option[Artwork]
}

// Normalize splits raw on the first Separator. Without a separator the
// subtitle is empty. Titles that themselves contain " - " are mis-split.
func Normalize(raw string, art mo.Option[Artwork]) Normalized {
	title, subtitle, _ := strings.Cut(raw, Separator)
	n := Normalized{Title: title, Subtitle: subtitle, Artwork: mo.None[Artwork]()}
	if a, ok := art.Get(); ok && (a.Inline() || a.URL != "") {
		n.Artwork = mo.Some(a)
	}
	return n
}

// Fields is the wire shape: title, subtitle, artwork reference.
func (n Normalized) Fields() [3]string {
	ref := ""
	if art, ok := n.Artwork.Get(); ok {
		ref = art.Ref()
	}
	return [3]string{n.Title, n.Subtitle, ref}
}

// Equal compares the published fields and the inline artwork bytes.
func (n Normalized) Equal(other Normalized) bool {
	if n.Fields() != other.Fields() {
		return false
	}
	a, aok := n.Artwork.Get()
	b, bok := other.Artwork.Get()
	if aok != bok {
		return false
	}
	return string(a.Data) == string(b.Data)
}

func (n Normalized) String() string {
	if n.Subtitle == "" {
		return n.Title
	}
	return n.Title + Separator + n.Subtitle
}
