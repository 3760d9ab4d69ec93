package metadata

import (
	"strings"

	"github.com/samber/mo"
)

// ICY holds the fields of a SHOUTcast/Icecast in-band metadata block.
type ICY struct {
	StreamTitle string
	StreamURL   string
}

// ParseICY parses a block such as
//
//	StreamTitle='Artist - Song';StreamUrl='http://example.com/cover.jpg';
//
// Keys are matched case-insensitively. Values may contain ';' and '\''
// as long as they are not followed by the closing "';" pair.
// ok is false when the block carries no StreamTitle.
func ParseICY(block string) (ICY, bool) {
	var (
		info     ICY
		hasTitle bool
	)

	rest := strings.TrimRight(block, "\x00")
	for rest != "" {
		name, after, found := strings.Cut(rest, "='")
		if !found {
			break
		}

		value, next, closed := strings.Cut(after, "';")
		if !closed {
			value = strings.TrimSuffix(after, "'")
			next = ""
		}

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "streamtitle":
			info.StreamTitle = value
			hasTitle = true
		case "streamurl":
			info.StreamURL = value
		}

		rest = next
	}

	return info, hasTitle
}

// Normalized converts the block, treating StreamUrl as the artwork URL.
func (i ICY) Normalized() Normalized {
	art := mo.None[Artwork]()
	if i.StreamURL != "" {
		art = mo.Some(Artwork{URL: i.StreamURL})
	}
	return Normalize(i.StreamTitle, art)
}
