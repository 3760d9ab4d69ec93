package metadata

import (
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// Item is one container metadata entry. Binary values such as embedded
// cover art travel in Data.
type Item struct {
	Key   string
	Value string
	Data  []byte
}

var (
	titleKeys   = []string{"title", "icy-title", "streamtitle"}
	artworkKeys = []string{"artwork", "icy-url", "streamurl", "cover"}
)

// FromCommonKeys picks the raw title and the artwork out of container
// metadata. The first matching key wins for each of them.
func FromCommonKeys(items []Item) (string, mo.Option[Artwork]) {
	var (
		title    string
		hasTitle bool
		art      = mo.None[Artwork]()
	)

	for _, item := range items {
		k := strings.ToLower(item.Key)

		if !hasTitle && lo.Contains(titleKeys, k) && item.Value != "" {
			title, hasTitle = item.Value, true
			continue
		}

		if art.IsAbsent() && lo.Contains(artworkKeys, k) {
			switch {
			case len(item.Data) > 0:
				art = mo.Some(Artwork{Data: item.Data})
			case item.Value != "":
				art = mo.Some(Artwork{URL: item.Value})
			}
		}
	}

	return title, art
}

// ItemsFromTags adapts a flat tag map, as reported by players such as mpv.
func ItemsFromTags(tags map[string]string) []Item {
	keys := lo.Keys(tags)
	// map order is random; keep title lookup deterministic
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) Item {
		return Item{Key: k, Value: tags[k]}
	})
}
