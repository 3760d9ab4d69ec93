// Package history keeps the recently played stations on disk.
package history

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/qkd/kdplayer/filesystem"
	"github.com/qkd/kdplayer/key"
	"github.com/qkd/kdplayer/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Entry is one remembered station, keyed by its URL.
type Entry struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Sources  []string  `json:"sources"`
	Plays    int       `json:"plays"`
	PlayedAt time.Time `json:"played_at"`
}

func (e *Entry) String() string {
	if e.Title == "" {
		return e.URL
	}
	return e.Title
}

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every stored entry keyed by URL.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Remember records a play of url, bumping its counter when already known.
// The oldest entries beyond history.limit are forgotten.
func Remember(title, url string, sources []string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry, ok := saved[url]
	if !ok {
		entry = &Entry{URL: url}
		saved[url] = entry
	}

	entry.Title = title
	entry.Sources = sources
	entry.Plays++
	entry.PlayedAt = time.Now()

	if limit := viper.GetInt(key.HistoryLimit); limit > 0 && len(saved) > limit {
		for _, old := range sortByRecency(lo.Values(saved))[limit:] {
			delete(saved, old.URL)
		}
	}

	return cacher.Set(saved)
}

// Recent lists entries, most recently played first.
func Recent() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}
	return sortByRecency(lo.Values(saved)), nil
}

// Find fuzzy matches query against titles and URLs, most recent first.
func Find(query string) ([]*Entry, error) {
	recent, err := Recent()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return recent, nil
	}

	return lo.Filter(recent, func(e *Entry, _ int) bool {
		return fuzzy.MatchFold(query, e.Title) || fuzzy.MatchFold(query, e.URL)
	}), nil
}

// Remove forgets url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, url)
	return cacher.Set(saved)
}

// Clear forgets everything.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}

func sortByRecency(entries []*Entry) []*Entry {
	slices.SortFunc(entries, func(a, b *Entry) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	return entries
}
