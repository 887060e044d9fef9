// Package history records which tracks were played and when.
package history

import (
	"slices"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/sonata-cli/sonata/engine"
	"github.com/sonata-cli/sonata/filesystem"
	"github.com/sonata-cli/sonata/where"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is swapped in tests.
var now = time.Now

// Get returns every recorded entry keyed by path.
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

// Record adds one play of path. Tags that are empty this time keep the
// values recorded earlier.
func Record(path string, meta engine.Metadata) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := newEntry(path, meta)
	if existing, ok := saved[entry.encode()]; ok {
		entry.Plays = existing.Plays
		entry.Title = lo.Ternary(entry.Title == "", existing.Title, entry.Title)
		entry.Artist = lo.Ternary(entry.Artist == "", existing.Artist, entry.Artist)
		entry.Album = lo.Ternary(entry.Album == "", existing.Album, entry.Album)
	}

	entry.Plays++
	entry.LastPlayed = now()
	saved[entry.encode()] = entry

	return cacher.Set(saved)
}

// Recent returns up to n entries, most recently played first. n <= 0 returns all.
func Recent(n int) ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := b.LastPlayed.Compare(a.LastPlayed); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Remove deletes the entry for path, if any.
func Remove(path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, path)
	return cacher.Set(saved)
}

// Clear forgets every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
